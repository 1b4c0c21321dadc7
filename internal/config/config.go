// Package config loads the tracker's JSON configuration document. The
// struct tree and key names mirror the original system's config schema
// section by section, the same way the teacher's fusion/config_parser.go
// decodes its XML document one top-level section at a time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	CyclePeriodMs         int    `json:"cyclePeriodMs"`
	MaxDetectionsPerDwell int    `json:"maxDetectionsPerDwell"`
	MaxTracks             int    `json:"maxTracks"`
	LogDirectory          string `json:"logDirectory"`
	LogEnabled            bool   `json:"logEnabled"`
	LogLevel              int    `json:"logLevel"`
}

type NetworkConfig struct {
	ReceiverIP       string `json:"receiverIp"`
	ReceiverPort     int    `json:"receiverPort"`
	SenderIP         string `json:"senderIp"`
	SenderPort       int    `json:"senderPort"`
	ReceiveBufferSize int   `json:"receiveBufferSize"`
	SendBufferSize   int    `json:"sendBufferSize"`
}

type PreprocessConfig struct {
	MinRange     float64 `json:"minRange"`
	MaxRange     float64 `json:"maxRange"`
	MinAzimuth   float64 `json:"minAzimuth"`
	MaxAzimuth   float64 `json:"maxAzimuth"`
	MinElevation float64 `json:"minElevation"`
	MaxElevation float64 `json:"maxElevation"`
	MinSNR       float64 `json:"minSNR"`
	MaxSNR       float64 `json:"maxSNR"`
	MinRCS       float64 `json:"minRCS"`
	MaxRCS       float64 `json:"maxRCS"`
	MinStrength  float64 `json:"minStrength"`
	MaxStrength  float64 `json:"maxStrength"`
}

type DBScanConfig struct {
	EpsilonRange     float64 `json:"epsilonRange"`
	EpsilonAzimuth   float64 `json:"epsilonAzimuth"`
	EpsilonElevation float64 `json:"epsilonElevation"`
	MinPoints        int     `json:"minPoints"`
}

type RangeBasedConfig struct {
	RangeGateSize     float64 `json:"rangeGateSize"`
	AzimuthGateSize   float64 `json:"azimuthGateSize"`
	ElevationGateSize float64 `json:"elevationGateSize"`
}

type RangeStrengthConfig struct {
	RangeGateSize     float64 `json:"rangeGateSize"`
	AzimuthGateSize   float64 `json:"azimuthGateSize"`
	ElevationGateSize float64 `json:"elevationGateSize"`
	StrengthGateSize  float64 `json:"strengthGateSize"`
}

// ClusterMethod names the configured clustering strategy.
type ClusterMethod string

const (
	ClusterDBSCAN         ClusterMethod = "dbscan"
	ClusterRangeBased     ClusterMethod = "range_based"
	ClusterRangeStrength  ClusterMethod = "range_strength"
)

type ClusterConfig struct {
	Method        ClusterMethod       `json:"method"`
	DBScan        DBScanConfig        `json:"dbscan"`
	RangeBased    RangeBasedConfig    `json:"rangeBased"`
	RangeStrength RangeStrengthConfig `json:"rangeStrength"`
}

// IMMNumModels is the fixed size of the model bank. The config document
// still carries a numModels field for shape fidelity with the original
// system, but the bank size is a compile-time constant everywhere it
// matters (see internal/imm.NumModels) — the field below is never
// consulted at runtime.
type IMMConfig struct {
	NumModels                 int         `json:"numModels"`
	InitialModeProbabilities  [5]float64  `json:"initialModeProbabilities"`
	TransitionMatrix          [5][5]float64 `json:"transitionMatrix"`
}

type CVConfig struct {
	ProcessNoiseStd float64 `json:"processNoiseStd"`
}

type CAConfig struct {
	ProcessNoiseStd float64 `json:"processNoiseStd"`
	AccelDecayRate  float64 `json:"accelDecayRate"`
}

type CTRConfig struct {
	ProcessNoiseStd  float64 `json:"processNoiseStd"`
	TurnRateNoiseStd float64 `json:"turnRateNoiseStd"`
}

type PredictionConfig struct {
	IMM  IMMConfig `json:"imm"`
	CV   CVConfig  `json:"cv"`
	CA1  CAConfig  `json:"ca1"`
	CA2  CAConfig  `json:"ca2"`
	CTR1 CTRConfig `json:"ctr1"`
	CTR2 CTRConfig `json:"ctr2"`
}

type MahalanobisConfig struct {
	DistanceThreshold float64 `json:"distanceThreshold"`
}

type GNNConfig struct {
	CostThreshold float64 `json:"costThreshold"`
}

type JPDAConfig struct {
	GateSize             float64 `json:"gateSize"`
	ClutterDensity       float64 `json:"clutterDensity"`
	DetectionProbability float64 `json:"detectionProbability"`
}

// AssociationMethod names the configured association strategy.
type AssociationMethod string

const (
	AssocMahalanobis AssociationMethod = "mahalanobis"
	AssocGNN         AssociationMethod = "gnn"
	AssocJPDA        AssociationMethod = "jpda"
)

type AssociationConfig struct {
	Method          AssociationMethod `json:"method"`
	GatingThreshold float64           `json:"gatingThreshold"`
	Mahalanobis     MahalanobisConfig `json:"mahalanobis"`
	GNN             GNNConfig         `json:"gnn"`
	JPDA            JPDAConfig        `json:"jpda"`
}

type InitiationConfig struct {
	Method              string  `json:"method"`
	M                   int     `json:"m"`
	N                   int     `json:"n"`
	MaxInitiationRange  float64 `json:"maxInitiationRange"`
	VelocityGate        float64 `json:"velocityGate"`
}

// MaintenanceConfig mirrors the original document's trackManagement.maintenance
// section. ConfirmHits, QualityDecayRate, and QualityBoost are load-bearing.
// CoastingLimit, DeleteAfterMisses, and MinQualityThreshold are decoded for
// document-shape fidelity only: the executable maintenance/deletion logic
// reads maxCoastingDwells/minQuality/maxRange from DeletionConfig instead
// (confirmed against the original track_manager's maintainTracks/
// deleteTracks — this mismatch predates this port and is preserved rather
// than silently resolved).
type MaintenanceConfig struct {
	ConfirmHits          int     `json:"confirmHits"`
	CoastingLimit        int     `json:"coastingLimit"`
	DeleteAfterMisses    int     `json:"deleteAfterMisses"`
	QualityDecayRate     float64 `json:"qualityDecayRate"`
	QualityBoost         float64 `json:"qualityBoost"`
	MinQualityThreshold  float64 `json:"minQualityThreshold"`
}

type DeletionConfig struct {
	MaxCoastingDwells int     `json:"maxCoastingDwells"`
	MinQuality        float64 `json:"minQuality"`
	MaxRange          float64 `json:"maxRange"`
}

type InitialCovarianceConfig struct {
	PositionStd     float64 `json:"positionStd"`
	VelocityStd     float64 `json:"velocityStd"`
	AccelerationStd float64 `json:"accelerationStd"`
}

type TrackManagementConfig struct {
	Initiation        InitiationConfig        `json:"initiation"`
	Maintenance       MaintenanceConfig       `json:"maintenance"`
	Deletion          DeletionConfig          `json:"deletion"`
	InitialCovariance InitialCovarianceConfig `json:"initialCovariance"`
}

type DisplayConfig struct {
	UpdateRateMs      int    `json:"updateRateMs"`
	SendDeletedTracks bool   `json:"sendDeletedTracks"`
	TelemetryAddr     string `json:"telemetryAddr"`
	ArchivePath       string `json:"archivePath"`
}

// TrackerConfig is the full configuration document.
type TrackerConfig struct {
	System          SystemConfig          `json:"system"`
	Network         NetworkConfig         `json:"network"`
	Preprocessing   PreprocessConfig      `json:"preprocessing"`
	Clustering      ClusterConfig         `json:"clustering"`
	Prediction      PredictionConfig      `json:"prediction"`
	Association     AssociationConfig     `json:"association"`
	TrackManagement TrackManagementConfig `json:"trackManagement"`
	Display         DisplayConfig         `json:"display"`
}

// Load reads and decodes a TrackerConfig document from filepath.
func Load(path string) (TrackerConfig, error) {
	var cfg TrackerConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: cannot open %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: malformed document %s: %w", path, err)
	}

	return cfg, nil
}

// ResolvePath mirrors the original system's fallback search: the path as
// given, then next to the running executable, then one and two directories
// above it — handling the common case of a config file staged next to a
// build output directory.
func ResolvePath(path string) string {
	if fileExists(path) {
		return path
	}

	exe, err := os.Executable()
	if err != nil {
		return path
	}
	exeDir := filepath.Dir(exe)

	candidate := filepath.Join(exeDir, path)
	if fileExists(candidate) {
		return candidate
	}

	parent := filepath.Dir(exeDir)
	candidate = filepath.Join(parent, path)
	if fileExists(candidate) {
		return candidate
	}

	grandparent := filepath.Dir(parent)
	candidate = filepath.Join(grandparent, path)
	if fileExists(candidate) {
		return candidate
	}

	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
