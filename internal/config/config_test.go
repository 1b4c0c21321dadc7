package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "system": {"cyclePeriodMs": 50, "maxDetectionsPerDwell": 200, "maxTracks": 64, "logDirectory": "logs", "logEnabled": true, "logLevel": 2},
  "network": {"receiverIp": "0.0.0.0", "receiverPort": 5000, "senderIp": "127.0.0.1", "senderPort": 5001, "receiveBufferSize": 65536, "sendBufferSize": 65536},
  "preprocessing": {"minRange": 0, "maxRange": 10000, "minAzimuth": -3.14, "maxAzimuth": 3.14, "minElevation": -1.57, "maxElevation": 1.57, "minSNR": 0, "maxSNR": 100, "minRCS": 0, "maxRCS": 100, "minStrength": -100, "maxStrength": 0},
  "clustering": {"method": "dbscan", "dbscan": {"epsilonRange": 50, "epsilonAzimuth": 0.05, "epsilonElevation": 0.05, "minPoints": 2}},
  "prediction": {"imm": {"numModels": 5}, "cv": {"processNoiseStd": 1}, "ca1": {"processNoiseStd": 1, "accelDecayRate": 0.95}, "ca2": {"processNoiseStd": 1, "accelDecayRate": 0.9}, "ctr1": {"processNoiseStd": 1, "turnRateNoiseStd": 0.1}, "ctr2": {"processNoiseStd": 1, "turnRateNoiseStd": 0.1}},
  "association": {"method": "mahalanobis", "gatingThreshold": 9.21, "mahalanobis": {"distanceThreshold": 5.99}},
  "trackManagement": {"initiation": {"method": "m_of_n", "m": 3, "n": 5, "maxInitiationRange": 10000, "velocityGate": 300}, "maintenance": {"confirmHits": 3, "qualityDecayRate": 0.1, "qualityBoost": 0.05}, "deletion": {"maxCoastingDwells": 5, "minQuality": 0.2, "maxRange": 12000}, "initialCovariance": {"positionStd": 50, "velocityStd": 20, "accelerationStd": 5}},
  "display": {"updateRateMs": 100, "sendDeletedTracks": false}
}`

func TestLoadDecodesFullDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.System.CyclePeriodMs)
	assert.Equal(t, ClusterDBSCAN, cfg.Clustering.Method)
	assert.Equal(t, AssocMahalanobis, cfg.Association.Method)
	assert.Equal(t, 3, cfg.TrackManagement.Initiation.M)
	assert.Equal(t, 5, cfg.TrackManagement.Initiation.N)
	assert.Equal(t, 0.95, cfg.Prediction.CA1.AccelDecayRate)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
}

func TestResolvePathPrefersExistingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	assert.Equal(t, path, ResolvePath(path))
}
