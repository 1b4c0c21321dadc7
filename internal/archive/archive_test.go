package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuastracker/internal/associate"
	"cuastracker/internal/cluster"
	"cuastracker/internal/config"
	"cuastracker/internal/kinematics"
	"cuastracker/internal/track"
)

// passthroughAssociator matches nothing so every cluster reaches initiation.
type passthroughAssociator struct{}

func (passthroughAssociator) Associate(tracks []associate.TrackView, clusters []cluster.Cluster, r kinematics.MeasMatrix) associate.Result {
	ids := make([]int, len(clusters))
	for i, c := range clusters {
		ids[i] = c.ID
	}
	return associate.Result{Matches: map[int]int{}, UnmatchedClusters: ids}
}

func oneHitManagementConfig() config.TrackManagementConfig {
	return config.TrackManagementConfig{
		Initiation: config.InitiationConfig{Method: "m_of_n", M: 1, N: 1, MaxInitiationRange: 20000, VelocityGate: 300},
		Maintenance: config.MaintenanceConfig{
			ConfirmHits: 2, QualityDecayRate: 0.1, QualityBoost: 0.05,
		},
		Deletion:          config.DeletionConfig{MaxCoastingDwells: 5, MinQuality: 0.1, MaxRange: 20000},
		InitialCovariance: config.InitialCovarianceConfig{PositionStd: 50, VelocityStd: 20, AccelerationStd: 5},
	}
}

func testPredictionConfig() config.PredictionConfig {
	var transition [5][5]float64
	for i := range transition {
		for j := range transition[i] {
			if i == j {
				transition[i][j] = 0.9
			} else {
				transition[i][j] = 0.025
			}
		}
	}
	return config.PredictionConfig{
		CV:   config.CVConfig{ProcessNoiseStd: 1},
		CA1:  config.CAConfig{ProcessNoiseStd: 1, AccelDecayRate: 0.95},
		CA2:  config.CAConfig{ProcessNoiseStd: 1, AccelDecayRate: 0.9},
		CTR1: config.CTRConfig{ProcessNoiseStd: 1, TurnRateNoiseStd: 0.1},
		CTR2: config.CTRConfig{ProcessNoiseStd: 1, TurnRateNoiseStd: 0.1},
		IMM:  config.IMMConfig{InitialModeProbabilities: [5]float64{0.6, 0.1, 0.1, 0.1, 0.1}, TransitionMatrix: transition},
	}
}

func TestRecordDwellAndLoadTrackPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	a, err := Open(dbPath)
	require.NoError(t, err)
	defer a.Close()

	mgr := track.NewManager(oneHitManagementConfig(), testPredictionConfig(), kinematics.DiagMeasMatrix(4), passthroughAssociator{})
	mgr.Step(1.0, []cluster.Cluster{{ID: 0, Range: 1000, Azimuth: 0, Elevation: 0}})
	require.Len(t, mgr.Tracks(), 1)

	require.NoError(t, a.RecordDwell(1000, mgr.Tracks()))
	require.NoError(t, a.RecordDwell(1001, mgr.Tracks()))

	ids, err := a.TrackIDs()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	path, err := a.LoadTrackPath(ids[0])
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, uint64(1000), path[0].Timestamp)
	assert.Equal(t, uint64(1001), path[1].Timestamp)
}
