package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuastracker/internal/config"
	"cuastracker/internal/wire"
)

func sampleDetections() []wire.Detection {
	return []wire.Detection{
		{Range: 1000, Azimuth: 0.10, Elevation: 0.01, Strength: -30, SNR: 20, RCS: 0.1},
		{Range: 1005, Azimuth: 0.11, Elevation: 0.01, Strength: -32, SNR: 19, RCS: 0.1},
		{Range: 5000, Azimuth: 0.80, Elevation: 0.20, Strength: -40, SNR: 15, RCS: 0.2},
	}
}

func TestDBScanGroupsNearbyDetections(t *testing.T) {
	db := NewDBScan(config.DBScanConfig{EpsilonRange: 50, EpsilonAzimuth: 0.05, EpsilonElevation: 0.05, MinPoints: 2})
	clusters := db.Cluster(sampleDetections())
	require.Len(t, clusters, 2)

	total := 0
	for _, c := range clusters {
		total += c.NumDetections
	}
	assert.Equal(t, 3, total)
}

func TestDBScanSingletonNoise(t *testing.T) {
	db := NewDBScan(config.DBScanConfig{EpsilonRange: 1, EpsilonAzimuth: 0.001, EpsilonElevation: 0.001, MinPoints: 2})
	clusters := db.Cluster(sampleDetections())
	// Nothing meets minPoints density, every detection is its own cluster.
	assert.Len(t, clusters, 3)
	for _, c := range clusters {
		assert.Equal(t, 1, c.NumDetections)
	}
}

func TestRangeBasedGrouping(t *testing.T) {
	rb := NewRangeBased(config.RangeBasedConfig{RangeGateSize: 50, AzimuthGateSize: 0.05, ElevationGateSize: 0.05})
	clusters := rb.Cluster(sampleDetections())
	require.Len(t, clusters, 2)
}

func TestCentroidIsStrengthWeighted(t *testing.T) {
	dets := []wire.Detection{
		{Range: 1000, Strength: -30}, // stronger, linear ~1e-3
		{Range: 2000, Strength: -60}, // much weaker, linear ~1e-6
	}
	c := centroid(dets, []int{0, 1})
	// The strong detection should dominate the weighted range mean.
	assert.Less(t, c.Range, 1500.0)
	// The cluster's own strength field is the plain arithmetic mean in dB.
	assert.InDelta(t, -45.0, c.Strength, 1e-9)
}

func TestEngineAssignsMonotonicIDsAndCartesian(t *testing.T) {
	eng, err := NewEngine(config.ClusterConfig{
		Method: config.ClusterRangeBased,
		RangeBased: config.RangeBasedConfig{RangeGateSize: 50, AzimuthGateSize: 0.05, ElevationGateSize: 0.05},
	})
	require.NoError(t, err)

	clusters := eng.Run(sampleDetections())
	for i, c := range clusters {
		assert.Equal(t, i, c.ID)
		assert.NotZero(t, c.Cartesian.X)
	}
}
