package associate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cuastracker/internal/cluster"
	"cuastracker/internal/geometry"
	"cuastracker/internal/kinematics"
)

func trackAt(idx int, x, y, z float64) TrackView {
	var state kinematics.StateVector
	state[0], state[3], state[6] = x, y, z
	var p kinematics.StateMatrix
	for i := 0; i < kinematics.StateDim; i++ {
		p[i][i] = 100
	}
	return TrackView{Index: idx, X: state, P: p}
}

func cart(x, y, z float64) geometry.Cartesian {
	return geometry.Cartesian{X: x, Y: y, Z: z}
}

func TestMahalanobisMatchesNearestCluster(t *testing.T) {
	tracks := []TrackView{trackAt(0, 0, 0, 0)}
	clusters := []cluster.Cluster{
		{ID: 0, Cartesian: cart(5, 0, 0)},
		{ID: 1, Cartesian: cart(500, 0, 0)},
	}
	r := kinematics.DiagMeasMatrix(4)
	m := NewMahalanobis(50, 20)
	result := m.Associate(tracks, clusters, r)

	assert.Equal(t, 0, result.Matches[0])
	assert.Empty(t, result.UnmatchedTracks)
	assert.Equal(t, []int{1}, result.UnmatchedClusters)
}

func TestMahalanobisLeavesFarTrackUnmatched(t *testing.T) {
	tracks := []TrackView{trackAt(0, 0, 0, 0)}
	clusters := []cluster.Cluster{{ID: 0, Cartesian: cart(5000, 0, 0)}}
	r := kinematics.DiagMeasMatrix(4)
	m := NewMahalanobis(50, 20)
	result := m.Associate(tracks, clusters, r)

	assert.Empty(t, result.Matches)
	assert.Equal(t, []int{0}, result.UnmatchedTracks)
}

func TestGNNAssignsOneToOne(t *testing.T) {
	tracks := []TrackView{trackAt(0, 0, 0, 0), trackAt(1, 1000, 0, 0)}
	clusters := []cluster.Cluster{
		{ID: 0, Cartesian: cart(5, 0, 0)},
		{ID: 1, Cartesian: cart(1005, 0, 0)},
	}
	r := kinematics.DiagMeasMatrix(4)
	g := NewGNN(1000, 100)
	result := g.Associate(tracks, clusters, r)

	assert.Equal(t, 0, result.Matches[0])
	assert.Equal(t, 1, result.Matches[1])
}

func TestJPDAHardAssignsBestBeta(t *testing.T) {
	tracks := []TrackView{trackAt(0, 0, 0, 0)}
	clusters := []cluster.Cluster{{ID: 0, Cartesian: cart(5, 0, 0)}}
	r := kinematics.DiagMeasMatrix(4)
	j := NewJPDA(50, 1e-6, 0.9)
	result := j.Associate(tracks, clusters, r)

	assert.Equal(t, 0, result.Matches[0])
}
