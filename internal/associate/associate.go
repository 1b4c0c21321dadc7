// Package associate matches a dwell's clusters against existing tracks
// using one of three pluggable strategies (nearest-neighbor Mahalanobis
// gating, global nearest neighbor over a cost matrix, or joint probabilistic
// data association), so the caller never copies a track's full filter state
// across the association boundary — only a small read-only view of it.
package associate

import (
	"fmt"

	"cuastracker/internal/cluster"
	"cuastracker/internal/config"
	"cuastracker/internal/imm"
	"cuastracker/internal/kinematics"
)

// TrackView is a read-only snapshot of a track's merged IMM state, built
// once per dwell by the track manager. Associators never see a track's
// full internal filter bank or lifecycle state.
type TrackView struct {
	Index int
	X     kinematics.StateVector
	P     kinematics.StateMatrix
}

// Result is the outcome of one dwell's association pass.
type Result struct {
	// Matches maps a TrackView.Index to a cluster.Cluster.ID.
	Matches map[int]int
	// UnmatchedTracks lists TrackView.Index values with no assigned cluster.
	UnmatchedTracks []int
	// UnmatchedClusters lists cluster.Cluster.ID values with no assigned track.
	UnmatchedClusters []int
}

// Associator matches tracks to clusters for a single dwell.
type Associator interface {
	Associate(tracks []TrackView, clusters []cluster.Cluster, r kinematics.MeasMatrix) Result
}

// NewEngine builds the configured associator.
func NewEngine(cfg config.AssociationConfig) (Associator, error) {
	switch cfg.Method {
	case config.AssocMahalanobis:
		return NewMahalanobis(cfg.GatingThreshold, cfg.Mahalanobis.DistanceThreshold), nil
	case config.AssocGNN:
		return NewGNN(cfg.GatingThreshold, cfg.GNN.CostThreshold), nil
	case config.AssocJPDA:
		return NewJPDA(cfg.JPDA.GateSize, cfg.JPDA.ClutterDensity, cfg.JPDA.DetectionProbability), nil
	default:
		return nil, fmt.Errorf("associate: unknown method %q", cfg.Method)
	}
}

// mahalanobisTo returns the squared Mahalanobis distance between a track's
// predicted measurement and a cluster's centroid.
func mahalanobisTo(t TrackView, c cluster.Cluster, r kinematics.MeasMatrix) (float64, bool) {
	d2, _, ok := gatedDistance(t, c, r)
	return d2, ok
}

// gatedDistance returns both the squared Mahalanobis distance and the
// determinant of the innovation covariance S, for callers (JPDA) that also
// need |det S| to normalize a Gaussian likelihood rather than just gate on
// distance. ok is false when S cannot be inverted; the pair is then skipped.
func gatedDistance(t TrackView, c cluster.Cluster, r kinematics.MeasMatrix) (d2, detS float64, ok bool) {
	zPred := kinematics.MeasFromState(imm.H, t.X)
	z := kinematics.MeasVector{c.Cartesian.X, c.Cartesian.Y, c.Cartesian.Z}
	innov := kinematics.MeasSub(z, zPred)
	s := kinematics.MeasAddMat(kinematics.HPHt(imm.H, t.P), r)
	sinv, ok := kinematics.InvertMeas(s)
	if !ok {
		return 0, 0, false
	}
	return kinematics.MahalanobisDistance(innov, sinv), kinematics.Det3x3(s), true
}

func unmatchedTracks(tracks []TrackView, matched map[int]bool) []int {
	var out []int
	for _, t := range tracks {
		if !matched[t.Index] {
			out = append(out, t.Index)
		}
	}
	return out
}

func unmatchedClusters(clusters []cluster.Cluster, matched map[int]bool) []int {
	var out []int
	for _, c := range clusters {
		if !matched[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}
