package associate

import (
	"sort"

	"cuastracker/internal/cluster"
	"cuastracker/internal/kinematics"
)

// Mahalanobis is a nearest-neighbor associator with two-stage gating: a
// looser gatingThreshold decides candidacy, a tighter distanceThreshold
// decides acceptance. Candidates are consumed greedily in ascending
// distance order.
type Mahalanobis struct {
	gatingThreshold   float64
	distanceThreshold float64
}

func NewMahalanobis(gatingThreshold, distanceThreshold float64) *Mahalanobis {
	return &Mahalanobis{gatingThreshold: gatingThreshold, distanceThreshold: distanceThreshold}
}

type candidate struct {
	trackIdx, clusterIdx int
	distance              float64
}

func (m *Mahalanobis) Associate(tracks []TrackView, clusters []cluster.Cluster, r kinematics.MeasMatrix) Result {
	var candidates []candidate
	for _, t := range tracks {
		for ci, c := range clusters {
			d, ok := mahalanobisTo(t, c, r)
			if !ok {
				continue
			}
			if d <= m.gatingThreshold {
				candidates = append(candidates, candidate{trackIdx: t.Index, clusterIdx: ci, distance: d})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })

	matches := make(map[int]int)
	trackUsed := make(map[int]bool)
	clusterUsed := make(map[int]bool)

	for _, cand := range candidates {
		if cand.distance > m.distanceThreshold {
			continue
		}
		clusterID := clusters[cand.clusterIdx].ID
		if trackUsed[cand.trackIdx] || clusterUsed[clusterID] {
			continue
		}
		matches[cand.trackIdx] = clusterID
		trackUsed[cand.trackIdx] = true
		clusterUsed[clusterID] = true
	}

	return Result{
		Matches:           matches,
		UnmatchedTracks:   unmatchedTracks(tracks, trackUsed),
		UnmatchedClusters: unmatchedClusters(clusters, clusterUsed),
	}
}
