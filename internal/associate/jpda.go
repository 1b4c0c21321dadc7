package associate

import (
	"math"

	"cuastracker/internal/cluster"
	"cuastracker/internal/kinematics"
)

// JPDA computes per-track association probabilities (beta weights) over
// gated clusters plus a "no detection" hypothesis beta0, then hard-assigns
// each track to its highest-beta cluster. It does not perform the
// beta-weighted combined-innovation IMM update joint probabilistic data
// association is named for; the hard assignment is the final behaviour.
type JPDA struct {
	gateSize             float64
	clutterDensity       float64
	detectionProbability float64
}

func NewJPDA(gateSize, clutterDensity, detectionProbability float64) *JPDA {
	return &JPDA{gateSize: gateSize, clutterDensity: clutterDensity, detectionProbability: detectionProbability}
}

func (j *JPDA) Associate(tracks []TrackView, clusters []cluster.Cluster, r kinematics.MeasMatrix) Result {
	matches := make(map[int]int)
	trackUsed := make(map[int]bool)
	clusterUsed := make(map[int]bool)

	for _, t := range tracks {
		type gated struct {
			clusterIdx int
			likelihood float64
		}
		var candidates []gated

		for ci, c := range clusters {
			d, detS, ok := gatedDistance(t, c, r)
			if !ok || d > j.gateSize {
				continue
			}
			detS = math.Abs(detS)
			if detS < 1e-300 {
				continue
			}
			norm := 1.0 / math.Sqrt(math.Pow(2*math.Pi, float64(kinematics.MeasDim))*detS)
			l := norm * math.Exp(-0.5*d)
			candidates = append(candidates, gated{clusterIdx: ci, likelihood: l})
		}

		if len(candidates) == 0 {
			continue
		}

		beta0 := j.clutterDensity * (1 - j.detectionProbability)
		total := beta0
		betas := make([]float64, len(candidates))
		for i, cand := range candidates {
			betas[i] = j.detectionProbability * cand.likelihood
			total += betas[i]
		}
		if total < 1e-30 {
			continue
		}
		beta0 /= total
		bestIdx, bestBeta := -1, 0.0
		for i, cand := range candidates {
			betas[i] /= total
			if betas[i] > bestBeta {
				bestBeta = betas[i]
				bestIdx = cand.clusterIdx
			}
		}

		if bestIdx < 0 || beta0 > 0.5 {
			continue
		}

		matches[t.Index] = clusters[bestIdx].ID
		trackUsed[t.Index] = true
		clusterUsed[clusters[bestIdx].ID] = true
	}

	return Result{
		Matches:           matches,
		UnmatchedTracks:   unmatchedTracks(tracks, trackUsed),
		UnmatchedClusters: unmatchedClusters(clusters, clusterUsed),
	}
}
