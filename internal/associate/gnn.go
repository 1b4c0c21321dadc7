package associate

import (
	"math"

	"cuastracker/internal/cluster"
	"cuastracker/internal/kinematics"
)

// GNN is a global-nearest-neighbor associator over a padded T x C cost
// matrix of Mahalanobis distances: rows/columns beyond the gating distance
// are treated as infinite cost, the matrix is reduced by row/column minima,
// and assignment proceeds in three greedy passes (unique zero-cost cells,
// then remaining minimal-cost cells, then the minimal original cost left).
// Every pass accepts a cell only when its original, unreduced cost is below
// costThreshold.
type GNN struct {
	gatingThreshold float64
	costThreshold   float64
}

func NewGNN(gatingThreshold, costThreshold float64) *GNN {
	return &GNN{gatingThreshold: gatingThreshold, costThreshold: costThreshold}
}

const gnnInf = math.MaxFloat64 / 4

func (g *GNN) Associate(tracks []TrackView, clusters []cluster.Cluster, r kinematics.MeasMatrix) Result {
	nt, nc := len(tracks), len(clusters)
	matches := make(map[int]int)
	trackUsed := make(map[int]bool)
	clusterUsed := make(map[int]bool)

	if nt == 0 || nc == 0 {
		return Result{
			Matches:           matches,
			UnmatchedTracks:   unmatchedTracks(tracks, trackUsed),
			UnmatchedClusters: unmatchedClusters(clusters, clusterUsed),
		}
	}

	dim := nt
	if nc > dim {
		dim = nc
	}

	cost := make([][]float64, dim)
	for i := range cost {
		cost[i] = make([]float64, dim)
		for j := range cost[i] {
			cost[i][j] = gnnInf
		}
	}
	for i, t := range tracks {
		for j, c := range clusters {
			d, ok := mahalanobisTo(t, c, r)
			if ok && d <= g.gatingThreshold {
				cost[i][j] = d
			}
		}
	}

	reduced := reduceCost(cost, dim)

	rowDone := make([]bool, dim)
	colDone := make([]bool, dim)

	// Pass 1: assign cells that are the unique zero-cost cell in their row,
	// when their column is still free.
	for i := 0; i < dim; i++ {
		if rowDone[i] {
			continue
		}
		zeroCol := -1
		zeroCount := 0
		for j := 0; j < dim; j++ {
			if reduced[i][j] == 0 && cost[i][j] < gnnInf {
				zeroCount++
				zeroCol = j
			}
		}
		if zeroCount == 1 && !colDone[zeroCol] && cost[i][zeroCol] < g.costThreshold {
			assignGNN(i, zeroCol, tracks, clusters, nt, nc, matches, trackUsed, clusterUsed, rowDone, colDone)
		}
	}

	// Pass 2: remaining rows take their minimum-reduced-cost available column.
	for i := 0; i < dim; i++ {
		if rowDone[i] {
			continue
		}
		bestJ, bestVal := -1, math.MaxFloat64
		for j := 0; j < dim; j++ {
			if colDone[j] || cost[i][j] >= gnnInf {
				continue
			}
			if reduced[i][j] < bestVal {
				bestVal = reduced[i][j]
				bestJ = j
			}
		}
		if bestJ >= 0 && cost[i][bestJ] < g.costThreshold {
			assignGNN(i, bestJ, tracks, clusters, nt, nc, matches, trackUsed, clusterUsed, rowDone, colDone)
		}
	}

	// Pass 3: anything left is matched directly against costThreshold on
	// the original (unreduced) cost.
	for i := 0; i < dim; i++ {
		if rowDone[i] {
			continue
		}
		bestJ, bestVal := -1, math.MaxFloat64
		for j := 0; j < dim; j++ {
			if colDone[j] {
				continue
			}
			if cost[i][j] < bestVal {
				bestVal = cost[i][j]
				bestJ = j
			}
		}
		if bestJ >= 0 && bestVal < g.costThreshold {
			assignGNN(i, bestJ, tracks, clusters, nt, nc, matches, trackUsed, clusterUsed, rowDone, colDone)
		}
	}

	return Result{
		Matches:           matches,
		UnmatchedTracks:   unmatchedTracks(tracks, trackUsed),
		UnmatchedClusters: unmatchedClusters(clusters, clusterUsed),
	}
}

func assignGNN(i, j int, tracks []TrackView, clusters []cluster.Cluster, nt, nc int, matches map[int]int, trackUsed, clusterUsed map[int]bool, rowDone, colDone []bool) {
	rowDone[i] = true
	colDone[j] = true
	if i >= nt || j >= nc {
		return // padding row/column, no real track or cluster to assign
	}
	matches[tracks[i].Index] = clusters[j].ID
	trackUsed[tracks[i].Index] = true
	clusterUsed[clusters[j].ID] = true
}

func reduceCost(cost [][]float64, dim int) [][]float64 {
	reduced := make([][]float64, dim)
	for i := range reduced {
		reduced[i] = append([]float64(nil), cost[i]...)
	}
	for i := 0; i < dim; i++ {
		min := reduced[i][0]
		for j := 1; j < dim; j++ {
			if reduced[i][j] < min {
				min = reduced[i][j]
			}
		}
		if min > 0 && min < gnnInf {
			for j := 0; j < dim; j++ {
				reduced[i][j] -= min
			}
		}
	}
	for j := 0; j < dim; j++ {
		min := reduced[0][j]
		for i := 1; i < dim; i++ {
			if reduced[i][j] < min {
				min = reduced[i][j]
			}
		}
		if min > 0 && min < gnnInf {
			for i := 0; i < dim; i++ {
				reduced[i][j] -= min
			}
		}
	}
	return reduced
}
