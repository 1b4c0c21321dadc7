package cluster

import (
	"math"

	"cuastracker/internal/config"
	"cuastracker/internal/wire"
)

// DBScan clusters detections by density in a scaled range/azimuth/elevation
// space: two detections are neighbors if the scaled Euclidean distance
// between them, using each axis's configured epsilon, is at most 1.
type DBScan struct {
	epsRange, epsAzimuth, epsElevation float64
	minPoints                          int
}

func NewDBScan(cfg config.DBScanConfig) *DBScan {
	return &DBScan{
		epsRange:     cfg.EpsilonRange,
		epsAzimuth:   cfg.EpsilonAzimuth,
		epsElevation: cfg.EpsilonElevation,
		minPoints:    cfg.MinPoints,
	}
}

func (d *DBScan) Cluster(dets []wire.Detection) []Cluster {
	n := len(dets)
	if n == 0 {
		return nil
	}

	const (
		unvisited = iota
		visited
	)
	state := make([]int, n)
	label := make([]int, n) // -1 = noise, -2 = unassigned, >=0 = cluster id
	for i := range label {
		label[i] = -2
	}

	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if d.scaledDistance(dets[i], dets[j]) <= 1.0 {
				out = append(out, j)
			}
		}
		return out
	}

	nextLabel := 0
	for i := 0; i < n; i++ {
		if state[i] == visited {
			continue
		}
		state[i] = visited
		nb := neighbors(i)
		if len(nb)+1 < d.minPoints {
			label[i] = -1 // tentatively noise; may be claimed by another core point
			continue
		}

		clusterID := nextLabel
		nextLabel++
		label[i] = clusterID

		seedSet := append([]int{}, nb...)
		for k := 0; k < len(seedSet); k++ {
			q := seedSet[k]
			if state[q] == unvisited {
				state[q] = visited
				qnb := neighbors(q)
				if len(qnb)+1 >= d.minPoints {
					seedSet = append(seedSet, qnb...)
				}
			}
			if label[q] < 0 {
				label[q] = clusterID
			}
		}
	}

	// Every remaining noise point becomes its own singleton cluster, with
	// ids continuing past the last core-cluster label.
	singleton := nextLabel
	for i := 0; i < n; i++ {
		if label[i] == -1 {
			label[i] = singleton
			singleton++
		}
	}

	byCluster := make(map[int][]int)
	for i, l := range label {
		byCluster[l] = append(byCluster[l], i)
	}

	clusters := make([]Cluster, 0, len(byCluster))
	for id := 0; id < singleton; id++ {
		members, ok := byCluster[id]
		if !ok {
			continue
		}
		c := centroid(dets, members)
		c.ID = id
		clusters = append(clusters, c)
	}
	return clusters
}

func (d *DBScan) scaledDistance(a, b wire.Detection) float64 {
	dr := (a.Range - b.Range) / d.epsRange
	da := (a.Azimuth - b.Azimuth) / d.epsAzimuth
	de := (a.Elevation - b.Elevation) / d.epsElevation
	return math.Sqrt(dr*dr + da*da + de*de)
}
