package cluster

import (
	"math"
	"sort"

	"cuastracker/internal/config"
	"cuastracker/internal/wire"
)

// RangeBased clusters detections by sorting on range and greedily grouping
// consecutive detections whose range, azimuth, and elevation are each
// within the configured gate of the detection that opened the group.
type RangeBased struct {
	rangeGate, azimuthGate, elevationGate float64
}

func NewRangeBased(cfg config.RangeBasedConfig) *RangeBased {
	return &RangeBased{
		rangeGate:     cfg.RangeGateSize,
		azimuthGate:   cfg.AzimuthGateSize,
		elevationGate: cfg.ElevationGateSize,
	}
}

func (rb *RangeBased) Cluster(dets []wire.Detection) []Cluster {
	return groupSortedByRange(dets, func(prev, cur wire.Detection) bool {
		return math.Abs(cur.Range-prev.Range) <= rb.rangeGate &&
			math.Abs(cur.Azimuth-prev.Azimuth) <= rb.azimuthGate &&
			math.Abs(cur.Elevation-prev.Elevation) <= rb.elevationGate
	}, func(prev, cur wire.Detection) bool {
		return cur.Range-prev.Range > rb.rangeGate
	})
}

// RangeStrength extends RangeBased with an additional gate on signal
// strength, keeping detections from widely different reflectivity out of
// the same group even when they are spatially close.
type RangeStrength struct {
	rangeGate, azimuthGate, elevationGate, strengthGate float64
}

func NewRangeStrength(cfg config.RangeStrengthConfig) *RangeStrength {
	return &RangeStrength{
		rangeGate:     cfg.RangeGateSize,
		azimuthGate:   cfg.AzimuthGateSize,
		elevationGate: cfg.ElevationGateSize,
		strengthGate:  cfg.StrengthGateSize,
	}
}

func (rs *RangeStrength) Cluster(dets []wire.Detection) []Cluster {
	return groupSortedByRange(dets, func(prev, cur wire.Detection) bool {
		return math.Abs(cur.Range-prev.Range) <= rs.rangeGate &&
			math.Abs(cur.Azimuth-prev.Azimuth) <= rs.azimuthGate &&
			math.Abs(cur.Elevation-prev.Elevation) <= rs.elevationGate &&
			math.Abs(cur.Strength-prev.Strength) <= rs.strengthGate
	}, func(prev, cur wire.Detection) bool {
		return cur.Range-prev.Range > rs.rangeGate
	})
}

// groupSortedByRange sorts detections by range ascending, then walks them
// in order building up a current group: a detection joins the current
// group if inGate against the group's opening detection, otherwise it is
// left for a later group. earlyExit lets a caller break out of a stalled
// group early once range alone rules out every remaining candidate against
// that same opening detection, since the input is range-sorted.
func groupSortedByRange(dets []wire.Detection, inGate func(prev, cur wire.Detection) bool, earlyExit func(prev, cur wire.Detection) bool) []Cluster {
	n := len(dets)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return dets[order[i]].Range < dets[order[j]].Range
	})

	used := make([]bool, n)
	var clusters []Cluster
	id := 0

	for i := 0; i < n; i++ {
		if used[order[i]] {
			continue
		}
		members := []int{order[i]}
		used[order[i]] = true
		open := dets[order[i]]

		for j := i + 1; j < n; j++ {
			if used[order[j]] {
				continue
			}
			cur := dets[order[j]]
			if earlyExit(open, cur) {
				break
			}
			if inGate(open, cur) {
				members = append(members, order[j])
				used[order[j]] = true
			}
		}

		c := centroid(dets, members)
		c.ID = id
		id++
		clusters = append(clusters, c)
	}
	return clusters
}
