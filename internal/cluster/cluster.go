// Package cluster groups a dwell's filtered detections into plot clusters
// before association, using one of three pluggable strategies (DBSCAN,
// range-based, or range+strength-based), then centroids each group with a
// signal-strength-weighted mean.
package cluster

import (
	"math"

	"cuastracker/internal/geometry"
	"cuastracker/internal/wire"
)

// Cluster is a centroided group of one or more detections.
type Cluster struct {
	ID            int
	Range         float64
	Azimuth       float64
	Elevation     float64
	Strength      float64 // arithmetic mean in dB, not weighted
	SNR           float64
	RCS           float64
	MicroDoppler  float64
	Cartesian     geometry.Cartesian
	NumDetections int
}

// Clusterer groups detections into clusters. Implementations set spherical
// centroid fields (Range/Azimuth/Elevation/Strength/SNR/RCS/MicroDoppler);
// Engine fills in Cartesian and reassigns IDs afterward.
type Clusterer interface {
	Cluster(dets []wire.Detection) []Cluster
}

// centroid builds a cluster from a group of detection indices using a
// strength-weighted mean for range/azimuth/elevation/snr/rcs/microDoppler,
// and a plain arithmetic mean in dB for the cluster's own strength field.
func centroid(dets []wire.Detection, members []int) Cluster {
	if len(members) == 1 {
		d := dets[members[0]]
		return Cluster{
			Range: d.Range, Azimuth: d.Azimuth, Elevation: d.Elevation,
			Strength: d.Strength, SNR: d.SNR, RCS: d.RCS, MicroDoppler: d.MicroDoppler,
			NumDetections: 1,
		}
	}

	var linearSum, strengthSumDB float64
	weights := make([]float64, len(members))
	for i, idx := range members {
		lin := math.Pow(10, dets[idx].Strength/10)
		weights[i] = lin
		linearSum += lin
		strengthSumDB += dets[idx].Strength
	}

	var c Cluster
	c.NumDetections = len(members)
	if linearSum <= 0 {
		// Degenerate: fall back to unweighted mean.
		for _, idx := range members {
			d := dets[idx]
			c.Range += d.Range
			c.Azimuth += d.Azimuth
			c.Elevation += d.Elevation
			c.SNR += d.SNR
			c.RCS += d.RCS
			c.MicroDoppler += d.MicroDoppler
		}
		n := float64(len(members))
		c.Range /= n
		c.Azimuth /= n
		c.Elevation /= n
		c.SNR /= n
		c.RCS /= n
		c.MicroDoppler /= n
	} else {
		for i, idx := range members {
			w := weights[i] / linearSum
			d := dets[idx]
			c.Range += w * d.Range
			c.Azimuth += w * d.Azimuth
			c.Elevation += w * d.Elevation
			c.SNR += w * d.SNR
			c.RCS += w * d.RCS
			c.MicroDoppler += w * d.MicroDoppler
		}
	}
	c.Strength = strengthSumDB / float64(len(members))
	return c
}
