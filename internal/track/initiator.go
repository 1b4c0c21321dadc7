package track

import (
	"math"

	"cuastracker/internal/cluster"
	"cuastracker/internal/config"
	"cuastracker/internal/geometry"
)

// historyEntry is one cluster observation attributed to a candidate track.
type historyEntry struct {
	dt        float64 // time since the previous entry (0 for the first)
	cartesian geometry.Cartesian
	spherical geometry.Spherical
}

// candidate is a tentative track under M-of-N initiation: it has not yet
// accumulated enough hits to become a Track.
type candidate struct {
	history []historyEntry
	hits    int
	total   int
}

// Initiation is the resulting seed for a new Track once a candidate is
// promoted: a Cartesian position and velocity, either finite-differenced
// from the candidate's last two observations or zero-velocity if only one
// observation exists.
type Initiation struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// Initiator runs M-of-N track initiation over dwells' unmatched clusters.
type Initiator struct {
	cfg        config.InitiationConfig
	candidates []*candidate
}

func NewInitiator(cfg config.InitiationConfig) *Initiator {
	return &Initiator{cfg: cfg}
}

// Step gates a dwell's unmatched clusters against existing candidates,
// starts new candidates for clusters that match none, drops candidates
// that have exhausted their window without reaching m hits, and returns
// the seeds for any candidate that reached m-of-n this cycle.
func (in *Initiator) Step(dt float64, unmatched []cluster.Cluster) []Initiation {
	claimed := make([]bool, len(unmatched))

	for _, cand := range in.candidates {
		if len(cand.history) == 0 {
			continue
		}
		last := cand.history[len(cand.history)-1]

		bestIdx := -1
		bestRangeDelta := math.MaxFloat64
		for ci, c := range unmatched {
			if claimed[ci] {
				continue
			}
			dr := math.Abs(c.Range - last.spherical.Range)
			da := math.Abs(c.Azimuth - last.spherical.Azimuth)
			de := math.Abs(c.Elevation - last.spherical.Elevation)
			rangeGate := in.cfg.VelocityGate*dt + 100
			if dr < rangeGate && da < 0.1 && de < 0.1 && dr < bestRangeDelta {
				bestRangeDelta = dr
				bestIdx = ci
			}
		}

		if bestIdx >= 0 {
			claimed[bestIdx] = true
			c := unmatched[bestIdx]
			cand.history = append(cand.history, historyEntry{
				dt:        dt,
				cartesian: c.Cartesian,
				spherical: geometry.Spherical{Range: c.Range, Azimuth: c.Azimuth, Elevation: c.Elevation},
			})
			cand.hits++
		}
		cand.total++
	}

	// Start a new candidate for every cluster no existing candidate claimed,
	// gated on the configured maximum initiation range.
	for ci, c := range unmatched {
		if claimed[ci] {
			continue
		}
		if c.Range > in.cfg.MaxInitiationRange {
			continue
		}
		cand := &candidate{hits: 1, total: 1}
		cand.history = append(cand.history, historyEntry{
			dt:        0,
			cartesian: c.Cartesian,
			spherical: geometry.Spherical{Range: c.Range, Azimuth: c.Azimuth, Elevation: c.Elevation},
		})
		in.candidates = append(in.candidates, cand)
	}

	var promotions []Initiation
	var kept []*candidate
	for _, cand := range in.candidates {
		if cand.hits >= in.cfg.M && cand.total <= in.cfg.N {
			promotions = append(promotions, seedFromHistory(cand.history))
			continue // promoted, drop from the candidate pool
		}
		if cand.total >= in.cfg.N {
			continue // exhausted its window without reaching m, drop
		}
		kept = append(kept, cand)
	}
	in.candidates = kept

	return promotions
}

// seedFromHistory finite-differences velocity from the last two history
// entries, or seeds a zero-velocity track from a single observation or
// when the interval between the two is 1e-6 s or less.
func seedFromHistory(history []historyEntry) Initiation {
	last := history[len(history)-1]
	if len(history) < 2 {
		return Initiation{X: last.cartesian.X, Y: last.cartesian.Y, Z: last.cartesian.Z}
	}
	prev := history[len(history)-2]
	dt := last.dt
	if dt <= 1e-6 {
		return Initiation{X: last.cartesian.X, Y: last.cartesian.Y, Z: last.cartesian.Z}
	}
	return Initiation{
		X: last.cartesian.X, Y: last.cartesian.Y, Z: last.cartesian.Z,
		VX: (last.cartesian.X - prev.cartesian.X) / dt,
		VY: (last.cartesian.Y - prev.cartesian.Y) / dt,
		VZ: (last.cartesian.Z - prev.cartesian.Z) / dt,
	}
}
