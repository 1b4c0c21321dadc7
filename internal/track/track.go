// Package track owns the tracker's lifecycle state machine: turning
// clustered detections into confirmed tracks via M-of-N initiation,
// maintaining them across dwells with the IMM filter, and deleting them
// once they coast too long, fall below quality, or leave the sensor's
// range envelope.
package track

import (
	"math"

	"cuastracker/internal/associate"
	"cuastracker/internal/config"
	"cuastracker/internal/geometry"
	"cuastracker/internal/imm"
	"cuastracker/internal/kinematics"
	"cuastracker/internal/models"
	"cuastracker/internal/wire"
)

// Status is a track's lifecycle state.
type Status int

const (
	StatusTentative Status = iota
	StatusConfirmed
	StatusCoasting
	StatusDeleted
)

// Track is a single maintained object: an IMM filter plus lifecycle
// bookkeeping.
type Track struct {
	ID                int
	Status            Status
	Classification    wire.Classification
	Filter            *imm.Filter
	Quality           float64
	HitCount          uint32
	MissCount         uint32
	Age               uint32
	ConsecutiveMisses int
	DeletionReason    string
}

// View returns the read-only association snapshot for this track.
func (t *Track) View() associate.TrackView {
	return associate.TrackView{Index: t.ID, X: t.Filter.Merged.X, P: t.Filter.Merged.P}
}

// SphericalRange returns the track's current range from the origin.
func (t *Track) SphericalRange() float64 {
	x := t.Filter.Merged.X
	return math.Sqrt(x[0]*x[0] + x[3]*x[3] + x[6]*x[6])
}

// RangeRate projects the track's Cartesian velocity onto its line of sight.
func (t *Track) RangeRate() float64 {
	x := t.Filter.Merged.X
	r := t.SphericalRange()
	if r < 1e-9 {
		return 0
	}
	return (x[0]*x[1] + x[3]*x[4] + x[6]*x[7]) / r
}

// ToRecord renders the track as a Track Table wire record.
func (t *Track) ToRecord(timestamp uint64) wire.TrackRecord {
	x := t.Filter.Merged.X
	sph := geometry.CartesianToSpherical(x[0], x[3], x[6])

	return wire.TrackRecord{
		TrackID:        uint32(t.ID),
		Timestamp:      timestamp,
		Status:         wire.TrackStatus(t.Status),
		Classification: t.Classification,
		Range:          sph.Range,
		Azimuth:        sph.Azimuth,
		Elevation:      sph.Elevation,
		RangeRate:      t.RangeRate(),
		X:              x[0], Y: x[3], Z: x[6],
		VX: x[1], VY: x[4], VZ: x[7],
		TrackQuality: t.Quality,
		HitCount:     t.HitCount,
		MissCount:    t.MissCount,
		Age:          t.Age,
	}
}

// buildModelBank constructs a fresh 5-model IMM bank from prediction
// config: CV, two CA variants, and two CTR variants distinguished only by
// process noise characteristics — both estimate the same live turn rate
// from state every cycle.
func buildModelBank(cfg config.PredictionConfig) [imm.NumModels]models.Model {
	return [imm.NumModels]models.Model{
		models.NewCV(cfg.CV.ProcessNoiseStd),
		models.NewCA(cfg.CA1.ProcessNoiseStd, cfg.CA1.AccelDecayRate),
		models.NewCA(cfg.CA2.ProcessNoiseStd, cfg.CA2.AccelDecayRate),
		models.NewCTR(cfg.CTR1.ProcessNoiseStd, cfg.CTR1.TurnRateNoiseStd),
		models.NewCTR(cfg.CTR2.ProcessNoiseStd, cfg.CTR2.TurnRateNoiseStd),
	}
}

// newFilter builds an IMM filter seeded at the given Cartesian position and
// velocity, with a diagonal initial covariance built from configured
// position/velocity/acceleration standard deviations.
func newFilter(cfg config.PredictionConfig, initCov config.InitialCovarianceConfig, r kinematics.MeasMatrix, x, y, z, vx, vy, vz float64) *imm.Filter {
	bank := buildModelBank(cfg)

	var initial kinematics.StateVector
	initial[0], initial[1] = x, vx
	initial[3], initial[4] = y, vy
	initial[6], initial[7] = z, vz

	var p kinematics.StateMatrix
	posVar := initCov.PositionStd * initCov.PositionStd
	velVar := initCov.VelocityStd * initCov.VelocityStd
	accVar := initCov.AccelerationStd * initCov.AccelerationStd
	for _, base := range []int{0, 3, 6} {
		p[base][base] = posVar
		p[base+1][base+1] = velVar
		p[base+2][base+2] = accVar
	}

	return imm.New(bank, cfg.IMM.TransitionMatrix, cfg.IMM.InitialModeProbabilities, imm.Estimate{X: initial, P: p}, r)
}

// classify applies the mode-probability heuristic: a stationary contact
// reads as clutter; otherwise the dominant motion mode combined with a
// plausible speed band for that mode identifies rotary drones, fixed-wing
// drones, and birds, in that priority order.
func classify(speed float64, mu [imm.NumModels]float64) wire.Classification {
	switch {
	case speed < 2:
		return wire.ClassClutter
	case mu[3]+mu[4] > 0.4 && speed > 5 && speed < 30:
		return wire.ClassDroneRotary
	case mu[0] > 0.3 && speed > 15 && speed < 80:
		return wire.ClassDroneFixedWing
	case mu[1]+mu[2] > 0.3 && speed > 5 && speed < 25:
		return wire.ClassBird
	default:
		return wire.ClassUnknown
	}
}

func speedOf(x kinematics.StateVector) float64 {
	return math.Sqrt(x[1]*x[1] + x[4]*x[4] + x[7]*x[7])
}
