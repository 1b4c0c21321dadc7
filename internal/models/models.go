// Package models implements the individual motion models that make up the
// IMM filter's model bank: constant velocity, constant acceleration, and
// coordinated turn. Each model exposes the pair of matrices the IMM filter
// needs every cycle — a state transition F and a process noise Q — built
// fresh for the dwell's dt, the same shape as the original system's
// per-model predict() step.
package models

import (
	"math"

	"cuastracker/internal/kinematics"
)

// Model is a single motion model in the IMM bank. StateTransition and
// ProcessNoise are recomputed every dwell because both depend on dt, which
// varies with actual radar timing rather than the nominal cycle period.
// StateTransition also takes the model's own input state x: CV and CA
// ignore it, but CTR estimates its turn rate from x every call rather than
// carrying a fixed one.
type Model interface {
	Name() string
	StateTransition(dt float64, x kinematics.StateVector) kinematics.StateMatrix
	ProcessNoise(dt float64) kinematics.StateMatrix
}

// axis indices into the 9-element state vector.
const (
	ix, ivx, iax = 0, 1, 2
	iy, ivy, iay = 3, 4, 5
	iz, ivz, iaz = 6, 7, 8
)

// CV is the constant-velocity model: position and velocity propagate
// linearly, acceleration is forced to zero every cycle rather than carried
// forward.
type CV struct {
	q float64 // process noise std, applied per axis
}

func NewCV(processNoiseStd float64) *CV {
	return &CV{q: processNoiseStd}
}

func (m *CV) Name() string { return "CV" }

func (m *CV) StateTransition(dt float64, _ kinematics.StateVector) kinematics.StateMatrix {
	var f kinematics.StateMatrix
	for _, base := range []int{ix, iy, iz} {
		f[base][base] = 1
		f[base][base+1] = dt
		f[base+1][base+1] = 1
		// row base+2 (acceleration) left at zero: forces ax/ay/az to 0.
	}
	return f
}

func (m *CV) ProcessNoise(dt float64) kinematics.StateMatrix {
	var q kinematics.StateMatrix
	v := m.q * m.q
	block := axisNoiseBlock(dt, v)
	for _, base := range []int{ix, iy, iz} {
		placeBlock(&q, base, block)
		q[base+2][base+2] = v * 0.01
	}
	return q
}

// CA is the constant-acceleration model: acceleration is carried forward
// with a fixed per-cycle decay rather than held constant indefinitely,
// keeping long coasts from projecting runaway acceleration.
type CA struct {
	q     float64
	decay float64
}

func NewCA(processNoiseStd, accelDecayRate float64) *CA {
	return &CA{q: processNoiseStd, decay: accelDecayRate}
}

func (m *CA) Name() string { return "CA" }

func (m *CA) StateTransition(dt float64, _ kinematics.StateVector) kinematics.StateMatrix {
	var f kinematics.StateMatrix
	for _, base := range []int{ix, iy, iz} {
		f[base][base] = 1
		f[base][base+1] = dt
		f[base][base+2] = dt * dt / 2
		f[base+1][base+1] = 1
		f[base+1][base+2] = dt
		f[base+2][base+2] = m.decay
	}
	return f
}

func (m *CA) ProcessNoise(dt float64) kinematics.StateMatrix {
	var q kinematics.StateMatrix
	v := m.q * m.q
	dt2, dt3, dt4, dt5 := dt*dt, dt*dt*dt, dt*dt*dt*dt, dt*dt*dt*dt*dt
	block := [3][3]float64{
		{dt5 / 20, dt4 / 8, dt3 / 6},
		{dt4 / 8, dt3 / 3, dt2 / 2},
		{dt3 / 6, dt2 / 2, dt},
	}
	for i := range block {
		for j := range block[i] {
			block[i][j] *= v
		}
	}
	for _, base := range []int{ix, iy, iz} {
		placeBlock(&q, base, block)
	}
	return q
}

// CTR is the coordinated-turn model: x-y velocity rotates at a turn rate
// estimated from the model's own input state every cycle, rather than a
// fixed constructor parameter, so it tracks whatever a maneuvering target
// is actually doing. The z axis stays constant-velocity. Acceleration
// states decay toward zero rather than being forced there outright, since a
// maneuvering target under a turn model still exhibits residual
// longitudinal acceleration.
type CTR struct {
	q      float64
	qOmega float64
}

// NewCTR builds a coordinated-turn model. ctr1/ctr2 in configuration are
// two instances distinguished only by process noise characteristics; both
// estimate the same live turn rate from state.
func NewCTR(processNoiseStd, turnRateNoiseStd float64) *CTR {
	return &CTR{q: processNoiseStd, qOmega: turnRateNoiseStd * turnRateNoiseStd}
}

func (m *CTR) Name() string { return "CTR" }

// estimateTurnRate derives omega from the x-y velocity and acceleration
// carried in x: omega = (vx*ay - vy*ax) / (vx^2 + vy^2).
func estimateTurnRate(x kinematics.StateVector) float64 {
	vx, vy := x[ivx], x[ivy]
	ax, ay := x[iax], x[iay]
	v2 := vx*vx + vy*vy
	if v2 < 1e-6 {
		return 0
	}
	return (vx*ay - vy*ax) / v2
}

func (m *CTR) StateTransition(dt float64, x kinematics.StateVector) kinematics.StateMatrix {
	var f kinematics.StateMatrix
	omega := estimateTurnRate(x)

	if math.Abs(omega) < 1e-6 {
		// Degenerate case: negligible turn rate, fall back to CV in every
		// axis including forcing acceleration to zero.
		for _, base := range []int{ix, iy, iz} {
			f[base][base] = 1
			f[base][base+1] = dt
			f[base+1][base+1] = 1
		}
		return f
	}

	wdt := omega * dt
	sinwt := math.Sin(wdt)
	coswt := math.Cos(wdt)

	f[ix][ix] = 1
	f[ix][ivx] = sinwt / omega
	f[ix][ivy] = -(1 - coswt) / omega
	f[ivx][ivx] = coswt
	f[ivx][ivy] = -sinwt
	f[iax][iax] = 0.5

	f[iy][iy] = 1
	f[iy][ivx] = (1 - coswt) / omega
	f[iy][ivy] = sinwt / omega
	f[ivy][ivx] = sinwt
	f[ivy][ivy] = coswt
	f[iay][iay] = 0.5

	f[iz][iz] = 1
	f[iz][ivz] = dt
	f[ivz][ivz] = 1
	// az row left at zero: z axis stays CV, acceleration forced to zero.

	return f
}

func (m *CTR) ProcessNoise(dt float64) kinematics.StateMatrix {
	var q kinematics.StateMatrix
	dt2, dt3 := dt*dt, dt*dt*dt
	for axis, base := range []int{ix, iy, iz} {
		qAxis := m.q * m.q
		if axis < 2 {
			qAxis += m.qOmega
		}
		p, v, a := base, base+1, base+2
		q[p][p] = dt3 / 3 * qAxis
		q[p][v] = dt2 / 2 * qAxis
		q[v][p] = dt2 / 2 * qAxis
		q[v][v] = dt * qAxis
		q[a][a] = qAxis * 0.1
	}
	return q
}

// axisNoiseBlock builds the discrete white-noise-acceleration 3x3 process
// noise block used by CV (position/velocity rows; the acceleration
// diagonal entry is set separately by the caller).
func axisNoiseBlock(dt, v float64) [3][3]float64 {
	dt2, dt3, dt4 := dt*dt, dt*dt*dt, dt*dt*dt*dt
	return [3][3]float64{
		{v * dt4 / 4, v * dt3 / 2, 0},
		{v * dt3 / 2, v * dt2, 0},
		{0, 0, 0},
	}
}

func placeBlock(q *kinematics.StateMatrix, base int, block [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q[base+i][base+j] = block[i][j]
		}
	}
}
