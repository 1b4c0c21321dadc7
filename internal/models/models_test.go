package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cuastracker/internal/kinematics"
)

func TestCVForcesAccelerationToZero(t *testing.T) {
	cv := NewCV(1.0)
	var zero kinematics.StateVector
	f := cv.StateTransition(0.1, zero)

	var x kinematics.StateVector
	x[2], x[5], x[8] = 9, 9, 9 // nonzero acceleration in
	x[0], x[3], x[6] = 1, 2, 3
	x[1], x[4], x[7] = 10, 20, 30

	out := kinematics.MultiplyMV(f, x)
	assert.Equal(t, 0.0, out[2])
	assert.Equal(t, 0.0, out[5])
	assert.Equal(t, 0.0, out[8])
	assert.InDelta(t, 1+10*0.1, out[0], 1e-9)
}

func TestCADecaysAcceleration(t *testing.T) {
	ca := NewCA(1.0, 0.9)
	var zero kinematics.StateVector
	f := ca.StateTransition(0.1, zero)

	var x kinematics.StateVector
	x[2] = 5.0
	out := kinematics.MultiplyMV(f, x)
	assert.InDelta(t, 4.5, out[2], 1e-9)
}

func TestCTRDegeneratesToCVForNearZeroVelocity(t *testing.T) {
	ctr := NewCTR(1.0, 0.1)
	cv := NewCV(1.0)

	// vx and vy near zero: estimateTurnRate's v2 < 1e-6 branch returns 0,
	// so CTR must fall back to the same transition as CV.
	var x kinematics.StateVector
	fCTR := ctr.StateTransition(0.5, x)
	fCV := cv.StateTransition(0.5, x)

	for i := 0; i < kinematics.StateDim; i++ {
		for j := 0; j < kinematics.StateDim; j++ {
			assert.InDelta(t, fCV[i][j], fCTR[i][j], 1e-9)
		}
	}
}

func TestCTRRotatesVelocity(t *testing.T) {
	ctr := NewCTR(1.0, 0.05)

	// vx=10, ay=5, vy=ax=0 => omega = (vx*ay - vy*ax) / (vx^2+vy^2) = 0.5.
	var x kinematics.StateVector
	x[1], x[5] = 10, 5
	f := ctr.StateTransition(1.0, x)

	var in kinematics.StateVector
	in[1] = 10 // vx
	out := kinematics.MultiplyMV(f, in)

	// A pure x-velocity input should acquire a y-velocity component under
	// a nonzero estimated turn rate.
	assert.NotEqual(t, 0.0, out[4])
}

func TestProcessNoiseIsSymmetric(t *testing.T) {
	for _, m := range []Model{NewCV(1), NewCA(1, 0.9), NewCTR(1, 0.05)} {
		q := m.ProcessNoise(0.1)
		for i := 0; i < kinematics.StateDim; i++ {
			for j := 0; j < kinematics.StateDim; j++ {
				assert.InDelta(t, q[i][j], q[j][i], 1e-9, "model %s asymmetric at (%d,%d)", m.Name(), i, j)
			}
		}
	}
}
