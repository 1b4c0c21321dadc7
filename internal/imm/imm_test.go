package imm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuastracker/internal/kinematics"
	"cuastracker/internal/models"
)

func uniformTransition() [NumModels][NumModels]float64 {
	var t [NumModels][NumModels]float64
	for i := range t {
		for j := range t[i] {
			if i == j {
				t[i][j] = 0.9
			} else {
				t[i][j] = 0.1 / float64(NumModels-1)
			}
		}
	}
	return t
}

func uniformMu() [NumModels]float64 {
	var mu [NumModels]float64
	for i := range mu {
		mu[i] = 1.0 / NumModels
	}
	return mu
}

func newTestFilter() *Filter {
	bank := [NumModels]models.Model{
		models.NewCV(1.0),
		models.NewCA(1.0, 0.95),
		models.NewCA(1.0, 0.9),
		models.NewCTR(1.0, 0.1),
		models.NewCTR(1.0, 0.1),
	}
	var x kinematics.StateVector
	x[1] = 20 // vx = 20 m/s
	var p kinematics.StateMatrix
	for i := 0; i < kinematics.StateDim; i++ {
		p[i][i] = 100
	}
	r := kinematics.DiagMeasMatrix(4.0)
	return New(bank, uniformTransition(), uniformMu(), Estimate{X: x, P: p}, r)
}

func TestPredictAdvancesPositionByVelocity(t *testing.T) {
	f := newTestFilter()
	f.Predict(1.0)
	assert.InDelta(t, 20.0, f.Merged.X[0], 1.0)
}

func TestModeProbabilitiesStaySumToOne(t *testing.T) {
	f := newTestFilter()
	for i := 0; i < 5; i++ {
		f.Predict(1.0)
		z := kinematics.MeasVector{20 * float64(i+1), 0, 0}
		f.Correct(z)
	}
	var sum float64
	for _, mu := range f.ModeProbabilities() {
		sum += mu
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestUpdateConvergesTowardMeasurement(t *testing.T) {
	f := newTestFilter()
	for i := 0; i < 20; i++ {
		f.Predict(1.0)
		z := kinematics.MeasVector{20 * float64(i+1), 0, 0}
		f.Correct(z)
	}
	require.True(t, kinematics.AllFinite(f.Merged.X))
	assert.InDelta(t, 400.0, f.Merged.X[0], 15.0)
}
