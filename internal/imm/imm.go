// Package imm implements the Interacting Multiple Model Bayesian filter
// that fuses the CV, CA (x2), and CTR (x2) motion models into a single
// state estimate per track. It runs the standard IMM cycle every dwell:
// mode interaction, per-model predict/update, likelihood-weighted mode
// probability update, and estimate merging.
package imm

import (
	"math"

	"cuastracker/internal/kinematics"
	"cuastracker/internal/models"
)

// NumModels is the fixed size of the model bank: CV, CA1, CA2, CTR1, CTR2.
const NumModels = 5

// H selects the measured position components (x, y, z) out of the 9-D
// state vector — constant across every model.
var H = kinematics.MeasStateMatrix{
	{1, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 0, 0},
}

// Estimate is a single model's state hypothesis.
type Estimate struct {
	X kinematics.StateVector
	P kinematics.StateMatrix
}

// Filter runs the IMM cycle over a fixed bank of NumModels motion models.
type Filter struct {
	models     [NumModels]models.Model
	transition [NumModels][NumModels]float64 // Markov chain mode transition matrix
	r          kinematics.MeasMatrix         // measurement noise, constant across models

	estimates [NumModels]Estimate
	mu        [NumModels]float64 // mode probabilities

	Merged Estimate
}

// New builds an IMM filter over the given model bank, transition matrix,
// initial mode probabilities, initial estimate (shared across all models),
// and constant measurement noise.
func New(bank [NumModels]models.Model, transition [NumModels][NumModels]float64, initialMu [NumModels]float64, initial Estimate, r kinematics.MeasMatrix) *Filter {
	f := &Filter{models: bank, transition: transition, r: r}
	f.mu = initialMu
	for i := range f.estimates {
		f.estimates[i] = initial
	}
	f.Merged = initial
	return f
}

// ModeProbabilities returns the current per-model mode probabilities.
func (f *Filter) ModeProbabilities() [NumModels]float64 { return f.mu }

// Predict runs interaction and per-model prediction for a dwell of length
// dt, without folding in a measurement. Called once per dwell for every
// non-deleted track, before association; Correct then optionally folds in
// a matched measurement against the resulting per-model estimates.
func (f *Filter) Predict(dt float64) {
	mixed := f.interact()
	for i, m := range f.models {
		fMat := m.StateTransition(dt, mixed[i].X)
		qMat := m.ProcessNoise(dt)
		x := kinematics.MultiplyMV(fMat, mixed[i].X)
		fp := kinematics.Multiply(fMat, mixed[i].P)
		fpft := kinematics.Multiply(fp, kinematics.Transpose(fMat))
		p := kinematics.AddMat(fpft, qMat)
		f.estimates[i] = Estimate{X: x, P: kinematics.Symmetrize(p)}
	}
	f.merge()
}

// Correct folds a measurement into the filter, assuming Predict has
// already advanced this cycle's per-model estimates: it runs the
// per-model Kalman update against each model's current state and
// covariance, then the mode-probability update and merge. It does not
// re-run interaction or prediction — those belong to Predict, called once
// per dwell regardless of whether a measurement follows.
func (f *Filter) Correct(z kinematics.MeasVector) {
	likelihoods := [NumModels]float64{}
	for i := range f.models {
		x, p := f.estimates[i].X, f.estimates[i].P

		zPred := kinematics.MeasFromState(H, x)
		innov := kinematics.MeasSub(z, zPred)
		s := kinematics.MeasAddMat(kinematics.HPHt(H, p), f.r)

		// A singular S skips this model's update for the dwell.
		sinv, ok := kinematics.InvertMeas(s)
		if !ok || math.Abs(kinematics.Det3x3(s)) < 1e-30 {
			likelihoods[i] = 1e-30
			continue
		}

		pht := kinematics.PHt(p, H)
		k := kinematics.KalmanGain(pht, sinv)
		xUpd := kinematics.AddState(x, kinematics.KalmanCorrection(k, innov))
		kh := kinematics.KH(k, H)
		identityMinusKH := kinematics.SubMat(kinematics.IdentityState(), kh)
		pUpd := kinematics.Symmetrize(kinematics.Multiply(identityMinusKH, p))

		f.estimates[i] = Estimate{X: xUpd, P: pUpd}
		likelihoods[i] = modelLikelihood(innov, s, sinv)
	}

	f.updateModeProbabilities(likelihoods)
	f.merge()
}

// interact computes the mixed initial conditions x0_j, P0_j for each model
// j from the previous cycle's per-model estimates and mode probabilities,
// per the standard IMM mixing step.
func (f *Filter) interact() [NumModels]Estimate {
	var cBar [NumModels]float64
	for j := 0; j < NumModels; j++ {
		for i := 0; i < NumModels; i++ {
			cBar[j] += f.transition[i][j] * f.mu[i]
		}
	}

	var muIJ [NumModels][NumModels]float64
	for j := 0; j < NumModels; j++ {
		if cBar[j] <= 1e-15 {
			muIJ[j][j] = 1.0
			continue
		}
		for i := 0; i < NumModels; i++ {
			muIJ[i][j] = f.transition[i][j] * f.mu[i] / cBar[j]
		}
	}

	var mixed [NumModels]Estimate
	for j := 0; j < NumModels; j++ {
		var x kinematics.StateVector
		for i := 0; i < NumModels; i++ {
			x = kinematics.AddState(x, kinematics.ScaleState(f.estimates[i].X, muIJ[i][j]))
		}
		var p kinematics.StateMatrix
		for i := 0; i < NumModels; i++ {
			diff := kinematics.SubState(f.estimates[i].X, x)
			spread := kinematics.OuterProduct(diff, diff)
			term := kinematics.AddMat(f.estimates[i].P, spread)
			p = kinematics.AddMat(p, kinematics.ScaleMat(term, muIJ[i][j]))
		}
		mixed[j] = Estimate{X: x, P: kinematics.Symmetrize(p)}
	}
	return mixed
}

// modelLikelihood is the Gaussian likelihood of an innovation under a
// model's predicted innovation covariance S.
func modelLikelihood(innov kinematics.MeasVector, s, sinv kinematics.MeasMatrix) float64 {
	det := kinematics.Det3x3(s)
	if det <= 0 {
		return 1e-30
	}
	d2 := kinematics.MahalanobisDistance(innov, sinv)
	norm := 1.0 / math.Sqrt(math.Pow(2*math.Pi, float64(kinematics.MeasDim))*det)
	l := norm * math.Exp(-0.5*d2)
	if l < 1e-30 {
		return 1e-30
	}
	return l
}

// updateModeProbabilities folds per-model likelihoods into the mode
// probability vector and renormalizes.
func (f *Filter) updateModeProbabilities(likelihoods [NumModels]float64) {
	var cBar [NumModels]float64
	for j := 0; j < NumModels; j++ {
		for i := 0; i < NumModels; i++ {
			cBar[j] += f.transition[i][j] * f.mu[i]
		}
	}

	var muNew [NumModels]float64
	var total float64
	for j := 0; j < NumModels; j++ {
		muNew[j] = likelihoods[j] * cBar[j]
		total += muNew[j]
	}
	if total < 1e-30 {
		for j := range muNew {
			muNew[j] = 1.0 / NumModels
		}
	} else {
		for j := range muNew {
			muNew[j] /= total
		}
	}
	f.mu = muNew
}

// merge combines the per-model estimates into a single output estimate
// weighted by mode probability.
func (f *Filter) merge() {
	var x kinematics.StateVector
	for i := 0; i < NumModels; i++ {
		x = kinematics.AddState(x, kinematics.ScaleState(f.estimates[i].X, f.mu[i]))
	}
	var p kinematics.StateMatrix
	for i := 0; i < NumModels; i++ {
		diff := kinematics.SubState(f.estimates[i].X, x)
		spread := kinematics.OuterProduct(diff, diff)
		term := kinematics.AddMat(f.estimates[i].P, spread)
		p = kinematics.AddMat(p, kinematics.ScaleMat(term, f.mu[i]))
	}
	f.Merged = Estimate{X: x, P: kinematics.Symmetrize(p)}
}
