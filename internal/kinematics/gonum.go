package kinematics

import "gonum.org/v1/gonum/mat"

// ConditionNumber reports the ratio of largest to smallest singular value of
// a 9x9 covariance, using gonum's SVD. Used only in diagnostics and tests to
// flag covariances drifting toward numerical singularity before the fast
// Gauss-Jordan inverse on the hot path starts failing outright; mirrors the
// teacher's own fallback to gonum's SVD when its lightweight inverse is
// unreliable.
func ConditionNumber(p StateMatrix) float64 {
	dense := mat.NewDense(StateDim, StateDim, nil)
	for i := 0; i < StateDim; i++ {
		for j := 0; j < StateDim; j++ {
			dense.Set(i, j, p[i][j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(dense, mat.SVDNone) {
		return 0
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[len(values)-1] == 0 {
		return 0
	}
	return values[0] / values[len(values)-1]
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a 9x9 matrix via
// SVD (V * Sigma+ * UT), used as a diagnostic fallback when InvertState
// reports a singular pivot and callers need a best-effort inverse rather
// than skipping the update entirely (e.g. in tests exercising near-singular
// covariances).
func PseudoInverse(p StateMatrix) (StateMatrix, bool) {
	a := mat.NewDense(StateDim, StateDim, nil)
	for i := 0; i < StateDim; i++ {
		for j := 0; j < StateDim; j++ {
			a.Set(i, j, p[i][j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return StateMatrix{}, false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	maxS := 0.0
	if len(s) > 0 {
		maxS = s[0]
	}
	tol := 1e-15 * float64(StateDim) * maxS

	sigInv := mat.NewDense(len(s), len(s), nil)
	for i, val := range s {
		if val > tol {
			sigInv.Set(i, i, 1.0/val)
		}
	}

	var temp, res mat.Dense
	temp.Mul(&v, sigInv)
	res.Mul(&temp, u.T())

	var out StateMatrix
	for i := 0; i < StateDim; i++ {
		for j := 0; j < StateDim; j++ {
			out[i][j] = res.At(i, j)
		}
	}
	return out, true
}

// PseudoInverseMeas is PseudoInverse specialized to the 3x3 measurement
// space, for diagnostics; the filter and associators do not call it and
// skip a singular innovation covariance S instead.
func PseudoInverseMeas(p MeasMatrix) (MeasMatrix, bool) {
	a := mat.NewDense(MeasDim, MeasDim, nil)
	for i := 0; i < MeasDim; i++ {
		for j := 0; j < MeasDim; j++ {
			a.Set(i, j, p[i][j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return MeasMatrix{}, false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	maxS := 0.0
	if len(s) > 0 {
		maxS = s[0]
	}
	tol := 1e-15 * float64(MeasDim) * maxS

	sigInv := mat.NewDense(len(s), len(s), nil)
	for i, val := range s {
		if val > tol {
			sigInv.Set(i, i, 1.0/val)
		}
	}

	var temp, res mat.Dense
	temp.Mul(&v, sigInv)
	res.Mul(&temp, u.T())

	var out MeasMatrix
	for i := 0; i < MeasDim; i++ {
		for j := 0; j < MeasDim; j++ {
			out[i][j] = res.At(i, j)
		}
	}
	return out, true
}
