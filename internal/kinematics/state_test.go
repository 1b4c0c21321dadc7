package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityStateIsMultiplicativeIdentity(t *testing.T) {
	var x StateVector
	for i := range x {
		x[i] = float64(i + 1)
	}
	id := IdentityState()
	got := MultiplyMV(id, x)
	assert.Equal(t, x, got)
}

func TestAddSubRoundTrip(t *testing.T) {
	var a, b StateVector
	for i := range a {
		a[i] = float64(i)
		b[i] = float64(2 * i)
	}
	sum := AddState(a, b)
	back := SubState(sum, b)
	assert.InDeltaSlice(t, a[:], back[:], 1e-12)
}

func TestSymmetrizeProducesSymmetricMatrix(t *testing.T) {
	var m StateMatrix
	m[0][1] = 3
	m[1][0] = 1
	sym := Symmetrize(m)
	for i := 0; i < StateDim; i++ {
		for j := 0; j < StateDim; j++ {
			assert.InDelta(t, sym[i][j], sym[j][i], 1e-12)
		}
	}
}

func TestOuterProductDiagonalIsSquare(t *testing.T) {
	var v StateVector
	v[0] = 2
	v[1] = 3
	m := OuterProduct(v, v)
	assert.InDelta(t, 4.0, m[0][0], 1e-12)
	assert.InDelta(t, 9.0, m[1][1], 1e-12)
	assert.InDelta(t, 6.0, m[0][1], 1e-12)
}

func TestAllFiniteDetectsNaN(t *testing.T) {
	var x StateVector
	assert.True(t, AllFinite(x))
	x[3] = nan()
	assert.False(t, AllFinite(x))
}

func nan() float64 {
	var zero float64
	return zero / zero
}
