package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSphericalCartesianRoundTrip(t *testing.T) {
	cases := []Spherical{
		{Range: 1000, Azimuth: 0.3, Elevation: 0.1},
		{Range: 5000, Azimuth: -1.2, Elevation: 0.5},
		{Range: 250, Azimuth: math.Pi / 2, Elevation: -0.2},
	}
	for _, sp := range cases {
		c := SphericalToCartesian(sp.Range, sp.Azimuth, sp.Elevation)
		back := CartesianToSpherical(c.X, c.Y, c.Z)
		assert.InDelta(t, sp.Range, back.Range, 1e-6)
		assert.InDelta(t, sp.Azimuth, back.Azimuth, 1e-6)
		assert.InDelta(t, sp.Elevation, back.Elevation, 1e-6)
	}
}

func TestCartesianToSphericalOrigin(t *testing.T) {
	sp := CartesianToSpherical(0, 0, 0)
	assert.Equal(t, 0.0, sp.Range)
	assert.Equal(t, 0.0, sp.Elevation)
}
