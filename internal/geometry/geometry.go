// Package geometry converts between the spherical frame detections arrive
// in and the Cartesian frame the kinematic filter operates in.
package geometry

import "math"

// Cartesian is a point in meters.
type Cartesian struct {
	X, Y, Z float64
}

// Spherical is a point in range (m), azimuth (rad), elevation (rad).
type Spherical struct {
	Range, Azimuth, Elevation float64
}

// SphericalToCartesian converts a spherical position to Cartesian.
func SphericalToCartesian(r, az, el float64) Cartesian {
	return Cartesian{
		X: r * math.Cos(el) * math.Cos(az),
		Y: r * math.Cos(el) * math.Sin(az),
		Z: r * math.Sin(el),
	}
}

// CartesianToSpherical converts a Cartesian position to spherical.
// Elevation is 0 for points within 1e-9 m of the origin, to avoid dividing
// by a near-zero range.
func CartesianToSpherical(x, y, z float64) Spherical {
	r := math.Sqrt(x*x + y*y + z*z)
	s := Spherical{
		Range:   r,
		Azimuth: math.Atan2(y, x),
	}
	if r > 1e-9 {
		s.Elevation = math.Asin(z / r)
	}
	return s
}
