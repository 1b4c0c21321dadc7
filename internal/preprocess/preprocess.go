// Package preprocess gates raw detections against the configured
// range/azimuth/elevation/SNR/RCS/strength bounds before they reach
// clustering, dropping anything outside the sensor's trusted envelope.
package preprocess

import (
	"cuastracker/internal/config"
	"cuastracker/internal/wire"
)

// Preprocessor filters a dwell's raw detections against static bounds.
type Preprocessor struct {
	cfg config.PreprocessConfig
}

func New(cfg config.PreprocessConfig) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// Filter returns the subset of dets that pass every configured gate.
func (p *Preprocessor) Filter(dets []wire.Detection) []wire.Detection {
	out := make([]wire.Detection, 0, len(dets))
	for _, d := range dets {
		if p.accept(d) {
			out = append(out, d)
		}
	}
	return out
}

func (p *Preprocessor) accept(d wire.Detection) bool {
	c := p.cfg
	switch {
	case d.Range < c.MinRange || d.Range > c.MaxRange:
		return false
	case d.Azimuth < c.MinAzimuth || d.Azimuth > c.MaxAzimuth:
		return false
	case d.Elevation < c.MinElevation || d.Elevation > c.MaxElevation:
		return false
	case d.SNR < c.MinSNR || d.SNR > c.MaxSNR:
		return false
	case d.RCS < c.MinRCS || d.RCS > c.MaxRCS:
		return false
	case d.Strength < c.MinStrength || d.Strength > c.MaxStrength:
		return false
	default:
		return true
	}
}
