package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cuastracker/internal/config"
	"cuastracker/internal/wire"
)

func testConfig() config.PreprocessConfig {
	return config.PreprocessConfig{
		MinRange: 0, MaxRange: 10000,
		MinAzimuth: -3.14, MaxAzimuth: 3.14,
		MinElevation: -1.57, MaxElevation: 1.57,
		MinSNR: 5, MaxSNR: 100,
		MinRCS: 0.001, MaxRCS: 100,
		MinStrength: -100, MaxStrength: 0,
	}
}

func TestFilterDropsOutOfRange(t *testing.T) {
	p := New(testConfig())
	dets := []wire.Detection{
		{Range: 5000, SNR: 20, RCS: 0.1, Strength: -30},   // passes
		{Range: 20000, SNR: 20, RCS: 0.1, Strength: -30},  // range too far
		{Range: 5000, SNR: 1, RCS: 0.1, Strength: -30},    // SNR too low
		{Range: 5000, SNR: 20, RCS: 1e-6, Strength: -30},  // RCS too small
	}
	out := p.Filter(dets)
	assert.Len(t, out, 1)
	assert.Equal(t, 5000.0, out[0].Range)
}
