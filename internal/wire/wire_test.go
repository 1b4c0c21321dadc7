package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionMessageRoundTrip(t *testing.T) {
	hdr := DwellHeader{DwellCount: 42, Timestamp: 1_700_000_000}
	dets := []Detection{
		{Range: 1234.5, Azimuth: 0.1, Elevation: 0.02, Strength: -30, Noise: -80, SNR: 50, RCS: 0.1, MicroDoppler: 12},
		{Range: 5678.9, Azimuth: -0.4, Elevation: 0.1, Strength: -45, Noise: -85, SNR: 40, RCS: 0.5, MicroDoppler: 8},
	}

	buf := EncodeDetectionMessage(hdr, dets)
	gotHdr, gotDets, err := DecodeDetectionMessage(buf)
	require.NoError(t, err)

	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, dets, gotDets)
}

func TestDecodeDetectionMessageTruncated(t *testing.T) {
	hdr := DwellHeader{DwellCount: 1, Timestamp: 1}
	dets := []Detection{{Range: 1}}
	buf := EncodeDetectionMessage(hdr, dets)

	_, _, err := DecodeDetectionMessage(buf[:len(buf)-10])
	assert.Error(t, err)
}

func TestTrackTableRoundTrip(t *testing.T) {
	records := []TrackRecord{
		{
			TrackID: 7, Timestamp: 123456, Status: StatusConfirmed, Classification: ClassDroneRotary,
			Range: 900, Azimuth: 0.2, Elevation: 0.05, RangeRate: -5,
			X: 800, Y: 400, Z: 50, VX: -5, VY: 1, VZ: 0,
			TrackQuality: 0.85, HitCount: 10, MissCount: 1, Age: 11,
		},
	}

	buf := EncodeTrackTable(999, records)
	ts, got, err := DecodeTrackTable(buf)
	require.NoError(t, err)

	assert.Equal(t, uint64(999), ts)
	assert.Equal(t, records, got)
}

func TestDecodeDetectionMessageRejectsWrongID(t *testing.T) {
	buf := EncodeDetectionMessage(DwellHeader{}, nil)
	buf[0] = 0xFF // corrupt message id
	_, _, err := DecodeDetectionMessage(buf)
	assert.Error(t, err)
}
