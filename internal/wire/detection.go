// Package wire implements the tracker's UDP wire formats: the SP Detection
// Message ingress format and the Track Table egress format, both packed
// little-endian binary layouts inherited byte-for-byte from the original
// system so external senders/receivers on the network do not need to
// change.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Detection is a single radar detection within a dwell, decoded from an SP
// Detection Message.
type Detection struct {
	Range        float64
	Azimuth      float64
	Elevation    float64
	Strength     float64
	Noise        float64
	SNR          float64
	RCS          float64
	MicroDoppler float64
}

const (
	detectionMsgID  uint32 = 0x0001
	detectionRecLen        = 64 // 8 float64 fields, packed
)

// DwellHeader carries the per-message metadata that precedes the detection
// array in an SP Detection Message.
type DwellHeader struct {
	DwellCount uint32
	Timestamp  uint64
}

// DecodeDetectionMessage parses a full SP Detection Message: a 4-byte
// message id (0x0001), 4-byte dwell count, 8-byte timestamp, 4-byte
// detection count, followed by that many 64-byte packed detection records.
func DecodeDetectionMessage(buf []byte) (DwellHeader, []Detection, error) {
	const headerLen = 4 + 4 + 8 + 4
	if len(buf) < headerLen {
		return DwellHeader{}, nil, fmt.Errorf("wire: detection message too short: %d bytes", len(buf))
	}

	r := bytes.NewReader(buf)
	var msgID, dwellCount, numDetections uint32
	var timestamp uint64

	if err := binary.Read(r, binary.LittleEndian, &msgID); err != nil {
		return DwellHeader{}, nil, err
	}
	if msgID != detectionMsgID {
		return DwellHeader{}, nil, fmt.Errorf("wire: unexpected detection message id 0x%04x", msgID)
	}
	if err := binary.Read(r, binary.LittleEndian, &dwellCount); err != nil {
		return DwellHeader{}, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &timestamp); err != nil {
		return DwellHeader{}, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numDetections); err != nil {
		return DwellHeader{}, nil, err
	}

	want := headerLen + int(numDetections)*detectionRecLen
	if len(buf) < want {
		return DwellHeader{}, nil, fmt.Errorf("wire: detection message declares %d detections but only has %d bytes", numDetections, len(buf))
	}

	dets := make([]Detection, numDetections)
	for i := range dets {
		fields := [8]*float64{
			&dets[i].Range, &dets[i].Azimuth, &dets[i].Elevation, &dets[i].Strength,
			&dets[i].Noise, &dets[i].SNR, &dets[i].RCS, &dets[i].MicroDoppler,
		}
		for _, f := range fields {
			if err := binary.Read(r, binary.LittleEndian, f); err != nil {
				return DwellHeader{}, nil, err
			}
		}
	}

	return DwellHeader{DwellCount: dwellCount, Timestamp: timestamp}, dets, nil
}

// EncodeDetectionMessage is the inverse of DecodeDetectionMessage, used by
// the synthetic injector tool to generate test traffic.
func EncodeDetectionMessage(hdr DwellHeader, dets []Detection) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, detectionMsgID)
	binary.Write(buf, binary.LittleEndian, hdr.DwellCount)
	binary.Write(buf, binary.LittleEndian, hdr.Timestamp)
	binary.Write(buf, binary.LittleEndian, uint32(len(dets)))
	for _, d := range dets {
		binary.Write(buf, binary.LittleEndian, d.Range)
		binary.Write(buf, binary.LittleEndian, d.Azimuth)
		binary.Write(buf, binary.LittleEndian, d.Elevation)
		binary.Write(buf, binary.LittleEndian, d.Strength)
		binary.Write(buf, binary.LittleEndian, d.Noise)
		binary.Write(buf, binary.LittleEndian, d.SNR)
		binary.Write(buf, binary.LittleEndian, d.RCS)
		binary.Write(buf, binary.LittleEndian, d.MicroDoppler)
	}
	return buf.Bytes()
}
