package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	trackRecordMsgID uint32 = 0x0002
	trackTableMsgID  uint32 = 0x0003
	trackRecordLen          = 128
)

// TrackStatus mirrors the track lifecycle state carried on the wire.
type TrackStatus uint32

const (
	StatusTentative TrackStatus = iota
	StatusConfirmed
	StatusCoasting
	StatusDeleted
)

// Classification is a coarse target classification carried on the wire.
type Classification uint32

const (
	ClassUnknown Classification = iota
	ClassDroneRotary
	ClassDroneFixedWing
	ClassBird
	ClassClutter
)

// TrackRecord is a single track's snapshot within a Track Table message,
// laid out as a fixed 128-byte packed record.
type TrackRecord struct {
	TrackID        uint32
	Timestamp      uint64
	Status         TrackStatus
	Classification Classification
	Range          float64
	Azimuth        float64
	Elevation      float64
	RangeRate      float64
	X, Y, Z        float64
	VX, VY, VZ     float64
	TrackQuality   float64
	HitCount       uint32
	MissCount      uint32
	Age            uint32
}

// EncodeTrackTable serializes a batch of track records into a Track Table
// message: 4-byte message id (0x0003), 8-byte timestamp, 4-byte track
// count, followed by that many 128-byte packed track records.
func EncodeTrackTable(timestamp uint64, records []TrackRecord) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, trackTableMsgID)
	binary.Write(buf, binary.LittleEndian, timestamp)
	binary.Write(buf, binary.LittleEndian, uint32(len(records)))
	for _, rec := range records {
		buf.Write(encodeTrackRecord(rec))
	}
	return buf.Bytes()
}

func encodeTrackRecord(rec TrackRecord) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, trackRecordMsgID)
	binary.Write(buf, binary.LittleEndian, rec.TrackID)
	binary.Write(buf, binary.LittleEndian, rec.Timestamp)
	binary.Write(buf, binary.LittleEndian, uint32(rec.Status))
	binary.Write(buf, binary.LittleEndian, uint32(rec.Classification))
	binary.Write(buf, binary.LittleEndian, rec.Range)
	binary.Write(buf, binary.LittleEndian, rec.Azimuth)
	binary.Write(buf, binary.LittleEndian, rec.Elevation)
	binary.Write(buf, binary.LittleEndian, rec.RangeRate)
	binary.Write(buf, binary.LittleEndian, rec.X)
	binary.Write(buf, binary.LittleEndian, rec.Y)
	binary.Write(buf, binary.LittleEndian, rec.Z)
	binary.Write(buf, binary.LittleEndian, rec.VX)
	binary.Write(buf, binary.LittleEndian, rec.VY)
	binary.Write(buf, binary.LittleEndian, rec.VZ)
	binary.Write(buf, binary.LittleEndian, rec.TrackQuality)
	binary.Write(buf, binary.LittleEndian, rec.HitCount)
	binary.Write(buf, binary.LittleEndian, rec.MissCount)
	binary.Write(buf, binary.LittleEndian, rec.Age)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // padding to 128 bytes
	out := buf.Bytes()
	if len(out) != trackRecordLen {
		panic(fmt.Sprintf("wire: track record encoded to %d bytes, want %d", len(out), trackRecordLen))
	}
	return out
}

// DecodeTrackTable is the inverse of EncodeTrackTable, used by the binary
// log dumper and by the wire, pipeline and telemetry tests.
func DecodeTrackTable(buf []byte) (uint64, []TrackRecord, error) {
	const headerLen = 4 + 8 + 4
	if len(buf) < headerLen {
		return 0, nil, fmt.Errorf("wire: track table message too short: %d bytes", len(buf))
	}

	r := bytes.NewReader(buf)
	var msgID, numTracks uint32
	var timestamp uint64
	if err := binary.Read(r, binary.LittleEndian, &msgID); err != nil {
		return 0, nil, err
	}
	if msgID != trackTableMsgID {
		return 0, nil, fmt.Errorf("wire: unexpected track table message id 0x%04x", msgID)
	}
	if err := binary.Read(r, binary.LittleEndian, &timestamp); err != nil {
		return 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numTracks); err != nil {
		return 0, nil, err
	}

	want := headerLen + int(numTracks)*trackRecordLen
	if len(buf) < want {
		return 0, nil, fmt.Errorf("wire: track table declares %d records but only has %d bytes", numTracks, len(buf))
	}

	records := make([]TrackRecord, numTracks)
	for i := range records {
		rec, err := decodeTrackRecord(r)
		if err != nil {
			return 0, nil, err
		}
		records[i] = rec
	}
	return timestamp, records, nil
}

func decodeTrackRecord(r *bytes.Reader) (TrackRecord, error) {
	var rec TrackRecord
	var msgID uint32
	var status, classification, padding uint32

	fields := []struct {
		v   interface{}
	}{
		{&msgID}, {&rec.TrackID}, {&rec.Timestamp}, {&status}, {&classification},
		{&rec.Range}, {&rec.Azimuth}, {&rec.Elevation}, {&rec.RangeRate},
		{&rec.X}, {&rec.Y}, {&rec.Z}, {&rec.VX}, {&rec.VY}, {&rec.VZ},
		{&rec.TrackQuality}, {&rec.HitCount}, {&rec.MissCount}, {&rec.Age}, {&padding},
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f.v); err != nil {
			return TrackRecord{}, err
		}
	}
	if msgID != trackRecordMsgID {
		return TrackRecord{}, fmt.Errorf("wire: unexpected track record message id 0x%04x", msgID)
	}
	rec.Status = TrackStatus(status)
	rec.Classification = Classification(classification)
	return rec, nil
}
