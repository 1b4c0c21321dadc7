// Package binlog implements the tracker's binary session log: a framed
// sequence of records (detections in, clusters, associations, track table
// snapshots, lifecycle events) written for offline replay and debugging,
// one file per run named by a UUID session id.
package binlog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// magic identifies a well-formed record header.
const magic uint32 = 0xCAFEBABE

// RecordType enumerates the kinds of record a session log can hold.
type RecordType uint32

const (
	RecordDwellRaw RecordType = iota
	RecordDwellFiltered
	RecordClusters
	RecordPredicted
	RecordAssociations
	RecordTrackInitiated
	RecordTrackUpdate
	RecordTrackDeleted
	RecordTrackTable
)

// Record is one framed entry in the log: a header plus an opaque payload
// whose interpretation depends on Type.
type Record struct {
	Type      RecordType
	Timestamp uint64
	Payload   []byte
}

const headerLen = 4 + 4 + 8 + 4 // magic + type + timestamp + payloadSize

// Writer appends framed, CRC-checked records to a session log file.
type Writer struct {
	f       *os.File
	w       *bufio.Writer
	Session uuid.UUID
}

// NewWriter creates a new session log file under dir, named by a fresh
// session UUID, and returns a Writer appending to it.
func NewWriter(dir string) (*Writer, error) {
	session := uuid.New()
	path := filepath.Join(dir, fmt.Sprintf("session-%s.bin", session.String()))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("binlog: cannot create %s: %w", path, err)
	}

	return &Writer{f: f, w: bufio.NewWriter(f), Session: session}, nil
}

// Write appends a record: header, payload, then a trailing CRC32 of the
// header+payload for corruption detection on read.
func (w *Writer) Write(rec Record) error {
	var hdr [headerLen]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magic)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(rec.Type))
	binary.LittleEndian.PutUint64(hdr[8:16], rec.Timestamp)
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(len(rec.Payload)))

	crc := crc32.NewIEEE()
	crc.Write(hdr[:])
	crc.Write(rec.Payload)

	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(rec.Payload); err != nil {
		return err
	}
	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc.Sum32())
	if _, err := w.w.Write(sum[:]); err != nil {
		return err
	}
	return nil
}

func (w *Writer) Flush() error { return w.w.Flush() }

func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Reader replays records from a session log file, verifying each record's
// CRC before returning it.
type Reader struct {
	r *bufio.Reader
	f *os.File
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binlog: cannot open %s: %w", path, err)
	}
	return &Reader{r: bufio.NewReader(f), f: f}, nil
}

func (r *Reader) Close() error { return r.f.Close() }

// Next reads the next record, returning io.EOF when the file is exhausted.
func (r *Reader) Next() (Record, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return Record{}, err
	}

	gotMagic := binary.LittleEndian.Uint32(hdr[0:4])
	if gotMagic != magic {
		return Record{}, fmt.Errorf("binlog: bad magic 0x%08x", gotMagic)
	}
	rec := Record{
		Type:      RecordType(binary.LittleEndian.Uint32(hdr[4:8])),
		Timestamp: binary.LittleEndian.Uint64(hdr[8:16]),
	}
	payloadLen := binary.LittleEndian.Uint32(hdr[16:20])

	rec.Payload = make([]byte, payloadLen)
	if _, err := io.ReadFull(r.r, rec.Payload); err != nil {
		return Record{}, err
	}

	var sum [4]byte
	if _, err := io.ReadFull(r.r, sum[:]); err != nil {
		return Record{}, err
	}
	crc := crc32.NewIEEE()
	crc.Write(hdr[:])
	crc.Write(rec.Payload)
	if binary.LittleEndian.Uint32(sum[:]) != crc.Sum32() {
		return Record{}, fmt.Errorf("binlog: crc mismatch on %s record at timestamp %d", rec.Type, rec.Timestamp)
	}

	return rec, nil
}

func (t RecordType) String() string {
	names := [...]string{
		"DwellRaw", "DwellFiltered", "Clusters", "Predicted", "Associations",
		"TrackInitiated", "TrackUpdate", "TrackDeleted", "TrackTable",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("RecordType(%d)", t)
}
