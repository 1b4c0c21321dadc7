package binlog

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	records := []Record{
		{Type: RecordDwellRaw, Timestamp: 1, Payload: []byte("dwell-1")},
		{Type: RecordTrackTable, Timestamp: 2, Payload: []byte("tracks-2")},
	}
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "session-"+w.Session.String()+".bin")
	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, want := range records {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Timestamp, got.Timestamp)
		assert.Equal(t, want.Payload, got.Payload)
	}

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Type: RecordDwellRaw, Timestamp: 1, Payload: []byte("x")}))
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "session-"+w.Session.String()+".bin")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF // flip a byte in the trailing CRC
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Error(t, err)
}
