// Package archive persists live track history to a local sqlite
// database for post-mission review, migrating its schema on open with
// golang-migrate so upgrades to the schema ship as ordinary migration
// files rather than ad hoc ALTER TABLE calls scattered through the code.
package archive

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"cuastracker/internal/track"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Archive is a sqlite-backed store of track history snapshots.
type Archive struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies any pending migrations.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Archive{db: db}, nil
}

func migrateSchema(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("archive: load migrations: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("archive: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("archive: migrate init: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("archive: migrate up: %w", err)
	}
	return nil
}

func (a *Archive) Close() error { return a.db.Close() }

// RecordDwell writes one history row per live track for the given dwell
// timestamp.
func (a *Archive) RecordDwell(timestamp uint64, tracks []*track.Track) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO track_history
		(track_id, timestamp, status, classification, x, y, z, vx, vy, vz, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tracks {
		rec := t.ToRecord(timestamp)
		if _, err := stmt.Exec(rec.TrackID, rec.Timestamp, rec.Status, rec.Classification,
			rec.X, rec.Y, rec.Z, rec.VX, rec.VY, rec.VZ, rec.TrackQuality); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TrackPath is one archived position sample, used by the ground-track
// plotting tool.
type TrackPath struct {
	Timestamp uint64
	X, Y, Z   float64
}

// LoadTrackPath returns every archived position sample for a track id, in
// timestamp order.
func (a *Archive) LoadTrackPath(trackID uint32) ([]TrackPath, error) {
	rows, err := a.db.Query(
		`SELECT timestamp, x, y, z FROM track_history WHERE track_id = ? ORDER BY timestamp ASC`,
		trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var path []TrackPath
	for rows.Next() {
		var p TrackPath
		if err := rows.Scan(&p.Timestamp, &p.X, &p.Y, &p.Z); err != nil {
			return nil, err
		}
		path = append(path, p)
	}
	return path, rows.Err()
}

// TrackIDs returns the distinct track ids present in the archive.
func (a *Archive) TrackIDs() ([]uint32, error) {
	rows, err := a.db.Query(`SELECT DISTINCT track_id FROM track_history ORDER BY track_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
