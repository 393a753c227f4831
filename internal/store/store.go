// Package store persists parsed tracks in a local SQLite collection.
package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"tracklens/internal/track"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Init creates the collection schema if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS tracks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT,
        format TEXT,
        distance REAL,
        duration REAL,
        point_count INTEGER,
        points BLOB,
        points_hash TEXT UNIQUE,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`)
	return err
}

// Entry is one stored track row, without its point blob.
type Entry struct {
	ID      int64
	Summary track.Summary
	Created time.Time
}

// Add stores a track. Re-adding a track with identical points replaces
// the stored row.
func (s *Store) Add(ctx context.Context, t *track.Track) error {
	var buffer bytes.Buffer
	enc := gob.NewEncoder(&buffer)
	if err := enc.Encode(t.Points()); err != nil {
		return fmt.Errorf("encoding points: %w", err)
	}
	blob := buffer.Bytes()

	sha := sha256.Sum256(blob)
	hash := hex.EncodeToString(sha[:])

	existingRow := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks WHERE points_hash = ?", hash)
	var count int
	if err := existingRow.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM tracks WHERE points_hash = ?", hash); err != nil {
			return err
		}
		s.logger.Info("Replaced existing track", slog.String("hash", hash))
	}

	sum := t.Summary()
	duration := sql.NullFloat64{Float64: sum.Duration.Float64, Valid: sum.Duration.Valid}

	res, err := s.db.ExecContext(ctx, `
    INSERT INTO tracks
    (name, format, distance, duration, point_count, points, points_hash)
    VALUES
    (?, ?, ?, ?, ?, ?, ?)`,
		sum.Name,
		sum.Format,
		sum.DistanceKm,
		duration,
		sum.Points,
		blob,
		hash,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", affected)
	}

	return nil
}

// List returns the stored summaries in insertion order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, format, distance, duration, point_count, created_at FROM tracks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var duration sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Summary.Name, &e.Summary.Format, &e.Summary.DistanceKm,
			&duration, &e.Summary.Points, &e.Created); err != nil {
			return nil, err
		}
		if duration.Valid {
			e.Summary.Duration = track.Float(duration.Float64)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Get rebuilds the full track for one row.
func (s *Store) Get(ctx context.Context, id int64) (*track.Track, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, format, points FROM tracks WHERE id = ?", id)

	var name, format string
	var blob []byte
	if err := row.Scan(&name, &format, &blob); err != nil {
		return nil, err
	}

	var points []track.Point
	dec := gob.NewDecoder(bytes.NewBuffer(blob))
	if err := dec.Decode(&points); err != nil {
		return nil, fmt.Errorf("decoding points: %w", err)
	}

	return track.New(name, format, points)
}

// Remove deletes one row; the track's derived-channel cache goes with
// it.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
