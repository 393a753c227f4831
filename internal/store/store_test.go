package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklens/internal/track"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	s := New(db, logger)
	require.NoError(t, s.Init(context.Background()))
	return s
}

func testTrack(t *testing.T, name string) *track.Track {
	t.Helper()
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	points := []track.Point{
		{Latitude: 47.0, Longitude: 8.0, Elevation: track.Float(500), Time: start},
		{Latitude: 47.01, Longitude: 8.01, Elevation: track.Float(510), Time: start.Add(time.Minute)},
		{Latitude: 47.02, Longitude: 8.02, Time: start.Add(2 * time.Minute)},
	}
	tr, err := track.New(name, "gpx", points)
	require.NoError(t, err)
	return tr
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)
	tr := testTrack(t, "morning")

	require.NoError(t, s.Add(context.Background(), tr))

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "morning", e.Summary.Name)
	assert.Equal(t, "gpx", e.Summary.Format)
	assert.Equal(t, 3, e.Summary.Points)
	assert.InDelta(t, tr.TotalDistance(), e.Summary.DistanceKm, 1e-9)
	assert.Equal(t, track.Float(120), e.Summary.Duration)
}

func TestAddReplacesDuplicate(t *testing.T) {
	s := newTestStore(t)
	tr := testTrack(t, "morning")

	require.NoError(t, s.Add(context.Background(), tr))
	require.NoError(t, s.Add(context.Background(), tr))

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "identical point data must replace, not duplicate")
}

func TestGetRoundTripsPoints(t *testing.T) {
	s := newTestStore(t)
	tr := testTrack(t, "morning")
	require.NoError(t, s.Add(context.Background(), tr))

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := s.Get(context.Background(), entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Name(), got.Name())
	assert.Equal(t, tr.Format(), got.Format())
	require.Equal(t, tr.Len(), got.Len())
	for i, p := range tr.Points() {
		assert.Equal(t, p.Latitude, got.Points()[i].Latitude)
		assert.Equal(t, p.Longitude, got.Points()[i].Longitude)
		assert.Equal(t, p.Elevation, got.Points()[i].Elevation)
		assert.True(t, p.Time.Equal(got.Points()[i].Time))
	}
}

func TestNullDurationRoundTrips(t *testing.T) {
	s := newTestStore(t)
	points := []track.Point{
		{Latitude: 47.0, Longitude: 8.0},
		{Latitude: 47.01, Longitude: 8.01},
	}
	tr, err := track.New("timeless", "gpx", points)
	require.NoError(t, err)

	require.NoError(t, s.Add(context.Background(), tr))

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Summary.Duration.Valid)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	tr := testTrack(t, "morning")
	require.NoError(t, s.Add(context.Background(), tr))

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Remove(context.Background(), entries[0].ID))

	entries, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, s.Remove(context.Background(), 42), sql.ErrNoRows)
}
