// Package track holds the canonical track model shared by every parser
// and the per-point metric derivation built on top of it.
package track

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrEmptyTrack is returned when an input was readable but produced no
// usable points. A Track with zero points must not exist.
var ErrEmptyTrack = errors.New("track has no usable points")

// Value is an optional float64. Missing instrument data stays
// distinguishable from a measured zero.
type Value struct {
	Float64 float64
	Valid   bool
}

// Float wraps v as a valid Value.
func Float(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// MarshalJSON renders a null entry as JSON null, never as zero.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// Point is a single sample along a track. Latitude and longitude are
// required; everything else is optional. A zero Time means the sample
// carried no timestamp.
type Point struct {
	Latitude  float64
	Longitude float64
	Elevation Value
	Time      time.Time

	// Barometric altitude from gliding loggers, kept separate from the
	// GPS elevation.
	PressureAltitude Value

	HeartRate   Value
	Power       Value
	Cadence     Value
	Temperature Value
}

// Track owns an ordered, immutable point sequence plus a cache of
// derived channels. Tracks are safe for concurrent derivation.
type Track struct {
	name   string
	format string
	points []Point

	mu       sync.Mutex
	channels map[channelKey]Channel
}

type channelKey struct {
	kind   Kind
	window int
}

// New builds a Track from parsed points. The slice is owned by the
// Track afterwards and must not be modified by the caller.
func New(name, format string, points []Point) (*Track, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	return &Track{
		name:     name,
		format:   format,
		points:   points,
		channels: make(map[channelKey]Channel),
	}, nil
}

func (t *Track) Name() string   { return t.name }
func (t *Track) Format() string { return t.format }
func (t *Track) Len() int       { return len(t.points) }

// Points returns the point sequence. Callers must treat it as read-only.
func (t *Track) Points() []Point { return t.points }

// Bounds is the bounding box of a track.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Bounds returns the bounding box over all points.
func (t *Track) Bounds() Bounds {
	b := Bounds{
		MinLat: t.points[0].Latitude,
		MaxLat: t.points[0].Latitude,
		MinLon: t.points[0].Longitude,
		MaxLon: t.points[0].Longitude,
	}
	for _, p := range t.points[1:] {
		if p.Latitude < b.MinLat {
			b.MinLat = p.Latitude
		}
		if p.Latitude > b.MaxLat {
			b.MaxLat = p.Latitude
		}
		if p.Longitude < b.MinLon {
			b.MinLon = p.Longitude
		}
		if p.Longitude > b.MaxLon {
			b.MaxLon = p.Longitude
		}
	}
	return b
}

// Center returns the midpoint of the bounding box.
func (t *Track) Center() (lat, lon float64) {
	b := t.Bounds()
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Summary carries the per-track stats consumed by the track manager,
// the map renderer and the collection store.
type Summary struct {
	Name       string
	Format     string
	Points     int
	DistanceKm float64
	// Duration in seconds; null when an endpoint timestamp is missing.
	Duration Value
}

// Summary computes the track's summary stats.
func (t *Track) Summary() Summary {
	return Summary{
		Name:       t.name,
		Format:     t.format,
		Points:     len(t.points),
		DistanceKm: t.TotalDistance(),
		Duration:   t.Duration(),
	}
}
