// Package colorscale maps derived channel values to display colors.
package colorscale

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"tracklens/internal/track"
)

// Plain is the rotating per-track palette used when no channel drives
// the color. Index wraps modulo the palette size.
var Plain = []drawing.Color{
	{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}, // red
	{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}, // blue
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}, // lime
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}, // magenta
	{R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF}, // orange
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}, // cyan
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}, // yellow
	{R: 0x80, G: 0x00, B: 0x80, A: 0xFF}, // purple
	{R: 0xFF, G: 0xC0, B: 0xCB, A: 0xFF}, // pink
	{R: 0xA5, G: 0x2A, B: 0x2A, A: 0xFF}, // brown
}

// PlainColor returns the fixed per-track color for index i.
func PlainColor(i int) drawing.Color {
	n := len(Plain)
	return Plain[((i%n)+n)%n]
}

// NoData marks null channel entries. Nulls never map to an extrapolated
// or zero-position color.
var NoData = drawing.Color{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}

// Named gradient palettes, ordered low to high.
var Gradients = map[string][]drawing.Color{
	"bluered": {
		{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
		{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	},
	"elevation": {
		{R: 0x22, G: 0x8B, B: 0x22, A: 0xFF},
		{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF},
		{R: 0x8B, G: 0x45, B: 0x13, A: 0xFF},
	},
}

// Scale maps channel values into a gradient over [Min, Max].
type Scale struct {
	Min, Max float64
	Stops    []drawing.Color
	NoData   drawing.Color
}

// FromChannel builds a scale whose range covers the channel's non-null
// values.
func FromChannel(ch track.Channel, stops []drawing.Color) Scale {
	s := Scale{Stops: stops, NoData: NoData}
	first := true
	for _, v := range ch.Values {
		if !v.Valid {
			continue
		}
		if first {
			s.Min, s.Max = v.Float64, v.Float64
			first = false
			continue
		}
		s.Min = math.Min(s.Min, v.Float64)
		s.Max = math.Max(s.Max, v.Float64)
	}
	return s
}

// Color maps one value. Nulls get the no-data color; a degenerate range
// short-circuits to the first stop.
func (s Scale) Color(v track.Value) drawing.Color {
	if !v.Valid {
		return s.NoData
	}
	if s.Min == s.Max {
		return s.Stops[0]
	}
	t := (v.Float64 - s.Min) / (s.Max - s.Min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(s.Stops)-1)
	i := int(pos)
	if i >= len(s.Stops)-1 {
		return s.Stops[len(s.Stops)-1]
	}
	return lerp(s.Stops[i], s.Stops[i+1], pos-float64(i))
}

// Map returns a color per channel entry, aligned to the point sequence.
func (s Scale) Map(ch track.Channel) []drawing.Color {
	colors := make([]drawing.Color, len(ch.Values))
	for i, v := range ch.Values {
		colors[i] = s.Color(v)
	}
	return colors
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	return drawing.Color{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: lerp8(a.A, b.A, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
