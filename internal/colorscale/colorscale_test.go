package colorscale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"tracklens/internal/track"
)

func channelOf(vals ...track.Value) track.Channel {
	return track.Channel{Kind: track.Speed, Values: vals}
}

func TestPlainColorWraps(t *testing.T) {
	assert.Equal(t, Plain[0], PlainColor(0))
	assert.Equal(t, Plain[3], PlainColor(3))
	assert.Equal(t, Plain[0], PlainColor(len(Plain)))
	assert.Equal(t, Plain[1], PlainColor(len(Plain)+1))
	assert.Equal(t, Plain[len(Plain)-1], PlainColor(-1))
}

func TestScaleEndpointsAndMidpoint(t *testing.T) {
	ch := channelOf(track.Float(0), track.Float(5), track.Float(10))
	s := FromChannel(ch, Gradients["bluered"])

	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 10.0, s.Max)

	blue := Gradients["bluered"][0]
	red := Gradients["bluered"][1]
	assert.Equal(t, blue, s.Color(track.Float(0)))
	assert.Equal(t, red, s.Color(track.Float(10)))

	mid := s.Color(track.Float(5))
	assert.Equal(t, drawing.Color{R: 128, G: 0, B: 128, A: 255}, mid)
}

func TestScaleClampsOutOfRange(t *testing.T) {
	ch := channelOf(track.Float(0), track.Float(10))
	s := FromChannel(ch, Gradients["bluered"])

	assert.Equal(t, s.Color(track.Float(0)), s.Color(track.Float(-100)))
	assert.Equal(t, s.Color(track.Float(10)), s.Color(track.Float(1e9)))
}

func TestScaleThreeStopGradient(t *testing.T) {
	ch := channelOf(track.Float(0), track.Float(10))
	stops := Gradients["elevation"]
	s := FromChannel(ch, stops)

	// The middle of the range lands exactly on the middle stop.
	assert.Equal(t, stops[1], s.Color(track.Float(5)))
	assert.Equal(t, stops[0], s.Color(track.Float(0)))
	assert.Equal(t, stops[2], s.Color(track.Float(10)))
}

func TestScaleNullMapsToNoData(t *testing.T) {
	ch := channelOf(track.Float(1), track.Value{}, track.Float(3))
	s := FromChannel(ch, Gradients["bluered"])

	colors := s.Map(ch)
	require.Len(t, colors, 3)
	assert.Equal(t, NoData, colors[1])
	assert.NotEqual(t, NoData, colors[0])
}

func TestScaleDegenerateRange(t *testing.T) {
	// Every value equal: no division by zero, every color is the
	// anchor stop.
	ch := channelOf(track.Float(5), track.Float(5), track.Float(5))
	s := FromChannel(ch, Gradients["bluered"])

	assert.Equal(t, s.Min, s.Max)
	for _, c := range s.Map(ch) {
		assert.Equal(t, Gradients["bluered"][0], c)
	}
}

func TestScaleRangeIgnoresNulls(t *testing.T) {
	ch := channelOf(track.Value{}, track.Float(2), track.Float(8), track.Value{})
	s := FromChannel(ch, Gradients["bluered"])

	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 8.0, s.Max)
}

func TestScaleAllNullChannel(t *testing.T) {
	ch := channelOf(track.Value{}, track.Value{})
	s := FromChannel(ch, Gradients["bluered"])

	for _, c := range s.Map(ch) {
		assert.Equal(t, NoData, c)
	}
}
