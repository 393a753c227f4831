package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklens/internal/track"
)

const gpxFixture = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"
     xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
  <trk>
    <name>Morning Ride</name>
    <trkseg>
      <trkpt lat="47.0" lon="8.0">
        <ele>500</ele>
        <time>2024-05-01T06:00:00Z</time>
        <extensions>
          <gpxtpx:TrackPointExtension>
            <gpxtpx:hr>120</gpxtpx:hr>
            <gpxtpx:cad>80</gpxtpx:cad>
            <gpxtpx:atemp>18.5</gpxtpx:atemp>
          </gpxtpx:TrackPointExtension>
          <power>250</power>
        </extensions>
      </trkpt>
      <trkpt lat="47.001" lon="8.001">
        <ele>505</ele>
        <time>2024-05-01T06:00:10Z</time>
      </trkpt>
      <trkpt lon="8.002">
        <ele>510</ele>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParseGPX(t *testing.T) {
	tr, err := ParseGPX("ride.gpx", []byte(gpxFixture))
	require.NoError(t, err)

	assert.Equal(t, "Morning Ride", tr.Name())
	assert.Equal(t, "gpx", tr.Format())
	// The point without a lat attribute is dropped, not kept with a
	// null coordinate.
	require.Equal(t, 2, tr.Len())

	p := tr.Points()[0]
	assert.Equal(t, 47.0, p.Latitude)
	assert.Equal(t, 8.0, p.Longitude)
	assert.Equal(t, track.Float(500), p.Elevation)
	assert.Equal(t, time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC), p.Time)
	assert.Equal(t, track.Float(120), p.HeartRate)
	assert.Equal(t, track.Float(80), p.Cadence)
	assert.Equal(t, track.Float(18.5), p.Temperature)
	assert.Equal(t, track.Float(250), p.Power)

	second := tr.Points()[1]
	assert.False(t, second.HeartRate.Valid)
	assert.False(t, second.Power.Valid)
}

func TestParseGPXRouteFallback(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <rte>
    <name>Planned</name>
    <rtept lat="47.0" lon="8.0"></rtept>
    <rtept lat="47.1" lon="8.1"></rtept>
  </rte>
</gpx>`

	tr, err := ParseGPX("route.gpx", []byte(doc))
	require.NoError(t, err)
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, "route.gpx", tr.Name())
	assert.False(t, tr.Points()[0].Elevation.Valid)
	assert.True(t, tr.Points()[0].Time.IsZero())
}

func TestParseGPXWaypointFallback(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <wpt lat="47.0" lon="8.0"><ele>1200</ele></wpt>
</gpx>`

	tr, err := ParseGPX("peaks.gpx", []byte(doc))
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, track.Float(1200), tr.Points()[0].Elevation)
}

func TestParseGPXErrors(t *testing.T) {
	t.Run("malformed xml", func(t *testing.T) {
		_, err := ParseGPX("broken.gpx", []byte("<gpx><trk>"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "gpx", perr.Format)
	})

	t.Run("no points", func(t *testing.T) {
		_, err := ParseGPX("empty.gpx", []byte(`<gpx version="1.1" creator="test"></gpx>`))
		assert.ErrorIs(t, err, track.ErrEmptyTrack)
	})

	t.Run("all points dropped", func(t *testing.T) {
		doc := `<gpx version="1.1" creator="test"><trk><trkseg>
			<trkpt lon="8.0"></trkpt>
			<trkpt lat="47.0"></trkpt>
		</trkseg></trk></gpx>`
		_, err := ParseGPX("dropped.gpx", []byte(doc))
		assert.ErrorIs(t, err, track.ErrEmptyTrack)
	})
}
