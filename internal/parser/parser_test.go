package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDispatchesByExtension(t *testing.T) {
	tr, err := Parse("flight.igc", ".igc", []byte(igcFixture))
	require.NoError(t, err)
	assert.Equal(t, "igc", tr.Format())

	// Extension matching is case-insensitive.
	tr, err = Parse("ride.gpx", ".GPX", []byte(gpxFixture))
	require.NoError(t, err)
	assert.Equal(t, "gpx", tr.Format())
}

func TestParseUnknownExtension(t *testing.T) {
	_, err := Parse("activity.fit", ".fit", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flight.igc")
	require.NoError(t, os.WriteFile(path, []byte(igcFixture), 0644))

	tr, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flight.igc", tr.Name())
	assert.Equal(t, 3, tr.Len())
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.gpx"))
	assert.Error(t, err)
}
