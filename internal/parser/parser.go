// Package parser turns raw GPS log files into canonical tracks. One
// parser exists per on-disk format; dispatch is by file extension.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tracklens/internal/track"
)

// Func parses one file's content into a track. name becomes the track's
// display name.
type Func func(name string, data []byte) (*track.Track, error)

// ErrUnknownFormat is returned when no parser is registered for a
// file's extension.
var ErrUnknownFormat = errors.New("unknown track format")

var formats = map[string]Func{
	".gpx": ParseGPX,
	".igc": ParseIGC,
	".tcx": ParseTCX,
}

// Extensions lists the registered file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse dispatches on the lowercased extension. name is used as the
// track's display name.
func Parse(name, ext string, data []byte) (*track.Track, error) {
	fn, ok := formats[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return fn(name, data)
}

// ParseFile reads path eagerly and parses it by extension.
func ParseFile(path string) (*track.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading track file: %w", err)
	}
	name := filepath.Base(path)
	return Parse(name, filepath.Ext(path), data)
}
