package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/tkrajina/gpxgo/gpx"

	"tracklens/internal/parser"
)

// Export converts any supported track file to GPX 1.1. Channels without
// a GPX home (pressure altitude, instrument data) are not carried over.
func (c *CLI) Export() error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var (
		file string
		out  string
	)
	fs.StringVar(&file, "file", "", "path to track file")
	fs.StringVar(&out, "out", "track.gpx", "output GPX path")
	fs.Usage = c.Usage
	if err := fs.Parse(c.args[1:]); err != nil {
		return err
	}
	if file == "" {
		fs.Usage()
		return nil
	}

	t, err := parser.ParseFile(file)
	if err != nil {
		return err
	}

	doc := &gpx.GPX{
		Creator: "tracklens",
		Name:    t.Name(),
	}
	var segment gpx.GPXTrackSegment
	for _, p := range t.Points() {
		gp := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
			},
			Timestamp: p.Time,
		}
		if p.Elevation.Valid {
			gp.Elevation = *gpx.NewNullableFloat64(p.Elevation.Float64)
		}
		segment.Points = append(segment.Points, gp)
	}
	doc.Tracks = []gpx.GPXTrack{{
		Name:     t.Name(),
		Segments: []gpx.GPXTrackSegment{segment},
	}}

	data, err := gpx.ToXml(doc, gpx.ToXmlParams{Indent: true})
	if err != nil {
		return fmt.Errorf("encoding gpx: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(c.writer, "Wrote %s\n", out)
	return nil
}
