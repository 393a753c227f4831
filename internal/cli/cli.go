// Package cli implements the tracklens command line and its small
// read-only HTTP API.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tracklens/internal/parser"
	"tracklens/internal/store"
	"tracklens/internal/track"
)

type CLI struct {
	writer io.Writer
	store  *store.Store
	logger *slog.Logger
	args   []string
}

func New(w io.Writer, st *store.Store, logger *slog.Logger, args []string) *CLI {
	return &CLI{
		writer: w,
		store:  st,
		logger: logger,
		args:   args,
	}
}

func (c *CLI) Run(args []string) error {
	if len(args) == 0 {
		c.Usage()
		return nil
	}

	switch args[0] {
	case "add":
		return c.Add()
	case "list":
		return c.List()
	case "show":
		return c.Show()
	case "chart":
		return c.Chart()
	case "render":
		return c.Render()
	case "export":
		return c.Export()
	case "rm":
		return c.Remove()
	case "api":
		return c.RunAPI(context.Background())
	default:
		c.Usage()
	}
	return nil
}

func (c *CLI) Usage() {
	fmt.Fprintf(c.writer, `Usage: tracklens [command] [flags]

	add <files...>           parse %s files and store them
	list                     list stored tracks
	show --file <path>       print a track's summary
	chart --file <path> --x <channel> --y <channel> [--smooth N] --out <png>
	render --file <path> [--channel <name>] [--palette <name>] --out <svg>
	export --file <path> --out <gpx>
	rm --id <id>             remove a stored track
	api [--addr :8222]       serve the track collection
`, strings.Join(parser.Extensions(), "/"))
}

// Add parses every named file and stores it. A file that fails to
// parse is reported and skipped; it never aborts the rest of the batch.
func (c *CLI) Add() error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fs.Usage = c.Usage
	if err := fs.Parse(c.args[1:]); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return nil
	}

	var failures []error
	for _, file := range files {
		t, err := parser.ParseFile(file)
		if err != nil {
			c.logger.Error("Error parsing track", slog.String("file", file), slog.Any("error", err))
			failures = append(failures, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if err := c.store.Add(context.Background(), t); err != nil {
			c.logger.Error("Error storing track", slog.String("file", file), slog.Any("error", err))
			failures = append(failures, fmt.Errorf("%s: %w", file, err))
			continue
		}
		c.printSummary(t.Summary())
	}

	return errors.Join(failures...)
}

func (c *CLI) List() error {
	entries, err := c.store.List(context.Background())
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(c.writer, "%4d  %-30s %-4s %6d pts  %8.2f km  %s\n",
			e.ID, e.Summary.Name, e.Summary.Format, e.Summary.Points,
			e.Summary.DistanceKm, formatDuration(e.Summary.Duration))
	}
	return nil
}

func (c *CLI) Show() error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	var file string
	fs.StringVar(&file, "file", "", "path to track file")
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
	c.printSummary(t.Summary())

	b := t.Bounds()
	fmt.Fprintf(c.writer, "bounds: %.5f..%.5f lat, %.5f..%.5f lon\n",
		b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	return nil
}

func (c *CLI) Remove() error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	var id int64
	fs.Int64Var(&id, "id", 0, "stored track id")
	fs.Usage = c.Usage
	if err := fs.Parse(c.args[1:]); err != nil {
		return err
	}
	if id == 0 {
		fs.Usage()
		return nil
	}
	if err := c.store.Remove(context.Background(), id); err != nil {
		return fmt.Errorf("removing track %d: %w", id, err)
	}
	fmt.Fprintf(c.writer, "Removed track %d\n", id)
	return nil
}

func (c *CLI) printSummary(sum track.Summary) {
	fmt.Fprintf(c.writer, "%s (%s): %d points, %.2f km, %s\n",
		sum.Name, sum.Format, sum.Points, sum.DistanceKm, formatDuration(sum.Duration))
}

func formatDuration(d track.Value) string {
	if !d.Valid {
		return "duration unknown"
	}
	secs := int64(d.Float64)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// channelKind resolves a user-facing channel name.
func channelKind(name string) (track.Kind, bool) {
	switch strings.ToLower(name) {
	case "distance":
		return track.Distance, true
	case "elapsed", "time":
		return track.Elapsed, true
	case "speed":
		return track.Speed, true
	case "vspeed", "verticalspeed":
		return track.VerticalSpeed, true
	case "altitude", "elevation":
		return track.Altitude, true
	case "heartrate", "hr":
		return track.HeartRate, true
	case "power":
		return track.Power, true
	case "cadence":
		return track.Cadence, true
	case "temperature", "temp":
		return track.Temperature, true
	}
	return 0, false
}
