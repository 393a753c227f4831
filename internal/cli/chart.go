package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"tracklens/internal/colorscale"
	"tracklens/internal/parser"
	"tracklens/internal/track"
)

// Chart renders a y-channel against an x-channel as a PNG line chart.
func (c *CLI) Chart() error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	var (
		file   string
		xName  string
		yName  string
		smooth int
		out    string
	)
	fs.StringVar(&file, "file", "", "path to track file")
	fs.StringVar(&xName, "x", "distance", "x channel: distance, elapsed or index")
	fs.StringVar(&yName, "y", "altitude", "y channel: altitude, speed, vspeed, heartrate, power, cadence or temperature")
	fs.IntVar(&smooth, "smooth", 1, "odd moving-average window for the y channel")
	fs.StringVar(&out, "out", "chart.png", "output PNG path")
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

	yKind, ok := channelKind(yName)
	if !ok {
		return fmt.Errorf("unknown y channel %q", yName)
	}
	ych, err := t.Smoothed(yKind, smooth)
	if err != nil {
		return err
	}

	xs, ys, err := chartSeries(t, xName, ych)
	if err != nil {
		return err
	}
	if len(xs) < 2 {
		return fmt.Errorf("track %s has too few %s samples to chart", t.Name(), ych.Kind)
	}

	graph := chart.Chart{
		Title: t.Name(),
		XAxis: chart.XAxis{Name: chartAxisName(xName)},
		YAxis: chart.YAxis{Name: fmt.Sprintf("%s (%s)", ych.Kind, ych.Kind.Unit())},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    t.Name(),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colorscale.PlainColor(0),
					StrokeWidth: 1.5,
				},
			},
		},
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	fmt.Fprintf(c.writer, "Wrote %s\n", out)
	return nil
}

// chartSeries pairs the x and y channels, keeping only indices where
// both are non-null.
func chartSeries(t *track.Track, xName string, ych track.Channel) (xs, ys []float64, err error) {
	var xch track.Channel
	switch xName {
	case "index":
		vals := make([]track.Value, t.Len())
		for i := range vals {
			vals[i] = track.Float(float64(i))
		}
		xch = track.Channel{Values: vals}
	case "distance":
		xch = t.Channel(track.Distance)
	case "elapsed", "time":
		xch = t.Channel(track.Elapsed)
	default:
		return nil, nil, fmt.Errorf("unknown x channel %q", xName)
	}

	for i := range ych.Values {
		if !xch.Values[i].Valid || !ych.Values[i].Valid {
			continue
		}
		xs = append(xs, xch.Values[i].Float64)
		ys = append(ys, ych.Values[i].Float64)
	}
	return xs, ys, nil
}

func chartAxisName(xName string) string {
	switch xName {
	case "index":
		return "point index"
	case "elapsed", "time":
		return "elapsed (s)"
	default:
		return "distance (km)"
	}
}
