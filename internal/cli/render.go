package cli

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"tracklens/internal/colorscale"
	"tracklens/internal/parser"
	"tracklens/internal/track"
)

// Render writes the track path as an SVG, colored per point either by
// the rotating plain palette or by a gradient over a derived channel.
func (c *CLI) Render() error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var (
		file    string
		channel string
		palette string
		smooth  int
		width   int
		out     string
	)
	fs.StringVar(&file, "file", "", "path to track file")
	fs.StringVar(&channel, "channel", "plain", "color channel, or 'plain' for a fixed color")
	fs.StringVar(&palette, "palette", "bluered", "gradient palette: bluered or elevation")
	fs.IntVar(&smooth, "smooth", 1, "odd moving-average window for the color channel")
	fs.IntVar(&width, "width", 800, "SVG width in pixels")
	fs.StringVar(&out, "out", "track.svg", "output SVG path")
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

	colors, err := pointColors(t, channel, palette, smooth)
	if err != nil {
		return err
	}

	svg, err := renderSVG(t, colors, width)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Fprintf(c.writer, "Wrote %s\n", out)
	return nil
}

func pointColors(t *track.Track, channel, palette string, smooth int) ([]drawing.Color, error) {
	if channel == "plain" {
		colors := make([]drawing.Color, t.Len())
		for i := range colors {
			colors[i] = colorscale.PlainColor(0)
		}
		return colors, nil
	}

	kind, ok := channelKind(channel)
	if !ok {
		return nil, fmt.Errorf("unknown color channel %q", channel)
	}
	stops, ok := colorscale.Gradients[palette]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", palette)
	}
	ch, err := t.Smoothed(kind, smooth)
	if err != nil {
		return nil, err
	}
	return colorscale.FromChannel(ch, stops).Map(ch), nil
}

// renderSVG projects the track equirectangularly into the viewport and
// strokes each segment with the color of its end point.
func renderSVG(t *track.Track, colors []drawing.Color, width int) (string, error) {
	b := t.Bounds()
	centerLat, _ := t.Center()

	// Longitude degrees shrink with latitude; correct the aspect so the
	// path is not stretched east-west.
	lonScale := math.Cos(centerLat * math.Pi / 180)
	spanLon := (b.MaxLon - b.MinLon) * lonScale
	spanLat := b.MaxLat - b.MinLat
	if spanLon == 0 {
		spanLon = 1e-9
	}
	if spanLat == 0 {
		spanLat = 1e-9
	}

	height := int(float64(width) * spanLat / spanLon)
	if height < 1 {
		height = 1
	}

	project := func(p track.Point) (float64, float64) {
		x := (p.Longitude - b.MinLon) * lonScale / spanLon * float64(width)
		y := (b.MaxLat - p.Latitude) / spanLat * float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&sb, `<title>%s</title>`+"\n", t.Name())

	points := t.Points()
	for i := 1; i < len(points); i++ {
		x1, y1 := project(points[i-1])
		x2, y2 := project(points[i])
		fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2" stroke-linecap="round"/>`+"\n",
			x1, y1, x2, y2, svgHex(colors[i]))
	}
	sb.WriteString("</svg>\n")

	return sb.String(), nil
}

func svgHex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
