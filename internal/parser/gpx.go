package parser

import (
	"encoding/xml"
	"time"

	"tracklens/internal/track"
)

// GPX document subset. Coordinates are pointers so that a trkpt missing
// its lat or lon attribute is detectable and can be dropped instead of
// silently becoming 0°.
type gpxFile struct {
	XMLName   xml.Name   `xml:"gpx"`
	Tracks    []gpxTrk   `xml:"trk"`
	Routes    []gpxRte   `xml:"rte"`
	Waypoints []gpxPoint `xml:"wpt"`
}

type gpxTrk struct {
	Name     string   `xml:"name"`
	Segments []gpxSeg `xml:"trkseg"`
}

type gpxSeg struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRte struct {
	Name   string     `xml:"name"`
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat        *float64 `xml:"lat,attr"`
	Lon        *float64 `xml:"lon,attr"`
	Elevation  *float64 `xml:"ele"`
	Time       string   `xml:"time"`
	Extensions gpxExt   `xml:"extensions"`
}

// Garmin TrackPointExtension channels. Some writers nest them under a
// TrackPointExtension element, others emit them as direct children of
// extensions; both layouts occur in the wild and both are read.
type gpxExt struct {
	TPX *gpxTPX `xml:"TrackPointExtension"`

	HeartRate   *float64 `xml:"hr"`
	Cadence     *float64 `xml:"cad"`
	Temperature *float64 `xml:"atemp"`
	Power       *float64 `xml:"power"`
}

type gpxTPX struct {
	HeartRate   *float64 `xml:"hr"`
	Cadence     *float64 `xml:"cad"`
	Temperature *float64 `xml:"atemp"`
	Power       *float64 `xml:"power"`
}

// ParseGPX parses a tagged-XML track file. Track points flatten into
// one sequence in document order; when the file has no track points,
// route points and then waypoints are used instead.
func ParseGPX(name string, data []byte) (*track.Track, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, parseErrorf("gpx", 0, err, "decoding document: %v", err)
	}

	var points []track.Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			points = appendGPXPoints(points, seg.Points)
		}
	}
	if len(points) == 0 {
		for _, rte := range doc.Routes {
			points = appendGPXPoints(points, rte.Points)
		}
	}
	if len(points) == 0 {
		points = appendGPXPoints(points, doc.Waypoints)
	}

	if len(doc.Tracks) > 0 && doc.Tracks[0].Name != "" {
		name = doc.Tracks[0].Name
	}
	return track.New(name, "gpx", points)
}

func appendGPXPoints(dst []track.Point, src []gpxPoint) []track.Point {
	for _, gp := range src {
		if gp.Lat == nil || gp.Lon == nil {
			// Coordinates are the one non-optional field.
			continue
		}
		p := track.Point{
			Latitude:  *gp.Lat,
			Longitude: *gp.Lon,
		}
		if gp.Elevation != nil {
			p.Elevation = track.Float(*gp.Elevation)
		}
		if gp.Time != "" {
			if ts, err := time.Parse(time.RFC3339, gp.Time); err == nil {
				p.Time = ts.UTC()
			}
		}
		applyGPXExtensions(&p, gp.Extensions)
		dst = append(dst, p)
	}
	return dst
}

func applyGPXExtensions(p *track.Point, ext gpxExt) {
	hr, cad, temp, pow := ext.HeartRate, ext.Cadence, ext.Temperature, ext.Power
	if ext.TPX != nil {
		if hr == nil {
			hr = ext.TPX.HeartRate
		}
		if cad == nil {
			cad = ext.TPX.Cadence
		}
		if temp == nil {
			temp = ext.TPX.Temperature
		}
		if pow == nil {
			pow = ext.TPX.Power
		}
	}
	if hr != nil {
		p.HeartRate = track.Float(*hr)
	}
	if cad != nil {
		p.Cadence = track.Float(*cad)
	}
	if temp != nil {
		p.Temperature = track.Float(*temp)
	}
	if pow != nil {
		p.Power = track.Float(*pow)
	}
}
