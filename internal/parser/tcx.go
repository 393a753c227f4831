package parser

import (
	"encoding/xml"
	"time"

	"tracklens/internal/track"
)

// Training Center XML subset. Lap and Track containers exist only for
// navigation; their boundaries are not preserved in the canonical point
// sequence.
type tcxFile struct {
	XMLName    xml.Name      `xml:"TrainingCenterDatabase"`
	Activities []tcxActivity `xml:"Activities>Activity"`
}

type tcxActivity struct {
	ID   string   `xml:"Id"`
	Laps []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	Tracks []tcxTrack `xml:"Track"`
}

type tcxTrack struct {
	Points []tcxPoint `xml:"Trackpoint"`
}

type tcxPoint struct {
	Time      string       `xml:"Time"`
	Position  *tcxPosition `xml:"Position"`
	Altitude  *float64     `xml:"AltitudeMeters"`
	HeartRate *tcxValue    `xml:"HeartRateBpm"`
	Cadence   *float64     `xml:"Cadence"`
	Watts     *float64     `xml:"Extensions>TPX>Watts"`
}

type tcxPosition struct {
	Latitude  float64 `xml:"LatitudeDegrees"`
	Longitude float64 `xml:"LongitudeDegrees"`
}

type tcxValue struct {
	Value float64 `xml:"Value"`
}

// ParseTCX parses a training-center XML file. Points from every
// activity, lap and track flatten into one ordered sequence; a
// trackpoint without a position is dropped. Missing optional fields
// become null channel entries, never a failure.
func ParseTCX(name string, data []byte) (*track.Track, error) {
	var doc tcxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, parseErrorf("tcx", 0, err, "decoding document: %v", err)
	}

	var points []track.Point
	for _, act := range doc.Activities {
		for _, lap := range act.Laps {
			for _, trk := range lap.Tracks {
				for _, tp := range trk.Points {
					if tp.Position == nil {
						continue
					}
					p := track.Point{
						Latitude:  tp.Position.Latitude,
						Longitude: tp.Position.Longitude,
					}
					if tp.Altitude != nil {
						p.Elevation = track.Float(*tp.Altitude)
					}
					if tp.Time != "" {
						if ts, err := time.Parse(time.RFC3339, tp.Time); err == nil {
							p.Time = ts.UTC()
						}
					}
					if tp.HeartRate != nil {
						p.HeartRate = track.Float(tp.HeartRate.Value)
					}
					if tp.Cadence != nil {
						p.Cadence = track.Float(*tp.Cadence)
					}
					if tp.Watts != nil {
						p.Power = track.Float(*tp.Watts)
					}
					points = append(points, p)
				}
			}
		}
	}

	return track.New(name, "tcx", points)
}
