package track

import (
	"fmt"
	"math"
)

// Mean Earth radius in kilometers.
const earthRadiusKm = 6371.0088

// haversineKm returns the great-circle distance between two coordinate
// pairs in kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// segmentSeconds returns the time delta between two points in seconds,
// invalid when either timestamp is missing.
func segmentSeconds(a, b Point) Value {
	if a.Time.IsZero() || b.Time.IsZero() {
		return Value{}
	}
	return Float(b.Time.Sub(a.Time).Seconds())
}

// Channel returns the derived channel of the given kind, computing and
// caching it on first access. Derivation is a pure function of the
// point sequence, so repeated calls yield identical results.
func (t *Track) Channel(k Kind) Channel {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := channelKey{kind: k}
	if ch, ok := t.channels[key]; ok {
		return ch
	}
	ch := Channel{Kind: k, Values: t.derive(k)}
	t.channels[key] = ch
	return ch
}

// Smoothed returns the channel of kind k smoothed with a centered
// moving average of the given odd window size. A window of 1 is the
// identity transform.
func (t *Track) Smoothed(k Kind, window int) (Channel, error) {
	if window < 1 || window%2 == 0 {
		return Channel{}, fmt.Errorf("smoothing window must be positive and odd, got %d", window)
	}
	base := t.Channel(k)
	if window == 1 {
		return Channel{Kind: k, Window: 1, Values: base.Values}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := channelKey{kind: k, window: window}
	if ch, ok := t.channels[key]; ok {
		return ch, nil
	}
	ch := smooth(base, window)
	t.channels[key] = ch
	return ch, nil
}

// TotalDistance returns the cumulative track length in kilometers.
func (t *Track) TotalDistance() float64 {
	return t.Channel(Distance).Last().Float64
}

// Duration returns the elapsed seconds between the first and last
// point, null when either endpoint has no timestamp.
func (t *Track) Duration() Value {
	return t.Channel(Elapsed).Last()
}

func (t *Track) derive(k Kind) []Value {
	switch k {
	case Distance:
		return t.deriveDistance()
	case Elapsed:
		return t.deriveElapsed()
	case Speed:
		return t.deriveSpeed()
	case VerticalSpeed:
		return t.deriveVerticalSpeed()
	default:
		return t.extract(k)
	}
}

func (t *Track) deriveDistance() []Value {
	vals := make([]Value, len(t.points))
	vals[0] = Float(0)
	total := 0.0
	for i := 1; i < len(t.points); i++ {
		a, b := t.points[i-1], t.points[i]
		total += haversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		vals[i] = Float(total)
	}
	return vals
}

func (t *Track) deriveElapsed() []Value {
	vals := make([]Value, len(t.points))
	start := t.points[0].Time
	if start.IsZero() {
		return vals
	}
	for i, p := range t.points {
		if p.Time.IsZero() {
			continue
		}
		vals[i] = Float(p.Time.Sub(start).Seconds())
	}
	return vals
}

// deriveSpeed computes segment speed in km/h. Index 0 has no preceding
// segment and is always null; so is any segment without a positive time
// delta, since a missing timestamp must never read as zero speed.
func (t *Track) deriveSpeed() []Value {
	vals := make([]Value, len(t.points))
	for i := 1; i < len(t.points); i++ {
		a, b := t.points[i-1], t.points[i]
		dt := segmentSeconds(a, b)
		if !dt.Valid || dt.Float64 <= 0 {
			continue
		}
		km := haversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		vals[i] = Float(km / (dt.Float64 / 3600))
	}
	return vals
}

// deriveVerticalSpeed computes segment climb rate in m/s under the same
// null policy as deriveSpeed, additionally requiring elevation on both
// segment ends.
func (t *Track) deriveVerticalSpeed() []Value {
	vals := make([]Value, len(t.points))
	for i := 1; i < len(t.points); i++ {
		a, b := t.points[i-1], t.points[i]
		dt := segmentSeconds(a, b)
		if !dt.Valid || dt.Float64 <= 0 || !a.Elevation.Valid || !b.Elevation.Valid {
			continue
		}
		vals[i] = Float((b.Elevation.Float64 - a.Elevation.Float64) / dt.Float64)
	}
	return vals
}

// extract lifts an instrument field off the point sequence.
func (t *Track) extract(k Kind) []Value {
	vals := make([]Value, len(t.points))
	for i, p := range t.points {
		switch k {
		case Altitude:
			vals[i] = p.Elevation
		case HeartRate:
			vals[i] = p.HeartRate
		case Power:
			vals[i] = p.Power
		case Cadence:
			vals[i] = p.Cadence
		case Temperature:
			vals[i] = p.Temperature
		}
	}
	return vals
}

// smooth applies a null-aware centered moving average. The window
// shrinks symmetrically near the boundaries instead of wrapping or
// padding, and an all-null window stays null.
func smooth(ch Channel, window int) Channel {
	n := len(ch.Values)
	out := make([]Value, n)
	half := window / 2
	for i := range ch.Values {
		r := half
		if i < r {
			r = i
		}
		if n-1-i < r {
			r = n - 1 - i
		}
		sum := 0.0
		count := 0
		for j := i - r; j <= i+r; j++ {
			if ch.Values[j].Valid {
				sum += ch.Values[j].Float64
				count++
			}
		}
		if count > 0 {
			out[i] = Float(sum / float64(count))
		}
	}
	return Channel{Kind: ch.Kind, Window: window, Values: out}
}
