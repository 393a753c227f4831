package track

// Kind identifies a derived channel.
type Kind int

const (
	Distance Kind = iota // cumulative km from the first point
	Elapsed              // seconds since the first point
	Speed                // km/h over the preceding segment
	VerticalSpeed        // m/s over the preceding segment
	Altitude             // m
	HeartRate            // bpm
	Power                // W
	Cadence              // rpm
	Temperature          // °C
)

func (k Kind) String() string {
	switch k {
	case Distance:
		return "distance"
	case Elapsed:
		return "elapsed"
	case Speed:
		return "speed"
	case VerticalSpeed:
		return "vspeed"
	case Altitude:
		return "altitude"
	case HeartRate:
		return "heartrate"
	case Power:
		return "power"
	case Cadence:
		return "cadence"
	case Temperature:
		return "temperature"
	}
	return "unknown"
}

// Unit returns the display unit of the channel kind.
func (k Kind) Unit() string {
	switch k {
	case Distance:
		return "km"
	case Elapsed:
		return "s"
	case Speed:
		return "km/h"
	case VerticalSpeed:
		return "m/s"
	case Altitude:
		return "m"
	case HeartRate:
		return "bpm"
	case Power:
		return "W"
	case Cadence:
		return "rpm"
	case Temperature:
		return "°C"
	}
	return ""
}

// Channel is a point-aligned sequence of optional values. Window is the
// smoothing window the channel was produced with, 0 for a raw channel.
type Channel struct {
	Kind   Kind
	Window int
	Values []Value
}

func (c Channel) Len() int { return len(c.Values) }

// Last returns the final value of the channel.
func (c Channel) Last() Value {
	if len(c.Values) == 0 {
		return Value{}
	}
	return c.Values[len(c.Values)-1]
}
