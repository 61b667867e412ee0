package device

import "time"

// Centimeters is a distance estimate in whole centimetres.
type Centimeters int64

// Key is a keypad character.
type Key rune

const (
	KeySubmit Key = '#'
	KeyIgnore Key = '*'
)

// IsDigit reports whether k is one of '0'..'9'.
func (k Key) IsDigit() bool { return k >= '0' && k <= '9' }

// Keymap is the 4x3 keypad layout, rows top to bottom.
var Keymap = [4][3]Key{
	{'1', '2', '3'},
	{'4', '5', '6'},
	{'7', '8', '9'},
	{'*', '0', '#'},
}

// speedOfSound is in cm/µs.
const speedOfSound = 0.034

// EchoToCentimeters converts an echo pulse width to a distance. The pulse
// covers the round trip, so the result is halved and truncated. A zero width
// (echo timeout) yields 0 cm.
func EchoToCentimeters(width time.Duration) Centimeters {
	us := width.Microseconds()
	if us <= 0 {
		return 0
	}
	return Centimeters(float64(us) * speedOfSound / 2)
}

// DistanceSensor measures how far the nearest object is. A timed-out echo is
// reported as 0 with a nil error; errors are reserved for line I/O failures.
type DistanceSensor interface {
	Measure() (Centimeters, error)
}

// Keypad reports a key once per press. ok is false when nothing new was
// pressed since the last poll.
type Keypad interface {
	Poll() (k Key, ok bool, err error)
}

// Display is a two-row character display.
type Display interface {
	Clear() error
	WriteLine(row int, text string) error
}

// Output is a single digital actuator (relay or buzzer).
type Output interface {
	Set(active bool) error
}

// Peripherals bundles everything the controller drives.
type Peripherals struct {
	Sensor  DistanceSensor
	Keypad  Keypad
	Display Display
	Relay   Output
	Buzzer  Output
}
