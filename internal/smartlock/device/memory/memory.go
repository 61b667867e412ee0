// Package memory provides in-memory peripherals for tests and for the
// terminal panel. All types are safe for concurrent use.
package memory

import "github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"

// Board is a full set of in-memory peripherals.
type Board struct {
	Sensor  *Sensor
	Keypad  *Keypad
	Display *Display
	Relay   *Output
	Buzzer  *Output
}

// NewBoard returns a board whose sensor reports initial.
func NewBoard(initial device.Centimeters) *Board {
	return &Board{
		Sensor:  NewSensor(initial),
		Keypad:  NewKeypad(),
		Display: NewDisplay(),
		Relay:   NewOutput(),
		Buzzer:  NewOutput(),
	}
}

func (b *Board) Peripherals() device.Peripherals {
	return device.Peripherals{
		Sensor:  b.Sensor,
		Keypad:  b.Keypad,
		Display: b.Display,
		Relay:   b.Relay,
		Buzzer:  b.Buzzer,
	}
}
