// Package rpi drives the lock's peripherals from Raspberry Pi GPIO lines
// through periph.io.
package rpi

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

var ErrUnknownPin = errors.New("unknown gpio pin")

// OutputLine is the subset of gpio.PinOut the drivers use.
type OutputLine interface {
	Out(l gpio.Level) error
}

// InputLine is the subset of gpio.PinIn the drivers use.
type InputLine interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
}

// Pins names every line by its periph registry name (e.g. "GPIO23").
type Pins struct {
	Trig           string
	Echo           string
	Relay          string
	Buzzer         string
	RelayActiveLow bool
	KeypadRows     []string
	KeypadCols     []string
	LCDRS          string
	LCDEN          string
	LCDData        []string

	EchoTimeout    time.Duration
	KeypadDebounce time.Duration
}

// Open initialises the host drivers and binds every peripheral.
func Open(p Pins) (device.Peripherals, error) {
	if _, err := host.Init(); err != nil {
		return device.Peripherals{}, fmt.Errorf("periph host init: %w", err)
	}

	trig, err := lookup(p.Trig)
	if err != nil {
		return device.Peripherals{}, err
	}
	echo, err := lookup(p.Echo)
	if err != nil {
		return device.Peripherals{}, err
	}
	sensor, err := NewHCSR04(trig, echo, p.EchoTimeout)
	if err != nil {
		return device.Peripherals{}, err
	}

	rows, err := lookupOutputs(p.KeypadRows)
	if err != nil {
		return device.Peripherals{}, err
	}
	var cols []InputLine
	for _, name := range p.KeypadCols {
		c, err := lookup(name)
		if err != nil {
			return device.Peripherals{}, err
		}
		cols = append(cols, c)
	}
	keypad, err := NewMatrixKeypad(rows, cols, p.KeypadDebounce)
	if err != nil {
		return device.Peripherals{}, err
	}

	rs, err := lookup(p.LCDRS)
	if err != nil {
		return device.Peripherals{}, err
	}
	en, err := lookup(p.LCDEN)
	if err != nil {
		return device.Peripherals{}, err
	}
	data, err := lookupOutputs(p.LCDData)
	if err != nil {
		return device.Peripherals{}, err
	}
	lcd, err := NewHD44780(rs, en, data)
	if err != nil {
		return device.Peripherals{}, err
	}

	relayPin, err := lookup(p.Relay)
	if err != nil {
		return device.Peripherals{}, err
	}
	buzzerPin, err := lookup(p.Buzzer)
	if err != nil {
		return device.Peripherals{}, err
	}

	return device.Peripherals{
		Sensor:  sensor,
		Keypad:  keypad,
		Display: lcd,
		Relay:   NewLine(relayPin, p.RelayActiveLow),
		Buzzer:  NewLine(buzzerPin, false),
	}, nil
}

func lookup(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	return pin, nil
}

func lookupOutputs(names []string) ([]OutputLine, error) {
	out := make([]OutputLine, 0, len(names))
	for _, name := range names {
		p, err := lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
