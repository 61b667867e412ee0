package rpi

import "periph.io/x/conn/v3/gpio"

// Line is a digital actuator output such as the relay or buzzer.
type Line struct {
	pin       OutputLine
	activeLow bool
}

func NewLine(pin OutputLine, activeLow bool) *Line {
	return &Line{pin: pin, activeLow: activeLow}
}

func (l *Line) Set(active bool) error {
	return l.pin.Out(gpio.Level(active != l.activeLow))
}
