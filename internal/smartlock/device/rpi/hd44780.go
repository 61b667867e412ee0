package rpi

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	lcdCols = 16
	lcdRows = 2

	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit bus, 2 lines, 5x8 font
	cmdSetDDRAM    = 0x80
)

var rowOffsets = [lcdRows]byte{0x00, 0x40}

// HD44780 is a 16x2 character LCD on a 4-bit parallel bus.
type HD44780 struct {
	rs    OutputLine
	en    OutputLine
	data  [4]OutputLine
	sleep func(time.Duration)
}

// NewHD44780 binds the display and runs the 4-bit initialisation sequence.
// data lists D4..D7 in order.
func NewHD44780(rs, en OutputLine, data []OutputLine) (*HD44780, error) {
	if len(data) != 4 {
		return nil, fmt.Errorf("lcd needs 4 data lines, got %d", len(data))
	}
	d := &HD44780{rs: rs, en: en, sleep: time.Sleep}
	copy(d.data[:], data)
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("lcd init: %w", err)
	}
	return d, nil
}

func (d *HD44780) init() error {
	d.sleep(50 * time.Millisecond)
	if err := d.rs.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.en.Out(gpio.Low); err != nil {
		return err
	}

	// Force 8-bit mode three times, then switch to 4-bit.
	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := d.write4(0x03); err != nil {
			return err
		}
		d.sleep(wait)
	}
	if err := d.write4(0x02); err != nil {
		return err
	}

	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn} {
		if err := d.send(cmd, gpio.Low); err != nil {
			return err
		}
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.send(cmdEntryMode, gpio.Low)
}

func (d *HD44780) Clear() error {
	if err := d.send(cmdClear, gpio.Low); err != nil {
		return fmt.Errorf("lcd clear: %w", err)
	}
	d.sleep(2 * time.Millisecond)
	return nil
}

// WriteLine replaces a whole row. Text is padded or cut to the row width;
// characters outside printable ASCII show as '?'.
func (d *HD44780) WriteLine(row int, text string) error {
	if row < 0 || row >= lcdRows {
		return fmt.Errorf("lcd row %d out of range", row)
	}
	if err := d.send(cmdSetDDRAM|rowOffsets[row], gpio.Low); err != nil {
		return fmt.Errorf("lcd cursor: %w", err)
	}
	for _, b := range fitRow(text) {
		if err := d.send(b, gpio.High); err != nil {
			return fmt.Errorf("lcd write: %w", err)
		}
	}
	return nil
}

func fitRow(text string) []byte {
	out := make([]byte, 0, lcdCols)
	for _, r := range text {
		if len(out) == lcdCols {
			break
		}
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return append(out, []byte(strings.Repeat(" ", lcdCols-len(out)))...)
}

func (d *HD44780) send(b byte, rs gpio.Level) error {
	if err := d.rs.Out(rs); err != nil {
		return err
	}
	if err := d.write4(b >> 4); err != nil {
		return err
	}
	return d.write4(b & 0x0F)
}

func (d *HD44780) write4(nibble byte) error {
	for i, line := range d.data {
		if err := line.Out(gpio.Level(nibble>>i&1 == 1)); err != nil {
			return err
		}
	}
	if err := d.en.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(time.Microsecond)
	if err := d.en.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(100 * time.Microsecond)
	return nil
}
