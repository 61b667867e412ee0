package rpi

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

// DefaultDebounce is the minimum gap between matrix scans.
const DefaultDebounce = 10 * time.Millisecond

// MatrixKeypad scans a 4x3 key matrix. Rows are driven low one at a time
// and columns are read with pull-ups, so a pressed key reads low.
type MatrixKeypad struct {
	rows     []OutputLine
	cols     []InputLine
	debounce time.Duration
	now      func() time.Time

	lastScan time.Time
	held     device.Key
}

func NewMatrixKeypad(rows []OutputLine, cols []InputLine, debounce time.Duration) (*MatrixKeypad, error) {
	if len(rows) != len(device.Keymap) || len(cols) != len(device.Keymap[0]) {
		return nil, fmt.Errorf("keypad needs %d rows and %d cols, got %d and %d",
			len(device.Keymap), len(device.Keymap[0]), len(rows), len(cols))
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	for i, r := range rows {
		if err := r.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("keypad row %d: %w", i, err)
		}
	}
	for i, c := range cols {
		if err := c.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("keypad col %d: %w", i, err)
		}
	}
	return &MatrixKeypad{rows: rows, cols: cols, debounce: debounce, now: time.Now}, nil
}

// Poll reports a key once when it goes down. Holding a key or polling
// inside the debounce window reports nothing.
func (k *MatrixKeypad) Poll() (device.Key, bool, error) {
	now := k.now()
	if !k.lastScan.IsZero() && now.Sub(k.lastScan) < k.debounce {
		return 0, false, nil
	}
	k.lastScan = now

	key, err := k.scan()
	if err != nil {
		return 0, false, err
	}
	if key == k.held {
		return 0, false, nil
	}
	k.held = key
	if key == 0 {
		return 0, false, nil
	}
	return key, true, nil
}

func (k *MatrixKeypad) scan() (device.Key, error) {
	for r, row := range k.rows {
		if err := row.Out(gpio.Low); err != nil {
			return 0, fmt.Errorf("drive row %d: %w", r, err)
		}
		var found device.Key
		for c, col := range k.cols {
			if col.Read() == gpio.Low {
				found = device.Keymap[r][c]
				break
			}
		}
		if err := row.Out(gpio.High); err != nil {
			return 0, fmt.Errorf("release row %d: %w", r, err)
		}
		if found != 0 {
			return found, nil
		}
	}
	return 0, nil
}
