package memory

import (
	"fmt"
	"sync"
)

// Rows is the number of lines on the simulated display.
const Rows = 2

// Display records what a two-row character display would show.
type Display struct {
	mu     sync.Mutex
	lines  [Rows]string
	clears int
	writes int
}

func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = [Rows]string{}
	d.clears++
	return nil
}

func (d *Display) WriteLine(row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("display row %d out of range", row)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines[row] = text
	d.writes++
	return nil
}

// Lines returns a copy of both rows.
func (d *Display) Lines() [Rows]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines
}

// Ops returns the number of Clear and WriteLine calls so far.
func (d *Display) Ops() (clears, writes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears, d.writes
}
