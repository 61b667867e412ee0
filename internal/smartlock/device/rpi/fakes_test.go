package rpi

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// fakeOut records every level it was driven to.
type fakeOut struct {
	level   gpio.Level
	history []gpio.Level
	onOut   func(gpio.Level)
	err     error
}

func (f *fakeOut) Out(l gpio.Level) error {
	if f.err != nil {
		return f.err
	}
	f.level = l
	f.history = append(f.history, l)
	if f.onOut != nil {
		f.onOut(l)
	}
	return nil
}

type fakeIn struct {
	pull gpio.Pull
	read func() gpio.Level
}

func (f *fakeIn) In(pull gpio.Pull, _ gpio.Edge) error {
	f.pull = pull
	return nil
}

func (f *fakeIn) Read() gpio.Level { return f.read() }

var errLine = errors.New("line write failed")

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func noSleep(time.Duration) {}
