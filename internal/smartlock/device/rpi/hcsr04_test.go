package rpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

// newScriptedSensor returns a sensor whose echo goes high on the fourth read
// and stays high for highReads reads. Every read advances the clock by 1µs.
func newScriptedSensor(t *testing.T, highReads int) (*HCSR04, *fakeOut) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)}
	reads := 0
	echo := &fakeIn{read: func() gpio.Level {
		r := reads
		reads++
		clock.advance(time.Microsecond)
		return gpio.Level(highReads > 0 && r >= 3 && r < 3+highReads)
	}}
	trig := &fakeOut{}

	s, err := NewHCSR04(trig, echo, time.Millisecond*50)
	require.NoError(t, err)
	assert.Equal(t, gpio.PullDown, echo.pull)
	s.now = clock.now
	s.sleep = noSleep
	return s, trig
}

func TestHCSR04_MeasuresPulseWidth(t *testing.T) {
	s, trig := newScriptedSensor(t, 589)

	d, err := s.Measure()
	require.NoError(t, err)
	assert.Equal(t, device.Centimeters(10), d)

	// Construction low, then low-high-low trigger pulse.
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.Low, gpio.High, gpio.Low}, trig.history)
}

func TestHCSR04_NoEchoReadsZero(t *testing.T) {
	s, _ := newScriptedSensor(t, 0)

	d, err := s.Measure()
	require.NoError(t, err)
	assert.Equal(t, device.Centimeters(0), d)
}

func TestHCSR04_EchoLongerThanTimeoutReadsZero(t *testing.T) {
	s, _ := newScriptedSensor(t, 60000)

	d, err := s.Measure()
	require.NoError(t, err)
	assert.Equal(t, device.Centimeters(0), d)
}

func TestHCSR04_TriggerFailure(t *testing.T) {
	s, trig := newScriptedSensor(t, 10)
	trig.err = errLine

	_, err := s.Measure()
	assert.ErrorIs(t, err, errLine)
}
