package rpi

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

// DefaultEchoTimeout bounds each echo wait when none is configured.
const DefaultEchoTimeout = time.Second

// HCSR04 is an ultrasonic ranger with separate trigger and echo lines.
type HCSR04 struct {
	trig    OutputLine
	echo    InputLine
	timeout time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func NewHCSR04(trig OutputLine, echo InputLine, timeout time.Duration) (*HCSR04, error) {
	if timeout <= 0 {
		timeout = DefaultEchoTimeout
	}
	if err := trig.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("hcsr04 trig: %w", err)
	}
	if err := echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hcsr04 echo: %w", err)
	}
	return &HCSR04{
		trig:    trig,
		echo:    echo,
		timeout: timeout,
		now:     time.Now,
		sleep:   time.Sleep,
	}, nil
}

// Measure fires one ranging pulse and converts the echo width. A missing or
// truncated echo reads as 0 cm.
func (s *HCSR04) Measure() (device.Centimeters, error) {
	if err := s.trig.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("trig low: %w", err)
	}
	s.sleep(2 * time.Microsecond)
	if err := s.trig.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("trig high: %w", err)
	}
	s.sleep(10 * time.Microsecond)
	if err := s.trig.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("trig low: %w", err)
	}
	return device.EchoToCentimeters(s.pulseWidth()), nil
}

// pulseWidth busy-waits for the next high pulse on echo and returns its
// width, or 0 if the whole wait exceeds the timeout.
func (s *HCSR04) pulseWidth() time.Duration {
	deadline := s.now().Add(s.timeout)

	// A previous pulse may still be in flight.
	for s.echo.Read() == gpio.High {
		if s.now().After(deadline) {
			return 0
		}
	}
	for s.echo.Read() == gpio.Low {
		if s.now().After(deadline) {
			return 0
		}
	}
	start := s.now()
	for s.echo.Read() == gpio.High {
		if s.now().After(deadline) {
			return 0
		}
	}
	return s.now().Sub(start)
}
