package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/types"
)

const (
	msgReady   = "System Ready"
	msgPrompt  = "Enter Password"
	msgGranted = "Access Granted"
	msgWrong   = "Wrong Password"
	msgRetry   = "Try Again"
)

var (
	ErrInvalidThreshold  = errors.New("distance threshold must be positive")
	ErrInvalidHold       = errors.New("hold durations must be positive")
	ErrMissingPeripheral = errors.New("all peripherals are required")
)

// Settings are the controller's fixed parameters.
type Settings struct {
	Credential Credential
	Threshold  device.Centimeters
	UnlockHold time.Duration
	AlarmHold  time.Duration
	// ReadyHold is how long the boot splash stays up. 0 skips straight to
	// idle on the second step.
	ReadyHold time.Duration
}

// Controller is the presence-triggered PIN state machine. It owns every
// peripheral and the entered-digit buffer. Step must only be called from one
// goroutine; Snapshot may be called from any.
type Controller struct {
	p        device.Peripherals
	settings Settings
	logger   *log.Logger

	state     types.State
	booted    bool
	entered   []rune
	holdUntil time.Time
	attemptID string

	lastDistance device.Centimeters
	lastOutcome  types.Outcome
	relayOn      bool
	buzzerOn     bool
	granted      uint64
	denied       uint64

	mu   sync.RWMutex
	snap types.Snapshot
}

// NewController validates the peripherals and settings and returns a
// controller in the booting state. A nil logger disables logging.
func NewController(p device.Peripherals, s Settings, logger *log.Logger) (*Controller, error) {
	if p.Sensor == nil || p.Keypad == nil || p.Display == nil || p.Relay == nil || p.Buzzer == nil {
		return nil, ErrMissingPeripheral
	}
	if s.Credential.Len() == 0 {
		return nil, ErrInvalidCredential
	}
	if s.Threshold <= 0 {
		return nil, ErrInvalidThreshold
	}
	if s.UnlockHold <= 0 || s.AlarmHold <= 0 || s.ReadyHold < 0 {
		return nil, ErrInvalidHold
	}

	c := &Controller{
		p:        p,
		settings: s,
		logger:   logger,
		state:    types.StateBooting,
	}
	c.publish()
	return c, nil
}

// Step advances the state machine by at most one transition using now as
// the current time. Transitions into a new state always commit; I/O failures
// along the way are joined into the returned error. Releasing the relay or
// buzzer only completes once the line was driven inactive, so a failed
// release is retried on the next step.
func (c *Controller) Step(now time.Time) error {
	var err error
	switch c.state {
	case types.StateBooting:
		err = c.stepBooting(now)
	case types.StateIdle:
		err = c.stepIdle(now)
	case types.StateCapturing:
		err = c.stepCapturing(now)
	case types.StateGranted:
		err = c.stepRelease(now, c.p.Relay, &c.relayOn, "relay")
	case types.StateDenied:
		err = c.stepRelease(now, c.p.Buzzer, &c.buzzerOn, "buzzer")
	}
	c.publish()
	return err
}

func (c *Controller) stepBooting(now time.Time) error {
	if !c.booted {
		c.booted = true
		c.holdUntil = now.Add(c.settings.ReadyHold)
		var errs []error
		if err := c.p.Relay.Set(false); err != nil {
			errs = append(errs, fmt.Errorf("boot relay off: %w", err))
		}
		if err := c.p.Buzzer.Set(false); err != nil {
			errs = append(errs, fmt.Errorf("boot buzzer off: %w", err))
		}
		if err := c.p.Display.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("boot clear: %w", err))
		}
		if err := c.p.Display.WriteLine(0, msgReady); err != nil {
			errs = append(errs, fmt.Errorf("boot splash: %w", err))
		}
		return errors.Join(errs...)
	}
	if now.Before(c.holdUntil) {
		return nil
	}
	c.state = types.StateIdle
	c.logf("ready (threshold=%dcm)", c.settings.Threshold)
	if err := c.p.Display.Clear(); err != nil {
		return fmt.Errorf("clear splash: %w", err)
	}
	return nil
}

func (c *Controller) stepIdle(_ time.Time) error {
	d, err := c.p.Sensor.Measure()
	if err != nil {
		return fmt.Errorf("measure distance: %w", err)
	}
	c.lastDistance = d
	if d >= c.settings.Threshold {
		return nil
	}

	c.state = types.StateCapturing
	c.entered = c.entered[:0]
	c.attemptID = uuid.NewString()
	c.logf("presence at %dcm, capture started attempt=%s", d, c.attemptID)

	var errs []error
	if err := c.p.Display.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear for prompt: %w", err))
	}
	if err := c.p.Display.WriteLine(0, msgPrompt); err != nil {
		errs = append(errs, fmt.Errorf("write prompt: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Controller) stepCapturing(now time.Time) error {
	key, ok, err := c.p.Keypad.Poll()
	if err != nil {
		return fmt.Errorf("poll keypad: %w", err)
	}
	if !ok {
		return nil
	}

	switch key {
	case device.KeyIgnore:
		return nil
	case device.KeySubmit:
		return c.resolve(now)
	}

	c.entered = append(c.entered, rune(key))
	if err := c.p.Display.WriteLine(1, string(c.entered)); err != nil {
		return fmt.Errorf("echo entry: %w", err)
	}
	return nil
}

func (c *Controller) resolve(now time.Time) error {
	match := c.settings.Credential.Matches(string(c.entered))
	n := len(c.entered)
	c.entered = c.entered[:0]

	var errs []error
	if err := c.p.Display.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear for outcome: %w", err))
	}

	if match {
		c.state = types.StateGranted
		c.lastOutcome = types.OutcomeGranted
		c.granted++
		c.holdUntil = now.Add(c.settings.UnlockHold)
		c.logf("access granted attempt=%s", c.attemptID)

		if err := c.p.Display.WriteLine(0, msgGranted); err != nil {
			errs = append(errs, fmt.Errorf("write granted: %w", err))
		}
		if err := c.p.Relay.Set(true); err != nil {
			errs = append(errs, fmt.Errorf("relay on: %w", err))
		} else {
			c.relayOn = true
		}
		return errors.Join(errs...)
	}

	c.state = types.StateDenied
	c.lastOutcome = types.OutcomeDenied
	c.denied++
	c.holdUntil = now.Add(c.settings.AlarmHold)
	c.logf("access denied attempt=%s entered_len=%d", c.attemptID, n)

	if err := c.p.Display.WriteLine(0, msgWrong); err != nil {
		errs = append(errs, fmt.Errorf("write wrong: %w", err))
	}
	if err := c.p.Display.WriteLine(1, msgRetry); err != nil {
		errs = append(errs, fmt.Errorf("write retry: %w", err))
	}
	if err := c.p.Buzzer.Set(true); err != nil {
		errs = append(errs, fmt.Errorf("buzzer on: %w", err))
	} else {
		c.buzzerOn = true
	}
	return errors.Join(errs...)
}

func (c *Controller) stepRelease(now time.Time, out device.Output, on *bool, name string) error {
	if now.Before(c.holdUntil) {
		return nil
	}
	if err := out.Set(false); err != nil {
		return fmt.Errorf("%s off: %w", name, err)
	}
	*on = false
	c.state = types.StateIdle
	c.attemptID = ""
	return nil
}

// State returns the current state. Like Step, it is meant for the goroutine
// driving the controller.
func (c *Controller) State() types.State { return c.state }

// Snapshot returns the state published by the most recent Step.
func (c *Controller) Snapshot() types.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Controller) publish() {
	s := types.Snapshot{
		State:         c.state,
		RelayActive:   c.relayOn,
		BuzzerActive:  c.buzzerOn,
		LastDistance:  int64(c.lastDistance),
		EnteredDigits: len(c.entered),
		AttemptID:     c.attemptID,
		LastOutcome:   c.lastOutcome,
		GrantedCount:  c.granted,
		DeniedCount:   c.denied,
	}
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

func (c *Controller) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
