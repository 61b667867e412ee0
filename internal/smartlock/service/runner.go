package service

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Stepper is the part of the controller the Runner drives.
type Stepper interface {
	Step(now time.Time) error
}

// Runner calls Step on a fixed interval from a single background goroutine.
// It is the only caller of Step while running.
type Runner struct {
	ctrl      Stepper
	interval  time.Duration
	clock     func() time.Time
	onRunning func(bool)
	logger    *log.Logger
	errLog    rate.Sometimes

	startOnce sync.Once
	running   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// RunnerConfig holds the parameters for NewRunner.
type RunnerConfig struct {
	// PollInterval is the delay between steps. Defaults to 5ms.
	PollInterval time.Duration

	// Clock supplies the time passed to Step. Defaults to time.Now.
	Clock func() time.Time

	// OnRunning, if set, is called with true when the loop starts and false
	// when it exits.
	OnRunning func(running bool)
}

// NewRunner creates a runner for ctrl but does not start it. Zero fields in
// cfg take their defaults. A nil logger discards the runner's log lines.
func NewRunner(ctrl Stepper, cfg RunnerConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Millisecond
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Runner{
		ctrl:      ctrl,
		interval:  interval,
		clock:     clock,
		onRunning: cfg.OnRunning,
		logger:    logger,
		errLog:    rate.Sometimes{First: 3, Interval: 10 * time.Second},
		done:      make(chan struct{}),
	}
}

// Start begins the polling loop. Later calls are no-ops. The loop exits
// when ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		ctx, r.cancel = context.WithCancel(ctx)
		r.setRunning(true)
		go r.loop(ctx)
		r.logger.Printf("controller loop started (interval=%s)", r.interval)
	})
}

// Stop signals the loop to exit and waits for it. Stop before Start and
// repeated Stops return immediately.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// Done is closed once the loop has exited.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Running reports whether the polling loop is active.
func (r *Runner) Running() bool { return r.running.Load() }

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	defer r.setRunning(false)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.step()
	for {
		select {
		case <-ctx.Done():
			r.logger.Printf("controller loop stopped")
			return
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) step() {
	if err := r.ctrl.Step(r.clock()); err != nil {
		r.errLog.Do(func() {
			r.logger.Printf("controller step error: %v", err)
		})
	}
}

func (r *Runner) setRunning(v bool) {
	r.running.Store(v)
	if r.onRunning != nil {
		r.onRunning(v)
	}
}
