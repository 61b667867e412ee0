package memory

import "sync"

// Output is an in-memory actuator that keeps every level it was driven to.
type Output struct {
	mu      sync.Mutex
	active  bool
	history []bool
}

func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Set(active bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = active
	o.history = append(o.history, active)
	return nil
}

func (o *Output) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// History returns a copy of all levels set, oldest first.
func (o *Output) History() []bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]bool, len(o.history))
	copy(out, o.history)
	return out
}
