package memory

import (
	"sync"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

// Keypad hands out queued key presses one per Poll.
type Keypad struct {
	mu      sync.Mutex
	pending []device.Key
	polls   int
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press queues every character of keys as a separate press.
func (k *Keypad) Press(keys string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, r := range keys {
		k.pending = append(k.pending, device.Key(r))
	}
}

func (k *Keypad) Poll() (device.Key, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.polls++
	if len(k.pending) == 0 {
		return 0, false, nil
	}
	key := k.pending[0]
	k.pending = k.pending[1:]
	return key, true, nil
}

// Pending returns the number of presses not yet polled.
func (k *Keypad) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pending)
}

func (k *Keypad) Polls() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.polls
}
