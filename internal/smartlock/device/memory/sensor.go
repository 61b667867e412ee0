package memory

import (
	"sync"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

// Sensor is an in-memory DistanceSensor that reports whatever distance was
// last set. It is intended for use in tests and the terminal panel.
type Sensor struct {
	mu       sync.Mutex
	distance device.Centimeters
	err      error
	reads    int
}

func NewSensor(initial device.Centimeters) *Sensor {
	return &Sensor{distance: initial}
}

func (s *Sensor) Measure() (device.Centimeters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return 0, s.err
	}
	return s.distance, nil
}

func (s *Sensor) SetDistance(d device.Centimeters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distance = d
}

func (s *Sensor) Distance() device.Centimeters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distance
}

// SetError makes subsequent reads fail with err until cleared with nil.
func (s *Sensor) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Reads returns how many times Measure was called.
func (s *Sensor) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
