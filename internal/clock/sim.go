package clock

import "errors"

// ErrInjected is returned by a Sim clock once its failure point is reached.
var ErrInjected = errors.New("injected clock failure")

// Sim is a virtual clock. Wait moves the target forward without sleeping, which makes a
// performance run as fast as the CPU allows with exactly the same tick sequence as real time.
type Sim struct {
	target    uint64
	waits     uint64
	resets    int
	failAfter uint64
}

// NewSim returns a virtual clock starting at zero.
func NewSim() *Sim {
	return &Sim{}
}

// FailAfter makes every Wait after the first n succeed calls fail with ErrInjected.
// Zero disables failure injection.
func (s *Sim) FailAfter(n uint64) *Sim {
	s.failAfter = n
	return s
}

// Wait advances the virtual target by micros.
func (s *Sim) Wait(micros uint64) error {
	if s.failAfter > 0 && s.waits >= s.failAfter {
		return ErrInjected
	}
	s.waits++
	s.target += micros
	return nil
}

// Reset records a new baseline. Virtual time has no "now", so the target is kept.
func (s *Sim) Reset() error {
	s.resets++
	return nil
}

// Target returns the virtual deadline in microseconds.
func (s *Sim) Target() uint64 {
	return s.target
}

// Waits returns how many Wait calls succeeded.
func (s *Sim) Waits() uint64 {
	return s.waits
}

// Resets returns how many times Reset was called.
func (s *Sim) Resets() int {
	return s.resets
}
