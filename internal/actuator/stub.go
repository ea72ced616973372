// Package actuator holds the in-memory actuator used by tests and dry runs.
package actuator

import "github.com/leandrodaf/motorsong/sdk/contracts"

// Stub counts the commands it receives and the level changes they cause.
type Stub struct {
	Advances uint64 // Advance calls.
	Resets   uint64 // Reset calls.
	Rising   uint64 // Advance calls that found the output deasserted.
	Falling  uint64 // Reset calls that found the output asserted.
	High     bool   // Current level.
}

// Advance asserts the output.
func (s *Stub) Advance() {
	s.Advances++
	if !s.High {
		s.Rising++
	}
	s.High = true
}

// Reset deasserts the output.
func (s *Stub) Reset() {
	s.Resets++
	if s.High {
		s.Falling++
	}
	s.High = false
}

// NewStubs returns n stubs and the same stubs as a contracts.Actuator slice.
func NewStubs(n int) ([]*Stub, []contracts.Actuator) {
	stubs := make([]*Stub, n)
	actuators := make([]contracts.Actuator, n)
	for i := range stubs {
		stubs[i] = &Stub{}
		actuators[i] = stubs[i]
	}
	return stubs, actuators
}

// Recorder appends the level of its actuator after every command. Tests use it to compare
// whole square waves tick by tick.
type Recorder struct {
	Levels []bool
}

// Advance records a high level.
func (r *Recorder) Advance() { r.Levels = append(r.Levels, true) }

// Reset records a low level.
func (r *Recorder) Reset() { r.Levels = append(r.Levels, false) }
