package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/song"
)

const (
	// TickRate is the number of engine ticks per second.
	TickRate = 50_000
	// TickDuration is the length of one tick in microseconds.
	TickDuration uint64 = 1_000_000 / TickRate

	// Cycle is one full waveform period in phase units. A frequency in µHz multiplied by a
	// duration in µs is already expressed in these units, so the per-tick increment is exact.
	Cycle uint64 = 1_000_000_000_000
	half         = Cycle / 2
)

// ErrClockFailure wraps any error returned by the clock during playback.
var ErrClockFailure = errors.New("clock failure")

// Voice is the playback cursor of one part.
type Voice struct {
	NoteIndex uint32 // Current note.
	Elapsed   uint64 // Microseconds spent on the current note, always below its duration after a tick.
	Phase     uint64 // Position within the waveform cycle, in [0, Cycle).
}

// Result describes how a performance ended.
type Result struct {
	Ticks     uint64        // Clock waits performed, including the tick that found the exit marker.
	Played    time.Duration // Ticks times TickDuration.
	ExitVoice int           // Voice whose cursor reached the exit marker.
	ExitNote  uint32        // Index of that exit marker.
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger logs note transitions at debug level and the start and end of play at info level.
func WithEngineLogger(l contracts.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine plays a song graph on a set of actuators, one tick at a time.
// It is single-threaded: Play must not be called concurrently and the engine owns its
// actuators and clock for the whole performance.
type Engine struct {
	notes     []song.Note
	voices    []Voice
	actuators []contracts.Actuator
	clock     contracts.Clock
	logger    contracts.Logger

	ticks     uint64
	exitVoice int
	exitNote  uint32
}

// NewEngine seeds one voice per graph entry. The graph is expected to have been validated
// against len(actuators); the engine does not check indices on every tick.
func NewEngine(g song.Graph, actuators []contracts.Actuator, clock contracts.Clock, opts ...EngineOption) *Engine {
	e := &Engine{
		notes:     g.Notes,
		voices:    make([]Voice, len(g.Entries)),
		actuators: actuators,
		clock:     clock,
		exitVoice: -1,
	}
	for i, entry := range g.Entries {
		e.voices[i] = Voice{NoteIndex: entry}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Voices returns a snapshot of every voice cursor.
func (e *Engine) Voices() []Voice {
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// Play deasserts every actuator, resets the clock and runs ticks until a voice reaches an
// exit-marked note. A clock error ends playback at once and is returned wrapped in
// ErrClockFailure; a missed deadline is never retried.
func (e *Engine) Play() (Result, error) {
	for _, a := range e.actuators {
		a.Reset()
	}
	if err := e.clock.Reset(); err != nil {
		return e.result(), fmt.Errorf("%w: reset: %w", ErrClockFailure, err)
	}
	if e.logger != nil {
		e.logger.Info("Performance started",
			e.logger.Field().Int("voices", len(e.voices)),
			e.logger.Field().Int("notes", len(e.notes)),
			e.logger.Field().Uint64("tick_us", TickDuration))
	}

	for {
		if err := e.clock.Wait(TickDuration); err != nil {
			if e.logger != nil {
				e.logger.Error("Clock failed, aborting performance",
					e.logger.Field().Uint64("tick", e.ticks),
					e.logger.Field().Error("error", err))
			}
			return e.result(), fmt.Errorf("%w: tick %d: %w", ErrClockFailure, e.ticks+1, err)
		}
		e.ticks++

		if e.Tick() {
			if e.logger != nil {
				e.logger.Info("Performance finished",
					e.logger.Field().Uint64("ticks", e.ticks),
					e.logger.Field().Int("exit_voice", e.exitVoice),
					e.logger.Field().Uint32("exit_note", e.exitNote))
			}
			return e.result(), nil
		}
	}
}

// Tick runs one update for every voice in ascending order and reports whether a voice reached
// an exit marker. Voices after the one that found the marker are left untouched for this tick.
func (e *Engine) Tick() (exit bool) {
	for i := range e.voices {
		v := &e.voices[i]
		note := &e.notes[v.NoteIndex]

		if note.Exit {
			e.exitVoice = i
			e.exitNote = v.NoteIndex
			return true
		}

		v.Phase = advancePhase(v.Phase, note.Frequency)
		if v.Phase < half {
			e.actuators[note.ActuatorID].Advance()
		} else {
			e.actuators[note.ActuatorID].Reset()
		}

		v.Elapsed += TickDuration
		if v.Elapsed >= note.Duration {
			from := v.NoteIndex
			v.NoteIndex = note.NextIndex
			v.Elapsed -= note.Duration
			if e.notes[v.NoteIndex].Rearticulate {
				v.Phase = (v.Phase + half) % Cycle
			}
			if e.logger != nil {
				e.logger.Debug("Note transition",
					e.logger.Field().Int("voice", i),
					e.logger.Field().Uint32("from", from),
					e.logger.Field().Uint32("to", v.NoteIndex),
					e.logger.Field().Uint64("carry_us", v.Elapsed))
			}
		}
	}
	return false
}

func (e *Engine) result() Result {
	return Result{
		Ticks:     e.ticks,
		Played:    time.Duration(e.ticks*TickDuration) * time.Microsecond,
		ExitVoice: e.exitVoice,
		ExitNote:  e.exitNote,
	}
}

// advancePhase adds one tick's worth of phase for a frequency in µHz. The frequency is reduced
// modulo Cycle first so the product stays below Cycle*TickDuration.
func advancePhase(phase, frequency uint64) uint64 {
	return (phase + (frequency%Cycle)*TickDuration) % Cycle
}
