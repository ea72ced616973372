package song

import (
	"errors"
	"fmt"
)

// Error definitions for malformed graphs.
var (
	ErrEmptyGraph         = errors.New("graph has no voices")
	ErrEntryOutOfRange    = errors.New("voice entry out of range")
	ErrNextOutOfRange     = errors.New("next note index out of range")
	ErrActuatorOutOfRange = errors.New("actuator id out of range")
	ErrOpenVoice          = errors.New("voice has no terminal action")
)

// Graph is a compiled song: a flat note array and one entry index per voice.
// It is never modified during playback.
type Graph struct {
	Notes   []Note
	Entries []uint32
}

// VoiceCount returns the number of independently sequenced parts.
func (g Graph) VoiceCount() int {
	return len(g.Entries)
}

// Validate checks every note a voice can reach. Exit-marked notes are never read past,
// so only their own index has to be valid; every other reachable note needs a NextIndex
// inside the graph and an ActuatorID below actuators.
func (g Graph) Validate(actuators int) error {
	if len(g.Entries) == 0 {
		return ErrEmptyGraph
	}

	seen := make([]bool, len(g.Notes))
	stack := make([]uint32, 0, len(g.Entries))
	for voice, entry := range g.Entries {
		if int(entry) >= len(g.Notes) {
			return fmt.Errorf("%w: voice %d enters at %d, graph has %d notes", ErrEntryOutOfRange, voice, entry, len(g.Notes))
		}
		stack = append(stack, entry)
	}

	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[index] {
			continue
		}
		seen[index] = true

		note := g.Notes[index]
		if note.Exit {
			continue
		}
		if int(note.ActuatorID) >= actuators {
			return fmt.Errorf("%w: note %d drives actuator %d, rig has %d", ErrActuatorOutOfRange, index, note.ActuatorID, actuators)
		}
		if int(note.NextIndex) >= len(g.Notes) {
			return fmt.Errorf("%w: note %d moves to %d, graph has %d notes", ErrNextOutOfRange, index, note.NextIndex, len(g.Notes))
		}
		stack = append(stack, note.NextIndex)
	}
	return nil
}

// Duration returns how long voice plays before it first reaches an exit marker or revisits a
// note, in µs, and whether it ends on an exit marker.
func (g Graph) Duration(voice int) (micros uint64, exits bool) {
	if voice < 0 || voice >= len(g.Entries) {
		return 0, false
	}
	visited := make(map[uint32]bool)
	index := g.Entries[voice]
	for int(index) < len(g.Notes) && !visited[index] {
		note := g.Notes[index]
		if note.Exit {
			return micros, true
		}
		visited[index] = true
		micros += note.Duration
		index = note.NextIndex
	}
	return micros, false
}
