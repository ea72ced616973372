package song

import (
	"fmt"

	"go.uber.org/multierr"
)

type voiceInfo struct {
	first uint32
	last  uint32
}

// Builder compiles "append note to voice" calls into a Graph.
//
// Each Add links the voice's previous note to the new one, so a part is authored as a plain
// sequence. The last note of every voice must carry its own terminal action: AsExit, or GoTo
// for a loop.
type Builder struct {
	notes  []Note
	voices []voiceInfo
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends n to voice. Voices are introduced in order: voice must be an existing voice or
// exactly the current voice count. Anything else is a programming error and panics.
func (b *Builder) Add(voice int, n Note) {
	index := uint32(len(b.notes))

	switch {
	case voice == len(b.voices):
		b.voices = append(b.voices, voiceInfo{first: index, last: index})
	case voice >= 0 && voice < len(b.voices):
		last := b.voices[voice].last
		b.notes[last].NextIndex = index
		b.notes[last].linked = true
	default:
		panic(fmt.Sprintf("song: voice %d added out of order, builder has %d voices", voice, len(b.voices)))
	}

	n.ActuatorID = uint32(voice)
	b.notes = append(b.notes, n)
	b.voices[voice].last = index
}

// Len returns the index the next added note will get.
func (b *Builder) Len() uint32 {
	return uint32(len(b.notes))
}

// Entry returns the index of the first note of voice.
func (b *Builder) Entry(voice int) uint32 {
	return b.voices[voice].first
}

// Graph returns the graph built so far without checking voice terminals.
func (b *Builder) Graph() Graph {
	notes := make([]Note, len(b.notes))
	copy(notes, b.notes)

	entries := make([]uint32, len(b.voices))
	for i, v := range b.voices {
		entries[i] = v.first
	}
	return Graph{Notes: notes, Entries: entries}
}

// Build returns the graph and reports every voice whose last note neither exits nor was given
// an explicit GoTo target. Such a voice would fall through to note 0, which belongs to voice 0.
// The graph is returned even when the error is not nil.
func (b *Builder) Build() (Graph, error) {
	var err error
	for voice, v := range b.voices {
		last := b.notes[v.last]
		if !last.Exit && !last.linked {
			err = multierr.Append(err, fmt.Errorf("%w: voice %d ends at note %d", ErrOpenVoice, voice, v.last))
		}
	}
	return b.Graph(), err
}
