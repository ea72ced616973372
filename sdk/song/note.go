// Package song holds the note graph a performance is played from and the builder that
// compiles authored parts into it.
package song

// Note is one state in a voice's playback graph.
//
// Indices are global across the whole graph, not per voice. A voice is usually a linear
// chain of notes that ends either on an exit-marked note or on a loop back to an earlier one.
type Note struct {
	NextIndex    uint32 // Note to move to once Duration has elapsed.
	ActuatorID   uint32 // Actuator driven while this note is active.
	Exit         bool   // Landing here ends the whole performance.
	Frequency    uint64 // Micro-hertz; 0 is a rest.
	Duration     uint64 // Microseconds.
	Rearticulate bool   // Arriving here jumps the phase by half a cycle.

	linked bool // NextIndex was set explicitly, by GoTo or by the builder.
}

// Tone returns a rearticulated note of the given frequency (µHz) and duration (µs).
func Tone(frequency, duration uint64) Note {
	return Note{Frequency: frequency, Duration: duration, Rearticulate: true}
}

// Legato continues the waveform from the previous note without a new attack.
func (n Note) Legato() Note {
	n.Rearticulate = false
	return n
}

// Kick forces a new attack when the note is reached.
func (n Note) Kick() Note {
	n.Rearticulate = true
	return n
}

// Rest silences the note by zeroing its frequency.
func (n Note) Rest() Note {
	n.Frequency = 0
	return n
}

// AsExit marks the note as the end of the performance.
func (n Note) AsExit() Note {
	n.Exit = true
	return n
}

// GoTo sets an explicit transition target, typically a loop back to an earlier note.
func (n Note) GoTo(index uint32) Note {
	n.NextIndex = index
	n.linked = true
	return n
}

// Linked reports whether the note's transition target was set explicitly.
func (n Note) Linked() bool {
	return n.linked
}
