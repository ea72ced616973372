package song

import "math"

// MicroHertz is the number of frequency units in one hertz.
const MicroHertz = 1_000_000

// Pitch returns the equal-tempered frequency, in µHz, of a semitone (0 = C) within an octave,
// with A4 (octave 4, semitone 9) at 440 Hz.
func Pitch(octave, semitone int) uint64 {
	fromA4 := octave*12 + semitone - 57
	hz := 440.0 * math.Pow(2, float64(fromA4)/12.0)
	return uint64(math.Round(hz * MicroHertz))
}

// Beats returns the duration, in µs, of n beats lasting beat µs each.
func Beats(beat, n uint64) uint64 {
	return beat * n
}

// BeatFromBPM returns the duration of one beat, in µs, at the given tempo.
func BeatFromBPM(bpm uint64) uint64 {
	if bpm == 0 {
		return 0
	}
	return 60 * MicroHertz / bpm
}
