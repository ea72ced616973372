package songs

import (
	"fmt"

	"github.com/leandrodaf/motorsong/sdk/song"
)

// Scale plays a C major scale up and down in quarter notes on voice 0 while voice 1 loops a
// C3 drone, re-struck every bar. The scale's exit ends the drone too.
func Scale() (song.Graph, error) {
	s := newScorer(120)
	b := song.NewBuilder()

	up := []int{0, 2, 4, 5, 7, 9, 11}
	for _, semitone := range up {
		b.Add(0, s.note(4, semitone, 2))
	}
	b.Add(0, s.note(5, 0, 2))
	for i := len(up) - 1; i >= 0; i-- {
		b.Add(0, s.note(4, up[i], 2))
	}
	b.Add(0, song.Note{}.AsExit())

	b.Add(1, s.note(3, 0, 8).GoTo(b.Len()))

	return b.Build()
}

type phrase []struct {
	octave, semitone int
	eighths          uint64
}

// Frère Jacques in C, one 4/4 bar per phrase.
var jacques = []phrase{
	{{4, 0, 2}, {4, 2, 2}, {4, 4, 2}, {4, 0, 2}},
	{{4, 0, 2}, {4, 2, 2}, {4, 4, 2}, {4, 0, 2}},
	{{4, 4, 2}, {4, 5, 2}, {4, 7, 4}},
	{{4, 4, 2}, {4, 5, 2}, {4, 7, 4}},
	{{4, 7, 1}, {4, 9, 1}, {4, 7, 1}, {4, 5, 1}, {4, 4, 2}, {4, 0, 2}},
	{{4, 7, 1}, {4, 9, 1}, {4, 7, 1}, {4, 5, 1}, {4, 4, 2}, {4, 0, 2}},
	{{4, 0, 2}, {3, 7, 2}, {4, 0, 4}},
	{{4, 0, 2}, {3, 7, 2}, {4, 0, 4}},
}

// Round plays Frère Jacques on voice 0 and, two bars later, on voice 1 an octave lower.
// Voice 0 holds a rest long enough for voice 1 to reach its exit first.
func Round() (song.Graph, error) {
	s := newScorer(132)
	b := song.NewBuilder()

	for _, p := range jacques {
		for _, n := range p {
			b.Add(0, s.note(n.octave, n.semitone, n.eighths))
		}
	}
	b.Add(0, s.rest(32))
	b.Add(0, song.Note{}.AsExit())

	b.Add(1, s.rest(16))
	for _, p := range jacques {
		for _, n := range p {
			b.Add(1, s.note(n.octave-1, n.semitone, n.eighths))
		}
	}
	b.Add(1, song.Note{}.AsExit())

	return b.Build()
}

// Metronome clicks beats times at bpm: a 10 ms click, A5 on the first beat of each 4/4 bar and
// E5 on the others, then silence until the next beat.
func Metronome(bpm, beats uint64) (song.Graph, error) {
	beat := song.BeatFromBPM(bpm)
	const click = 10_000
	if beat <= click {
		return song.Graph{}, fmt.Errorf("metronome: %d BPM leaves no room for a %d µs click", bpm, click)
	}

	b := song.NewBuilder()
	for i := uint64(0); i < beats; i++ {
		pitch := song.Pitch(5, 4)
		if i%4 == 0 {
			pitch = song.Pitch(5, 9)
		}
		b.Add(0, song.Tone(pitch, click))
		b.Add(0, song.Tone(0, beat-click).Rest())
	}
	b.Add(0, song.Note{}.AsExit())

	return b.Build()
}
