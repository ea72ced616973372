// Package songs holds the demo scores shipped with the command line tool.
package songs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leandrodaf/motorsong/sdk/song"
)

// ErrUnknownSong is returned by Build for names not in the library.
var ErrUnknownSong = errors.New("unknown song")

// Entry is one score in the library.
type Entry struct {
	Name        string
	Description string
	Voices      int
	Build       func() (song.Graph, error)
}

var library = map[string]Entry{
	"scale": {
		Name:        "scale",
		Description: "C major scale up and down over a looping C drone",
		Voices:      2,
		Build:       Scale,
	},
	"round": {
		Name:        "round",
		Description: "Frère Jacques as a two-voice round",
		Voices:      2,
		Build:       Round,
	},
	"metronome": {
		Name:        "metronome",
		Description: "Four bars of 4/4 clicks at 120 BPM, accented downbeats",
		Voices:      1,
		Build: func() (song.Graph, error) {
			return Metronome(120, 16)
		},
	},
}

// Lookup returns the library entry for name.
func Lookup(name string) (Entry, bool) {
	e, ok := library[name]
	return e, ok
}

// Build compiles the named song.
func Build(name string) (song.Graph, error) {
	e, ok := library[name]
	if !ok {
		return song.Graph{}, fmt.Errorf("%w: %q", ErrUnknownSong, name)
	}
	return e.Build()
}

// Names returns the library's song names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scorer writes notes in eighth-beat units at a fixed tempo.
type scorer struct {
	eighth uint64
}

func newScorer(bpm uint64) scorer {
	return scorer{eighth: song.BeatFromBPM(bpm) / 2}
}

func (s scorer) note(octave, semitone int, eighths uint64) song.Note {
	return song.Tone(song.Pitch(octave, semitone), song.Beats(s.eighth, eighths))
}

func (s scorer) rest(eighths uint64) song.Note {
	return song.Tone(0, song.Beats(s.eighth, eighths))
}
