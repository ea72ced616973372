// Package audio renders a performance to sound instead of driving hardware.
//
// A Synth is both the clock and every actuator of a rig: each Wait appends as many samples as
// the elapsed virtual time covers, at a level mixed from the actuators' current states.
package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/leandrodaf/motorsong/sdk/contracts"
)

// Amplitude is the signal contribution of one actuator: +Amplitude when asserted,
// -Amplitude otherwise.
const Amplitude = 0.1

// Error definitions for rendering and playback.
var (
	ErrNoSamples  = errors.New("no samples rendered")
	ErrSampleRate = errors.New("invalid sample rate")
	ErrSpeaker    = errors.New("speaker unavailable")
)

// Synth owns the level of every actuator it hands out and the rendered mono signal.
type Synth struct {
	rate    beep.SampleRate
	levels  []bool
	micros  uint64
	samples []float32
}

// NewSynth returns a synth rendering at sampleRate for the given number of actuators.
func NewSynth(sampleRate, actuators int) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSampleRate, sampleRate)
	}
	return &Synth{
		rate:   beep.SampleRate(sampleRate),
		levels: make([]bool, actuators),
	}, nil
}

// Actuators returns one handle per actuator, indexed like the synth's level array.
func (s *Synth) Actuators() []contracts.Actuator {
	out := make([]contracts.Actuator, len(s.levels))
	for i := range s.levels {
		out[i] = line{synth: s, id: i}
	}
	return out
}

// Wait advances virtual time by micros and renders the samples it covers. Sample counts are
// derived from the total elapsed time, so rounding never accumulates.
func (s *Synth) Wait(micros uint64) error {
	before := s.sampleCount()
	s.micros += micros
	n := s.sampleCount() - before

	level := s.level()
	for i := uint64(0); i < n; i++ {
		s.samples = append(s.samples, level)
	}
	return nil
}

// Reset is a no-op: virtual time has no current instant to jump to.
func (s *Synth) Reset() error {
	return nil
}

// Samples returns the rendered signal.
func (s *Synth) Samples() []float32 {
	return s.samples
}

// Elapsed returns the virtual time rendered so far.
func (s *Synth) Elapsed() time.Duration {
	return time.Duration(s.micros) * time.Microsecond
}

// Format describes the stream returned by Streamer: stereo, 16-bit, at the synth's rate.
func (s *Synth) Format() beep.Format {
	return beep.Format{SampleRate: s.rate, NumChannels: 2, Precision: 2}
}

// Streamer returns a fresh streamer over the rendered samples, the mono signal copied to both
// channels.
func (s *Synth) Streamer() beep.Streamer {
	return &sampleStreamer{samples: s.samples}
}

// WriteWAV encodes the rendered signal as a WAV file.
func (s *Synth) WriteWAV(w io.WriteSeeker) error {
	if len(s.samples) == 0 {
		return ErrNoSamples
	}
	return wav.Encode(w, s.Streamer(), s.Format())
}

// PlaySpeaker plays the rendered signal on the default audio device and blocks until it ends.
func (s *Synth) PlaySpeaker() error {
	if len(s.samples) == 0 {
		return ErrNoSamples
	}
	if err := speaker.Init(s.rate, s.rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("%w: %v", ErrSpeaker, err)
	}
	defer speaker.Close()

	done := make(chan struct{})
	speaker.Play(beep.Seq(s.Streamer(), beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

func (s *Synth) sampleCount() uint64 {
	return uint64(s.rate) * s.micros / 1_000_000
}

func (s *Synth) level() float32 {
	var v float32
	for _, high := range s.levels {
		if high {
			v += Amplitude
		} else {
			v -= Amplitude
		}
	}
	return v
}

// line is the actuator handle for one slot of a Synth.
type line struct {
	synth *Synth
	id    int
}

func (l line) Advance() { l.synth.levels[l.id] = true }
func (l line) Reset()   { l.synth.levels[l.id] = false }

type sampleStreamer struct {
	samples []float32
	pos     int
}

func (st *sampleStreamer) Stream(buf [][2]float64) (n int, ok bool) {
	if st.pos >= len(st.samples) {
		return 0, false
	}
	for n < len(buf) && st.pos < len(st.samples) {
		v := float64(st.samples[st.pos])
		buf[n][0], buf[n][1] = v, v
		n++
		st.pos++
	}
	return n, true
}

func (st *sampleStreamer) Err() error { return nil }
