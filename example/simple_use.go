package main

import (
	"context"
	"fmt"

	"github.com/leandrodaf/motorsong/internal/config"
	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/player"
	"github.com/leandrodaf/motorsong/sdk/rig"
	"github.com/leandrodaf/motorsong/sdk/song"
)

func main() {
	log := logger.NewZapLogger()

	// Two voices: a short melody that ends the song, and a bass line looping underneath it.
	b := song.NewBuilder()
	beat := song.BeatFromBPM(100)
	for _, semitone := range []int{0, 4, 7, 12} {
		b.Add(0, song.Tone(song.Pitch(4, semitone), beat))
	}
	b.Add(0, song.Tone(song.Pitch(5, 0), song.Beats(beat, 2)).Legato())
	b.Add(0, song.Note{}.AsExit())
	b.Add(1, song.Tone(song.Pitch(2, 0), beat))
	b.Add(1, song.Tone(song.Pitch(2, 7), beat).GoTo(b.Entry(1)))

	g, err := b.Build()
	if err != nil {
		log.Error("Failed to build song", log.Field().Error("error", err))
		return
	}

	cfg, err := config.Load("", func(r *config.Rig) {
		r.Backend = config.BackendAudio
		r.Audio.Output = "arpeggio.wav"
	})
	if err != nil {
		log.Error("Invalid rig configuration", log.Field().Error("error", err))
		return
	}

	r, err := rig.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize rig", log.Field().Error("error", err))
		return
	}
	defer r.Close()

	p, err := player.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithClock(r.Clock),
		contracts.WithActuators(r.Backend, r.Actuators...),
	)
	if err != nil {
		log.Error("Failed to initialize player", log.Field().Error("error", err))
		return
	}

	res, err := p.Play("arpeggio", g)
	if err != nil {
		log.Error("Performance failed", log.Field().Error("error", err))
		return
	}
	if err = r.Flush(); err != nil {
		log.Error("Failed to write WAV", log.Field().Error("error", err))
		return
	}
	fmt.Println("Rendered", res.Played, "to arpeggio.wav")
}
