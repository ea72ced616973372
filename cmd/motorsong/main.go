package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/leandrodaf/motorsong/internal/config"
	"github.com/leandrodaf/motorsong/internal/history"
	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/leandrodaf/motorsong/internal/songs"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/player"
	"github.com/leandrodaf/motorsong/sdk/rig"
	"gopkg.in/alecthomas/kingpin.v2"
)

var errNoHistory = errors.New("no history database configured (history.path)")

var (
	app        = kingpin.New("motorsong", "Plays songs on solenoids, motors, MIDI or audio as square-wave pulse trains.")
	configPath = app.Flag("config", "Rig configuration file").Short('c').ExistingFile()
	backend    = app.Flag("backend", "Override the configured backend (stub, audio, gpio, serial, midi)").Short('b').String()
	logLevel   = app.Flag("log-level", "Override the configured log level").Short('l').String()

	playCmd     = app.Command("play", "Play a song from the library")
	playSong    = playCmd.Arg("song", "Song name, see 'songs'").Required().String()
	playOutput  = playCmd.Flag("output", "WAV file to write (audio backend)").Short('o').String()
	playSpeaker = playCmd.Flag("speaker", "Play through the default audio device (audio backend)").Bool()

	songsCmd = app.Command("songs", "List the song library")

	historyCmd   = app.Command("history", "Show past performances")
	historySong  = historyCmd.Arg("song", "Only show this song").String()
	historyLimit = historyCmd.Flag("limit", "Maximum number of runs").Default("20").Int()

	devicesCmd = app.Command("devices", "List MIDI output devices")
)

func main() {
	app.Version("0.1.0")
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logger.NewZapLogger()
	cfg, err := config.Load(*configPath, overrides()...)
	if err != nil {
		log.Error("Invalid configuration", log.Field().Error("error", err))
		_ = log.Sync()
		os.Exit(2)
	}
	log.SetLevel(cfg.LogLevelValue())
	if cfg.LogFile != "" {
		log.SetDestination(contracts.FileLog, cfg.LogFile)
	}

	switch command {
	case playCmd.FullCommand():
		err = play(cfg, log, *playSong)
	case songsCmd.FullCommand():
		listSongs()
	case historyCmd.FullCommand():
		err = showHistory(cfg, *historySong, *historyLimit)
	case devicesCmd.FullCommand():
		err = listDevices(cfg, log)
	}
	if err != nil {
		log.Error("Command failed", log.Field().String("command", command), log.Field().Error("error", err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func overrides() []config.Override {
	var out []config.Override
	if *backend != "" {
		out = append(out, func(r *config.Rig) { r.Backend = *backend })
	}
	if *logLevel != "" {
		out = append(out, func(r *config.Rig) { r.LogLevel = *logLevel })
	}
	if *playOutput != "" {
		out = append(out, func(r *config.Rig) { r.Audio.Output = *playOutput })
	}
	if *playSpeaker {
		out = append(out, func(r *config.Rig) { r.Audio.Speaker = true })
	}
	return out
}

func play(cfg config.Rig, log contracts.Logger, name string) error {
	g, err := songs.Build(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := rig.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			log.Warn("Failed to release rig", log.Field().Error("error", cerr))
		}
	}()
	for _, info := range r.Info {
		log.Debug("Actuator",
			log.Field().Int("id", info.ID),
			log.Field().String("backend", info.Backend),
			log.Field().String("address", info.Address))
	}

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(cfg.LogLevelValue()),
		contracts.WithClock(r.Clock),
		contracts.WithActuators(r.Backend, r.Actuators...),
	}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, contracts.WithRecorder(store))
	}

	p, err := player.New(opts...)
	if err != nil {
		return err
	}
	res, err := p.Play(name, g)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d ticks, %s played\n", name, res.Ticks, res.Played)
	for i, s := range r.Stubs {
		fmt.Printf("  actuator %d: %d rising edges, %d asserted ticks\n", i, s.Rising, s.Advances)
	}
	return r.Flush()
}

func listSongs() {
	for _, name := range songs.Names() {
		e, _ := songs.Lookup(name)
		fmt.Printf("%-10s %d voices  %s\n", e.Name, e.Voices, e.Description)
	}
}

func showHistory(cfg config.Rig, song string, limit int) error {
	if cfg.History.Path == "" {
		return errNoHistory
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(song, limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		outcome := "ok"
		if run.Err != "" {
			outcome = run.Err
		}
		fmt.Printf("%s  %-10s %-7s %9s played  %9s wall  %s\n",
			run.Started.Format(time.RFC3339), run.Song, run.Backend,
			run.Played.Round(time.Millisecond), run.Wall.Round(time.Millisecond), outcome)
	}
	return nil
}

func listDevices(cfg config.Rig, log contracts.Logger) error {
	devices, err := rig.ListMIDIDevices(cfg, log)
	if err != nil {
		return err
	}
	for i, d := range devices {
		fmt.Printf("%d: %s (%s, %s)\n", i, d.Name, d.EntityName, d.Manufacturer)
	}
	return nil
}
