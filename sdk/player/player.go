package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/song"
)

// Error definitions for player setup and graph checks.
var (
	ErrNoActuators  = errors.New("no actuators configured")
	ErrInvalidGraph = errors.New("invalid song graph")
)

// Player validates songs against its actuators and plays them through an Engine.
type Player struct {
	opts contracts.PlayerOptions
}

// New creates a player with the specified options.
// It applies default options: a zap logger at info level and a monotonic real-time clock.
//
// opts ...contracts.Option: A variadic list of option functions to customize the player.
//
// Returns:
//   - *Player: A player ready to perform songs.
//   - error: ErrNoActuators if no actuators were supplied.
func New(opts ...contracts.Option) (*Player, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Player{opts: options}, nil
}

// Play validates g once, then performs it until an exit marker or a clock failure.
// When a recorder is configured every performance is recorded, including failed ones;
// a recording error is logged and does not change the returned error.
//
// name string: Song name used in logs and run history.
// g song.Graph: The compiled song.
//
// Returns:
//   - Result: Ticks played and the exit marker reached.
//   - error: ErrInvalidGraph or ErrClockFailure, wrapped with details.
func (p *Player) Play(name string, g song.Graph) (Result, error) {
	log := p.opts.Logger
	if err := g.Validate(len(p.opts.Actuators)); err != nil {
		log.Error("Song rejected", log.Field().String("song", name), log.Field().Error("error", err))
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}

	engine := NewEngine(g, p.opts.Actuators, p.opts.Clock, WithEngineLogger(log))

	log.Info("Playing song",
		log.Field().String("song", name),
		log.Field().String("backend", p.opts.Backend),
		log.Field().Int("actuators", len(p.opts.Actuators)))

	started := time.Now()
	result, err := engine.Play()
	p.record(name, started, result, err)
	return result, err
}

func (p *Player) record(name string, started time.Time, result Result, playErr error) {
	if p.opts.Recorder == nil {
		return
	}
	run := contracts.Run{
		Song:     name,
		Backend:  p.opts.Backend,
		Ticks:    result.Ticks,
		Played:   result.Played,
		Started:  started,
		Wall:     time.Since(started),
		ExitNote: result.ExitNote,
	}
	if playErr != nil {
		run.Err = playErr.Error()
	}
	if err := p.opts.Recorder.Record(run); err != nil {
		log := p.opts.Logger
		log.Warn("Failed to record performance", log.Field().String("song", name), log.Field().Error("error", err))
	}
}
