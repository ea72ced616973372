package contracts

import "time"

// Run summarises one finished (or aborted) performance.
type Run struct {
	Song     string        // Song name as given by the caller.
	Backend  string        // Rig backend the song was played on.
	Ticks    uint64        // Clock waits performed.
	Played   time.Duration // Notional playback time, Ticks times the tick duration.
	Started  time.Time     // Wall-clock start.
	Wall     time.Duration // Wall-clock duration.
	ExitNote uint32        // Exit-marked note that ended the performance.
	Err      string        // Failure text, empty when the performance reached an exit marker.
}

// Recorder stores finished runs.
type Recorder interface {
	Record(run Run) error
}

// PlayerOptions defines the configuration options for a player.
type PlayerOptions struct {
	Logger    Logger     // Logger for playback events and errors.
	LogLevel  LogLevel   // Level of logging to use.
	Clock     Clock      // Clock pacing the tick loop.
	Actuators []Actuator // Actuators indexed by Note.ActuatorID.
	Backend   string     // Backend name reported in run history.
	Recorder  Recorder   // Optional run history sink.
}

// Option is a function that modifies PlayerOptions.
type Option func(*PlayerOptions)

// WithLogger sets the logger for the player.
func WithLogger(l Logger) Option {
	return func(opts *PlayerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the player.
func WithLogLevel(level LogLevel) Option {
	return func(opts *PlayerOptions) {
		opts.LogLevel = level
	}
}

// WithClock sets the clock that paces playback.
func WithClock(c Clock) Option {
	return func(opts *PlayerOptions) {
		opts.Clock = c
	}
}

// WithActuators sets the actuators notes are played on, together with the backend name
// recorded in run history.
func WithActuators(backend string, actuators ...Actuator) Option {
	return func(opts *PlayerOptions) {
		opts.Backend = backend
		opts.Actuators = actuators
	}
}

// WithRecorder sets the sink that receives a Run after every performance.
func WithRecorder(r Recorder) Option {
	return func(opts *PlayerOptions) {
		opts.Recorder = r
	}
}
