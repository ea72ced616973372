package player

import (
	"context"

	"github.com/leandrodaf/motorsong/internal/clock"
	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/leandrodaf/motorsong/sdk/contracts"
)

// applyDefaultOptions sets default values for PlayerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify PlayerOptions.
//
// Returns:
//   - contracts.PlayerOptions: The finalized options with defaults applied.
//   - error: ErrNoActuators when no actuators were given.
func applyDefaultOptions(opts ...contracts.Option) (contracts.PlayerOptions, error) {
	options := &contracts.PlayerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.Clock == nil {
		options.Clock = clock.NewMonotonic(context.Background())
	}
	if options.Backend == "" {
		options.Backend = "custom"
	}
	if len(options.Actuators) == 0 {
		return *options, ErrNoActuators
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
