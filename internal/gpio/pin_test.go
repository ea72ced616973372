package gpio

import (
	"errors"
	"testing"

	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type failingPin struct {
	gpiotest.Pin
}

func (f *failingPin) Out(gpio.Level) error {
	return errors.New("line busy")
}

func TestPinDrivesLevels(t *testing.T) {
	line := &gpiotest.Pin{N: "GPIO14", Num: 14}
	p := NewPin("GPIO14", line, logger.NewNopLogger())

	p.Advance()
	assert.Equal(t, gpio.High, line.Read())
	p.Reset()
	assert.Equal(t, gpio.Low, line.Read())
	p.Advance()
	require.NoError(t, p.Close())
	assert.Equal(t, gpio.Low, line.Read())
	assert.Zero(t, p.Failures())
	assert.Equal(t, "GPIO14", p.Name())
}

func TestPinCountsFailures(t *testing.T) {
	p := NewPin("GPIO15", &failingPin{}, logger.NewNopLogger())
	for i := 0; i < 5; i++ {
		p.Advance()
	}
	assert.Equal(t, uint64(5), p.Failures())
}

func TestCloseAllCombinesErrors(t *testing.T) {
	nop := logger.NewNopLogger()
	pins := []*Pin{
		NewPin("a", &failingPin{}, nop),
		NewPin("b", &gpiotest.Pin{N: "b"}, nop),
		NewPin("c", &failingPin{}, nop),
	}
	err := CloseAll(pins)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, Actuators(pins), 3)
}

func TestOpenRequiresPins(t *testing.T) {
	_, err := Open(nil, logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrNoPins)
}
