package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimAccumulatesTarget(t *testing.T) {
	sim := NewSim()
	require.NoError(t, sim.Reset())
	for i := 0; i < 100; i++ {
		require.NoError(t, sim.Wait(10_000))
	}
	assert.Equal(t, uint64(1_000_000), sim.Target())
	assert.Equal(t, uint64(100), sim.Waits())
	assert.Equal(t, 1, sim.Resets())
}

func TestSimFailAfter(t *testing.T) {
	sim := NewSim().FailAfter(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, sim.Wait(20))
	}
	assert.ErrorIs(t, sim.Wait(20), ErrInjected)
	assert.Equal(t, uint64(60), sim.Target(), "failed waits do not move the target")
}

func TestMonotonicTargetIsAbsolute(t *testing.T) {
	m := NewMonotonic(context.Background())
	require.NoError(t, m.Reset())
	base := m.Target()

	start := time.Now()
	for i := 0; i < 20; i++ {
		require.NoError(t, m.Wait(1_000))
	}
	elapsed := time.Since(start)

	assert.Equal(t, base+20*int64(time.Millisecond), m.Target())
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestMonotonicCatchesUpAfterStall(t *testing.T) {
	m := NewMonotonic(context.Background())
	require.NoError(t, m.Reset())

	time.Sleep(30 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Wait(1_000))
	}
	// The 10ms of deadlines were already in the past: no call should have slept.
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestMonotonicStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMonotonic(ctx)
	require.NoError(t, m.Reset())
	require.NoError(t, m.Wait(10))

	cancel()
	assert.ErrorIs(t, m.Wait(10), ErrStopped)
}
