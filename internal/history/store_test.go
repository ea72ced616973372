package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	started := time.Unix(1_700_000_000, 123_456_789)
	run := contracts.Run{
		Song:     "scale",
		Backend:  "audio",
		Ticks:    50_001,
		Played:   1_000_020 * time.Microsecond,
		Started:  started,
		Wall:     1500 * time.Millisecond,
		ExitNote: 8,
	}
	require.NoError(t, s.Record(run))

	runs, err := s.Runs("scale", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.Song, runs[0].Song)
	assert.Equal(t, run.Ticks, runs[0].Ticks)
	assert.Equal(t, run.Played, runs[0].Played)
	assert.True(t, started.Equal(runs[0].Started))
	assert.Equal(t, run.Wall, runs[0].Wall)
	assert.Equal(t, run.ExitNote, runs[0].ExitNote)
	assert.Empty(t, runs[0].Err)
}

func TestRunsFilterAndOrder(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	for _, song := range []string{"scale", "round", "scale", "metronome", "scale"} {
		require.NoError(t, s.Record(contracts.Run{Song: song, Backend: "stub", Started: time.Now()}))
	}
	require.NoError(t, s.Record(contracts.Run{Song: "round", Backend: "stub", Err: "clock failure"}))

	all, err := s.Runs("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, "clock failure", all[0].Err, "newest first")

	scales, err := s.Runs("scale", 2)
	require.NoError(t, err)
	assert.Len(t, scales, 2)

	none, err := s.Runs("waltz", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(contracts.Run{Song: "round", Backend: "gpio"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs("", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "gpio", runs[0].Backend)
}

func TestStoreImplementsRecorder(t *testing.T) {
	var _ contracts.Recorder = (*Store)(nil)
}
