//go:build darwin

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

func monotonicNow() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, err
	}
	return ts.Nano(), nil
}

// darwin has no absolute-deadline nanosleep; sleep for whatever is left, clamped at zero.
func sleepUntil(target int64) error {
	now, err := monotonicNow()
	if err != nil {
		return err
	}
	if remaining := target - now; remaining > 0 {
		time.Sleep(time.Duration(remaining))
	}
	return nil
}
