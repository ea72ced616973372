//go:build linux

package clock

import (
	"errors"

	"golang.org/x/sys/unix"
)

func monotonicNow() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, err
	}
	return ts.Nano(), nil
}

// sleepUntil uses an absolute-deadline sleep, so time spent between Wait calls is not added
// to the requested duration. A deadline in the past returns immediately.
func sleepUntil(target int64) error {
	ts := unix.NsecToTimespec(target)
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &ts, nil)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
