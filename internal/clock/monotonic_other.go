//go:build !linux && !darwin

package clock

import "time"

var epoch = time.Now()

// time.Since reads Go's own monotonic reading when the platform offers no clock_gettime.
func monotonicNow() (int64, error) {
	return int64(time.Since(epoch)), nil
}

func sleepUntil(target int64) error {
	if remaining := target - int64(time.Since(epoch)); remaining > 0 {
		time.Sleep(time.Duration(remaining))
	}
	return nil
}
