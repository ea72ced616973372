package midi

import (
	"fmt"
	"strings"
)

// SelectDevice picks an output by name. An exact match wins over a case-insensitive substring
// match; an empty name selects the first device.
func SelectDevice(devices []string, name string) (int, error) {
	if len(devices) == 0 {
		return -1, ErrNoMIDIDevices
	}
	if name == "" {
		return 0, nil
	}
	for i, d := range devices {
		if d == name {
			return i, nil
		}
	}
	lower := strings.ToLower(name)
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d), lower) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %s)", ErrDeviceNotFound, name, strings.Join(devices, ", "))
}
