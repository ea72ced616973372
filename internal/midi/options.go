package midi

import "github.com/leandrodaf/motorsong/sdk/contracts"

// OutputOptions configures a platform output driver.
type OutputOptions struct {
	Logger     contracts.Logger // Logger for device events.
	ClientName string           // Client name registered with the OS MIDI service, where it has one.
	Device     string           // Output to open, see SelectDevice. Empty opens the first output.
}

// Driver opens outputs and lists devices on one platform MIDI API.
type Driver struct {
	Name        string
	ListDevices func(*OutputOptions) ([]contracts.DeviceInfo, error)
	NewOutput   func(*OutputOptions) (Output, error)
}

// DeviceNames returns the output names in device order.
func DeviceNames(devices []contracts.DeviceInfo) []string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name
	}
	return names
}
