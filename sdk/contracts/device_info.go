package contracts

// ActuatorInfo describes one actuator handed out by a rig.
type ActuatorInfo struct {
	ID      int    // Index in the rig's actuator slice, the value notes carry as ActuatorID.
	Backend string // Backend name (stub, audio, gpio, serial, midi).
	Address string // Backend-specific address: pin name, serial port and slot, MIDI port and key.
}

// DeviceInfo represents information about a MIDI output device.
type DeviceInfo struct {
	Name         string // Name of the MIDI output.
	EntityName   string // Entity name of the device.
	Manufacturer string // Manufacturer of the device.
}
