package serialout

// Frame layout bytes understood by the actuator controller firmware.
const (
	CmdSetLevel = 0x20 // Set one slot high or low.
	SOF0        = 0xAA // First start-of-frame marker.
	SOF1        = 0x55 // Second start-of-frame marker.
)

// Frame sets one actuator slot on the receiving controller.
type Frame struct {
	Slot  byte
	Level bool
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][slot][level][CKS]
//
// LEN counts CMD and payload; CKS is the XOR of LEN, CMD and payload.
func (f Frame) Encode() []byte {
	var level byte
	if f.Level {
		level = 1
	}
	payload := []byte{f.Slot, level}

	length := byte(len(payload) + 1)
	cks := length ^ CmdSetLevel
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdSetLevel}
	out = append(out, payload...)
	out = append(out, cks)
	return out
}
