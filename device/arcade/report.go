package arcade

import (
	"encoding/binary"
	"io"

	"github.com/b4n4n377/Whirlwind/device"
)

// ReportID distinguishes the two gamepad report streams multiplexed over the
// cabinet's single HID interface. Values are fixed for the device's lifetime;
// hosts cache parsed report layouts keyed by them.
type ReportID uint8

const (
	GamepadA ReportID = 1
	GamepadB ReportID = 2
)

// ReportIDs lists the streams in descriptor order.
var ReportIDs = []ReportID{GamepadA, GamepadB}

const (
	// ButtonCount is the number of buttons per stream. The HID button usage
	// range tops out cleanly at 32 per collection, which is why the cabinet
	// exposes a second stream instead of widening this one.
	ButtonCount = 32

	// ReportLength is the encoded input report size in bytes, excluding the
	// report ID byte carried by the transport's framing.
	ReportLength = ButtonCount / 8
)

// InputState is one sampled snapshot of a stream's button states.
// Bit i of Buttons carries button usage ID i+1, so the mask serializes
// LSB-first straight into the field the descriptor declares.
type InputState struct {
	Buttons uint32
}

var _ device.ReportBuilder = InputState{}

// BuildReport encodes the snapshot into the fixed 4-byte little-endian input
// report. Byte 0 holds buttons 1-8.
func (st InputState) BuildReport() []byte {
	b := make([]byte, ReportLength)
	binary.LittleEndian.PutUint32(b, st.Buttons)
	return b
}

// MarshalBinary encodes InputState to the fixed 4-byte wire format.
// The wire format and the input report coincide for this device.
func (st InputState) MarshalBinary() ([]byte, error) {
	return st.BuildReport(), nil
}

// UnmarshalBinary decodes the fixed 4-byte wire format into InputState.
func (st *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < ReportLength {
		return io.ErrUnexpectedEOF
	}
	st.Buttons = binary.LittleEndian.Uint32(data[:ReportLength])
	return nil
}
