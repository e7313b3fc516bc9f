// Package arcade implements the Whirlwind cabinet controller: two logical
// 32-button HID gamepads multiplexed over one USB interface.
//
// The package owns the two halves of the data-layer contract with the host:
// the static report descriptor advertised during enumeration, and the per-
// cycle encoding of button snapshots into the byte layout that descriptor
// declares. Everything else (transfer scheduling, enumeration, button
// scanning) belongs to external collaborators.
package arcade

import (
	"fmt"
	"sync"

	"github.com/b4n4n377/Whirlwind/device"
	"github.com/b4n4n377/Whirlwind/usb"
)

// Arcade is the controller device. It holds one input snapshot per stream;
// each snapshot is replaced whole by the sampling side and encoded whole by
// the transport side, so a transmitted report never mixes two sampling
// cycles.
type Arcade struct {
	stateMu    sync.Mutex
	states     map[ReportID]InputState
	descriptor usb.Descriptor
}

// New returns a new Arcade device.
func New(o *device.CreateOptions) (*Arcade, error) {
	d := &Arcade{
		states: map[ReportID]InputState{
			GamepadA: {},
			GamepadB: {},
		},
		descriptor: defaultDescriptor,
	}
	if o != nil {
		if o.IdVendor != nil {
			d.descriptor.Device.IDVendor = *o.IdVendor
		}
		if o.IdProduct != nil {
			d.descriptor.Device.IDProduct = *o.IdProduct
		}
	}
	return d, nil
}

// UpdateInputState replaces the current snapshot of one stream. This is the
// routing step: the stream is selected by report ID, the encoding itself is
// identical for both.
func (a *Arcade) UpdateInputState(id ReportID, st InputState) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if _, ok := a.states[id]; !ok {
		return fmt.Errorf("arcade: unknown report ID %d", id)
	}
	a.states[id] = st
	return nil
}

// Report encodes the current snapshot of one stream into its 4-byte input
// report. The returned buffer is freshly allocated per call and owned by the
// caller until handed to the transport.
func (a *Arcade) Report(id ReportID) ([]byte, error) {
	a.stateMu.Lock()
	st, ok := a.states[id]
	a.stateMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("arcade: unknown report ID %d", id)
	}
	return st.BuildReport(), nil
}

// FramedReport is Report with the report ID prepended, for transports that
// use report-ID-prefixed framing (the kernel HID gadget does).
func (a *Arcade) FramedReport(id ReportID) ([]byte, error) {
	r, err := a.Report(id)
	if err != nil {
		return nil, err
	}
	return append([]byte{uint8(id)}, r...), nil
}

// GetDescriptor returns the device's static USB descriptor.
func (a *Arcade) GetDescriptor() *usb.Descriptor {
	return &a.descriptor
}

// ReportDescriptorBytes returns the encoded HID report descriptor covering
// both streams, as served to the host via GET_DESCRIPTOR(0x22).
func (a *Arcade) ReportDescriptorBytes() ([]byte, error) {
	b, err := a.descriptor.Interfaces[0].HID.ReportBytes()
	if err != nil {
		return nil, err
	}
	return []byte(b), nil
}
