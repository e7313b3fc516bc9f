package arcade_test

import (
	"testing"

	"github.com/b4n4n377/Whirlwind/device/arcade"
	"github.com/b4n4n377/Whirlwind/usb"
	"github.com/b4n4n377/Whirlwind/usb/hid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamTemplate is the expected byte expansion of one gamepad stream, with
// the report ID left as a placeholder at index 7.
var streamTemplate = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x05, // Usage (Gamepad)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x00, //   Report ID (placeholder)
	0x05, 0x09, //   Usage Page (Button)
	0x19, 0x01, //   Usage Minimum (Button 1)
	0x29, 0x20, //   Usage Maximum (Button 32)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x95, 0x20, //   Report Count (32)
	0x75, 0x01, //   Report Size (1)
	0x81, 0x02, //   Input (Data, Variable, Absolute)
	0xC0, // End Collection
}

func streamBytes(id arcade.ReportID) []byte {
	out := make([]byte, len(streamTemplate))
	copy(out, streamTemplate)
	out[7] = byte(id)
	return out
}

func reportDescriptorBytes(t *testing.T) []byte {
	t.Helper()
	d, err := arcade.New(nil)
	require.NoError(t, err)
	raw, err := d.ReportDescriptorBytes()
	require.NoError(t, err)
	return raw
}

func TestReportDescriptorBytes(t *testing.T) {
	raw := reportDescriptorBytes(t)
	expected := append(streamBytes(arcade.GamepadA), streamBytes(arcade.GamepadB)...)
	assert.Equal(t, expected, raw)
}

func TestStreamsDifferOnlyInReportID(t *testing.T) {
	raw := reportDescriptorBytes(t)
	require.Len(t, raw, 2*len(streamTemplate))

	a := raw[:len(streamTemplate)]
	b := raw[len(streamTemplate):]
	for i := range a {
		if i == 7 {
			continue
		}
		assert.Equal(t, a[i], b[i], "offset %d", i)
	}
	assert.Equal(t, byte(arcade.GamepadA), a[7])
	assert.Equal(t, byte(arcade.GamepadB), b[7])
}

func TestDescriptorMatchesCodecWidth(t *testing.T) {
	layout, err := hid.Parse(reportDescriptorBytes(t))
	require.NoError(t, err)

	assert.True(t, layout.WithIDs)
	assert.Equal(t, hid.UsagePageGenericDesktop, layout.UsagePage)
	assert.Equal(t, hid.UsageGamePad, layout.Usage)
	for _, id := range arcade.ReportIDs {
		assert.Equal(t, uint32(arcade.ButtonCount), layout.InputBits[uint8(id)])
		assert.Equal(t, uint32(arcade.ReportLength), layout.InputBytes(uint8(id)))
	}

	require.NoError(t, arcade.ValidateDescriptor())
}

func TestConfigurationDescriptor(t *testing.T) {
	d, err := arcade.New(nil)
	require.NoError(t, err)

	cfg, err := d.GetDescriptor().ConfigurationBytes(usb.ConfigHeader{
		BConfigurationValue: 1,
		BMAttributes:        0x80, // bus powered
		BMaxPower:           50,   // 100 mA
	})
	require.NoError(t, err)

	assert.Equal(t, byte(usb.ConfigDescType), cfg[1])
	assert.Equal(t, byte(1), cfg[4]) // one HID interface
	// The interface is HID class with a single interrupt IN endpoint.
	iface := cfg[usb.ConfigDescLen:]
	assert.Equal(t, byte(usb.InterfaceDescType), iface[1])
	assert.Equal(t, byte(0x03), iface[5])
	ep := cfg[len(cfg)-usb.EndpointDescLen:]
	assert.Equal(t, byte(usb.EndpointDescType), ep[1])
	assert.Equal(t, byte(0x81), ep[2])
	assert.Equal(t, byte(0x03), ep[3])
}
