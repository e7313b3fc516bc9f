package usb_test

import (
	"testing"

	"github.com/b4n4n377/Whirlwind/usb"
	"github.com/b4n4n377/Whirlwind/usb/hid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() usb.Descriptor {
	return usb.Descriptor{
		Device: usb.DeviceDescriptor{
			BcdUSB:             0x0200,
			BMaxPacketSize0:    0x40,
			IDVendor:           0x1234,
			IDProduct:          0x5678,
			BcdDevice:          0x0100,
			IManufacturer:      1,
			IProduct:           2,
			ISerialNumber:      3,
			BNumConfigurations: 1,
		},
		Interfaces: []usb.InterfaceConfig{
			{
				Descriptor: usb.InterfaceDescriptor{
					BNumEndpoints:   1,
					BInterfaceClass: 0x03,
				},
				HID: &usb.HIDFunction{
					Descriptor: usb.HIDDescriptor{
						BcdHID:      0x0111,
						Descriptors: []usb.HIDSubDescriptor{{Type: usb.ReportDescType}},
					},
					Report: hid.Report{Items: []hid.Item{
						hid.UsagePage{Page: hid.UsagePageGenericDesktop},
						hid.Usage{Usage: hid.UsageGamePad},
						hid.Collection{Kind: hid.CollectionApplication},
					}},
				},
				Endpoints: []usb.EndpointDescriptor{
					{BEndpointAddress: 0x81, BMAttributes: 0x03, WMaxPacketSize: 16, BInterval: 5},
				},
			},
		},
	}
}

func TestDeviceDescriptorBytes(t *testing.T) {
	b := testDescriptor().Bytes()
	require.Len(t, b, usb.DeviceDescLen)
	assert.Equal(t, byte(usb.DeviceDescLen), b[0])
	assert.Equal(t, byte(usb.DeviceDescType), b[1])
	// bcdUSB, idVendor, idProduct are little-endian.
	assert.Equal(t, []byte{0x00, 0x02}, b[2:4])
	assert.Equal(t, []byte{0x34, 0x12}, b[8:10])
	assert.Equal(t, []byte{0x78, 0x56}, b[10:12])
}

func TestConfigurationBytes(t *testing.T) {
	d := testDescriptor()
	cfg, err := d.ConfigurationBytes(usb.ConfigHeader{
		BConfigurationValue: 1,
		BMAttributes:        0x80,
		BMaxPower:           50,
	})
	require.NoError(t, err)

	// header + interface + HID class descriptor (one subordinate) + endpoint
	wantLen := usb.ConfigDescLen + usb.InterfaceDescLen + 9 + usb.EndpointDescLen
	require.Len(t, cfg, wantLen)
	assert.Equal(t, byte(usb.ConfigDescType), cfg[1])
	// wTotalLength patched to the real length.
	assert.Equal(t, byte(wantLen), cfg[2])
	assert.Equal(t, byte(0), cfg[3])
	// bNumInterfaces auto-filled.
	assert.Equal(t, byte(1), cfg[4])

	// The HID class descriptor follows the interface descriptor and carries
	// the auto-filled report descriptor length.
	hidDesc := cfg[usb.ConfigDescLen+usb.InterfaceDescLen:]
	assert.Equal(t, byte(usb.HIDDescType), hidDesc[1])
	rb, err := d.Interfaces[0].HID.ReportBytes()
	require.NoError(t, err)
	assert.Equal(t, byte(len(rb)), hidDesc[7])
	assert.Equal(t, byte(0), hidDesc[8])
}

func TestEncodeStringDescriptor(t *testing.T) {
	b := usb.EncodeStringDescriptor("AB")
	assert.Equal(t, []byte{0x06, usb.StringDescType, 'A', 0x00, 'B', 0x00}, b)
}
