package arcade

import (
	"fmt"

	"github.com/b4n4n377/Whirlwind/usb"
	"github.com/b4n4n377/Whirlwind/usb/hid"
)

// Default USB identity of the cabinet controller.
const (
	DefaultVendorID  uint16 = 0x239A // Adafruit
	DefaultProductID uint16 = 0x80F2
)

// gamepadItems instantiates the 32-button gamepad template once. The prefix
// items are injected right after the application collection opens and before
// the button field declarations; the per-stream report ID tag goes there.
func gamepadItems(prefix ...hid.Item) []hid.Item {
	body := append(prefix,
		hid.UsagePage{Page: hid.UsagePageButton},
		hid.UsageMinimum{Min: 1},
		hid.UsageMaximum{Max: ButtonCount},
		hid.LogicalMinimum{Min: 0},
		hid.LogicalMaximum{Max: 1},
		hid.ReportCount{Count: ButtonCount},
		hid.ReportSize{Bits: 1},
		hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
	)
	return []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageGamePad},
		hid.Collection{Kind: hid.CollectionApplication, Items: body},
	}
}

// reportDescriptor declares both streams: the same template twice, differing
// only in the injected report ID tag.
var reportDescriptor = hid.Report{
	Items: append(
		gamepadItems(hid.ReportID{ID: uint8(GamepadA)}),
		gamepadItems(hid.ReportID{ID: uint8(GamepadB)})...,
	),
}

// defaultDescriptor defines the static USB descriptor for the controller:
// a single full-speed HID interface with one interrupt IN endpoint carrying
// both report streams.
var defaultDescriptor = usb.Descriptor{
	Device: usb.DeviceDescriptor{
		BcdUSB:             0x0200,
		BDeviceClass:       0x00,
		BDeviceSubClass:    0x00,
		BDeviceProtocol:    0x00,
		BMaxPacketSize0:    0x40, // 64 bytes
		IDVendor:           DefaultVendorID,
		IDProduct:          DefaultProductID,
		BcdDevice:          0x0100,
		IManufacturer:      0x01,
		IProduct:           0x02,
		ISerialNumber:      0x03,
		BNumConfigurations: 0x01,
	},
	Interfaces: []usb.InterfaceConfig{
		{
			Descriptor: usb.InterfaceDescriptor{
				BInterfaceNumber:   0x00,
				BAlternateSetting:  0x00,
				BNumEndpoints:      0x01,
				BInterfaceClass:    0x03, // HID
				BInterfaceSubClass: 0x00,
				BInterfaceProtocol: 0x00,
				IInterface:         0x00,
			},
			HID: &usb.HIDFunction{
				Descriptor: usb.HIDDescriptor{
					BcdHID:       0x0111,
					BCountryCode: 0x00,
					Descriptors: []usb.HIDSubDescriptor{
						{Type: usb.ReportDescType},
					},
				},
				Report: reportDescriptor,
			},
			Endpoints: []usb.EndpointDescriptor{
				{
					BEndpointAddress: 0x81,
					BMAttributes:     0x03,   // Interrupt
					WMaxPacketSize:   0x0008, // 8 bytes (5 needed)
					BInterval:        0x01,   // 1 ms
				},
			},
		},
	},
	Strings: map[uint8]string{
		0: "\x09\x04", // LangID: en-US (0x0409)
		1: "b4n4n377",
		2: "Whirlwind Arcade Controller",
		3: "0001",
	},
}

// ValidateDescriptor parses the encoded report descriptor and checks that the
// declared button field of every stream matches the codec's width. The
// mismatch it guards against is invisible at runtime; hosts would silently
// shift or truncate button readings.
func ValidateDescriptor() error {
	raw, err := reportDescriptor.Bytes()
	if err != nil {
		return err
	}
	layout, err := hid.Parse(raw)
	if err != nil {
		return err
	}
	if layout.UsagePage != hid.UsagePageGenericDesktop || layout.Usage != hid.UsageGamePad {
		return fmt.Errorf("arcade: descriptor announces usage %#04x/%#04x, want generic desktop gamepad",
			layout.UsagePage, layout.Usage)
	}
	for _, id := range ReportIDs {
		bits := layout.InputBits[uint8(id)]
		if bits != ButtonCount {
			return fmt.Errorf("arcade: stream %d declares %d input bits, codec encodes %d", id, bits, ButtonCount)
		}
		if layout.InputBytes(uint8(id)) != ReportLength {
			return fmt.Errorf("arcade: stream %d input length %d bytes, codec encodes %d", id, layout.InputBytes(uint8(id)), ReportLength)
		}
	}
	return nil
}
