package cmd

import (
	"fmt"
	"log/slog"

	"github.com/b4n4n377/Whirlwind/device/arcade"
	"github.com/b4n4n377/Whirlwind/usb"
	"github.com/b4n4n377/Whirlwind/usb/hid"
)

// Describe prints the controller's descriptors for inspection.
type Describe struct {
	Config bool `help:"Also print the assembled configuration descriptor"`
	Check  bool `help:"Cross-check the report descriptor against the report codec"`
	Hex    bool `help:"Print the report descriptor as a plain hex dump instead of decoded items"`
}

func (c *Describe) Run(logger *slog.Logger) error {
	d, err := arcade.New(nil)
	if err != nil {
		return err
	}

	raw, err := d.ReportDescriptorBytes()
	if err != nil {
		return err
	}
	fmt.Printf("HID report descriptor (%d bytes):\n", len(raw))
	if c.Hex {
		hexDump(raw)
	} else {
		dump, err := hid.Dump(raw)
		if err != nil {
			return err
		}
		fmt.Print(dump)
	}

	if c.Config {
		cfg, err := d.GetDescriptor().ConfigurationBytes(usb.ConfigHeader{
			BConfigurationValue: 1,
			BMAttributes:        0x80, // bus powered
			BMaxPower:           50,   // 100 mA
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nConfiguration descriptor (%d bytes):\n", len(cfg))
		hexDump(cfg)
	}

	if c.Check {
		if err := arcade.ValidateDescriptor(); err != nil {
			return err
		}
		logger.Info("descriptor matches report codec",
			"streams", len(arcade.ReportIDs),
			"buttons", arcade.ButtonCount,
			"reportBytes", arcade.ReportLength)
	}
	return nil
}

func hexDump(data []byte) {
	for i := 0; i < len(data); i += 16 {
		end := min(i+16, len(data))
		fmt.Printf("  %04x:", i)
		for _, b := range data[i:end] {
			fmt.Printf(" %02x", b)
		}
		fmt.Println()
	}
}
