package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gousb"

	"github.com/b4n4n377/Whirlwind/device/arcade"
)

// Monitor attaches to a physical controller from the host side, reads its
// interrupt IN reports and decodes them with the same codec the device uses.
type Monitor struct {
	// Defaults are arcade.DefaultVendorID / arcade.DefaultProductID.
	IdVendor  uint16 `help:"USB vendor ID to look for" default:"0x239a"`
	IdProduct uint16 `help:"USB product ID to look for" default:"0x80f2"`
	Endpoint  int    `help:"Interrupt IN endpoint number" default:"1"`
}

// Run is called by Kong when the monitor command is executed.
func (m *Monitor) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	dev, err := usbCtx.OpenDeviceWithVIDPID(gousb.ID(m.IdVendor), gousb.ID(m.IdProduct))
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	if dev == nil {
		return fmt.Errorf("no device %04x:%04x found", m.IdVendor, m.IdProduct)
	}
	defer dev.Close()

	if err := dev.SetAutoDetach(true); err != nil {
		return fmt.Errorf("detach kernel driver: %w", err)
	}
	cfg, err := dev.Config(1)
	if err != nil {
		return fmt.Errorf("claim configuration: %w", err)
	}
	defer cfg.Close()
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		return fmt.Errorf("claim interface: %w", err)
	}
	defer intf.Close()
	ep, err := intf.InEndpoint(m.Endpoint)
	if err != nil {
		return fmt.Errorf("open endpoint: %w", err)
	}

	logger.Info("monitoring", "device", fmt.Sprintf("%04x:%04x", m.IdVendor, m.IdProduct))

	buf := make([]byte, ep.Desc.MaxPacketSize)
	for {
		n, err := ep.ReadContext(ctx, buf)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read report: %w", err)
		}
		frame := buf[:n]
		if len(frame) < 1+arcade.ReportLength {
			logger.Warn("short report", "len", len(frame))
			continue
		}

		id := arcade.ReportID(frame[0])
		var st arcade.InputState
		if err := st.UnmarshalBinary(frame[1:]); err != nil {
			return err
		}
		logger.Info("report", "stream", id, "mask", fmt.Sprintf("%08x", st.Buttons), "pressed", st.Pressed())
	}
}
