package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/b4n4n377/Whirlwind/device"
	"github.com/b4n4n377/Whirlwind/device/arcade"
	"github.com/b4n4n377/Whirlwind/internal/gadget"
)

// Serve registers the controller as a Linux USB HID gadget and runs the
// sampling loop: one button mask line in, one framed report out.
type Serve struct {
	GadgetName string  `help:"Gadget directory name under configfs" default:"whirlwind" env:"WHIRLWIND_GADGET_NAME"`
	UDC        string  `help:"USB device controller to bind (default: first available)" env:"WHIRLWIND_UDC"`
	HidDevice  string  `help:"hidg character device path (default: resolved from the gadget)" env:"WHIRLWIND_HIDG"`
	IdVendor   *uint16 `help:"Override the USB vendor ID"`
	IdProduct  *uint16 `help:"Override the USB product ID"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger) error {
	// Refuse to expose a descriptor the codec cannot honor; a mismatch is
	// invisible once the host has parsed it.
	if err := arcade.ValidateDescriptor(); err != nil {
		return err
	}

	d, err := arcade.New(&device.CreateOptions{IdVendor: s.IdVendor, IdProduct: s.IdProduct})
	if err != nil {
		return err
	}
	reportDesc, err := d.ReportDescriptorBytes()
	if err != nil {
		return err
	}

	desc := d.GetDescriptor()
	g := &gadget.Gadget{
		Name:         s.GadgetName,
		UDC:          s.UDC,
		Device:       s.HidDevice,
		VendorID:     desc.Device.IDVendor,
		ProductID:    desc.Device.IDProduct,
		BcdUSB:       desc.Device.BcdUSB,
		BcdDevice:    desc.Device.BcdDevice,
		Manufacturer: desc.Strings[desc.Device.IManufacturer],
		Product:      desc.Strings[desc.Device.IProduct],
		Serial:       desc.Strings[desc.Device.ISerialNumber],
		ReportDesc:   reportDesc,
		ReportLength: 1 + arcade.ReportLength, // report ID byte + button mask
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.Create(); err != nil {
		return err
	}
	defer func() {
		if err := g.Remove(); err != nil {
			logger.Error("failed to remove gadget", "error", err)
		}
	}()
	if err := g.Bind(); err != nil {
		return err
	}
	hidg, err := g.Open()
	if err != nil {
		return err
	}
	defer hidg.Close()

	logger.Info("gadget bound", "name", s.GadgetName,
		"vid", fmt.Sprintf("%04x", g.VendorID), "pid", fmt.Sprintf("%04x", g.ProductID))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.sampleLoop(d, os.Stdin, hidg, logger)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

// sampleLoop consumes `<stream> <mask>` lines from the button-sampling side
// and writes one framed report per line. Stream is A/B or the report ID;
// mask accepts any base strconv.ParseUint understands (0x.., 0b.., decimal).
func (s *Serve) sampleLoop(d *arcade.Arcade, in io.Reader, out io.Writer, logger *slog.Logger) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, mask, err := parseSample(line)
		if err != nil {
			logger.Warn("skipping sample", "line", line, "error", err)
			continue
		}
		if err := d.UpdateInputState(id, arcade.InputState{Buttons: mask}); err != nil {
			return err
		}
		frame, err := d.FramedReport(id)
		if err != nil {
			return err
		}
		if _, err := out.Write(frame); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Debug("report sent", "stream", id, "mask", fmt.Sprintf("%08x", mask))
	}
	return scanner.Err()
}

func parseSample(line string) (arcade.ReportID, uint32, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want `<stream> <mask>`")
	}

	var id arcade.ReportID
	switch strings.ToUpper(fields[0]) {
	case "A", "1":
		id = arcade.GamepadA
	case "B", "2":
		id = arcade.GamepadB
	default:
		return 0, 0, fmt.Errorf("unknown stream %q", fields[0])
	}

	mask, err := strconv.ParseUint(fields[1], 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad mask %q: %w", fields[1], err)
	}
	return id, uint32(mask), nil
}
