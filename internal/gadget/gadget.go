// Package gadget drives the Linux configfs USB gadget tree for a HID
// function: it registers the static descriptor data with the kernel's HID
// gadget driver once, then frames go out through the resulting hidg character
// device. Enumeration and transfer scheduling stay inside the kernel.
package gadget

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Gadget describes one HID gadget to be registered under configfs.
type Gadget struct {
	// Name is the gadget directory name under usb_gadget.
	Name string

	// ConfigFS is the configfs mount point. Defaults to /sys/kernel/config.
	ConfigFS string

	// UDCDir is where UDC controller names are listed. Defaults to
	// /sys/class/udc; the first entry is used when UDC is empty.
	UDCDir string
	UDC    string

	// Device overrides hidg device discovery (mainly for tests).
	Device string

	VendorID  uint16
	ProductID uint16
	BcdUSB    uint16
	BcdDevice uint16

	Manufacturer string
	Product      string
	Serial       string

	// ReportDesc and ReportLength describe the HID function. ReportLength is
	// the longest report the function emits, including the report ID byte
	// when report-ID framing is in use.
	ReportDesc   []byte
	ReportLength int
}

func (g *Gadget) configfs() string {
	if g.ConfigFS != "" {
		return g.ConfigFS
	}
	return "/sys/kernel/config"
}

func (g *Gadget) udcDir() string {
	if g.UDCDir != "" {
		return g.UDCDir
	}
	return "/sys/class/udc"
}

func (g *Gadget) gadgetDir() string {
	return filepath.Join(g.configfs(), "usb_gadget", g.Name)
}

func (g *Gadget) configDir() string {
	return filepath.Join(g.gadgetDir(), "configs", "c.1")
}

func (g *Gadget) functionDir() string {
	return filepath.Join(g.gadgetDir(), "functions", "hid.usb0")
}

// Create builds the configfs tree: device identity, strings, the HID function
// with its report descriptor, and the function symlink into the config. The
// gadget stays unbound until Bind.
func (g *Gadget) Create() error {
	gd := g.gadgetDir()
	if err := os.MkdirAll(gd, 0o755); err != nil {
		return fmt.Errorf("gadget: create %s: %w", gd, err)
	}

	identity := map[string]string{
		"idVendor":  fmt.Sprintf("0x%04x", g.VendorID),
		"idProduct": fmt.Sprintf("0x%04x", g.ProductID),
		"bcdUSB":    fmt.Sprintf("0x%04x", g.BcdUSB),
		"bcdDevice": fmt.Sprintf("0x%04x", g.BcdDevice),
	}
	for name, value := range identity {
		if err := g.writeAttr(gd, name, value); err != nil {
			return err
		}
	}

	stringsDir := filepath.Join(gd, "strings", "0x409")
	if err := os.MkdirAll(stringsDir, 0o755); err != nil {
		return fmt.Errorf("gadget: create %s: %w", stringsDir, err)
	}
	for name, value := range map[string]string{
		"manufacturer": g.Manufacturer,
		"product":      g.Product,
		"serialnumber": g.Serial,
	} {
		if err := g.writeAttr(stringsDir, name, value); err != nil {
			return err
		}
	}

	fd := g.functionDir()
	if err := os.MkdirAll(fd, 0o755); err != nil {
		return fmt.Errorf("gadget: create %s: %w", fd, err)
	}
	if err := g.writeAttr(fd, "protocol", "0"); err != nil {
		return err
	}
	if err := g.writeAttr(fd, "subclass", "0"); err != nil {
		return err
	}
	if err := g.writeAttr(fd, "report_length", strconv.Itoa(g.ReportLength)); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(fd, "report_desc"), g.ReportDesc, 0o644); err != nil {
		return fmt.Errorf("gadget: write report_desc: %w", err)
	}
	// The controller only sends input reports; skip the OUT endpoint where
	// the kernel supports it.
	if _, err := os.Stat(filepath.Join(fd, "no_out_endpoint")); err == nil {
		if err := g.writeAttr(fd, "no_out_endpoint", "1"); err != nil {
			return err
		}
	}

	cd := g.configDir()
	if err := os.MkdirAll(cd, 0o755); err != nil {
		return fmt.Errorf("gadget: create %s: %w", cd, err)
	}
	link := filepath.Join(cd, "hid.usb0")
	if err := os.Symlink(fd, link); err != nil && !os.IsExist(err) {
		return fmt.Errorf("gadget: link function: %w", err)
	}
	return nil
}

// Bind attaches the gadget to a USB device controller, discovering the first
// available controller when none is configured.
func (g *Gadget) Bind() error {
	udc := g.UDC
	if udc == "" {
		entries, err := os.ReadDir(g.udcDir())
		if err != nil {
			return fmt.Errorf("gadget: list UDCs: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("gadget: no UDC available under %s", g.udcDir())
		}
		udc = entries[0].Name()
	}
	return g.writeAttr(g.gadgetDir(), "UDC", udc)
}

// Unbind detaches the gadget from its controller.
func (g *Gadget) Unbind() error {
	return g.writeAttr(g.gadgetDir(), "UDC", "\n")
}

// Remove unbinds the gadget and tears the configfs tree down.
func (g *Gadget) Remove() error {
	_ = g.Unbind()
	if err := os.Remove(filepath.Join(g.configDir(), "hid.usb0")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("gadget: unlink function: %w", err)
	}
	for _, dir := range []string{g.functionDir(), g.configDir(), filepath.Join(g.gadgetDir(), "strings", "0x409")} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("gadget: remove %s: %w", dir, err)
		}
	}
	if err := os.RemoveAll(g.gadgetDir()); err != nil {
		return fmt.Errorf("gadget: remove %s: %w", g.gadgetDir(), err)
	}
	return nil
}

// DevicePath resolves the hidg character device the kernel created for the
// function, by matching the function's major:minor under /dev.
func (g *Gadget) DevicePath() (string, error) {
	if g.Device != "" {
		return g.Device, nil
	}
	data, err := os.ReadFile(filepath.Join(g.functionDir(), "dev"))
	if err != nil {
		return "", fmt.Errorf("gadget: read dev numbers: %w", err)
	}
	major, minor, err := parseDevNumbers(string(data))
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir("/dev")
	if err != nil {
		return "", fmt.Errorf("gadget: scan /dev: %w", err)
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.Mode()&os.ModeCharDevice == 0 {
			continue
		}
		stat, ok := info.Sys().(*syscall.Stat_t)
		if !ok {
			continue
		}
		if uint64(major) == uint64(stat.Rdev)/256 && uint64(minor) == uint64(stat.Rdev)%256 {
			return filepath.Join("/dev", e.Name()), nil
		}
	}
	return "", fmt.Errorf("gadget: no device node for %d:%d", major, minor)
}

// Open opens the hidg device for writing report frames.
func (g *Gadget) Open() (*os.File, error) {
	path, err := g.DevicePath()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY, 0)
}

func (g *Gadget) writeAttr(dir, name, value string) error {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644); err != nil {
		return fmt.Errorf("gadget: write %s: %w", name, err)
	}
	return nil
}

func parseDevNumbers(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("gadget: malformed dev numbers %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("gadget: malformed dev major %q", parts[0])
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("gadget: malformed dev minor %q", parts[1])
	}
	return major, minor, nil
}
