package gadget_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/b4n4n377/Whirlwind/internal/gadget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGadget(t *testing.T) *gadget.Gadget {
	t.Helper()
	return &gadget.Gadget{
		Name:         "whirlwind",
		ConfigFS:     t.TempDir(),
		UDCDir:       t.TempDir(),
		VendorID:     0x239A,
		ProductID:    0x80F2,
		BcdUSB:       0x0200,
		BcdDevice:    0x0100,
		Manufacturer: "b4n4n377",
		Product:      "Whirlwind Arcade Controller",
		Serial:       "0001",
		ReportDesc:   []byte{0x05, 0x01, 0x09, 0x05, 0xA1, 0x01, 0xC0},
		ReportLength: 5,
	}
}

func readAttr(t *testing.T, elem ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(elem...))
	require.NoError(t, err)
	return string(data)
}

func TestCreateWritesConfigfsTree(t *testing.T) {
	g := testGadget(t)
	require.NoError(t, g.Create())

	gd := filepath.Join(g.ConfigFS, "usb_gadget", "whirlwind")
	assert.Equal(t, "0x239a", readAttr(t, gd, "idVendor"))
	assert.Equal(t, "0x80f2", readAttr(t, gd, "idProduct"))
	assert.Equal(t, "0x0200", readAttr(t, gd, "bcdUSB"))
	assert.Equal(t, "Whirlwind Arcade Controller", readAttr(t, gd, "strings", "0x409", "product"))

	fd := filepath.Join(gd, "functions", "hid.usb0")
	assert.Equal(t, "0", readAttr(t, fd, "protocol"))
	assert.Equal(t, "0", readAttr(t, fd, "subclass"))
	assert.Equal(t, "5", readAttr(t, fd, "report_length"))
	assert.Equal(t, g.ReportDesc, []byte(readAttr(t, fd, "report_desc")))

	link, err := os.Readlink(filepath.Join(gd, "configs", "c.1", "hid.usb0"))
	require.NoError(t, err)
	assert.Equal(t, fd, link)
}

func TestBindPicksFirstUDC(t *testing.T) {
	g := testGadget(t)
	require.NoError(t, g.Create())

	require.NoError(t, os.MkdirAll(filepath.Join(g.UDCDir, "dummy_udc.0"), 0o755))
	require.NoError(t, g.Bind())
	assert.Equal(t, "dummy_udc.0", readAttr(t, g.ConfigFS, "usb_gadget", "whirlwind", "UDC"))
}

func TestBindFailsWithoutUDC(t *testing.T) {
	g := testGadget(t)
	require.NoError(t, g.Create())
	assert.Error(t, g.Bind())
}

func TestRemoveTearsDownTree(t *testing.T) {
	g := testGadget(t)
	require.NoError(t, g.Create())
	require.NoError(t, g.Remove())

	_, err := os.Stat(filepath.Join(g.ConfigFS, "usb_gadget", "whirlwind"))
	assert.True(t, os.IsNotExist(err))
}

func TestDevicePathOverride(t *testing.T) {
	g := testGadget(t)
	g.Device = "/dev/hidg0"
	path, err := g.DevicePath()
	require.NoError(t, err)
	assert.Equal(t, "/dev/hidg0", path)
}
