// Package device defines the shared surface of virtual input devices.
package device

// ReportBuilder is an interface for device input states that can build USB reports.
type ReportBuilder interface {
	// BuildReport encodes the input state into a byte slice for USB transfer.
	BuildReport() []byte
}

// CreateOptions carries optional overrides applied when constructing a device.
// Nil fields keep the device's defaults.
type CreateOptions struct {
	IdVendor  *uint16
	IdProduct *uint16
}
