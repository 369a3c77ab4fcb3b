package ptouch

import "fmt"

// InvalidConfigError reports a Config value that is malformed before any I/O
// is attempted — an empty serial, a feed amount out of range, and so on.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("ptouch: invalid config: %s", e.Reason)
}

// ModelCapabilityError reports a Config requesting a feature the selected
// Model does not support (two-color printing, compression).
type ModelCapabilityError struct {
	Model    Model
	Feature  string
}

func (e *ModelCapabilityError) Error() string {
	return fmt.Sprintf("ptouch: %s does not support %s", e.Model, e.Feature)
}

// DeviceNotFoundError reports that no USB device matching the requested
// vendor/product descriptor could be found.
type DeviceNotFoundError struct {
	VendorID, ProductID uint16
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("ptouch: no device found for vendor 0x%04X product 0x%04X", e.VendorID, e.ProductID)
}

// SerialMismatchError reports that a device matching the vendor/product
// descriptor was found, but none of them carried the requested serial.
type SerialMismatchError struct {
	Serial string
}

func (e *SerialMismatchError) Error() string {
	return fmt.Sprintf("ptouch: no device with serial %q found", e.Serial)
}

// AccessDeniedError wraps a USB permission failure while claiming the
// printer's interface.
type AccessDeniedError struct {
	Cause error
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("ptouch: access denied claiming interface: %v", e.Cause)
}

func (e *AccessDeniedError) Unwrap() error { return e.Cause }

// EndpointMissingError reports that the matched device lacks the expected
// bulk IN or OUT endpoint.
type EndpointMissingError struct {
	Direction string // "IN" or "OUT"
}

func (e *EndpointMissingError) Error() string {
	return fmt.Sprintf("ptouch: no bulk %s endpoint found", e.Direction)
}

// UsbError wraps a transport-level failure from the underlying USB stack
// that doesn't fit a more specific category.
type UsbError struct {
	Cause error
}

func (e *UsbError) Error() string {
	return fmt.Sprintf("ptouch: usb error: %v", e.Cause)
}

func (e *UsbError) Unwrap() error { return e.Cause }

// UsbWriteFailedError reports a failed bulk OUT transfer.
type UsbWriteFailedError struct {
	Cause error
}

func (e *UsbWriteFailedError) Error() string {
	return fmt.Sprintf("ptouch: bulk write failed: %v", e.Cause)
}

func (e *UsbWriteFailedError) Unwrap() error { return e.Cause }

// UsbReadFailedError reports a failed bulk IN transfer.
type UsbReadFailedError struct {
	Cause error
}

func (e *UsbReadFailedError) Error() string {
	return fmt.Sprintf("ptouch: bulk read failed: %v", e.Cause)
}

func (e *UsbReadFailedError) Unwrap() error { return e.Cause }

// UsbTimeoutError reports that a bulk transfer did not complete within its
// deadline. A write timeout is fatal to the current job; a transient read
// timeout inside the Completion Monitor is swallowed and retried.
type UsbTimeoutError struct {
	Operation string // "write" or "read"
}

func (e *UsbTimeoutError) Error() string {
	return fmt.Sprintf("ptouch: usb %s timed out", e.Operation)
}

// MalformedStatusError reports a 32-byte status frame whose 4-byte magic
// header didn't match.
type MalformedStatusError struct {
	Got []byte
}

func (e *MalformedStatusError) Error() string {
	return fmt.Sprintf("ptouch: malformed status frame, header %x", e.Got)
}

// MediaMismatchError reports that the device's installed media differs
// from the media the Config requested.
type MediaMismatchError struct {
	Expected, Actual Media
}

func (e *MediaMismatchError) Error() string {
	return fmt.Sprintf("ptouch: media mismatch: expected %s, device reports %s", e.Expected, e.Actual)
}

// RowWidthMismatchError reports a raster row whose byte length doesn't
// match the model's pin count / 8.
type RowWidthMismatchError struct {
	Expected, Actual int
}

func (e *RowWidthMismatchError) Error() string {
	return fmt.Sprintf("ptouch: row width mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

// UnexpectedPhaseError reports a phase-transition sequence the Completion
// Monitor couldn't interpret as progress toward completion.
type UnexpectedPhaseError struct {
	Phase Phase
}

func (e *UnexpectedPhaseError) Error() string {
	return fmt.Sprintf("ptouch: unexpected phase sequence, stuck at %v", e.Phase)
}

// PrinterError wraps a hardware-reported error condition decoded from a
// status frame's error bits.
type PrinterError struct {
	Kind ErrorKind
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("ptouch: printer reported error: %s", e.Kind)
}

// PrintTimeoutError reports that the Completion Monitor's deadline elapsed
// before observing the terminal phase transition. The spec declares the
// session invalid after this: callers must re-open rather than resume.
type PrintTimeoutError struct {
	Deadline string
}

func (e *PrintTimeoutError) Error() string {
	return fmt.Sprintf("ptouch: print timed out waiting for completion (deadline %s)", e.Deadline)
}
