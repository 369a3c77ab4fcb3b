package ptouch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// brotherVendorID is Brother Industries' USB vendor ID; every QL-series
// model in the Model Registry answers under it.
const brotherVendorID gousb.ID = 0x04F9

const (
	writeTimeout     = 5 * time.Second
	statusReadTimeout = 5 * time.Second
	pollReadTimeout  = 500 * time.Millisecond
)

// DeviceWriter is the write half of the transport, the same narrow
// interface the teacher repo's phomemo.DeviceWriter exposes to its
// command-writing goroutine. Kept separate from DeviceReader so tests can
// fake either independently.
type DeviceWriter interface {
	Write(data []byte) error
}

// DeviceReader is the read half of the transport, used only by the
// Completion Monitor to poll for status frames.
type DeviceReader interface {
	Read(buf []byte) (int, error)
}

// Transport is the full duplex connection the Job Runner drives: write the
// encoded command stream out, read status frames back, and release the
// underlying device when the job (or session) ends.
type Transport interface {
	DeviceWriter
	DeviceReader
	// ReadWithTimeout performs one read bounded by timeout rather than the
	// implementation's default, letting the Completion Monitor shrink its
	// poll interval as the overall deadline approaches.
	ReadWithTimeout(buf []byte, timeout time.Duration) (int, error)
	Close() error
}

// usbTransport is Transport's gousb-backed implementation: one claimed
// interface on one matched device, with its bulk IN/OUT endpoints cached.
// Grounded on other_examples/AlexStarov-escpos-GoLang-lib's usbConn and
// other_examples/thereceipt-receipt-engine's detectUSB enumeration.
type usbTransport struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// OpenUSB locates and claims the QL-series device matching model and
// serial, per §4.6's Device Locator: enumerate devices under the Brother
// vendor ID with the model's product ID, pick the one whose serial string
// matches exactly, detach any attached kernel driver when the model
// requires it, and claim interface 0's default alternate setting.
func OpenUSB(model Model, serial string) (*usbTransport, error) {
	ctx := gousb.NewContext()

	productID := gousb.ID(model.ProductID())

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == brotherVendorID && desc.Product == productID
	})
	if err != nil {
		ctx.Close()
		return nil, &UsbError{Cause: err}
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, &DeviceNotFoundError{VendorID: uint16(brotherVendorID), ProductID: uint16(productID)}
	}

	dev, closeRest := pickBySerial(devs, serial)
	closeRest()
	if dev == nil {
		ctx.Close()
		return nil, &SerialMismatchError{Serial: serial}
	}

	if model.DetachKernelDriver() {
		if err := dev.SetAutoDetach(true); err != nil {
			dev.Close()
			ctx.Close()
			return nil, &AccessDeniedError{Cause: err}
		}
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, &AccessDeniedError{Cause: err}
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, &AccessDeniedError{Cause: err}
	}

	out, in, err := findBulkEndpoints(intf)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return &usbTransport{ctx: ctx, dev: dev, cfg: cfg, intf: intf, out: out, in: in}, nil
}

// pickBySerial returns the device among devs whose serial number string
// matches exactly, closing every other candidate. If none match, it
// returns nil and a no-op closer (the caller still owns ctx).
func pickBySerial(devs []*gousb.Device, serial string) (*gousb.Device, func()) {
	var picked *gousb.Device
	for _, d := range devs {
		if picked == nil {
			if s, err := d.SerialNumber(); err == nil && s == serial {
				picked = d
				continue
			}
		}
		d.Close()
	}
	return picked, func() {}
}

// findBulkEndpoints walks intf's endpoints looking for the bulk OUT and
// bulk IN pair every QL-series model exposes on its single interface.
func findBulkEndpoints(intf *gousb.Interface) (*gousb.OutEndpoint, *gousb.InEndpoint, error) {
	var outAddr, inAddr gousb.EndpointAddress
	var haveOut, haveIn bool

	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionOut && !haveOut {
			outAddr, haveOut = ep.Number, true
		}
		if ep.Direction == gousb.EndpointDirectionIn && !haveIn {
			inAddr, haveIn = ep.Number, true
		}
	}

	if !haveOut {
		return nil, nil, &EndpointMissingError{Direction: "OUT"}
	}
	if !haveIn {
		return nil, nil, &EndpointMissingError{Direction: "IN"}
	}

	out, err := intf.OutEndpoint(int(outAddr))
	if err != nil {
		return nil, nil, &AccessDeniedError{Cause: err}
	}
	in, err := intf.InEndpoint(int(inAddr))
	if err != nil {
		return nil, nil, &AccessDeniedError{Cause: err}
	}
	return out, in, nil
}

// Write sends data over the bulk OUT endpoint, failing with
// UsbTimeoutError if it doesn't complete within writeTimeout.
func (t *usbTransport) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := t.out.WriteContext(ctx, data); err != nil {
		if ctx.Err() != nil {
			return &UsbTimeoutError{Operation: "write"}
		}
		return &UsbWriteFailedError{Cause: err}
	}
	return nil
}

// Read performs one bulk IN transfer bounded by the fixed pollReadTimeout.
// ReadWithTimeout is what the Completion Monitor actually calls; Read
// exists to satisfy DeviceReader for callers that don't need to vary the
// timeout per call.
func (t *usbTransport) Read(buf []byte) (int, error) {
	return t.ReadWithTimeout(buf, pollReadTimeout)
}

// ReadWithTimeout performs one bulk IN transfer, returning UsbTimeoutError
// on deadline expiry rather than whatever raw error libusb surfaces, so
// the Completion Monitor can distinguish "nothing to read yet" from a real
// transport failure.
func (t *usbTransport) ReadWithTimeout(buf []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := t.in.ReadContext(ctx, buf)
	if err != nil {
		if ctx.Err() != nil {
			return n, &UsbTimeoutError{Operation: "read"}
		}
		return n, &UsbReadFailedError{Cause: err}
	}
	return n, nil
}

// Close releases the interface, config, device, and context in the reverse
// order they were acquired.
func (t *usbTransport) Close() error {
	if t.intf != nil {
		t.intf.Close()
	}
	if t.cfg != nil {
		t.cfg.Close()
	}
	var err error
	if t.dev != nil {
		err = t.dev.Close()
	}
	if t.ctx != nil {
		t.ctx.Close()
	}
	if err != nil {
		return fmt.Errorf("ptouch: closing device: %w", err)
	}
	return nil
}
