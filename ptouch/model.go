// Package ptouch drives Brother P-Touch QL-series label printers over USB.
package ptouch

import "fmt"

// Model identifies a physical QL-series printer. The zero value is not a
// valid model.
type Model int

const (
	QL500 Model = iota + 1
	QL550
	QL560
	QL650TD
	QL700
	QL710W
	QL720NW
	QL800
	QL810W
	QL820NWB
	QL1050
	QL1060N
	QL1100
	QL1110NWB
)

// modelSpec is the compile-time constant table backing the Model Registry.
// Every field here is an attribute §3 of the spec binds to a Model variant.
type modelSpec struct {
	name             string
	productID        uint16
	pins             int
	detachKernel     bool
	compressionCap   bool
	twoColorCap      bool
	statusModelCode  byte
}

var modelTable = map[Model]modelSpec{
	QL500:     {"QL-500", 0x2015, 720, true, false, false, 0x4F},
	QL550:     {"QL-550", 0x2016, 720, true, false, false, 0x31},
	QL560:     {"QL-560", 0x2027, 720, true, false, false, 0x32},
	QL650TD:   {"QL-650TD", 0x202B, 720, true, false, false, 0x33},
	QL700:     {"QL-700", 0x2029, 720, true, true, false, 0x35},
	QL1050:    {"QL-1050", 0x202A, 1296, true, true, false, 0x50},
	QL1060N:   {"QL-1060N", 0x202C, 1296, true, true, false, 0x34},
	QL710W:    {"QL-710W", 0x2042, 720, true, true, false, 0x36},
	QL720NW:   {"QL-720NW", 0x2043, 720, true, true, false, 0x37},
	QL800:     {"QL-800", 0x209B, 720, true, true, false, 0x38},
	QL810W:    {"QL-810W", 0x209C, 720, true, true, false, 0x39},
	QL820NWB:  {"QL-820NWB", 0x209D, 720, false, true, true, 0x41},
	QL1100:    {"QL-1100", 0x2044, 1296, true, true, false, 0x43},
	QL1110NWB: {"QL-1110NWB", 0x2045, 1296, true, true, false, 0x44},
}

// String returns the printer's commercial model name, e.g. "QL-820NWB".
func (m Model) String() string {
	if spec, ok := modelTable[m]; ok {
		return spec.name
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

func (m Model) spec() (modelSpec, bool) {
	spec, ok := modelTable[m]
	return spec, ok
}

// ProductID returns the USB product ID for this model under vendor 0x04F9.
func (m Model) ProductID() uint16 {
	spec, _ := m.spec()
	return spec.productID
}

// Pins returns the thermal head element count: 720 for standard models, 1296
// for wide QL-1xxx models.
func (m Model) Pins() int {
	spec, _ := m.spec()
	if spec.pins == 0 {
		return 720
	}
	return spec.pins
}

// RowWidth returns the raster row width in bytes (Pins/8): 90 or 162.
func (m Model) RowWidth() int {
	return m.Pins() / 8
}

// DetachKernelDriver reports whether the locator must detach the active
// kernel USB-printer driver from interface 0 before claiming it.
func (m Model) DetachKernelDriver() bool {
	spec, _ := m.spec()
	return spec.detachKernel
}

// SupportsCompression reports whether the model honors the TIFF-packbits
// compression flag in the encoded stream.
func (m Model) SupportsCompression() bool {
	spec, _ := m.spec()
	return spec.compressionCap
}

// SupportsTwoColor reports whether the model can print black+red jobs.
func (m Model) SupportsTwoColor() bool {
	spec, _ := m.spec()
	return spec.twoColorCap
}

// ParseModel looks up a Model by its commercial name, e.g. "QL-820NWB".
// Intended for CLI tools and config files that carry models as strings.
func ParseModel(name string) (Model, bool) {
	for m, spec := range modelTable {
		if spec.name == name {
			return m, true
		}
	}
	return 0, false
}

// modelFromStatusCode maps the model-code byte (status frame offset 4) back
// to a Model. Returns false if the code is not one of ours.
func modelFromStatusCode(code byte) (Model, bool) {
	for m, spec := range modelTable {
		if spec.statusModelCode == code {
			return m, true
		}
	}
	return 0, false
}
