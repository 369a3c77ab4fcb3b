package ptouch

import "fmt"

// MediaKind distinguishes the two tape families the status frame reports in
// byte 11: continuous rolls cut to length by the printer, or pre-cut die-cut
// labels advanced by position marks.
type MediaKind byte

const (
	mediaKindContinuous MediaKind = 0x0A
	mediaKindDieCut      MediaKind = 0x0B
)

// Media identifies a supported tape. The zero value is not valid.
type Media int

const (
	Continuous12 Media = iota + 1
	Continuous29
	Continuous38
	Continuous50
	Continuous54
	Continuous62

	DieCut17x54
	DieCut17x87
	DieCut23x23
	DieCut29x42
	DieCut29x90
	DieCut38x90
	DieCut39x48
	DieCut52x29
	DieCut60x86
	DieCut62x29
	DieCut62x100
)

// mediaSpec carries every attribute §3 binds to a Media variant. Dot values
// are derived at 300dpi (≈11.811 dots/mm) centered in a 720-dot print head;
// see DESIGN.md for why these are computed rather than taken from a vendor
// table none of the examples carries verbatim.
type mediaSpec struct {
	kind           MediaKind
	widthMM        byte
	lengthMM       byte // 0 for continuous
	widthDots      int
	lengthDots     int // 0 for continuous
	leftOffsetDots int
	printWidthDots int
	defaultFeedDots int
}

var mediaTable = map[Media]mediaSpec{
	Continuous12: {mediaKindContinuous, 12, 0, 142, 0, 307, 106, 35},
	Continuous29: {mediaKindContinuous, 29, 0, 343, 0, 206, 307, 35},
	Continuous38: {mediaKindContinuous, 38, 0, 449, 0, 153, 413, 35},
	Continuous50: {mediaKindContinuous, 50, 0, 591, 0, 82, 555, 35},
	Continuous54: {mediaKindContinuous, 54, 0, 638, 0, 63, 594, 35},
	Continuous62: {mediaKindContinuous, 62, 0, 732, 0, 12, 696, 35},

	DieCut17x54:  {mediaKindDieCut, 17, 54, 201, 638, 277, 165, 35},
	DieCut17x87:  {mediaKindDieCut, 17, 87, 201, 1028, 277, 165, 35},
	DieCut23x23:  {mediaKindDieCut, 23, 23, 272, 272, 242, 236, 35},
	DieCut29x42:  {mediaKindDieCut, 29, 42, 343, 496, 206, 307, 35},
	DieCut29x90:  {mediaKindDieCut, 29, 90, 343, 1063, 206, 307, 35},
	DieCut38x90:  {mediaKindDieCut, 38, 90, 449, 1063, 153, 413, 35},
	DieCut39x48:  {mediaKindDieCut, 39, 48, 461, 567, 147, 425, 35},
	DieCut52x29:  {mediaKindDieCut, 52, 29, 614, 343, 71, 578, 35},
	DieCut60x86:  {mediaKindDieCut, 60, 86, 709, 1016, 23, 673, 35},
	DieCut62x29:  {mediaKindDieCut, 62, 29, 732, 343, 12, 696, 35},
	DieCut62x100: {mediaKindDieCut, 62, 100, 732, 1181, 12, 696, 35},
}

func (m Media) spec() (mediaSpec, bool) {
	spec, ok := mediaTable[m]
	return spec, ok
}

// IsContinuous reports whether m is a continuous roll rather than a die-cut
// label.
func (m Media) IsContinuous() bool {
	spec, _ := m.spec()
	return spec.kind == mediaKindContinuous
}

// WidthMM returns the tape width in millimetres.
func (m Media) WidthMM() int {
	spec, _ := m.spec()
	return int(spec.widthMM)
}

// LengthMM returns the die-cut label length in millimetres, or 0 for
// continuous media.
func (m Media) LengthMM() int {
	spec, _ := m.spec()
	return int(spec.lengthMM)
}

// PrintWidthDots returns the printable width in dots, excluding the
// unprintable margin on either edge of the tape.
func (m Media) PrintWidthDots() int {
	spec, _ := m.spec()
	return spec.printWidthDots
}

// LeftOffsetDots returns the offset, in dots, from the left edge of the
// print head to the first printable column of this media.
func (m Media) LeftOffsetDots() int {
	spec, _ := m.spec()
	return spec.leftOffsetDots
}

// DefaultFeedDots returns the margin/feed-amount value used for the "ESC i
// d" command when the caller does not override it.
func (m Media) DefaultFeedDots() int {
	spec, _ := m.spec()
	return spec.defaultFeedDots
}

// statusTriple returns the 3-byte (width_mm, kind, length_mm) pattern the
// status frame must report for this media to be considered a match.
func (m Media) statusTriple() (byte, byte, byte) {
	spec, _ := m.spec()
	return spec.widthMM, byte(spec.kind), spec.lengthMM
}

// String renders the media the way a caller would name it on a spool label,
// e.g. "29mm continuous" or "62x100mm die-cut".
func (m Media) String() string {
	spec, ok := m.spec()
	if !ok {
		return fmt.Sprintf("Media(%d)", int(m))
	}
	if spec.kind == mediaKindContinuous {
		return fmt.Sprintf("%dmm continuous", spec.widthMM)
	}
	return fmt.Sprintf("%dx%dmm die-cut", spec.widthMM, spec.lengthMM)
}

// ParseMedia looks up a Media by its String() rendering, e.g. "29mm
// continuous" or "62x100mm die-cut". Intended for CLI tools and config
// files that carry media as strings.
func ParseMedia(name string) (Media, bool) {
	for m := range mediaTable {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// mediaFromTriple looks up the Media whose status triple matches, per §3's
// invariant. Continuous media matches on width+kind alone: the device's
// length byte (status frame offset 14) carries something other than a
// label length for continuous rolls — scenario 2 reports 0x15 there for a
// 62mm continuous roll, so it plays no part in the match, the way
// original_source/src/media.rs's from_buf treats it. Die-cut media matches
// width+kind+length, with length taken from offset 17, not 14.
func mediaFromTriple(widthMM, kind, lengthMM byte) (Media, bool) {
	for m, spec := range mediaTable {
		if spec.widthMM != widthMM || byte(spec.kind) != kind {
			continue
		}
		if spec.kind == mediaKindDieCut && spec.lengthMM != lengthMM {
			continue
		}
		return m, true
	}
	return 0, false
}

// checkFeedDots validates a caller-supplied feed override against this
// media's allowed range. original_source/src/printer.rs's Config::build
// calls a check_feed_value bound to the installed media that the retrieved
// source doesn't carry the body of, so the bound here is our own: negative
// values are always invalid, and anything past three times the media's
// default feed amount is rejected as almost certainly a units mistake
// (dots instead of mm, or similar) rather than a deliberate margin.
func (m Media) checkFeedDots(feed int) error {
	spec, ok := m.spec()
	if !ok {
		return &InvalidConfigError{Reason: "unknown media"}
	}
	maxFeed := spec.defaultFeedDots * 3
	if feed < 0 || feed > maxFeed {
		return &InvalidConfigError{Reason: fmt.Sprintf("feed amount %d dots out of range for %s (max %d)", feed, m, maxFeed)}
	}
	return nil
}
