// This file implements the raw Brother QL raster command byte sequences
// that get written to the device, the same way the teacher repo's
// printer/commands.go builds Phomemo command bytes.
package ptouch

const (
	esc byte = 0x1B
)

// invalidateCmd flushes any half-parsed prior command by sending 100 zero
// bytes. Only needed once, on the first job after open.
func invalidateCmd() []byte {
	return make([]byte, 100)
}

// initializeCmd resets the printer to a known state: ESC @.
func initializeCmd() []byte {
	return []byte{esc, 0x40}
}

// statusRequestCmd asks the device to reply with a 32-byte status frame:
// ESC i S.
func statusRequestCmd() []byte {
	return []byte{esc, 0x69, 0x53}
}

// switchToRasterModeCmd puts the device into raster transfer mode:
// ESC i a 0x01.
func switchToRasterModeCmd() []byte {
	return []byte{esc, 0x69, 0x61, 0x01}
}

// autoStatusNotifyCmd asks the device to push unsolicited status frames
// during printing rather than only replying to explicit polls: ESC i ! 0x00.
// See SPEC_FULL.md §16 — not in the original protocol dump, supplemented
// from original_source/src/printer.rs's print_label.
func autoStatusNotifyCmd() []byte {
	return []byte{esc, 0x69, 0x21, 0x00}
}

// printInformationFlag bits select which fields of printInformationCmd are
// considered valid by the device and whether quality/recovery hints apply.
type printInformationFlag byte

const (
	piMediaKindValid   printInformationFlag = 0x02
	piMediaWidthValid  printInformationFlag = 0x04
	piMediaLengthValid printInformationFlag = 0x08
	piHighQuality      printInformationFlag = 0x40
	piRecoverOn        printInformationFlag = 0x80
)

// printInformationCmd builds the 13-byte ESC i z print-information command
// emitted before every page: flag byte, media kind, media width (mm),
// media length (mm), 4-byte little-endian raster count, page index (0 for
// the first page of the job, 1 for any subsequent page), and a trailing
// zero byte.
func printInformationCmd(media Media, rasterCount uint32, isFirstPage bool) []byte {
	spec, _ := media.spec()
	flags := piMediaKindValid | piMediaWidthValid | piRecoverOn
	if spec.lengthMM != 0 {
		flags |= piMediaLengthValid
	}

	buf := make([]byte, 0, 13)
	buf = append(buf, esc, 0x69, 0x7A)
	buf = append(buf, byte(flags))
	buf = append(buf, byte(spec.kind))
	buf = append(buf, spec.widthMM)
	buf = append(buf, spec.lengthMM)
	buf = append(buf, le32(rasterCount)...)
	if isFirstPage {
		buf = append(buf, 0x00)
	} else {
		buf = append(buf, 0x01)
	}
	buf = append(buf, 0x00)
	return buf
}

// modeSettingsCmd builds the ESC i M various-mode command: bit6 enables
// auto-cut, bit7 enables mirror printing.
func modeSettingsCmd(autoCut, mirror bool) []byte {
	var mode byte
	if autoCut {
		mode |= 0x40
	}
	if mirror {
		mode |= 0x80
	}
	return []byte{esc, 0x69, 0x4D, mode}
}

// advancedModeCmd builds the ESC i K expanded-mode command: bit1 half-cut,
// bit2 set when chaining is *off* (i.e. cleared while chain-printing), bit3
// cut-at-end, bit6 high resolution, bit7 special tape. Bit3 (cut-at-end)
// and bit6 (high resolution) match original_source/src/printer.rs:556-572's
// expanded_mode exactly; the other flags are this module's own additions
// and sit in bits the original leaves unused.
func advancedModeCmd(cutAtEnd, halfCut, chainPrint, specialTape, highResolution bool) []byte {
	var mode byte
	if halfCut {
		mode |= 0x02
	}
	if !chainPrint {
		mode |= 0x04
	}
	if cutAtEnd {
		mode |= 0x08
	}
	if highResolution {
		mode |= 0x40
	}
	if specialTape {
		mode |= 0x80
	}
	return []byte{esc, 0x69, 0x4B, mode}
}

// cutEachCmd builds the ESC i A auto-cut-interval command. Callers must
// omit this command entirely when n is 0 (auto-cut disabled).
func cutEachCmd(n byte) []byte {
	return []byte{esc, 0x69, 0x41, n}
}

// marginCmd builds the ESC i d feed-amount command, a 2-byte little-endian
// dot count.
func marginCmd(feedDots uint16) []byte {
	return append([]byte{esc, 0x69, 0x64}, le16(feedDots)...)
}

// compressionCmd enables or disables TIFF-packbits row compression. Unlike
// every other command here this one carries no ESC prefix: it's a bare
// 'M' followed by the mode byte.
func compressionCmd(enabled bool) []byte {
	if enabled {
		return []byte{'M', 0x02}
	}
	return []byte{'M', 0x00}
}

// singleColorRowCmd builds one 'g'-prefixed raster row command: 'g' 0x00
// <dataLen> <data>. dataLen is len(data): the model's fixed row width
// (90 or 162) when uncompressed, or the packbits-compressed length when
// not.
func singleColorRowCmd(dataLen byte, data []byte) []byte {
	cmd := make([]byte, 0, 3+len(data))
	cmd = append(cmd, 'g', 0x00, dataLen)
	return append(cmd, data...)
}

// twoColorPlane selects which plane a two-color row command writes:
// black first, then red, per §9's interleaving note.
type twoColorPlane byte

const (
	planeBlack twoColorPlane = 0x01
	planeRed   twoColorPlane = 0x02
)

// twoColorRowCmd builds one 'w'-prefixed two-color raster row command:
// 'w' <plane> <dataLen> <data>.
func twoColorRowCmd(plane twoColorPlane, dataLen byte, data []byte) []byte {
	cmd := make([]byte, 0, 3+len(data))
	cmd = append(cmd, 'w', byte(plane), dataLen)
	return append(cmd, data...)
}

// blankRowCmd is the zero-data row optimization: a single 'Z' byte stands
// in for a row the encoder knows is entirely zero, when compression is
// disabled. Purely an optimization — never required for correctness.
func blankRowCmd() []byte {
	return []byte{'Z'}
}

const (
	pageContinue byte = 0x0C // FF: print and continue to the next page
	pageFinal    byte = 0x1A // SUB: print and eject/cut
)

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func isAllZero(row []byte) bool {
	for _, b := range row {
		if b != 0 {
			return false
		}
	}
	return true
}
