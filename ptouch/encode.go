package ptouch

import "io"

// EncodeJob writes one single-color print job's full raster command stream
// to w, pulling pages lazily from pages so a caller never needs to hold an
// entire multi-page job in memory at once. It returns the total row count
// written across all pages.
//
// Mirrors how original_source/src/printer.rs's print_label walks its page
// list, translated into Go's pull-based iterator idiom instead of an eager
// Vec.
func EncodeJob(out io.Writer, cfg *Config, pages PageSource) (int, error) {
	w := asDeviceWriter(out)
	rowWidth := cfg.model.RowWidth()

	if err := writeRasterModePreamble(w); err != nil {
		return 0, err
	}

	totalRows := 0
	pageIndex := 0

	current, ok, err := pages.Next()
	if err != nil {
		return 0, err
	}

	for ok {
		if err := current.checkRowWidth(rowWidth); err != nil {
			return totalRows, err
		}

		if err := writePagePreamble(w, cfg, current.RowCount(), pageIndex == 0); err != nil {
			return totalRows, err
		}

		for _, row := range current {
			if err := writeSingleColorRow(w, cfg, row); err != nil {
				return totalRows, err
			}
			totalRows++
		}

		next, nextOk, nextErr := pages.Next()
		if nextErr != nil {
			return totalRows, nextErr
		}

		if err := writePageTerminator(w, cfg, !nextOk); err != nil {
			return totalRows, err
		}

		current, ok = next, nextOk
		pageIndex++
	}

	return totalRows, nil
}

// EncodeTwoColorJob is EncodeJob's two-color counterpart: every raster row
// is emitted as a black-plane command immediately followed by its red-plane
// command, per §9's interleaving note. Only QL-820NWB-class models accept
// this stream; callers are expected to have already checked
// cfg.model.SupportsTwoColor() via NewConfig's WithTwoColors validation.
func EncodeTwoColorJob(out io.Writer, cfg *Config, pages TwoColorPageSource) (int, error) {
	w := asDeviceWriter(out)
	rowWidth := cfg.model.RowWidth()

	if err := writeRasterModePreamble(w); err != nil {
		return 0, err
	}

	totalRows := 0
	pageIndex := 0

	current, ok, err := pages.Next()
	if err != nil {
		return 0, err
	}

	for ok {
		if err := current.Black.checkRowWidth(rowWidth); err != nil {
			return totalRows, err
		}
		if err := current.Red.checkRowWidth(rowWidth); err != nil {
			return totalRows, err
		}

		// Two-color mode reports 2R in the raster-count field: the device
		// counts the black and red plane rows it must receive separately,
		// per §8 invariant 4.
		if err := writePagePreamble(w, cfg, current.RowCount()*2, pageIndex == 0); err != nil {
			return totalRows, err
		}

		for i := 0; i < current.RowCount(); i++ {
			if err := writeTwoColorRow(w, cfg, planeBlack, current.Black[i]); err != nil {
				return totalRows, err
			}
			if err := writeTwoColorRow(w, cfg, planeRed, current.Red[i]); err != nil {
				return totalRows, err
			}
			totalRows++
		}

		next, nextOk, nextErr := pages.Next()
		if nextErr != nil {
			return totalRows, nextErr
		}

		if err := writePageTerminator(w, cfg, !nextOk); err != nil {
			return totalRows, err
		}

		current, ok = next, nextOk
		pageIndex++
	}

	return totalRows, nil
}

// asDeviceWriter adapts an exported io.Writer (e.g. a caller's
// bytes.Buffer or os.File) down to the narrow DeviceWriter shape the
// internal command writers share with Transport, so the same helpers drive
// both EncodeJob's streaming-to-a-writer path and Printer's
// streaming-to-a-Transport path.
func asDeviceWriter(w io.Writer) DeviceWriter {
	if dw, ok := w.(DeviceWriter); ok {
		return dw
	}
	return ioWriterAdapter{w}
}

type ioWriterAdapter struct{ w io.Writer }

func (a ioWriterAdapter) Write(data []byte) error {
	_, err := a.w.Write(data)
	return err
}

// writeRasterModePreamble switches the device into raster transfer mode
// and, right after, asks it to push unsolicited status frames during
// printing (see SPEC_FULL.md §16 and original_source/src/printer.rs's
// print_label), once per job (each EncodeJob/Print call) before the first
// page preamble.
func writeRasterModePreamble(w DeviceWriter) error {
	if err := writeAll(w, switchToRasterModeCmd()); err != nil {
		return err
	}
	return writeAll(w, autoStatusNotifyCmd())
}

// writePagePreamble emits every command that precedes a page's raster rows:
// print-information, mode settings, advanced mode, the optional cut-each-N
// interval, the feed/margin amount, and the compression flag.
func writePagePreamble(w DeviceWriter, cfg *Config, rasterCount int, isFirstPage bool) error {
	if err := writeAll(w, printInformationCmd(cfg.media, uint32(rasterCount), isFirstPage)); err != nil {
		return err
	}
	if err := writeAll(w, modeSettingsCmd(cfg.enableAutoCut > 0, false)); err != nil {
		return err
	}
	if err := writeAll(w, advancedModeCmd(cfg.cutAtEnd, cfg.halfCut, cfg.chainPrint, cfg.specialTape, cfg.highResolution)); err != nil {
		return err
	}
	if cfg.enableAutoCut > 0 {
		if err := writeAll(w, cutEachCmd(byte(cfg.enableAutoCut))); err != nil {
			return err
		}
	}
	if err := writeAll(w, marginCmd(uint16(cfg.feedDots))); err != nil {
		return err
	}
	return writeAll(w, compressionCmd(cfg.compress))
}

// writePageTerminator emits the page-end byte: the job's last page always
// gets the eject terminator, every other page gets the continue terminator
// (invariant 6: exactly N-1 0x0C's and one terminal 0x1A, unconditionally).
// cfg.cutAtEnd does not select the terminator — 0x0C means "print and wait
// for more data," so replacing the final 0x1A with it stalls the job. It
// is carried on the ESC i K mode byte instead; see advancedModeCmd.
func writePageTerminator(w DeviceWriter, cfg *Config, isLastPage bool) error {
	if isLastPage {
		return writeAll(w, []byte{pageFinal})
	}
	return writeAll(w, []byte{pageContinue})
}

// writeSingleColorRow emits one row: the bare 'Z' shortcut only when the
// caller opted in via WithBlankRowShortcut, packbits compression when
// enabled, and a full 'g'-prefixed row command otherwise. One row command
// per row is the default so row-count invariants (§8) hold without the
// caller needing to know about the optimization.
func writeSingleColorRow(w DeviceWriter, cfg *Config, row []byte) error {
	if cfg.blankRowShortcut && !cfg.compress && isAllZero(row) {
		return writeAll(w, blankRowCmd())
	}
	data := row
	if cfg.compress {
		data = packBits(row)
	}
	return writeAll(w, singleColorRowCmd(byte(len(data)), data))
}

// writeTwoColorRow is writeSingleColorRow's per-plane counterpart.
func writeTwoColorRow(w DeviceWriter, cfg *Config, plane twoColorPlane, row []byte) error {
	if cfg.blankRowShortcut && !cfg.compress && isAllZero(row) {
		return writeAll(w, blankRowCmd())
	}
	data := row
	if cfg.compress {
		data = packBits(row)
	}
	return writeAll(w, twoColorRowCmd(plane, byte(len(data)), data))
}

func writeAll(w DeviceWriter, data []byte) error {
	if err := w.Write(data); err != nil {
		return &UsbWriteFailedError{Cause: err}
	}
	return nil
}

// packBits implements the TIFF PackBits run-length scheme used by the
// compression flag: runs of 2-128 identical bytes collapse to a 2-byte
// (count, value) pair, and literal stretches of up to 128 bytes are passed
// through with a 1-byte length prefix.
func packBits(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i, n := 0, len(data)

	for i < n {
		runLen := 1
		for i+runLen < n && runLen < 128 && data[i+runLen] == data[i] {
			runLen++
		}

		if runLen >= 2 {
			out = append(out, byte(1-runLen), data[i])
			i += runLen
			continue
		}

		start := i
		i++
		for i < n && i-start < 128 {
			if i+1 < n && data[i] == data[i+1] {
				break
			}
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, data[start:i]...)
	}

	return out
}
