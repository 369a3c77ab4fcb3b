package ptouch

import "log/slog"

// Printer is an open session against one physical device: a claimed
// Transport plus the Config that validated against it at Open time. It is
// not safe for concurrent use — one job at a time, the way §4.6 describes
// the Job Runner driving a single wire stream start to finish.
type Printer struct {
	cfg       *Config
	transport Transport
	logger    *slog.Logger
}

// Open runs the Device Locator, performs the initial status exchange, and
// verifies the device's installed media matches cfg, per §4.6's open
// sequence. On success it returns a ready-to-print handle; on any failure
// the partially-opened transport is closed before returning.
func Open(cfg *Config) (*Printer, error) {
	transport, err := OpenUSB(cfg.model, cfg.serial)
	if err != nil {
		cfg.logger.Error("device locator failed", "model", cfg.model, "serial", cfg.serial, "error", err)
		return nil, err
	}
	cfg.logger.Debug("device found", "model", cfg.model, "serial", cfg.serial)

	p, err := openSession(cfg, transport)
	if err != nil {
		transport.Close()
		return nil, err
	}
	return p, nil
}

// OpenWithTransport is Open's test seam: it skips the Device Locator and
// drives an already-constructed Transport directly, the way the teacher
// repo's initialise(w DeviceWriter) accepts a fake writer in tests.
func OpenWithTransport(cfg *Config, transport Transport) (*Printer, error) {
	return openSession(cfg, transport)
}

func openSession(cfg *Config, transport Transport) (*Printer, error) {
	p := &Printer{cfg: cfg, transport: transport, logger: cfg.logger}

	if err := writeAll(p.transport, invalidateCmd()); err != nil {
		return nil, err
	}
	if err := writeAll(p.transport, initializeCmd()); err != nil {
		return nil, err
	}

	status, err := p.ReadStatus()
	if err != nil {
		return nil, err
	}
	if err := status.checkMedia(cfg.media); err != nil {
		p.logger.Error("media mismatch at open", "expected", cfg.media, "actual", status.Media)
		return nil, err
	}

	p.logger.Info("printer opened", "model", cfg.model, "media", cfg.media, "serial", cfg.serial)
	return p, nil
}

// ReadStatus requests and decodes a fresh status frame.
func (p *Printer) ReadStatus() (*Status, error) {
	if err := writeAll(p.transport, statusRequestCmd()); err != nil {
		return nil, err
	}
	buf := make([]byte, statusFrameSize)
	n, err := p.transport.ReadWithTimeout(buf, statusReadTimeout)
	if err != nil {
		return nil, err
	}
	status, err := decodeStatus(buf[:n])
	if err != nil {
		return nil, err
	}
	p.logger.Debug("status frame decoded", "type", status.StatusType, "phase", status.Phase, "media", status.Media)
	return status, nil
}

// Print encodes and sends a single-color job, running the Completion
// Monitor after every page per §4.6's per-page hand-off: the session
// preamble (switch to raster mode) is sent once, then each page's
// preamble, rows, and terminator go out before the monitor is awaited.
func (p *Printer) Print(pages PageSource) error {
	rowWidth := p.cfg.model.RowWidth()

	if err := writeRasterModePreamble(p.transport); err != nil {
		return err
	}

	pageIndex := 0
	current, ok, err := pages.Next()
	if err != nil {
		return err
	}

	for ok {
		if err := current.checkRowWidth(rowWidth); err != nil {
			return err
		}

		rowCount := current.RowCount()
		if err := writePagePreamble(p.transport, p.cfg, rowCount, pageIndex == 0); err != nil {
			return err
		}
		for _, row := range current {
			if err := writeSingleColorRow(p.transport, p.cfg, row); err != nil {
				return err
			}
		}

		next, nextOk, nextErr := pages.Next()
		if nextErr != nil {
			return nextErr
		}

		if err := writePageTerminator(p.transport, p.cfg, !nextOk); err != nil {
			return err
		}
		p.logger.Debug("page sent", "page", pageIndex, "rows", rowCount)

		if _, err := WaitForCompletion(p.transport, rowCount); err != nil {
			p.logger.Error("job failed", "page", pageIndex, "error", err)
			return err
		}

		current, ok = next, nextOk
		pageIndex++
	}

	p.logger.Info("job completed", "pages", pageIndex)
	return nil
}

// PrintTwoColor is Print's two-color counterpart.
func (p *Printer) PrintTwoColor(pages TwoColorPageSource) error {
	rowWidth := p.cfg.model.RowWidth()

	if err := writeRasterModePreamble(p.transport); err != nil {
		return err
	}

	pageIndex := 0
	current, ok, err := pages.Next()
	if err != nil {
		return err
	}

	for ok {
		if err := current.Black.checkRowWidth(rowWidth); err != nil {
			return err
		}
		if err := current.Red.checkRowWidth(rowWidth); err != nil {
			return err
		}

		rowCount := current.RowCount()
		// Two-color mode reports 2R in the raster-count field, per §8
		// invariant 4.
		if err := writePagePreamble(p.transport, p.cfg, rowCount*2, pageIndex == 0); err != nil {
			return err
		}
		for i := 0; i < rowCount; i++ {
			if err := writeTwoColorRow(p.transport, p.cfg, planeBlack, current.Black[i]); err != nil {
				return err
			}
			if err := writeTwoColorRow(p.transport, p.cfg, planeRed, current.Red[i]); err != nil {
				return err
			}
		}

		next, nextOk, nextErr := pages.Next()
		if nextErr != nil {
			return nextErr
		}

		if err := writePageTerminator(p.transport, p.cfg, !nextOk); err != nil {
			return err
		}
		p.logger.Debug("page sent", "page", pageIndex, "rows", rowCount, "twoColor", true)

		if _, err := WaitForCompletion(p.transport, rowCount); err != nil {
			p.logger.Error("job failed", "page", pageIndex, "error", err)
			return err
		}

		current, ok = next, nextOk
		pageIndex++
	}

	p.logger.Info("job completed", "pages", pageIndex, "twoColor", true)
	return nil
}

// Close releases the underlying transport. The session is unusable
// afterward; a subsequent job requires a fresh Open.
func (p *Printer) Close() error {
	return p.transport.Close()
}
