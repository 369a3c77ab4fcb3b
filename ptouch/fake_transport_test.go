package ptouch

import "time"

// fakeTransport is the injectable Transport the tests drive instead of a
// real USB device, the same role
// printer/phomemo/controller.go's DeviceWriter interface played for the
// teacher's tests.
type fakeTransport struct {
	writes   [][]byte
	reads    [][]byte
	readIdx  int
	writeErr error
	closed   bool
	// onTimeout runs whenever ReadWithTimeout finds nothing left to return,
	// letting monitor tests advance a fakeClock the way a real blocking
	// bulk IN read would advance the wall clock on its own.
	onTimeout func()
}

func (f *fakeTransport) Write(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.writes = append(f.writes, cp)
	return nil
}

func (f *fakeTransport) Read(buf []byte) (int, error) {
	return f.ReadWithTimeout(buf, 0)
}

func (f *fakeTransport) ReadWithTimeout(buf []byte, _ time.Duration) (int, error) {
	if f.readIdx >= len(f.reads) {
		if f.onTimeout != nil {
			f.onTimeout()
		}
		return 0, &UsbTimeoutError{Operation: "read"}
	}
	frame := f.reads[f.readIdx]
	f.readIdx++
	return copy(buf, frame), nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// buildStatusFrame assembles a syntactically valid 32-byte status frame
// for tests, per §4.4's byte layout. lengthMM lands at offset 17 (the
// die-cut length byte the decoder actually reads); offset 14 is left zero
// since it plays no part in media matching.
func buildStatusFrame(modelCode, errByte1, errByte2, widthMM, kindByte, lengthMM, mode, statusTypeByte, phaseByte, notifByte byte) []byte {
	f := make([]byte, statusFrameSize)
	copy(f[0:4], statusMagic)
	f[4] = modelCode
	f[8] = errByte1
	f[9] = errByte2
	f[10] = widthMM
	f[11] = kindByte
	f[17] = lengthMM
	f[15] = mode
	f[18] = statusTypeByte
	f[19] = phaseByte
	f[22] = notifByte
	return f
}
