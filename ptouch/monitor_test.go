package ptouch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets the Completion Monitor tests run instantly instead of
// waiting out real deadlines, the same seam the teacher's printer tests
// get for free by injecting a DeviceWriter.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) sleep(d time.Duration) { c.t = c.t.Add(d) }

// withPhaseNumber sets a frame's offset-20/21 phase number, big-endian, so
// tests can simulate a long label whose Printing frames keep reporting
// forward progress across a real gap between polls.
func withPhaseNumber(frame []byte, n uint16) []byte {
	frame[20] = byte(n >> 8)
	frame[21] = byte(n)
	return frame
}

func TestWaitForCompletionAcceptsDirectTerminalTransition(t *testing.T) {
	transport := &fakeTransport{
		reads: [][]byte{
			buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(NotifyExitedIF), 0, 0),
		},
	}

	status, err := waitForCompletion(transport, 10, &fakeClock{})
	require.NoError(t, err)
	assert.Equal(t, NotifyExitedIF, status.StatusType)
}

func TestWaitForCompletionAcceptsPrintingThenPhaseChange(t *testing.T) {
	transport := &fakeTransport{
		reads: [][]byte{
			buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(Printing), 0x01, 0),
			buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, 0x06, 0x00, 0), // 0x06: PhaseChange on the wire
		},
	}

	status, err := waitForCompletion(transport, 10, &fakeClock{})
	require.NoError(t, err)
	assert.Equal(t, PhaseChange, status.StatusType)
	assert.Equal(t, Receiving, status.Phase)
}

func TestWaitForCompletionSurfacesPrinterError(t *testing.T) {
	transport := &fakeTransport{
		reads: [][]byte{
			buildStatusFrame(0x38, bit1CutterJam, 0, 62, byte(mediaKindContinuous), 0, 0, byte(ErrorOccurred), 0, 0),
		},
	}

	_, err := waitForCompletion(transport, 10, &fakeClock{})
	var printerErr *PrinterError
	require.ErrorAs(t, err, &printerErr)
	assert.Equal(t, ErrorCutterJam, printerErr.Kind)
}

func TestWaitForCompletionToleratesGapsWhenPhaseNumberAdvances(t *testing.T) {
	clock := &fakeClock{}
	frame1 := withPhaseNumber(buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(Printing), 0x01, 0), 1)
	frame2 := withPhaseNumber(buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(Printing), 0x01, 0), 2)
	frame3 := buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, 0x06, 0x00, 0) // 0x06: PhaseChange on the wire

	transport := &fakeTransport{reads: [][]byte{frame1}}
	step := 0
	transport.onTimeout = func() {
		clock.sleep(stallBudget + time.Second)
		switch step {
		case 0:
			transport.reads = append(transport.reads, frame2)
		case 1:
			transport.reads = append(transport.reads, frame3)
		}
		step++
	}

	// rowCount=1000 gives a 10s deadline; two gaps just over stallBudget
	// (3s) total 8s, so a healthy long print must not trip
	// UnexpectedPhaseError just because successive Printing frames land
	// more than stallBudget apart — the phase number keeps advancing.
	status, err := waitForCompletion(transport, 1000, clock)
	require.NoError(t, err)
	assert.Equal(t, PhaseChange, status.StatusType)
}

func TestWaitForCompletionAbortsOnGenuineStall(t *testing.T) {
	clock := &fakeClock{}
	frame := withPhaseNumber(buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(Printing), 0x01, 0), 1)

	transport := &fakeTransport{reads: [][]byte{frame}}
	advanced := false
	transport.onTimeout = func() {
		if advanced {
			return
		}
		clock.sleep(stallBudget + time.Second)
		transport.reads = append(transport.reads, frame)
		advanced = true
	}

	_, err := waitForCompletion(transport, 1000, clock)
	var phaseErr *UnexpectedPhaseError
	require.ErrorAs(t, err, &phaseErr)
}

func TestWaitForCompletionTimesOutWhenNothingArrives(t *testing.T) {
	clock := &fakeClock{}
	transport := &fakeTransport{
		onTimeout: func() { clock.sleep(pollTimeout) },
	}

	_, err := waitForCompletion(transport, 0, clock)
	var timeoutErr *PrintTimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}
