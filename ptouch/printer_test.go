package ptouch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStatusFrame() []byte {
	return buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(ReplyToRequest), 0, 0)
}

func terminalFrame() []byte {
	return buildStatusFrame(0x38, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(NotifyExitedIF), 0, 0)
}

func TestOpenWithTransportSendsPreambleAndVerifiesMedia(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{openStatusFrame()}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)
	require.NotNil(t, p)

	require.GreaterOrEqual(t, len(transport.writes), 3)
	assert.Equal(t, invalidateCmd(), transport.writes[0])
	assert.Equal(t, initializeCmd(), transport.writes[1])
	assert.Equal(t, statusRequestCmd(), transport.writes[2])
}

func TestOpenWithTransportRejectsMediaMismatch(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous29)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{openStatusFrame()}}
	_, err = OpenWithTransport(cfg, transport)

	var mismatch *MediaMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestPrintSinglePageRunsCompletionMonitor(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{openStatusFrame(), terminalFrame()}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	pages := NewSlicePageSource([]Matrix{page(4, 90)})
	require.NoError(t, p.Print(pages))
}

func TestPrintSendsAutoStatusNotifyRightAfterRasterModeSwitch(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{openStatusFrame(), terminalFrame()}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	writesBeforePrint := len(transport.writes)
	pages := NewSlicePageSource([]Matrix{page(1, 90)})
	require.NoError(t, p.Print(pages))

	require.Greater(t, len(transport.writes), writesBeforePrint+1)
	assert.Equal(t, switchToRasterModeCmd(), transport.writes[writesBeforePrint])
	assert.Equal(t, autoStatusNotifyCmd(), transport.writes[writesBeforePrint+1])
}

func TestPrintMultiPageRunsMonitorEveryPage(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{
		openStatusFrame(),
		terminalFrame(),
		terminalFrame(),
	}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	pages := NewSlicePageSource([]Matrix{page(3, 90), page(3, 90)})
	require.NoError(t, p.Print(pages))
}

func TestPrintPropagatesPrinterError(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	errorFrame := buildStatusFrame(0x38, bit1NoMedia, 0, 62, byte(mediaKindContinuous), 0, 0, byte(ErrorOccurred), 0, 0)
	transport := &fakeTransport{reads: [][]byte{openStatusFrame(), errorFrame}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	pages := NewSlicePageSource([]Matrix{page(2, 90)})
	err = p.Print(pages)

	var printerErr *PrinterError
	require.ErrorAs(t, err, &printerErr)
	assert.Equal(t, ErrorNoMedia, printerErr.Kind)
}

func TestPrintTwoColorOnCapableModel(t *testing.T) {
	cfg, err := NewConfig(QL820NWB, "serial", Continuous62, WithTwoColors(true))
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{
		buildStatusFrame(0x41, 0, 0, 62, byte(mediaKindContinuous), 0, 0, byte(ReplyToRequest), 0, 0),
		terminalFrame(),
	}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	black := page(2, 90)
	red := page(2, 90)
	tc, err := NewTwoColorMatrix(black, red)
	require.NoError(t, err)

	pages := NewSliceTwoColorPageSource([]*TwoColorMatrix{tc})
	require.NoError(t, p.PrintTwoColor(pages))
}

func TestCloseClosesTransport(t *testing.T) {
	cfg, err := NewConfig(QL800, "serial", Continuous62)
	require.NoError(t, err)

	transport := &fakeTransport{reads: [][]byte{openStatusFrame()}}
	p, err := OpenWithTransport(cfg, transport)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, transport.closed)
}
