package ptouch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidateCmdIs100Zeros(t *testing.T) {
	cmd := invalidateCmd()
	assert.Len(t, cmd, 100)
	assert.True(t, isAllZero(cmd))
}

func TestInitializeCmd(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 0x40}, initializeCmd())
}

func TestStatusRequestCmd(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 0x69, 0x53}, statusRequestCmd())
}

func TestAutoStatusNotifyCmd(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 0x69, 0x21, 0x00}, autoStatusNotifyCmd())
}

func TestPrintInformationCmdLength(t *testing.T) {
	cmd := printInformationCmd(Continuous62, 100, true)
	assert.Len(t, cmd, 13)
	assert.Equal(t, byte(0x00), cmd[3]&0x08, "continuous media must not set the length-valid bit")
}

func TestPrintInformationCmdDieCutSetsLengthValid(t *testing.T) {
	cmd := printInformationCmd(DieCut62x100, 100, true)
	assert.NotEqual(t, byte(0), cmd[3]&0x08)
}

func TestModeSettingsCmd(t *testing.T) {
	assert.Equal(t, byte(0x40), modeSettingsCmd(true, false)[3])
	assert.Equal(t, byte(0x80), modeSettingsCmd(false, true)[3])
	assert.Equal(t, byte(0x00), modeSettingsCmd(false, false)[3])
}

func TestAdvancedModeCmdBits(t *testing.T) {
	mode := advancedModeCmd(true, true, false, true, true)[3]
	assert.NotEqual(t, byte(0), mode&0x02, "half-cut bit")
	assert.NotEqual(t, byte(0), mode&0x04, "chain-off bit set when chainPrint is false")
	assert.NotEqual(t, byte(0), mode&0x08, "cut-at-end bit")
	assert.NotEqual(t, byte(0), mode&0x40, "high resolution bit")
	assert.NotEqual(t, byte(0), mode&0x80, "special tape bit")

	chained := advancedModeCmd(false, false, true, false, false)[3]
	assert.Equal(t, byte(0), chained&0x04, "chain-off bit clear when chainPrint is true")
	assert.Equal(t, byte(0), chained&0x08, "cut-at-end bit clear when cutAtEnd is false")
}

func TestMarginCmdLittleEndian(t *testing.T) {
	cmd := marginCmd(300)
	assert.Equal(t, []byte{0x1B, 0x69, 0x64, 0x2C, 0x01}, cmd)
}

func TestCompressionCmd(t *testing.T) {
	assert.Equal(t, []byte{'M', 0x02}, compressionCmd(true))
	assert.Equal(t, []byte{'M', 0x00}, compressionCmd(false))
}

func TestSingleColorRowCmd(t *testing.T) {
	data := []byte{0xAA, 0xBB}
	cmd := singleColorRowCmd(byte(len(data)), data)
	assert.Equal(t, []byte{'g', 0x00, 0x02, 0xAA, 0xBB}, cmd)
}

func TestTwoColorRowCmd(t *testing.T) {
	data := []byte{0xCC}
	cmd := twoColorRowCmd(planeRed, byte(len(data)), data)
	assert.Equal(t, []byte{'w', 0x02, 0x01, 0xCC}, cmd)
}

func TestBlankRowCmd(t *testing.T) {
	assert.Equal(t, []byte{'Z'}, blankRowCmd())
}

func TestIsAllZero(t *testing.T) {
	assert.True(t, isAllZero([]byte{0, 0, 0}))
	assert.False(t, isAllZero([]byte{0, 1, 0}))
	assert.True(t, isAllZero(nil))
}
