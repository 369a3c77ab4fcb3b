package ptouch

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aRandomMatrix(rowWidth int) Matrix {
	height := 1 + rand.IntN(50)
	m := make(Matrix, height)
	for y := range m {
		row := make([]byte, rowWidth)
		for x := range row {
			row[x] = byte(rand.IntN(256))
		}
		m[y] = row
	}
	return m
}

func TestMatrixCheckRowWidth(t *testing.T) {
	for i := 0; i < 20; i++ {
		m := aRandomMatrix(90)
		assert.NoError(t, m.checkRowWidth(90))
		assert.Error(t, m.checkRowWidth(91))
	}
}

func TestMatrixRowCount(t *testing.T) {
	m := aRandomMatrix(90)
	assert.Equal(t, len(m), m.RowCount())
}

func TestNewTwoColorMatrixRejectsMismatchedHeight(t *testing.T) {
	black := aRandomMatrix(90)
	red := aRandomMatrix(90)[:len(black)/2]

	_, err := NewTwoColorMatrix(black, red)
	assert.Error(t, err)
}

func TestNewTwoColorMatrixRejectsMismatchedRowWidth(t *testing.T) {
	black := Matrix{make([]byte, 90)}
	red := Matrix{make([]byte, 89)}

	_, err := NewTwoColorMatrix(black, red)
	assert.Error(t, err)
}

func TestNewTwoColorMatrixRowCount(t *testing.T) {
	black := aRandomMatrix(90)
	red := make(Matrix, len(black))
	for i := range red {
		red[i] = make([]byte, 90)
	}

	tc, err := NewTwoColorMatrix(black, red)
	require.NoError(t, err)
	assert.Equal(t, len(black), tc.RowCount())
}

func TestSlicePageSourceExhausts(t *testing.T) {
	pages := []Matrix{aRandomMatrix(90), aRandomMatrix(90)}
	src := NewSlicePageSource(pages)

	for i := 0; i < len(pages); i++ {
		p, ok, err := src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, pages[i], p)
	}

	_, ok, err := src.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSliceTwoColorPageSourceExhausts(t *testing.T) {
	black := aRandomMatrix(90)
	red := make(Matrix, len(black))
	for i := range red {
		red[i] = make([]byte, 90)
	}
	tc, err := NewTwoColorMatrix(black, red)
	require.NoError(t, err)

	src := NewSliceTwoColorPageSource([]*TwoColorMatrix{tc})

	p, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, tc, p)

	_, ok, err = src.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
