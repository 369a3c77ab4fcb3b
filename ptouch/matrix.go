package ptouch

import "fmt"

// Matrix is an ordered sequence of raster rows for one label. Each row must
// be exactly pin_count/8 bytes (90 for standard models, 162 for wide ones),
// MSB-left. Row count is the vertical pixel length of the label.
type Matrix [][]byte

// RowCount returns the number of rows (the label's vertical pixel length).
func (m Matrix) RowCount() int { return len(m) }

// checkRowWidth verifies every row's byte length matches expected,
// returning RowWidthMismatchError on the first row that doesn't — the
// invariant in §4.5's "Row width invariant".
func (m Matrix) checkRowWidth(expected int) error {
	for _, row := range m {
		if len(row) != expected {
			return &RowWidthMismatchError{Expected: expected, Actual: len(row)}
		}
	}
	return nil
}

// TwoColorMatrix pairs black and red planes for two-color printing. Both
// planes must have identical row count and row width; NewTwoColorMatrix
// enforces this at construction, mirroring
// original_source/src/utils.rs's TwoColorMatrix::new.
type TwoColorMatrix struct {
	Black Matrix
	Red   Matrix
}

// NewTwoColorMatrix validates that black and red have identical dimensions
// before returning a usable TwoColorMatrix.
func NewTwoColorMatrix(black, red Matrix) (*TwoColorMatrix, error) {
	if len(black) != len(red) {
		return nil, fmt.Errorf("ptouch: black and red matrices must have the same row count (%d vs %d)", len(black), len(red))
	}
	for i := range black {
		if len(black[i]) != len(red[i]) {
			return nil, fmt.Errorf("ptouch: row %d has mismatched widths (%d vs %d)", i, len(black[i]), len(red[i]))
		}
	}
	return &TwoColorMatrix{Black: black, Red: red}, nil
}

// RowCount returns the shared row count of the black/red planes.
func (t *TwoColorMatrix) RowCount() int { return t.Black.RowCount() }

// PageSource lazily produces the single-color pages of a job, one at a
// time. Next returns the next page and true, or a zero Matrix and false
// once exhausted; an error aborts the job immediately. The Job Encoder
// never calls Next again after it returns ok=false or a non-nil error.
//
// Callers holding an eagerly-built []Matrix should wrap it with
// SlicePageSource rather than implement this themselves.
type PageSource interface {
	Next() (Matrix, bool, error)
}

// TwoColorPageSource is PageSource's two-color counterpart.
type TwoColorPageSource interface {
	Next() (*TwoColorMatrix, bool, error)
}

// SlicePageSource adapts an eagerly-collected slice of pages into a
// PageSource, per §9's "implementations with eager collections must wrap
// them in an adapter".
type SlicePageSource struct {
	pages []Matrix
	pos   int
}

// NewSlicePageSource wraps pages as a PageSource.
func NewSlicePageSource(pages []Matrix) *SlicePageSource {
	return &SlicePageSource{pages: pages}
}

func (s *SlicePageSource) Next() (Matrix, bool, error) {
	if s.pos >= len(s.pages) {
		return nil, false, nil
	}
	p := s.pages[s.pos]
	s.pos++
	return p, true, nil
}

// SliceTwoColorPageSource is SlicePageSource's two-color counterpart.
type SliceTwoColorPageSource struct {
	pages []*TwoColorMatrix
	pos   int
}

// NewSliceTwoColorPageSource wraps pages as a TwoColorPageSource.
func NewSliceTwoColorPageSource(pages []*TwoColorMatrix) *SliceTwoColorPageSource {
	return &SliceTwoColorPageSource{pages: pages}
}

func (s *SliceTwoColorPageSource) Next() (*TwoColorMatrix, bool, error) {
	if s.pos >= len(s.pages) {
		return nil, false, nil
	}
	p := s.pages[s.pos]
	s.pos++
	return p, true, nil
}
