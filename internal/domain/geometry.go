package domain

import "fmt"

// Geometry describes the addressable layout of a character display:
// the visible column count per line, the hardware's hidden per-line
// buffer size, and the byte offset of each physical line's buffer
// within a full frame. Immutable once validated at startup.
type Geometry struct {
	// VisibleColumns is the number of character cells shown per line.
	VisibleColumns int

	// BufferPerLine is the byte length of one line's internal storage.
	// The region beyond VisibleColumns exists but is never shown.
	BufferPerLine int

	// LineOffsets holds the starting byte offset of every physical
	// line's buffer, in line order.
	LineOffsets []int
}

// DefaultGeometry is the layout of the 2x20 VFD module this daemon was
// written for: 15 visible columns backed by a 20-byte line buffer.
func DefaultGeometry() Geometry {
	return Geometry{
		VisibleColumns: 15,
		BufferPerLine:  20,
		LineOffsets:    []int{0, 20},
	}
}

// Lines returns the number of physical lines.
func (g Geometry) Lines() int {
	return len(g.LineOffsets)
}

// FrameSize returns the total byte length of one frame body, excluding
// any command bytes.
func (g Geometry) FrameSize() int {
	if len(g.LineOffsets) == 0 {
		return 0
	}
	return g.LineOffsets[len(g.LineOffsets)-1] + g.BufferPerLine
}

// Validate checks the geometry invariants.
func (g Geometry) Validate() error {
	if g.VisibleColumns <= 0 {
		return fmt.Errorf("%w: visible columns must be positive", ErrInvalidConfig)
	}
	if g.BufferPerLine < g.VisibleColumns {
		return fmt.Errorf("%w: line buffer (%d) narrower than visible region (%d)",
			ErrInvalidConfig, g.BufferPerLine, g.VisibleColumns)
	}
	if len(g.LineOffsets) == 0 {
		return fmt.Errorf("%w: at least one line offset required", ErrInvalidConfig)
	}
	if g.LineOffsets[0] < 0 {
		return fmt.Errorf("%w: line offsets must be non-negative", ErrInvalidConfig)
	}
	for i := 1; i < len(g.LineOffsets); i++ {
		if g.LineOffsets[i] < g.LineOffsets[i-1]+g.BufferPerLine {
			return fmt.Errorf("%w: line %d buffer overlaps line %d (offsets %d, %d)",
				ErrInvalidConfig, i-1, i, g.LineOffsets[i-1], g.LineOffsets[i])
		}
	}
	return nil
}
