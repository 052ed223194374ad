package domain

// Display command byte sequences (Matrix Orbital style command set).
// The daemon only ever homes the cursor and rewrites the full buffer;
// clear and set-position are part of the protocol and available to the
// one-shot tool.
var (
	// CmdHome moves the cursor to the top-left cell.
	CmdHome = []byte{0xFE, 0x48}

	// CmdClear wipes the display.
	CmdClear = []byte{0xFE, 0x58}
)

// CmdSetPosition returns the set-cursor command for the given 1-indexed
// column and row.
func CmdSetPosition(col, row byte) []byte {
	return []byte{0xFE, 0x47, col, row}
}

// Frame renders content into the exact byte sequence to transmit: the
// home command followed by every line's padded buffer at its configured
// offset. Pure and deterministic; inputs are clamped, never rejected.
//
// The device maps one byte to one cell, so widths, truncation and
// centering all count bytes. Text outside the device's single-byte
// charset renders as whatever glyphs the hardware assigns those bytes.
func Frame(c Content, g Geometry) []byte {
	buf := make([]byte, len(CmdHome)+g.FrameSize())
	copy(buf, CmdHome)

	body := buf[len(CmdHome):]
	for i := range body {
		body[i] = ' '
	}

	lines := [2]string{c.Pair.Line1, c.Pair.Line2}
	for i, off := range g.LineOffsets {
		var text string
		if i < len(lines) {
			text = lines[i]
		}
		renderLine(body[off:off+g.BufferPerLine], text, c.Align, g.VisibleColumns)
	}
	return buf
}

// renderLine places text into a space-filled line buffer. dst is at
// least visible bytes long; text is truncated to the visible region
// before placement. Centering splits the slack as evenly as possible,
// with the odd remainder going to the right.
func renderLine(dst []byte, text string, align Alignment, visible int) {
	if len(text) > visible {
		text = text[:visible]
	}
	start := 0
	if align == AlignCenter {
		start = (visible - len(text)) / 2
	}
	copy(dst[start:], text)
}
