package domain

import "strings"

// MaxLineLength caps the raw byte length of a submitted line before it
// enters the system. The framer truncates further to the visible width.
// Lengths are byte counts throughout: the display assigns one cell per
// byte and has no multi-byte charset.
const MaxLineLength = 64

// Alignment controls how a line pair is placed in the visible region.
type Alignment int

const (
	// AlignCenter pads both sides with spaces, extra slack to the right.
	AlignCenter Alignment = iota

	// AlignExplicit keeps the caller-supplied leading and trailing
	// whitespace verbatim.
	AlignExplicit
)

// String returns a human-readable representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// LinePair is two logical lines of display text. Pairs carry no state
// and are produced fresh each tick.
type LinePair struct {
	Line1 string
	Line2 string
}

// Content is a line pair together with how it should be placed.
type Content struct {
	Pair  LinePair
	Align Alignment
}

// Centered wraps two lines with auto-center placement.
func Centered(line1, line2 string) Content {
	return Content{Pair: LinePair{Line1: line1, Line2: line2}, Align: AlignCenter}
}

// DetectAlignment inspects raw submitted text for positioning intent.
// Any leading or trailing whitespace on either line means the sender
// positioned the text themselves; otherwise the pair is auto-centered.
func DetectAlignment(raw1, raw2 string) Alignment {
	if hasEdgeSpace(raw1) || hasEdgeSpace(raw2) {
		return AlignExplicit
	}
	return AlignCenter
}

func hasEdgeSpace(s string) bool {
	return s != "" && strings.TrimSpace(s) != s
}

// ParseDatagram splits a plaintext datagram into up to two lines.
// A missing second line is left empty; lines beyond the second are
// discarded. Carriage returns and the trailing newline are stripped but
// interior spaces are kept, since they carry alignment intent. ok is
// false when the datagram contains no visible text at all.
func ParseDatagram(data []byte, maxLen int) (line1, line2 string, ok bool) {
	if maxLen <= 0 {
		maxLen = MaxLineLength
	}
	text := strings.TrimRight(string(data), "\n")
	parts := strings.Split(text, "\n")

	clean := func(s string) string {
		s = strings.TrimSuffix(s, "\r")
		if len(s) > maxLen {
			s = s[:maxLen]
		}
		return s
	}

	line1 = clean(parts[0])
	if len(parts) > 1 {
		line2 = clean(parts[1])
	}
	ok = strings.TrimSpace(line1) != "" || strings.TrimSpace(line2) != ""
	return line1, line2, ok
}
