package sources

import (
	"context"

	"github.com/mkoskinen/vfd-display/internal/domain"
)

// Static always yields the same two lines. It backs the CLI's static
// text mode, where the daemon shows fixed content instead of rotating.
type Static struct {
	content domain.Content
}

// NewStatic creates a static source with the given placement.
func NewStatic(line1, line2 string, align domain.Alignment) *Static {
	return &Static{content: domain.Content{
		Pair:  domain.LinePair{Line1: line1, Line2: line2},
		Align: align,
	}}
}

// Name identifies the source in logs.
func (s *Static) Name() string { return "static" }

// Produce returns the fixed content.
func (s *Static) Produce(ctx context.Context) (domain.Content, bool) {
	return s.content, true
}
