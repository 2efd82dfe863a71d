package pdfstruct

import (
	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

const (
	sidebarCharLeftFraction    = 0.065
	sidebarCharMaxRatio        = 0.05
	sidebarCharMinSpanFraction = 0.30

	sidebarBlockLeftFraction  = 0.08
	sidebarBlockRightFraction = 0.92
	sidebarBlockMaxTextLen    = 3
	sidebarBlockMinCount      = 3
)

// CharPos is a single retained character's position from the
// per-character reconstruction path, carried only far enough to run the
// sidebar filter before line grouping.
type CharPos struct {
	X, Y    float64
	IsSpace bool
}

// FilterSidebarChars removes characters in the leftmost
// sidebarCharLeftFraction of the page that look like a rotated margin
// identifier: fewer than 5% of non-space characters fall in that strip,
// yet they span at least 30% of the page's vertical text extent.
func FilterSidebarChars(chars []CharPos, pageWidth, pageTop, pageBottom float64) []CharPos {
	if pageWidth <= 0 {
		return chars
	}
	leftEdge := pageWidth * sidebarCharLeftFraction

	var totalNonSpace int
	var leftChars []CharPos
	for _, c := range chars {
		if c.IsSpace {
			continue
		}
		totalNonSpace++
		if c.X < leftEdge {
			leftChars = append(leftChars, c)
		}
	}
	if totalNonSpace == 0 || len(leftChars) == 0 {
		return chars
	}

	ratio := float64(len(leftChars)) / float64(totalNonSpace)
	if ratio >= sidebarCharMaxRatio {
		return chars
	}

	yMin, yMax := leftChars[0].Y, leftChars[0].Y
	for _, c := range leftChars[1:] {
		if c.Y < yMin {
			yMin = c.Y
		}
		if c.Y > yMax {
			yMax = c.Y
		}
	}
	pageVerticalExtent := pageTop - pageBottom
	if pageVerticalExtent <= 0 || (yMax-yMin) < pageVerticalExtent*sidebarCharMinSpanFraction {
		return chars
	}

	out := make([]CharPos, 0, len(chars)-len(leftChars))
	for _, c := range chars {
		if c.X < leftEdge && !c.IsSpace {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterSidebarBlocks removes, recursively, any block entirely confined
// to the leftmost 8% or rightmost 8% (at or beyond 92%) of page width with text length at
// most 3, provided at least 3 such blocks exist on the page.
func FilterSidebarBlocks(blocks []model.ExtractedBlock, pageWidth float64) []model.ExtractedBlock {
	if pageWidth <= 0 {
		return blocks
	}
	leftEdge := pageWidth * sidebarBlockLeftFraction
	rightEdge := pageWidth * sidebarBlockRightFraction

	isSidebar := func(b model.ExtractedBlock) bool {
		if b.Bounds == nil || len(b.Text) > sidebarBlockMaxTextLen {
			return false
		}
		inLeft := b.Bounds.X+b.Bounds.Width <= leftEdge
		inRight := b.Bounds.X >= rightEdge
		return inLeft || inRight
	}

	count := 0
	var walk func([]model.ExtractedBlock)
	walk = func(bs []model.ExtractedBlock) {
		for _, b := range bs {
			if isSidebar(b) {
				count++
			}
			walk(b.Children)
		}
	}
	walk(blocks)

	if count < sidebarBlockMinCount {
		return blocks
	}

	var prune func([]model.ExtractedBlock) []model.ExtractedBlock
	prune = func(bs []model.ExtractedBlock) []model.ExtractedBlock {
		var out []model.ExtractedBlock
		for _, b := range bs {
			if isSidebar(b) {
				continue
			}
			b.Children = prune(b.Children)
			out = append(out, b)
		}
		return out
	}
	return prune(blocks)
}
