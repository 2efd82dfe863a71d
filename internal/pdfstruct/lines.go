package pdfstruct

import (
	"math"
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

const lineBreakDeltaFraction = 0.60
const lineBreakFallbackFontFraction = 0.50

// RawChar is one character as reported by a PDF library's per-character
// API, before line grouping.
type RawChar struct {
	Codepoint        rune
	X, Y             float64
	FontSize         float64
	Bold, Italic     bool
	Monospace        bool
	HasUnicodeMapErr bool
	SymbolicFont     bool
}

var sentinelCodepoints = map[rune]bool{0: true, 0xFFFE: true, 0xFFFF: true}

// isGeneratedOrSkippable reports whether a char must be dropped before
// line grouping: generated chars (caller-filtered upstream; this covers
// only what's inferable here), control chars other than tab/LF/CR, the
// soft hyphen, and sentinel unicode values. A control char with a unicode
// map error on a non-symbolic font is kept when the encoding-error repair
// map covers it, so buildSegment can replace it.
func isGeneratedOrSkippable(c RawChar) bool {
	if sentinelCodepoints[c.Codepoint] {
		return true
	}
	if c.Codepoint == 0x00AD { // soft hyphen
		return true
	}
	if c.Codepoint < 0x20 && c.Codepoint != '\t' && c.Codepoint != '\n' && c.Codepoint != '\r' {
		if c.HasUnicodeMapErr && !c.SymbolicFont {
			if _, ok := RepairEncodingErrorChar(c.Codepoint); ok {
				return false
			}
		}
		return true
	}
	return false
}

// BuildSegments runs the primary character-based reconstruction path:
// filters skippable chars, determines a font-metric-independent
// line-break threshold, groups chars into line segments, and applies the
// encoding-error ligature repair map during segment text construction.
func BuildSegments(chars []RawChar) []model.SegmentData {
	var kept []RawChar
	for _, c := range chars {
		if !isGeneratedOrSkippable(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	threshold := lineBreakThreshold(kept)

	var segments []model.SegmentData
	lineStart := 0
	for i := 1; i <= len(kept); i++ {
		atEnd := i == len(kept)
		breaks := !atEnd && math.Abs(kept[i].Y-kept[lineStart].Y) > threshold
		if breaks || atEnd {
			segments = append(segments, buildSegment(kept[lineStart:i]))
			lineStart = i
		}
	}
	return segments
}

// lineBreakThreshold takes 60% of the smallest positive Y-delta between
// adjacent non-space chars, falling back to 50% of the mean font size
// when no positive delta exists.
func lineBreakThreshold(chars []RawChar) float64 {
	smallest := math.MaxFloat64
	found := false
	isSpace := func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
	prev := -1
	for i, c := range chars {
		if isSpace(c.Codepoint) {
			continue
		}
		if prev >= 0 {
			delta := math.Abs(c.Y - chars[prev].Y)
			if delta > 0 && delta < smallest {
				smallest = delta
				found = true
			}
		}
		prev = i
	}
	if found {
		return smallest * lineBreakDeltaFraction
	}

	var sum float64
	for _, c := range chars {
		sum += c.FontSize
	}
	mean := sum / float64(len(chars))
	return mean * lineBreakFallbackFontFraction
}

func buildSegment(chars []RawChar) model.SegmentData {
	var b strings.Builder
	var symbolic bool
	for _, c := range chars {
		if c.HasUnicodeMapErr && !c.SymbolicFont {
			if repl, ok := RepairEncodingErrorChar(c.Codepoint); ok {
				b.WriteString(repl)
				continue
			}
		}
		if c.SymbolicFont {
			symbolic = true
		}
		b.WriteRune(c.Codepoint)
	}
	text := strings.TrimSpace(b.String())
	if symbolic {
		text = RepairContextualLigatures(text)
	}

	first, last := chars[0], chars[len(chars)-1]
	width := last.X - first.X
	if width < first.FontSize {
		width = first.FontSize
	}

	return model.SegmentData{
		Text:        text,
		X:           first.X,
		Y:           first.Y,
		Width:       width,
		Height:      first.FontSize,
		FontSize:    first.FontSize,
		IsBold:      first.Bold,
		IsItalic:    first.Italic,
		IsMonospace: first.Monospace,
		BaselineY:   first.Y,
	}
}
