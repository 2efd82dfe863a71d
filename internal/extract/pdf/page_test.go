package pdf

import (
	"strings"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/pdfstruct"
)

func TestRenderPageTextJoinsSegmentsInColumnOrder(t *testing.T) {
	chars := []pdfstruct.RawChar{
		{Codepoint: 'H', X: 0, Y: 100, FontSize: 12},
		{Codepoint: 'i', X: 10, Y: 100, FontSize: 12},
	}
	text := renderPageText(chars)
	if text != "Hi" {
		t.Errorf("expected %q, got %q", "Hi", text)
	}
}

func TestRenderPageTextEmptyInput(t *testing.T) {
	if got := renderPageText(nil); got != "" {
		t.Errorf("expected empty string for no chars, got %q", got)
	}
}

func TestFilterSidebarRawCharsNoFilterWhenNoMarginPattern(t *testing.T) {
	var chars []pdfstruct.RawChar
	for i := 0; i < 20; i++ {
		chars = append(chars, pdfstruct.RawChar{Codepoint: rune('a' + i%26), X: float64(100 + i*5), Y: float64(700 - i*10), FontSize: 10})
	}
	kept := filterSidebarRawChars(chars)
	if len(kept) != len(chars) {
		t.Errorf("expected no filtering for non-sidebar text, got %d of %d", len(kept), len(chars))
	}
}

func TestFilterSidebarRawCharsRemovesVerticalMarginStrip(t *testing.T) {
	var chars []pdfstruct.RawChar
	// A tall, narrow strip of characters at the far left margin,
	// spanning most of the page's vertical extent.
	for i := 0; i < 15; i++ {
		chars = append(chars, pdfstruct.RawChar{Codepoint: rune('A' + i), X: 2, Y: float64(20 + i*50), FontSize: 8})
	}
	// Plenty of ordinary body text well away from the margin, enough to
	// keep the margin strip's share of non-space characters under the
	// sidebar heuristic's 5% threshold.
	for i := 0; i < 400; i++ {
		chars = append(chars, pdfstruct.RawChar{Codepoint: rune('a' + i%26), X: float64(200 + (i%50)*10), Y: float64(50 + (i/50)*20), FontSize: 10})
	}

	kept := filterSidebarRawChars(chars)
	if len(kept) >= len(chars) {
		t.Fatalf("expected sidebar strip to be filtered out, got %d of %d", len(kept), len(chars))
	}
	for _, c := range kept {
		if c.X < 10 {
			t.Errorf("expected no surviving margin chars, found X=%v", c.X)
		}
	}
}

func TestContentStreamToRenderedTextIntegration(t *testing.T) {
	stream := []byte(`BT /F1 12 Tf 0 0 Td (Line one) Tj 0 -20 Td (Line two) Tj ET`)
	tokens := tokenizeContentStream(stream)
	chars := decodeContentStream(tokens)
	text := renderPageText(chars)
	if !strings.Contains(text, "Line one") || !strings.Contains(text, "Line two") {
		t.Errorf("expected both lines present, got: %q", text)
	}
}
