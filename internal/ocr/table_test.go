package ocr

import (
	"strings"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func elem(text string, x, y, w, h, conf float64) model.OcrElement {
	return model.OcrElement{Text: text, Bounds: model.BoundingBox{X: x, Y: y, Width: w, Height: h}, Confidence: conf}
}

func TestReconstructTableTwoByTwoGrid(t *testing.T) {
	elements := []model.OcrElement{
		elem("Name", 0, 100, 40, 12, 0.9),
		elem("Age", 100, 100, 30, 12, 0.9),
		elem("Alice", 0, 80, 40, 12, 0.9),
		elem("30", 100, 80, 30, 12, 0.9),
	}
	table, ok := ReconstructTable(elements)
	if !ok {
		t.Fatal("expected a reconstructed table")
	}
	if len(table.Cells) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(table.Cells), table.Cells)
	}
	if len(table.Cells[0]) != 2 {
		t.Fatalf("expected 2 columns in header row, got %d", len(table.Cells[0]))
	}
	if !strings.Contains(table.Markdown, "Name") || !strings.Contains(table.Markdown, "---") {
		t.Errorf("expected markdown table rendering, got %q", table.Markdown)
	}
}

func TestReconstructTableFiltersLowConfidence(t *testing.T) {
	elements := []model.OcrElement{
		elem("noise", 0, 0, 10, 10, 0.1),
	}
	_, ok := ReconstructTable(elements)
	if ok {
		t.Fatal("expected no table when every element is below the confidence threshold")
	}
}

func TestReconstructTableEmptyInput(t *testing.T) {
	if _, ok := ReconstructTable(nil); ok {
		t.Fatal("expected no table for empty input")
	}
}
