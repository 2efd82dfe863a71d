package pdf

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/pdfstruct"
)

// extractPageChars dumps path's per-page content streams via pdfcpu (the
// same api.ExtractContentFile call the rest of the pack uses for PDF text
// extraction) and decodes each into a RawChar slice, one slice per page in
// page order.
func extractPageChars(path string) ([][]pdfstruct.RawChar, error) {
	tmpDir, err := os.MkdirTemp("", "kreuzbergo-pdf-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	conf := pdfcpumodel.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, tmpDir, nil, conf); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(tmpDir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	pages := make([][]pdfstruct.RawChar, 0, len(files))
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		tokens := tokenizeContentStream(raw)
		chars := decodeContentStream(tokens)
		pages = append(pages, filterSidebarRawChars(chars))
	}
	return pages, nil
}

// filterSidebarRawChars re-derives page bounds from the char positions
// themselves (pdfcpu's ExtractContentFile output doesn't carry the page's
// MediaBox back to the caller) and applies pdfstruct's sidebar heuristic.
func filterSidebarRawChars(chars []pdfstruct.RawChar) []pdfstruct.RawChar {
	if len(chars) == 0 {
		return chars
	}

	xMax, yMin, yMax := chars[0].X, chars[0].Y, chars[0].Y
	for _, c := range chars {
		if c.X > xMax {
			xMax = c.X
		}
		if c.Y < yMin {
			yMin = c.Y
		}
		if c.Y > yMax {
			yMax = c.Y
		}
	}
	pageWidth := xMax * 1.05

	positions := make([]pdfstruct.CharPos, len(chars))
	for i, c := range chars {
		positions[i] = pdfstruct.CharPos{X: c.X, Y: c.Y, IsSpace: c.Codepoint == ' '}
	}
	filtered := pdfstruct.FilterSidebarChars(positions, pageWidth, yMax, yMin)
	if len(filtered) == len(chars) {
		return chars
	}

	leftEdge := pageWidth * 0.065
	kept := make([]pdfstruct.RawChar, 0, len(chars))
	for _, c := range chars {
		if c.X < leftEdge && c.Codepoint != ' ' {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// renderPageText runs the line/column reconstruction over one page's
// chars, ligature repair included (BuildSegments repairs as it assembles
// each segment's text), and renders the result in column reading order.
func renderPageText(chars []pdfstruct.RawChar) string {
	segments := pdfstruct.BuildSegments(chars)
	if len(segments) == 0 {
		return ""
	}

	columns := columnsFor(segments)

	var columnTexts []string
	for _, col := range columns {
		var lines []string
		for _, idx := range col {
			lines = append(lines, segments[idx].Text)
		}
		columnTexts = append(columnTexts, joinNonEmpty(lines, "\n"))
	}
	return joinNonEmpty(columnTexts, "\n\n")
}

// columnsFor splits segments into reading-order column groups, falling
// back to the coarser page-object split when the recursive segment-based
// XY-Cut finds no column boundary at all.
func columnsFor(segments []model.SegmentData) [][]int {
	columns := pdfstruct.SplitSegmentsIntoColumns(segments)
	if len(columns) > 1 {
		return columns
	}
	return fallbackObjectColumns(segments)
}

// fallbackObjectColumns retries column detection with the single-pass,
// page-object-bounds split pdfstruct.SplitObjectsIntoColumns runs, trading
// the segment splitter's recursion for a coarser cut over the same
// segment bounds treated as page objects.
func fallbackObjectColumns(segments []model.SegmentData) [][]int {
	objects := make([]pdfstruct.ObjectBounds, len(segments))
	for i, s := range segments {
		objects[i] = pdfstruct.ObjectBounds{
			Left:   s.X,
			Right:  s.X + s.Width,
			Bottom: s.Y,
			Top:    s.Y + s.Height,
			IsText: true,
		}
	}
	return pdfstruct.SplitObjectsIntoColumns(objects)
}

// buildPageBlocks reconstructs a structure-tree block hierarchy from a
// page's chars via synthesizeStructure, then runs the same
// walk/body-size-estimate/heading-validation/sidebar-filter pipeline a
// tagged-PDF reader would run over a real struct tree.
func buildPageBlocks(chars []pdfstruct.RawChar) []model.ExtractedBlock {
	segments := pdfstruct.BuildSegments(chars)
	if len(segments) == 0 {
		return nil
	}

	elements, mcidText, mcidInfo := synthesizeStructure(segments)
	blocks := pdfstruct.WalkStructureTree(elements, mcidText, mcidInfo)
	bodySize := pdfstruct.EstimateBodyFontSize(blocks)
	blocks = pdfstruct.ValidateHeadingLevels(blocks, bodySize)

	return pdfstruct.FilterSidebarBlocks(blocks, pageWidthOf(segments))
}

func pageWidthOf(segments []model.SegmentData) float64 {
	var maxRight float64
	for _, s := range segments {
		if right := s.X + s.Width; right > maxRight {
			maxRight = right
		}
	}
	return maxRight * 1.05
}

func pageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
