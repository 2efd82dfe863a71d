package ocr

import (
	"sort"
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

const (
	wordConfidenceThreshold = 0.3
	columnGapThreshold      = 20.0 // points
	rowOverlapRatio         = 0.5
)

// hocrWord is an OCR element reduced to the fields table reconstruction
// needs: its text and bounding box, already filtered by confidence.
type hocrWord struct {
	text   string
	bounds model.BoundingBox
}

// ReconstructTable converts detected elements into hOCR-style words
// (dropping anything below the confidence threshold), groups them into a
// cell grid by column position (20pt gap threshold) and row overlap
// (0.5 ratio), and renders the grid as a markdown table. Returns false
// when no elements survive filtering.
func ReconstructTable(elements []model.OcrElement) (model.Table, bool) {
	var words []hocrWord
	for _, e := range elements {
		if e.Confidence < wordConfidenceThreshold {
			continue
		}
		words = append(words, hocrWord{text: e.Text, bounds: e.Bounds})
	}
	if len(words) == 0 {
		return model.Table{}, false
	}

	rows := groupIntoRows(words)
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = groupRowIntoColumns(row)
	}

	return model.Table{
		Cells:      grid,
		Markdown:   renderMarkdownGrid(grid),
		PageNumber: 1,
	}, true
}

// groupIntoRows buckets words whose vertical extents overlap by at least
// rowOverlapRatio of the shorter word's height into the same row, then
// sorts rows top-to-bottom and words left-to-right within each row.
func groupIntoRows(words []hocrWord) [][]hocrWord {
	sorted := make([]hocrWord, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].bounds.Y > sorted[b].bounds.Y })

	var rows [][]hocrWord
	for _, w := range sorted {
		placed := false
		for i, row := range rows {
			if verticalOverlapRatio(w.bounds, row[0].bounds) >= rowOverlapRatio {
				rows[i] = append(rows[i], w)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []hocrWord{w})
		}
	}

	for _, row := range rows {
		sort.Slice(row, func(a, b int) bool { return row[a].bounds.X < row[b].bounds.X })
	}
	return rows
}

func verticalOverlapRatio(a, b model.BoundingBox) float64 {
	aTop, aBottom := a.Y, a.Y+a.Height
	bTop, bBottom := b.Y, b.Y+b.Height

	overlap := minFloat(aBottom, bBottom) - maxFloat(aTop, bTop)
	if overlap <= 0 {
		return 0
	}
	shorter := minFloat(a.Height, b.Height)
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}

// groupRowIntoColumns merges adjacent words in a row into cells, starting
// a new cell whenever the horizontal gap to the previous word exceeds
// columnGapThreshold.
func groupRowIntoColumns(row []hocrWord) []string {
	if len(row) == 0 {
		return nil
	}

	var cells []string
	var current []string
	prevRight := row[0].bounds.X + row[0].bounds.Width

	for i, w := range row {
		if i > 0 && w.bounds.X-prevRight > columnGapThreshold {
			cells = append(cells, strings.Join(current, " "))
			current = nil
		}
		current = append(current, w.text)
		prevRight = w.bounds.X + w.bounds.Width
	}
	cells = append(cells, strings.Join(current, " "))
	return cells
}

func renderMarkdownGrid(grid [][]string) string {
	if len(grid) == 0 {
		return ""
	}
	cols := maxRowWidth(grid)

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(grid[0])
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}
	return b.String()
}

func maxRowWidth(grid [][]string) int {
	max := 0
	for _, row := range grid {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
