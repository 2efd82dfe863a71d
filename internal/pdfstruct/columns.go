// Package pdfstruct reconstructs reading-order structure from a PDF's raw
// page objects: column segmentation (XY-Cut), ligature repair, structure
// tree walking, and sidebar filtering.
package pdfstruct

import (
	"math"
	"sort"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

const (
	minObjectsPerColumn     = 10
	minColumnGapFraction    = 0.04
	minVerticalSpanFraction = 0.3
	minSegmentsForSplit     = 10
	segmentGapFraction      = 0.05
	maxXYCutDepth           = 4
)

// SplitSegmentsIntoColumns splits segments into column groups using
// recursive XY-Cut, ordered left-to-right then top-to-bottom. If no split
// is found, it returns a single group holding every index.
func SplitSegmentsIntoColumns(segments []model.SegmentData) [][]int {
	all := make([]int, len(segments))
	for i := range all {
		all[i] = i
	}
	return xycutRecurse(segments, all, 0)
}

func xycutRecurse(segments []model.SegmentData, indices []int, depth int) [][]int {
	if len(indices) < minSegmentsForSplit || depth >= maxXYCutDepth {
		return [][]int{cloneInts(indices)}
	}

	xMin, xMax := math.MaxFloat32, -math.MaxFloat32
	yMin, yMax := math.MaxFloat32, -math.MaxFloat32
	for _, i := range indices {
		s := segments[i]
		left, right := s.X, s.X+s.Width
		bottom, top := s.Y, s.Y+s.Height
		xMin, xMax = math.Min(xMin, left), math.Max(xMax, right)
		yMin, yMax = math.Min(yMin, bottom), math.Max(yMax, top)
	}

	xSpan, ySpan := xMax-xMin, yMax-yMin
	if xSpan < 1.0 && ySpan < 1.0 {
		return [][]int{cloneInts(indices)}
	}

	minXGap := xSpan * segmentGapFraction
	if splitX, ok := findVerticalCut(segments, indices, minXGap, ySpan); ok {
		left := filterIndices(indices, func(i int) bool {
			return segments[i].X+segments[i].Width/2.0 < splitX
		})
		right := filterIndices(indices, func(i int) bool {
			return segments[i].X+segments[i].Width/2.0 >= splitX
		})
		if len(left) > 0 && len(right) > 0 {
			result := xycutRecurse(segments, left, depth+1)
			result = append(result, xycutRecurse(segments, right, depth+1)...)
			return result
		}
	}

	minYGap := ySpan * segmentGapFraction
	if splitY, ok := findHorizontalCut(segments, indices, minYGap); ok {
		top := filterIndices(indices, func(i int) bool {
			return segments[i].Y+segments[i].Height/2.0 >= splitY
		})
		bottom := filterIndices(indices, func(i int) bool {
			return segments[i].Y+segments[i].Height/2.0 < splitY
		})
		if len(top) > 0 && len(bottom) > 0 {
			result := xycutRecurse(segments, top, depth+1)
			result = append(result, xycutRecurse(segments, bottom, depth+1)...)
			return result
		}
	}

	return [][]int{cloneInts(indices)}
}

type edge struct{ lo, hi float64 }

// findVerticalCut locates the largest horizontal gap between segment
// left/right edges; both resulting sides must span at least
// minVerticalSpanFraction of ySpan.
func findVerticalCut(segments []model.SegmentData, indices []int, minGap, ySpan float64) (float64, bool) {
	edges := make([]edge, len(indices))
	for i, idx := range indices {
		edges[i] = edge{segments[idx].X, segments[idx].X + segments[idx].Width}
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].lo < edges[b].lo })

	maxRight := -math.MaxFloat64
	bestGap := 0.0
	bestSplit, found := 0.0, false
	for _, e := range edges {
		if maxRight > -math.MaxFloat64 {
			gap := e.lo - maxRight
			if gap > minGap && gap > bestGap {
				bestGap = gap
				bestSplit = (maxRight + e.lo) / 2.0
				found = true
			}
		}
		maxRight = math.Max(maxRight, e.hi)
	}

	if !found || ySpan < 1.0 {
		return 0, false
	}

	leftYSpan := verticalSpanOf(segments, indices, func(i int) bool {
		return segments[i].X+segments[i].Width/2.0 < bestSplit
	})
	rightYSpan := verticalSpanOf(segments, indices, func(i int) bool {
		return segments[i].X+segments[i].Width/2.0 >= bestSplit
	})
	if leftYSpan >= ySpan*minVerticalSpanFraction && rightYSpan >= ySpan*minVerticalSpanFraction {
		return bestSplit, true
	}
	return 0, false
}

// findHorizontalCut locates the largest vertical gap between segment
// bottom/top edges.
func findHorizontalCut(segments []model.SegmentData, indices []int, minGap float64) (float64, bool) {
	edges := make([]edge, len(indices))
	for i, idx := range indices {
		edges[i] = edge{segments[idx].Y, segments[idx].Y + segments[idx].Height}
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].lo < edges[b].lo })

	maxTop := -math.MaxFloat64
	bestGap := 0.0
	bestSplit, found := 0.0, false
	for _, e := range edges {
		if maxTop > -math.MaxFloat64 {
			gap := e.lo - maxTop
			if gap > minGap && gap > bestGap {
				bestGap = gap
				bestSplit = (maxTop + e.lo) / 2.0
				found = true
			}
		}
		maxTop = math.Max(maxTop, e.hi)
	}
	return bestSplit, found
}

func verticalSpanOf(segments []model.SegmentData, indices []int, predicate func(int) bool) float64 {
	yMin, yMax := math.MaxFloat64, -math.MaxFloat64
	for _, i := range indices {
		if !predicate(i) {
			continue
		}
		bottom, top := segments[i].Y, segments[i].Y+segments[i].Height
		yMin, yMax = math.Min(yMin, bottom), math.Max(yMax, top)
	}
	if yMax > yMin {
		return yMax - yMin
	}
	return 0
}

// ObjectBounds is a bounding box extracted from a page object for column
// analysis, independent of any particular PDF library's object type.
type ObjectBounds struct {
	Left, Right, Top, Bottom float64
	IsText                   bool
}

// SplitObjectsIntoColumns detects column boundaries from page-object
// bounds and returns index groups ordered left-to-right. If fewer than
// twice minObjectsPerColumn text objects are present, or no valid split
// is found, it returns a single group containing every index.
func SplitObjectsIntoColumns(objects []ObjectBounds) [][]int {
	var textBounds []ObjectBounds
	for _, o := range objects {
		if o.IsText {
			textBounds = append(textBounds, o)
		}
	}

	if len(textBounds) < minObjectsPerColumn*2 {
		return [][]int{allIndices(len(objects))}
	}

	pageWidth, pageYMin, pageYMax := estimatePageBounds(textBounds)
	if pageWidth < 1.0 {
		return [][]int{allIndices(len(objects))}
	}

	minGap := pageWidth * minColumnGapFraction

	splitX, ok := findColumnSplit(textBounds, minGap, pageYMin, pageYMax)
	if !ok {
		return [][]int{allIndices(len(objects))}
	}

	var left, right []int
	for i, o := range objects {
		mid := (o.Left + o.Right) / 2.0
		if mid < splitX {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	leftTextCount, rightTextCount := 0, 0
	for _, i := range left {
		if objects[i].IsText {
			leftTextCount++
		}
	}
	for _, i := range right {
		if objects[i].IsText {
			rightTextCount++
		}
	}

	if leftTextCount < minObjectsPerColumn || rightTextCount < minObjectsPerColumn {
		return [][]int{allIndices(len(objects))}
	}

	return [][]int{left, right}
}

func estimatePageBounds(bounds []ObjectBounds) (width, yMin, yMax float64) {
	xMin, xMax := math.MaxFloat64, -math.MaxFloat64
	yMin, yMax = math.MaxFloat64, -math.MaxFloat64
	for _, b := range bounds {
		xMin, xMax = math.Min(xMin, b.Left), math.Max(xMax, b.Right)
		yMin, yMax = math.Min(yMin, b.Bottom), math.Max(yMax, b.Top)
	}
	return xMax - xMin, yMin, yMax
}

func findColumnSplit(bounds []ObjectBounds, minGap, pageYMin, pageYMax float64) (float64, bool) {
	pageYRange := pageYMax - pageYMin
	if pageYRange < 1.0 {
		return 0, false
	}

	edges := make([]edge, len(bounds))
	for i, b := range bounds {
		edges[i] = edge{b.Left, b.Right}
	}
	sort.Slice(edges, func(a, c int) bool { return edges[a].lo < edges[c].lo })

	maxRight := -math.MaxFloat64
	bestGap := 0.0
	bestSplit, found := 0.0, false
	for _, e := range edges {
		if maxRight > -math.MaxFloat64 {
			gap := e.lo - maxRight
			if gap > minGap && gap > bestGap {
				bestGap = gap
				bestSplit = (maxRight + e.lo) / 2.0
				found = true
			}
		}
		maxRight = math.Max(maxRight, e.hi)
	}

	if !found {
		return 0, false
	}

	leftYRange := verticalSpan(bounds, func(b ObjectBounds) bool { return b.Left < bestSplit })
	rightYRange := verticalSpan(bounds, func(b ObjectBounds) bool { return b.Left >= bestSplit })
	if leftYRange > pageYRange*minVerticalSpanFraction && rightYRange > pageYRange*minVerticalSpanFraction {
		return bestSplit, true
	}
	return 0, false
}

func verticalSpan(bounds []ObjectBounds, predicate func(ObjectBounds) bool) float64 {
	yMin, yMax := math.MaxFloat64, -math.MaxFloat64
	for _, b := range bounds {
		if !predicate(b) {
			continue
		}
		yMin, yMax = math.Min(yMin, b.Bottom), math.Max(yMax, b.Top)
	}
	if yMax > yMin {
		return yMax - yMin
	}
	return 0
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func cloneInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func filterIndices(in []int, keep func(int) bool) []int {
	var out []int
	for _, i := range in {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}
