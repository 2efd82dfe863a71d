package paddleocr

import "math"

// boxRegion is an axis-aligned text region in original-image pixel space.
type boxRegion struct {
	minX, minY, maxX, maxY int
	score                  float32
}

// detectRegions thresholds the detector's per-pixel probability map at
// cfg.DBThresh, groups connected foreground pixels via flood fill, scores
// each region by its mean probability, discards anything below
// cfg.DBBoxThresh, expands survivors by cfg.UnclipRatio (PaddleOCR's DB
// post-processing unclips shrunk text polygons back to full glyph extent),
// and rescales from the padded detector-input resolution back to original
// image pixels.
func detectRegions(probMap []float32, mapW, mapH int, cfg DetectionConfig, scaleX, scaleY float64) []boxRegion {
	visited := make([]bool, mapW*mapH)
	var regions []boxRegion

	for start := 0; start < mapW*mapH; start++ {
		if visited[start] || probMap[start] < cfg.DBThresh {
			continue
		}
		minX, minY, maxX, maxY, sum, count := floodFill(probMap, visited, mapW, mapH, start, cfg.DBThresh)
		if count == 0 {
			continue
		}
		meanScore := sum / float32(count)
		if meanScore < cfg.DBBoxThresh {
			continue
		}

		w, h := maxX-minX+1, maxY-minY+1
		if w < 3 || h < 3 {
			continue
		}

		expandX := int(float64(w) * float64(cfg.UnclipRatio-1) / 2)
		expandY := int(float64(h) * float64(cfg.UnclipRatio-1) / 2)

		region := boxRegion{
			minX:  int(float64(minX-expandX) * scaleX),
			minY:  int(float64(minY-expandY) * scaleY),
			maxX:  int(float64(maxX+expandX) * scaleX),
			maxY:  int(float64(maxY+expandY) * scaleY),
			score: meanScore,
		}
		regions = append(regions, region)
	}

	return sortRegionsReadingOrder(regions)
}

// floodFill explores the 4-connected component containing start, marking
// visited pixels and accumulating the bounding box plus probability sum.
func floodFill(probMap []float32, visited []bool, w, h, start int, thresh float32) (minX, minY, maxX, maxY int, sum float32, count int) {
	stack := []int{start}
	visited[start] = true
	minX, minY = w, h
	maxX, maxY = -1, -1

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := idx%w, idx/w
		sum += probMap[idx]
		count++
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
		for _, n := range neighbors {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nIdx := ny*w + nx
			if visited[nIdx] || probMap[nIdx] < thresh {
				continue
			}
			visited[nIdx] = true
			stack = append(stack, nIdx)
		}
	}
	return
}

// sortRegionsReadingOrder orders detected regions top-to-bottom, then
// left-to-right within rows that vertically overlap, matching the order a
// reader would scan a text-line image.
func sortRegionsReadingOrder(regions []boxRegion) []boxRegion {
	sorted := make([]boxRegion, len(regions))
	copy(sorted, regions)

	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && regionLess(sorted[j], sorted[j-1]) {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			j--
		}
	}
	return sorted
}

func regionLess(a, b boxRegion) bool {
	aMidY := (a.minY + a.maxY) / 2
	overlapsRow := aMidY >= b.minY && aMidY <= b.maxY
	if overlapsRow {
		return a.minX < b.minX
	}
	return a.minY < b.minY
}

func (b boxRegion) width() int  { return int(math.Max(0, float64(b.maxX-b.minX))) }
func (b boxRegion) height() int { return int(math.Max(0, float64(b.maxY-b.minY))) }
