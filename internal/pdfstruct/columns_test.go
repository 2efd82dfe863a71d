package pdfstruct

import (
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func makeSegment(x, y, w, h float64) model.SegmentData {
	return model.SegmentData{Text: "word", X: x, Y: y, Width: w, Height: h, FontSize: 12, BaselineY: y}
}

func makeColumnSegments(xOffset float64, count int) []model.SegmentData {
	out := make([]model.SegmentData, count)
	for i := 0; i < count; i++ {
		out[i] = makeSegment(xOffset, float64(i)*20.0, 80.0, 12.0)
	}
	return out
}

func TestSplitSegmentsEmptyReturnsSingleGroup(t *testing.T) {
	groups := SplitSegmentsIntoColumns(nil)
	if len(groups) != 1 || len(groups[0]) != 0 {
		t.Fatalf("expected one empty group, got %v", groups)
	}
}

func TestSplitSegmentsTooFewReturnsSingleGroup(t *testing.T) {
	segments := make([]model.SegmentData, 5)
	for i := range segments {
		segments[i] = makeSegment(float64(i)*10.0, 0, 8, 12)
	}
	groups := SplitSegmentsIntoColumns(segments)
	if len(groups) != 1 || len(groups[0]) != 5 {
		t.Fatalf("expected single group of 5, got %v", groups)
	}
}

func TestSplitSegmentsTwoColumnsDetected(t *testing.T) {
	segments := append(makeColumnSegments(0.0, 15), makeColumnSegments(300.0, 15)...)
	groups := SplitSegmentsIntoColumns(segments)
	if len(groups) != 2 {
		t.Fatalf("expected 2 column groups, got %d: %v", len(groups), groups)
	}
	if len(groups[0]) != 15 || len(groups[1]) != 15 {
		t.Fatalf("expected 15/15 split, got %d/%d", len(groups[0]), len(groups[1]))
	}
}

func TestSplitSegmentsSingleColumnNoFalseSplit(t *testing.T) {
	segments := make([]model.SegmentData, 20)
	for i := range segments {
		segments[i] = makeSegment(float64(i)*10.0, 0, 8, 12)
	}
	groups := SplitSegmentsIntoColumns(segments)
	if len(groups) != 1 || len(groups[0]) != 20 {
		t.Fatalf("expected single group of 20, got %v", groups)
	}
}

func TestSplitSegmentsIndicesCoverAll(t *testing.T) {
	segments := append(makeColumnSegments(0.0, 12), makeColumnSegments(300.0, 12)...)
	groups := SplitSegmentsIntoColumns(segments)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != len(segments) {
		t.Fatalf("expected all %d segments accounted for, got %d", len(segments), total)
	}
}

func TestSplitSegmentsDepthLimitPreventsOverSegmentation(t *testing.T) {
	var segments []model.SegmentData
	for col := 0; col < 10; col++ {
		for row := 0; row < 5; row++ {
			segments = append(segments, makeSegment(float64(col)*50.0, float64(row)*20.0, 10, 12))
		}
	}
	groups := SplitSegmentsIntoColumns(segments)
	if len(groups) > 16 {
		t.Fatalf("too many groups: %d", len(groups))
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != len(segments) {
		t.Fatalf("expected all %d segments accounted for, got %d", len(segments), total)
	}
}

func TestSplitObjectsEmptyReturnsSingleGroup(t *testing.T) {
	groups := SplitObjectsIntoColumns(nil)
	if len(groups) != 1 || len(groups[0]) != 0 {
		t.Fatalf("expected one empty group, got %v", groups)
	}
}

func TestSplitObjectsTwoColumnsDetected(t *testing.T) {
	var objects []ObjectBounds
	for i := 0; i < 15; i++ {
		y := float64(i) * 20.0
		objects = append(objects, ObjectBounds{Left: 0, Right: 80, Bottom: y, Top: y + 12, IsText: true})
	}
	for i := 0; i < 15; i++ {
		y := float64(i) * 20.0
		objects = append(objects, ObjectBounds{Left: 300, Right: 380, Bottom: y, Top: y + 12, IsText: true})
	}
	groups := SplitObjectsIntoColumns(objects)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}

func TestSplitObjectsBelowThresholdReturnsSingleGroup(t *testing.T) {
	var objects []ObjectBounds
	for i := 0; i < 5; i++ {
		objects = append(objects, ObjectBounds{Left: float64(i) * 10, Right: float64(i)*10 + 8, Bottom: 0, Top: 12, IsText: true})
	}
	groups := SplitObjectsIntoColumns(objects)
	if len(groups) != 1 || len(groups[0]) != 5 {
		t.Fatalf("expected single group of 5, got %v", groups)
	}
}
