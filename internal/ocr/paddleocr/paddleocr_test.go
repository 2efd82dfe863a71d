package paddleocr

import "testing"

func TestCTCGreedyDecodeCollapsesRepeatsAndBlanks(t *testing.T) {
	dict := []string{"blank", "a", "b"}
	// timesteps: a a blank b b b -> "ab"
	logits := []float32{
		0.1, 0.9, 0.0, // a
		0.1, 0.9, 0.0, // a (repeat, collapsed)
		0.9, 0.05, 0.05, // blank
		0.1, 0.0, 0.9, // b
		0.1, 0.0, 0.9, // b (repeat, collapsed)
		0.1, 0.0, 0.9, // b (repeat, collapsed)
	}
	text, confidence := ctcGreedyDecode(logits, 6, 3, dict)
	if text != "ab" {
		t.Fatalf("expected \"ab\", got %q", text)
	}
	if confidence <= 0 || confidence > 1 {
		t.Fatalf("expected confidence in (0,1], got %f", confidence)
	}
}

func TestCTCGreedyDecodeAllBlankYieldsEmpty(t *testing.T) {
	dict := []string{"blank", "a"}
	logits := []float32{0.9, 0.1, 0.9, 0.1}
	text, confidence := ctcGreedyDecode(logits, 2, 2, dict)
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
	if confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", confidence)
	}
}

func TestMergeOverridesAppliesKnownKeys(t *testing.T) {
	base := DefaultDetectionConfig()
	overrides := map[string]interface{}{
		"det_db_thresh":       0.5,
		"use_angle_cls":       true,
		"det_limit_side_len":  1280.0,
	}
	merged := MergeOverrides(base, overrides)
	if merged.DBThresh != 0.5 {
		t.Errorf("expected DBThresh 0.5, got %v", merged.DBThresh)
	}
	if !merged.UseAngleCls {
		t.Error("expected UseAngleCls true")
	}
	if merged.MaxSideLen != 1280 {
		t.Errorf("expected MaxSideLen 1280, got %v", merged.MaxSideLen)
	}
	if merged.UnclipRatio != base.UnclipRatio {
		t.Error("expected untouched field to keep its default")
	}
}

func TestMergeOverridesNilLeavesDefaults(t *testing.T) {
	base := DefaultDetectionConfig()
	merged := MergeOverrides(base, nil)
	if merged != base {
		t.Error("expected nil overrides to leave config unchanged")
	}
}

func TestRoundUpToMultiple(t *testing.T) {
	cases := map[int]int{0: 0, 1: 32, 32: 32, 33: 64, 960: 960, 961: 992}
	for in, want := range cases {
		if got := roundUpToMultiple(in, 32); got != want {
			t.Errorf("roundUpToMultiple(%d, 32) = %d, want %d", in, got, want)
		}
	}
}

func TestDetectRegionsFindsSingleBlock(t *testing.T) {
	const w, h = 10, 10
	probMap := make([]float32, w*h)
	for y := 3; y < 7; y++ {
		for x := 2; x < 8; x++ {
			probMap[y*w+x] = 0.9
		}
	}
	cfg := DetectionConfig{DBThresh: 0.3, DBBoxThresh: 0.5, UnclipRatio: 1.0}
	regions := detectRegions(probMap, w, h, cfg, 1.0, 1.0)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].score < 0.5 {
		t.Errorf("expected high-confidence region, got score %v", regions[0].score)
	}
}

func TestDetectRegionsSkipsBelowThreshold(t *testing.T) {
	probMap := make([]float32, 100)
	cfg := DetectionConfig{DBThresh: 0.3, DBBoxThresh: 0.5, UnclipRatio: 1.0}
	regions := detectRegions(probMap, 10, 10, cfg, 1.0, 1.0)
	if len(regions) != 0 {
		t.Fatalf("expected no regions in an all-zero probability map, got %d", len(regions))
	}
}

func TestSortRegionsReadingOrder(t *testing.T) {
	regions := []boxRegion{
		{minX: 50, minY: 0, maxX: 60, maxY: 10},
		{minX: 0, minY: 0, maxX: 10, maxY: 10},
		{minX: 0, minY: 50, maxX: 10, maxY: 60},
	}
	sorted := sortRegionsReadingOrder(regions)
	if sorted[0].minX != 0 || sorted[0].minY != 0 {
		t.Errorf("expected top-left region first, got %+v", sorted[0])
	}
	if sorted[2].minY != 50 {
		t.Errorf("expected the next-row region last, got %+v", sorted[2])
	}
}
