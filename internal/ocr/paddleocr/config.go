// Package paddleocr adapts the ONNX-Runtime-backed PaddleOCR detection and
// recognition pipeline into the ocr.Engine/ocr.EngineFactory contract.
package paddleocr

// DetectionConfig controls the text-detection and angle-classification
// stage shared by every script family.
type DetectionConfig struct {
	Padding      uint32
	MaxSideLen   uint32
	DBThresh     float32
	DBBoxThresh  float32
	UnclipRatio  float32
	UseAngleCls  bool
}

// DefaultDetectionConfig mirrors PaddleOCR's stock detector defaults.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Padding:     50,
		MaxSideLen:  960,
		DBThresh:    0.3,
		DBBoxThresh: 0.6,
		UnclipRatio: 1.5,
		UseAngleCls: false,
	}
}

// MergeOverrides applies a backend-override bag (as carried on
// registry.OCRConfig) onto base, leaving fields untouched when the override
// key is absent or of the wrong type.
func MergeOverrides(base DetectionConfig, overrides map[string]interface{}) DetectionConfig {
	cfg := base
	if overrides == nil {
		return cfg
	}
	if v, ok := overrides["det_limit_side_len"].(float64); ok {
		cfg.MaxSideLen = uint32(v)
	}
	if v, ok := overrides["det_db_thresh"].(float64); ok {
		cfg.DBThresh = float32(v)
	}
	if v, ok := overrides["det_db_box_thresh"].(float64); ok {
		cfg.DBBoxThresh = float32(v)
	}
	if v, ok := overrides["det_db_unclip_ratio"].(float64); ok {
		cfg.UnclipRatio = float32(v)
	}
	if v, ok := overrides["use_angle_cls"].(bool); ok {
		cfg.UseAngleCls = v
	}
	if v, ok := overrides["padding"].(float64); ok {
		cfg.Padding = uint32(v)
	}
	return cfg
}
