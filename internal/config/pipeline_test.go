package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadPipelineConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.OCR.Enabled || cfg.Chunking.MaxChars != 4000 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPipelineConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	toml := `
[ocr]
enabled = false
languages = ["deu", "fra"]

[chunking]
max_chars = 8000
`
	if err := os.WriteFile(filepath.Join(root, "kreuzberg.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPipelineConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OCR.Enabled {
		t.Error("expected ocr.enabled to be overridden to false")
	}
	if len(cfg.OCR.Languages) != 2 || cfg.OCR.Languages[1] != "fra" {
		t.Errorf("languages not decoded: %v", cfg.OCR.Languages)
	}
	if cfg.Chunking.MaxChars != 8000 {
		t.Errorf("max_chars not overridden: %d", cfg.Chunking.MaxChars)
	}
	// untouched section keeps defaults
	if !cfg.PDF.ReconstructLayout {
		t.Error("expected untouched pdf section to keep default")
	}
}
