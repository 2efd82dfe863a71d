// Package tesseract adapts the free, offline Tesseract engine into the
// ocr.Backend contract, used as the baseline OCR tier.
package tesseract

import (
	"context"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Backend wraps the gosseract client behind the shared OCR backend trait.
type Backend struct {
	tesseractPath string
}

// New creates a Tesseract backend rooted at tesseractPath (falling back
// to the standard install location when empty).
func New(tesseractPath string) *Backend {
	if tesseractPath == "" {
		tesseractPath = "/usr/bin/tesseract"
	}
	return &Backend{tesseractPath: tesseractPath}
}

func (b *Backend) Name() string    { return "tesseract" }
func (b *Backend) Version() string { return "1.0.0" }
func (b *Backend) BackendType() string { return "tesseract" }

func (b *Backend) Initialize() error {
	if _, err := os.Stat(b.tesseractPath); err != nil {
		return kerrors.NewMissingDependencyError("", "tesseract binary not found at "+b.tesseractPath)
	}
	return nil
}

func (b *Backend) Shutdown() error { return nil }

func (b *Backend) Priority() int { return 10 }

func (b *Backend) SupportedMimeTypes() []string {
	return []string{"image/png", "image/jpeg", "image/tiff", "image/bmp", "image/webp"}
}

// supportedLanguages is the set of 3-letter ISO codes Tesseract ships
// traineddata for among the script families ocr.FamilyFor recognizes.
var supportedLanguages = []string{
	"eng", "chi_sim", "chi_tra", "fra", "deu", "spa", "ita", "por", "nld",
	"kor", "rus", "ukr", "bul", "srp", "tha", "ell", "ara", "fas", "urd",
	"hin", "mar", "nep", "tam", "tel", "kan",
}

func (b *Backend) SupportedLanguages() []string {
	return supportedLanguages
}

func (b *Backend) SupportsLanguage(lang string) bool {
	return ocr.IsSupportedLanguage(lang)
}

func (b *Backend) SupportsTableDetection() bool { return true }

// ProcessImage runs Tesseract against an in-memory image. gosseract is
// blocking and has no context support, so cancellation is checked only
// at entry.
func (b *Backend) ProcessImage(ctx context.Context, data []byte, cfg registry.OCRConfig) (*model.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if cfg.Language != "" {
		_ = client.SetLanguage(cfg.Language)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, kerrors.NewOCRError("", "failed to set image", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, kerrors.NewOCRError("", "tesseract recognition failed", err)
	}

	result := &model.ExtractionResult{
		Content:           text,
		DetectedLanguages: []string{cfg.Language},
	}

	ocrMeta := &model.OCRMetadata{Language: cfg.Language}

	if cfg.TableDetection {
		words := strings.Fields(text)
		if len(words) > 0 {
			elements := make([]model.OcrElement, 0, len(words))
			for _, w := range words {
				elements = append(elements, model.OcrElement{Text: w, Confidence: confidenceHeuristic(text), PageNumber: 1})
			}
			if table, ok := ocr.ReconstructTable(elements); ok {
				result.Tables = append(result.Tables, table)
				ocrMeta.TableCount = len(result.Tables)
			}
		}
	}

	result.Metadata.Format = model.FormatMetadata{Type: model.FormatOCR, OCR: ocrMeta}

	return result, nil
}

func (b *Backend) ProcessFile(ctx context.Context, path string, cfg registry.OCRConfig) (*model.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.NewIOError("", path, err)
	}
	return b.ProcessImage(ctx, data, cfg)
}

// confidenceHeuristic estimates recognition confidence purely from text
// quality signals, since Tesseract's plain Text() call doesn't expose
// per-word confidence without HOCR parsing.
func confidenceHeuristic(text string) float64 {
	confidence := 0.5

	if len(text) > 1000 {
		confidence += 0.1
	}
	if len(text) > 5000 {
		confidence += 0.1
	}
	if words := strings.Fields(text); len(words) > 100 {
		confidence += 0.1
	}

	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	if len(text) > 0 {
		ratio := float64(alphaCount) / float64(len(text))
		if ratio > 0.5 && ratio < 0.9 {
			confidence += 0.1
		}
	}

	if confidence > 0.85 {
		confidence = 0.85
	}
	return confidence
}
