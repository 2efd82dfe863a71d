package registry

import (
	"context"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// ExtractConfig is the subset of pipeline configuration an extractor needs.
// Defined here (rather than imported from internal/config) to avoid an
// import cycle between registry and config; internal/pipeline adapts the
// full PipelineConfig into this view.
type ExtractConfig struct {
	ExtractImages  bool
	ExtractMeta    bool
	ForceOCR       bool
	PDFPasswords   []string
}

// DocumentExtractor converts raw bytes (or a file) of a given MIME type
// into an ExtractionResult.
type DocumentExtractor interface {
	Plugin
	ExtractBytes(ctx context.Context, data []byte, mime string, cfg ExtractConfig) (*model.ExtractionResult, error)
	ExtractFile(ctx context.Context, path string, mime string, cfg ExtractConfig) (*model.ExtractionResult, error)
	SupportedMimeTypes() []string
	Priority() int
}

// BaseExtractor supplies the default ExtractFile implementation described
// in spec.md §4.B ("default implementation reads path and delegates"), so
// concrete extractors only need to implement ExtractBytes.
type BaseExtractor struct{}

// ReadFileAndDelegate is the shared default: read path, call extractBytes.
func ReadFileAndDelegate(
	ctx context.Context,
	path, mime string,
	cfg ExtractConfig,
	extractBytes func(context.Context, []byte, string, ExtractConfig) (*model.ExtractionResult, error),
	readFile func(string) ([]byte, error),
) (*model.ExtractionResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return extractBytes(ctx, data, mime, cfg)
}

// OCRConfig carries the OCR-specific options an OcrBackend needs.
type OCRConfig struct {
	Language           string
	IncludeElements    bool
	TableDetection     bool
	BackendOverrides   map[string]interface{}
}

// OcrBackend is a registered OCR engine.
type OcrBackend interface {
	Plugin
	ProcessImage(ctx context.Context, data []byte, cfg OCRConfig) (*model.ExtractionResult, error)
	ProcessFile(ctx context.Context, path string, cfg OCRConfig) (*model.ExtractionResult, error)
	SupportsLanguage(lang string) bool
	BackendType() string
	SupportedLanguages() []string
	SupportsTableDetection() bool
	SupportedMimeTypes() []string
	Priority() int
}

// PostProcessor mutates an ExtractionResult after extraction. A failing
// post-processor never aborts the pipeline: its error is appended to
// ProcessingWarnings by the caller.
type PostProcessor interface {
	Plugin
	Process(ctx context.Context, result *model.ExtractionResult, cfg ExtractConfig) error
}

// Validator checks invariants on a finished ExtractionResult. A failing
// validator aborts the pipeline with a Validation error.
type Validator interface {
	Plugin
	Validate(ctx context.Context, result *model.ExtractionResult, cfg ExtractConfig) error
}
