package jupyter

import (
	"context"
	"os"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Extractor registers the notebook-to-markdown converter as a
// DocumentExtractor plugin.
type Extractor struct {
	registry.BaseExtractor
}

// New returns a ready-to-register Jupyter notebook extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string      { return "jupyter-notebook" }
func (e *Extractor) Version() string   { return "1.0.0" }
func (e *Extractor) Initialize() error { return nil }
func (e *Extractor) Shutdown() error   { return nil }
func (e *Extractor) Priority() int     { return 50 }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{"application/x-ipynb+json"}
}

func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	result, err := Extract("", data)
	if err != nil {
		return nil, err
	}

	extractionResult := &model.ExtractionResult{
		Content:  result.Content,
		MimeType: "text/markdown",
		Metadata: model.Metadata{
			Format: model.FormatMetadata{Type: model.FormatText},
		},
	}
	if cfg.ExtractImages {
		extractionResult.Images = result.Images
	}
	return extractionResult, nil
}

func (e *Extractor) ExtractFile(ctx context.Context, path string, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	return registry.ReadFileAndDelegate(ctx, path, mime, cfg, e.ExtractBytes, func(p string) ([]byte, error) {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, kerrors.NewIOError("", p, err)
		}
		return data, nil
	})
}
