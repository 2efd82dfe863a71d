package mdx

import (
	"context"
	"os"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Extractor registers the MDX-to-HTML converter as a DocumentExtractor
// plugin.
type Extractor struct {
	registry.BaseExtractor
}

// New returns a ready-to-register MDX extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string      { return "mdx" }
func (e *Extractor) Version() string   { return "1.0.0" }
func (e *Extractor) Initialize() error { return nil }
func (e *Extractor) Shutdown() error   { return nil }
func (e *Extractor) Priority() int     { return 50 }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{"text/mdx", "application/mdx"}
}

func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	result, err := Extract(string(data))
	if err != nil {
		return nil, kerrors.NewParsingError("", "failed to render mdx", err)
	}

	var title *string
	if result.Title != "" {
		title = &result.Title
	}

	return &model.ExtractionResult{
		Content:  result.HTML,
		MimeType: "text/html",
		Metadata: model.Metadata{
			Title: title,
			Format: model.FormatMetadata{
				Type: model.FormatHTML,
				HTML: &model.HTMLMetadata{Title: title},
			},
		},
	}, nil
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
