package xmlstream

import (
	"bytes"
	"context"
	"os"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Extractor registers the streaming XML converter as a DocumentExtractor
// plugin. It carries no state of its own: every call is a fresh stream over
// the input bytes.
type Extractor struct {
	registry.BaseExtractor
}

// New returns a ready-to-register XML extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string    { return "xml-stream" }
func (e *Extractor) Version() string { return "1.0.0" }
func (e *Extractor) Initialize() error { return nil }
func (e *Extractor) Shutdown() error    { return nil }

// Priority sits below any format-specific XML dialect extractor (e.g. a
// future OOXML-aware one) since this is the generic fallback for bare XML.
func (e *Extractor) Priority() int { return 10 }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{"application/xml", "text/xml"}
}

func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	result, err := Extract("", bytes.NewReader(data), false)
	if err != nil {
		return nil, err
	}

	return &model.ExtractionResult{
		Content:  result.Content,
		MimeType: "text/plain",
		Metadata: model.Metadata{
			Format: model.FormatMetadata{
				Type: model.FormatXML,
				XML: &model.XMLMetadata{
					ElementCount:   result.ElementCount,
					UniqueElements: result.UniqueElementNames,
				},
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
