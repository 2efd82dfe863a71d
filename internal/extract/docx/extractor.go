package docx

import (
	"context"
	"os"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Extractor registers the OOXML word-processing parser as a
// DocumentExtractor plugin.
type Extractor struct {
	registry.BaseExtractor
}

// New returns a ready-to-register DOCX extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string      { return "docx" }
func (e *Extractor) Version() string   { return "1.0.0" }
func (e *Extractor) Initialize() error { return nil }
func (e *Extractor) Shutdown() error   { return nil }
func (e *Extractor) Priority() int     { return 50 }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	doc, err := Open(data)
	if err != nil {
		return nil, kerrors.NewParsingError("", "failed to open docx package", err)
	}

	tableCount := 0
	for _, block := range doc.Blocks {
		if _, ok := block.(Table); ok {
			tableCount++
		}
	}

	var majorFont, minorFont *string
	if doc.Theme.MajorFonts.Latin != "" {
		majorFont = &doc.Theme.MajorFonts.Latin
	}
	if doc.Theme.MinorFonts.Latin != "" {
		minorFont = &doc.Theme.MinorFonts.Latin
	}

	result := &model.ExtractionResult{
		Content:  doc.Render(),
		MimeType: "text/markdown",
		Metadata: model.Metadata{
			Format: model.FormatMetadata{
				Type: model.FormatDOCX,
				DOCX: &model.DOCXMetadata{
					SectionCount:   1,
					TableCount:     tableCount,
					ThemeMajorFont: majorFont,
					ThemeMinorFont: minorFont,
				},
			},
		},
	}

	if cfg.ExtractImages {
		for i, media := range doc.Media {
			result.Images = append(result.Images, model.ExtractedImage{
				Data:       media.Data,
				Format:     mediaFormat(media.Name),
				ImageIndex: i,
			})
		}
	}

	return result, nil
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

// mediaFormat recovers a short format tag ("png", "jpeg", ...) from a
// word/media/ zip entry name's extension.
func mediaFormat(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ""
}
