package pdf

import (
	"context"
	"os"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// Extractor drives the content-stream tokenizer/text-state interpreter and
// the pdfstruct reconstruction primitives (line building, ligature repair,
// XY-Cut column splitting) to turn a PDF into reading-order text.
//
// pdfcpu only exposes page content streams or already-flattened,
// unpositioned text through its public API (see api.ExtractContentFile vs
// api.ExtractTextFile); neither hands back per-glyph coordinates, so this
// package interprets the raw content stream itself to recover the
// positions pdfstruct's segment/column reconstruction needs.
type Extractor struct {
	registry.BaseExtractor
}

// New returns a ready-to-register PDF extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string      { return "pdf" }
func (e *Extractor) Version() string   { return "1.0.0" }
func (e *Extractor) Initialize() error { return nil }
func (e *Extractor) Shutdown() error   { return nil }
func (e *Extractor) Priority() int     { return 50 }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{"application/pdf"}
}

// ExtractBytes writes data to a temp file since pdfcpu's extraction API is
// file-path based, then delegates to ExtractFile.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	tmp, err := os.CreateTemp("", "kreuzbergo-pdf-in-*.pdf")
	if err != nil {
		return nil, kerrors.NewIOError("", "", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(data); err != nil {
		return nil, kerrors.NewIOError("", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, kerrors.NewIOError("", tmp.Name(), err)
	}

	return e.ExtractFile(ctx, tmp.Name(), mime, cfg)
}

func (e *Extractor) ExtractFile(ctx context.Context, path string, mime string, cfg registry.ExtractConfig) (*model.ExtractionResult, error) {
	pages, err := extractPageChars(path)
	if err != nil {
		return nil, kerrors.NewParsingError("", "failed to extract pdf content streams", err)
	}

	count, err := pageCount(path)
	if err != nil {
		count = len(pages)
	}

	var pageContents []model.PageContent
	for i, chars := range pages {
		pageContents = append(pageContents, model.PageContent{
			PageNumber: i + 1,
			Text:       renderPageText(chars),
			Blocks:     buildPageBlocks(chars),
		})
	}

	var fullText []string
	for _, p := range pageContents {
		if p.Text != "" {
			fullText = append(fullText, p.Text)
		}
	}
	content := joinNonEmpty(fullText, "\n\n")

	result := &model.ExtractionResult{
		Content:  content,
		MimeType: "text/plain",
		Pages:    pageContents,
		Metadata: model.Metadata{
			PageCount: &count,
			Format: model.FormatMetadata{
				Type: model.FormatPDF,
				PDF:  &model.PDFMetadata{PageCount: &count},
			},
		},
	}

	if cfg.ExtractImages {
		images, err := extractImages(path)
		if err != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings, model.ProcessingWarning{
				Source:  "pdf:images",
				Message: err.Error(),
			})
		} else {
			result.Images = images
		}
	}

	return result, nil
}
