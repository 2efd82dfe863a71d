// Package pipeline wires every other component into the single
// extract(input, hint, config) -> ExtractionResult entry point: MIME
// resolution, extractor selection, extraction, the conditional OCR pass,
// post-processors, validators, and output-format conversion.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/extract/docx"
	"github.com/kreuzbergo/kreuzbergo/internal/extract/jupyter"
	"github.com/kreuzbergo/kreuzbergo/internal/extract/mdx"
	"github.com/kreuzbergo/kreuzbergo/internal/extract/pdf"
	"github.com/kreuzbergo/kreuzbergo/internal/extract/xmlstream"
	"github.com/kreuzbergo/kreuzbergo/internal/logging"
	"github.com/kreuzbergo/kreuzbergo/internal/mimetype"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr/paddleocr"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr/tesseract"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// defaultModelHubURL is the Hugging Face repo spec.md §6 names as the
// fixed source for PaddleOCR's shared/recognition models.
const defaultModelHubURL = "https://huggingface.co/Kreuzberg/paddleocr-onnx-models/resolve/main"

// Driver holds every plugin registry and runs the per-document pipeline.
type Driver struct {
	Extractors     *registry.Registry[registry.DocumentExtractor]
	OCRBackends    *registry.Registry[registry.OcrBackend]
	PostProcessors *registry.Registry[registry.PostProcessor]
	Validators     *registry.Registry[registry.Validator]

	logger *logging.Logger
}

// NewDriver builds a Driver and registers the built-in extractors plus
// whatever OCR backends the host environment actually supports. A backend
// whose Initialize fails (missing binary, missing ONNX runtime, unset
// cloud URL) is logged and skipped rather than aborting construction —
// OCR is a feature-gated capability, not a hard dependency of the driver.
func NewDriver(cfg *config.PipelineConfig) (*Driver, error) {
	d := &Driver{
		Extractors:     registry.New[registry.DocumentExtractor](),
		OCRBackends:    registry.New[registry.OcrBackend](),
		PostProcessors: registry.New[registry.PostProcessor](),
		Validators:     registry.New[registry.Validator](),
		logger:         logging.NewLogger("pipeline"),
	}

	for _, e := range []registry.DocumentExtractor{docx.New(), xmlstream.New(), jupyter.New(), mdx.New(), pdf.New()} {
		if err := d.Extractors.Register(e); err != nil {
			return nil, err
		}
	}

	d.registerOptionalOCRBackend(tesseract.New(os.Getenv("KREUZBERGO_TESSERACT_PATH")))

	if cfg.OCR.Backend == "" || cfg.OCR.Backend == "paddleocr" {
		hubURL := defaultModelHubURL
		if override := os.Getenv("KREUZBERGO_MODEL_HUB_URL"); override != "" {
			hubURL = override
		}
		manager := ocr.NewModelManager(cfg.Cache.Dir, hubURL)
		d.registerOptionalOCRBackend(paddleocr.New(manager))
	}

	if cfg.Chunking.Embedding != nil && cfg.Chunking.Embedding.APIKey != "" {
		client, err := NewEmbeddingClient(cfg.Chunking.Embedding.Provider, cfg.Chunking.Embedding.BaseURL, cfg.Chunking.Embedding.Model, cfg.Chunking.Embedding.APIKey)
		if err != nil {
			d.logger.Warn("embedding client unavailable, chunks will be embedding-free", "error", err)
		} else {
			_ = d.PostProcessors.Register(NewChunkingPostProcessor(cfg.Chunking.MaxChars, cfg.Chunking.Overlap, client))
		}
	} else {
		_ = d.PostProcessors.Register(NewChunkingPostProcessor(cfg.Chunking.MaxChars, cfg.Chunking.Overlap, nil))
	}

	_ = d.Validators.Register(NewContentPresenceValidator())

	return d, nil
}

// registerOptionalOCRBackend registers backend, logging and swallowing any
// Initialize failure instead of propagating it.
func (d *Driver) registerOptionalOCRBackend(backend registry.OcrBackend) {
	if err := d.OCRBackends.Register(backend); err != nil {
		d.logger.Warn("OCR backend unavailable, skipping", "backend", backend.Name(), "error", err)
	}
}

// RegisterOCRBackend exposes backend registration for callers wiring in
// the cloud OCR tier (its base URL is deployment-specific, so it isn't
// auto-registered here).
func (d *Driver) RegisterOCRBackend(backend registry.OcrBackend) error {
	return d.OCRBackends.Register(backend)
}

// Input is the driver's extraction request: exactly one of Path or Data
// must be set.
type Input struct {
	Path string
	Data []byte
	Mime string // optional hint, validated via internal/mimetype
}

// Extract runs the full pipeline: resolve MIME -> select extractor ->
// extract -> OCR pass over images -> post-process -> validate -> convert
// output format. ctx is checked for cancellation between every stage.
func (d *Driver) Extract(ctx context.Context, jobID string, in Input, cfg config.PipelineConfig) (*model.ExtractionResult, error) {
	mime, err := d.resolveMime(jobID, in)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, kerrors.NewProcessingTimeoutError(jobID, 0, err)
	}

	extractor, ok := registry.SelectFor(d.Extractors, mime)
	if !ok {
		return nil, kerrors.NewUnsupportedFormatError(jobID, mime)
	}

	extractCfg := registry.ExtractConfig{
		ExtractImages: cfg.PDF.ExtractImages,
		ExtractMeta:   cfg.PDF.ExtractMetadata,
		ForceOCR:      cfg.ForceOCR || cfg.OCR.ForceOCR,
		PDFPasswords:  cfg.PDF.Passwords,
	}

	var result *model.ExtractionResult
	if in.Path != "" {
		result, err = extractor.ExtractFile(ctx, in.Path, mime, extractCfg)
	} else {
		result, err = extractor.ExtractBytes(ctx, in.Data, mime, extractCfg)
	}
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, kerrors.NewProcessingTimeoutError(jobID, 0, err)
	}

	if cfg.OCR.Enabled && (len(result.Images) > 0 || extractCfg.ForceOCR) {
		d.runOCRPass(ctx, jobID, result, cfg)
	}

	if cfg.PostProcessor.Enabled {
		d.runPostProcessors(ctx, result, extractCfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, kerrors.NewProcessingTimeoutError(jobID, 0, err)
	}

	if err := d.runValidators(ctx, result, extractCfg); err != nil {
		return nil, err
	}

	ApplyOutputFormat(result, cfg.OutputFormat)

	return result, nil
}

func (d *Driver) resolveMime(jobID string, in Input) (string, error) {
	if in.Mime != "" {
		return mimetype.Validate(jobID, in.Mime)
	}
	if in.Path != "" {
		return mimetype.DetectFromPath(jobID, in.Path, true)
	}
	return mimetype.DetectFromBytes(jobID, in.Data)
}

// maxConcurrentOCRInferences bounds how many images runOCRPass sends to OCR
// backends at once, independent of how many images a document contains.
const maxConcurrentOCRInferences = 4

// ocrOutcome carries one image's OCR result (or failure) back across
// runOCRPass's result channel, identified by its index into result.Images.
type ocrOutcome struct {
	index   int
	result  *model.ExtractionResult
	warning *model.ProcessingWarning
}

// runOCRPass sends every extracted image through the selected backend
// (cfg.OCR.Backend, or the highest-priority one registered for the
// image's MIME) and attaches the OCR result. Inference runs on a bounded
// goroutine pool and the pass blocks on a result channel until every image
// has reported back; a panic inside one inference is recovered at the
// goroutine boundary and recorded as a processing warning alongside
// ordinary backend errors, so neither aborts the rest of the pass.
func (d *Driver) runOCRPass(ctx context.Context, jobID string, result *model.ExtractionResult, cfg config.PipelineConfig) {
	ocrCfg := registry.OCRConfig{
		Language:        firstOr(cfg.OCR.Languages, "eng"),
		TableDetection:  cfg.OCR.TableDetection,
		IncludeElements: true,
	}

	sem := make(chan struct{}, maxConcurrentOCRInferences)
	outcomes := make(chan ocrOutcome, len(result.Images))
	var wg sync.WaitGroup

	for i := range result.Images {
		img := &result.Images[i]

		backend, ok := d.selectOCRBackend(cfg.OCR.Backend, img.Format)
		if !ok {
			outcomes <- ocrOutcome{index: i, warning: &model.ProcessingWarning{
				Source:  "ocr",
				Message: "no OCR backend available for image " + img.Format,
			}}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, data []byte, backend registry.OcrBackend) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					outcomes <- ocrOutcome{index: idx, warning: &model.ProcessingWarning{
						Source:  "ocr:" + backend.Name(),
						Message: fmt.Sprintf("panic: %v\n%s", r, debug.Stack()),
					}}
				}
			}()

			ocrResult, err := backend.ProcessImage(ctx, data, ocrCfg)
			if err != nil {
				outcomes <- ocrOutcome{index: idx, warning: &model.ProcessingWarning{
					Source:  "ocr:" + backend.Name(),
					Message: err.Error(),
				}}
				return
			}
			outcomes <- ocrOutcome{index: idx, result: ocrResult}
		}(i, img.Data, backend)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		if o.warning != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings, *o.warning)
			continue
		}
		result.Images[o.index].OCRResult = o.result
	}

	_ = jobID
}

func (d *Driver) selectOCRBackend(requested, imageFormat string) (registry.OcrBackend, bool) {
	if requested != "" {
		return d.OCRBackends.Get(requested)
	}
	return registry.SelectFor(d.OCRBackends, "image/"+imageFormat)
}

func (d *Driver) runPostProcessors(ctx context.Context, result *model.ExtractionResult, cfg registry.ExtractConfig) {
	for _, name := range d.PostProcessors.List() {
		if err := ctx.Err(); err != nil {
			return
		}
		proc, ok := d.PostProcessors.Get(name)
		if !ok {
			continue
		}
		if err := proc.Process(ctx, result, cfg); err != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings, model.ProcessingWarning{
				Source:  "postprocessor:" + name,
				Message: err.Error(),
			})
		}
	}
}

func (d *Driver) runValidators(ctx context.Context, result *model.ExtractionResult, cfg registry.ExtractConfig) error {
	for _, name := range d.Validators.List() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, ok := d.Validators.Get(name)
		if !ok {
			continue
		}
		if err := v.Validate(ctx, result, cfg); err != nil {
			return err
		}
	}
	return nil
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
