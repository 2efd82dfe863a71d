package paddleocr

import (
	"fmt"
	"image"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr"
)

// Engine runs detection, optional angle classification, and recognition
// for one script family against shared detection/classification models and
// a family-specific recognition model and dictionary. The underlying ONNX
// sessions are not safe for concurrent inference, so mu serializes every
// call into this engine; distinct families each get their own Engine and
// so run concurrently with one another via the pool.
type Engine struct {
	family ocr.ScriptFamily

	mu  sync.Mutex
	det *session
	cls *session
	rec *session

	dict []string
}

// recognitionHeight is PaddleOCR's fixed CRNN-style recognizer input
// height; crops are resized to this height before inference.
const recognitionHeight = 48

// NewEngineFactory builds an ocr.EngineFactory. For each script family it
// resolves the shared detection/classification model files through the
// manager's cache and opens fresh detection, classification and
// recognition sessions for that family's engine. numThreads is not
// applied; the sessions use ONNX Runtime's default threading.
func NewEngineFactory(manager *ocr.ModelManager) ocr.EngineFactory {
	return func(family ocr.ScriptFamily, modelPath, dictPath string, numThreads int) (ocr.Engine, error) {
		detModel, clsModel, err := manager.EnsureSharedModels("")
		if err != nil {
			return nil, fmt.Errorf("resolving shared detection models: %w", err)
		}
		recModel := modelPath

		det, err := newSession(detModel, []string{"x"}, []string{"sigmoid_0.tmp_0"})
		if err != nil {
			return nil, err
		}
		cls, err := newSession(clsModel, []string{"x"}, []string{"softmax_0.tmp_0"})
		if err != nil {
			det.Close()
			return nil, err
		}
		rec, err := newSession(recModel, []string{"x"}, []string{"softmax_0.tmp_0"})
		if err != nil {
			det.Close()
			cls.Close()
			return nil, err
		}

		dict, err := LoadDict(dictPath)
		if err != nil {
			det.Close()
			cls.Close()
			rec.Close()
			return nil, fmt.Errorf("loading character dictionary for %s: %w", family, err)
		}

		return &Engine{family: family, det: det, cls: cls, rec: rec, dict: dict}, nil
	}
}

// Recognize runs the full detect -> classify -> recognize pipeline against
// img and returns OCR elements in reading order plus the concatenated text.
// Inference panics from the underlying C library are recovered and
// surfaced as a plain error so callers can wrap them as plugin failures.
func (e *Engine) Recognize(img image.Image, cfg DetectionConfig) (elements []model.OcrElement, text string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("paddleocr inference panicked: %v\n%s", r, debug.Stack())
		}
	}()

	resized, scaleX, scaleY := resizeForDetection(img, cfg.MaxSideLen)
	data, shape := toCHWTensor(resized, detMean, detStd)

	probMap, outShape, err := e.det.run(data, shape)
	if err != nil {
		return nil, "", fmt.Errorf("detection inference: %w", err)
	}
	if len(outShape) != 4 {
		return nil, "", fmt.Errorf("unexpected detector output rank %d", len(outShape))
	}
	mapH, mapW := int(outShape[2]), int(outShape[3])

	regions := detectRegions(probMap, mapW, mapH, cfg, scaleX, scaleY)

	var lines []string
	for _, region := range regions {
		crop := cropRegion(img, region)
		if cfg.UseAngleCls {
			crop = e.maybeRotate(crop)
		}

		lineText, confidence := e.recognizeCrop(crop)
		if lineText == "" {
			continue
		}

		lines = append(lines, lineText)
		elements = append(elements, model.OcrElement{
			Text:       lineText,
			Confidence: confidence,
			PageNumber: 1,
			Bounds: model.BoundingBox{
				X:      float64(region.minX),
				Y:      float64(region.minY),
				Width:  float64(region.width()),
				Height: float64(region.height()),
			},
		})
	}

	return elements, strings.Join(lines, "\n"), nil
}

// maybeRotate runs the angle classifier and flips crop 180deg when the
// classifier is confident the line is upside down.
func (e *Engine) maybeRotate(crop *image.RGBA) *image.RGBA {
	resized := resizeForRecognition(crop, recognitionHeight)
	data, shape := toCHWTensor(resized, detMean, detStd)

	probs, outShape, err := e.cls.run(data, shape)
	if err != nil || len(outShape) < 2 {
		return crop
	}
	classes := int(outShape[len(outShape)-1])
	if classes < 2 || len(probs) < classes {
		return crop
	}
	if probs[1] > probs[0] && probs[1] > 0.9 {
		return rotate180(crop)
	}
	return crop
}

func rotate180(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			src := img.At(b.Min.X+x, b.Min.Y+y)
			out.Set(b.Min.X+b.Dx()-1-x, b.Min.Y+b.Dy()-1-y, src)
		}
	}
	return out
}

func (e *Engine) recognizeCrop(crop *image.RGBA) (string, float64) {
	resized := resizeForRecognition(crop, recognitionHeight)
	data, shape := toCHWTensor(resized, detMean, detStd)

	logits, outShape, err := e.rec.run(data, shape)
	if err != nil || len(outShape) != 3 {
		return "", 0
	}
	timesteps, classes := int(outShape[1]), int(outShape[2])
	return ctcGreedyDecode(logits, timesteps, classes, e.dict)
}

// Close releases every ONNX session this engine owns.
func (e *Engine) Close() error {
	var firstErr error
	for _, s := range []*session{e.det, e.cls, e.rec} {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
