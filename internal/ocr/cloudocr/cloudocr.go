// Package cloudocr adapts a remote vision-model OCR service into the
// ocr.Backend contract, used as the high-accuracy fallback tier when the
// local engines' confidence isn't sufficient.
package cloudocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/logging"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/ocr"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// visionRequest is the payload sent to the remote vision-OCR endpoint.
type visionRequest struct {
	Image          string `json:"image"`
	Format         string `json:"format"`
	PreferAccuracy bool   `json:"preferAccuracy"`
	Language       string `json:"language"`
}

// visionResponse is the synchronous response envelope.
type visionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Text           string  `json:"text"`
		Confidence     float64 `json:"confidence"`
		ModelUsed      string  `json:"modelUsed"`
		ProcessingTime int64   `json:"processingTime"`
	} `json:"data"`
}

// Backend calls out to a remote vision-model OCR service over HTTP. It
// carries no local model state, so Priority is lowest among registered
// backends — it's the fallback tier the pipeline reaches for once the
// local engines have been tried.
type Backend struct {
	baseURL        string
	httpClient     *http.Client
	preferAccuracy bool
	logger         *logging.Logger
}

// New creates a cloud OCR backend pointed at baseURL (the vision service's
// root). preferAccuracy requests the service's highest-accuracy model tier
// rather than its fastest one.
func New(baseURL string, preferAccuracy bool) *Backend {
	return &Backend{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: 120 * time.Second},
		preferAccuracy: preferAccuracy,
		logger:         logging.NewLogger("cloud-ocr"),
	}
}

func (b *Backend) Name() string        { return "cloud-ocr" }
func (b *Backend) Version() string     { return "1.0.0" }
func (b *Backend) BackendType() string { return "cloud-ocr" }

func (b *Backend) Initialize() error {
	if b.baseURL == "" {
		return kerrors.NewMissingDependencyError("", "cloud-ocr base URL not configured")
	}
	return nil
}

func (b *Backend) Shutdown() error { return nil }

// Priority ranks below the local engines: a network round trip per page is
// only worth it when local recognition quality isn't sufficient.
func (b *Backend) Priority() int { return 1 }

func (b *Backend) SupportedMimeTypes() []string {
	return []string{"image/png", "image/jpeg", "image/webp"}
}

// SupportedLanguages returns every family code, since the underlying
// vision model handles language detection itself rather than requiring a
// per-language model.
func (b *Backend) SupportedLanguages() []string {
	return ocr.SupportedLanguageCodes()
}

func (b *Backend) SupportsLanguage(lang string) bool {
	return ocr.IsSupportedLanguage(lang) || lang == "" || lang == "multi"
}

// SupportsTableDetection delegates table structure to the remote model's
// prose; local hOCR-style reconstruction doesn't apply here since the
// service never returns per-word bounding boxes.
func (b *Backend) SupportsTableDetection() bool { return false }

func (b *Backend) ProcessImage(ctx context.Context, data []byte, cfg registry.OCRConfig) (*model.ExtractionResult, error) {
	if len(data) == 0 {
		return nil, kerrors.NewValidationError("", "empty image data provided to cloud-ocr")
	}

	reqBody := visionRequest{
		Image:          base64.StdEncoding.EncodeToString(data),
		Format:         "base64",
		PreferAccuracy: b.preferAccuracy,
		Language:       cfg.Language,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, kerrors.NewValidationError("", "failed to marshal cloud-ocr request: "+err.Error())
	}

	endpoint := fmt.Sprintf("%s/api/internal/vision/extract-text", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, kerrors.NewIOError("", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, kerrors.NewOCRError("", "cloud-ocr request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, kerrors.NewIOError("", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, kerrors.NewOCRError("", fmt.Sprintf("cloud-ocr returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var parsed visionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, kerrors.NewParsingError("", "failed to parse cloud-ocr response", err)
	}
	if !parsed.Success {
		return nil, kerrors.NewOCRError("", "cloud-ocr operation failed: "+parsed.Message, nil)
	}

	b.logger.Info("cloud OCR complete",
		"model", parsed.Data.ModelUsed,
		"confidence", parsed.Data.Confidence,
		"processingMs", parsed.Data.ProcessingTime,
		"textLength", len(parsed.Data.Text))

	result := &model.ExtractionResult{
		Content:           parsed.Data.Text,
		MimeType:          "text/plain",
		DetectedLanguages: []string{cfg.Language},
		Metadata: model.Metadata{
			Format: model.FormatMetadata{
				Type: model.FormatOCR,
				OCR:  &model.OCRMetadata{Language: cfg.Language, OutputFormat: "text"},
			},
		},
	}
	return result, nil
}

func (b *Backend) ProcessFile(ctx context.Context, path string, cfg registry.OCRConfig) (*model.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.NewIOError("", path, err)
	}
	return b.ProcessImage(ctx, data, cfg)
}
