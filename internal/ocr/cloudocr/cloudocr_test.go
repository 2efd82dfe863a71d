package cloudocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

func TestProcessImageParsesSuccessResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req visionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Format != "base64" {
			t.Errorf("expected base64 format, got %q", req.Format)
		}

		resp := visionResponse{Success: true}
		resp.Data.Text = "hello world"
		resp.Data.Confidence = 0.95
		resp.Data.ModelUsed = "test-model"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend := New(server.URL, true)
	result, err := backend.ProcessImage(context.Background(), []byte("fake-image-bytes"), registry.OCRConfig{Language: "eng"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "hello world" {
		t.Errorf("expected content %q, got %q", "hello world", result.Content)
	}
	ocrMeta, ok := result.Metadata.OCRMetadata()
	if !ok || ocrMeta.Language != "eng" {
		t.Errorf("expected OCR metadata with language eng, got %+v ok=%v", ocrMeta, ok)
	}
}

func TestProcessImageFailureResponseReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := visionResponse{Success: false, Message: "model unavailable"}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend := New(server.URL, false)
	_, err := backend.ProcessImage(context.Background(), []byte("x"), registry.OCRConfig{Language: "eng"})
	if err == nil {
		t.Fatal("expected error on unsuccessful response")
	}
}

func TestProcessImageEmptyDataRejected(t *testing.T) {
	backend := New("http://example.invalid", false)
	_, err := backend.ProcessImage(context.Background(), nil, registry.OCRConfig{})
	if err == nil {
		t.Fatal("expected error for empty image data")
	}
}

func TestSupportsLanguageAcceptsMultiAndKnownCodes(t *testing.T) {
	backend := New("http://example.invalid", false)
	if !backend.SupportsLanguage("multi") {
		t.Error("expected multi to be supported")
	}
	if !backend.SupportsLanguage("eng") {
		t.Error("expected eng to be supported")
	}
	if backend.SupportsLanguage("zzz-unknown") {
		t.Error("expected unknown code to be unsupported")
	}
}

func TestInitializeRequiresBaseURL(t *testing.T) {
	backend := New("", false)
	if err := backend.Initialize(); err == nil {
		t.Fatal("expected error when base URL is empty")
	}
}
