package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/config"
)

func buildMinimalDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello pipeline</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	if err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewDriverRegistersAllFormatExtractors(t *testing.T) {
	d, err := NewDriver(config.DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := d.Extractors.List()
	want := map[string]bool{"docx": false, "xml-stream": false, "jupyter-notebook": false, "mdx": false, "pdf": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected extractor %q to be registered, got %v", name, names)
		}
	}
}

func TestExtractRoutesDocxThroughFullPipeline(t *testing.T) {
	d, err := NewDriver(config.DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := *config.DefaultPipelineConfig()
	cfg.OCR.Enabled = false // no images in this fixture; keep the test hermetic

	result, err := d.Extract(context.Background(), "job-1", Input{
		Data: buildMinimalDocx(t),
		Mime: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content == "" {
		t.Error("expected non-empty content")
	}
	if result.MimeType != "text/markdown" {
		t.Errorf("expected markdown output (default format, extractor already produces it), got %q", result.MimeType)
	}
}

func TestExtractUnsupportedMimeReturnsError(t *testing.T) {
	d, err := NewDriver(config.DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = d.Extract(context.Background(), "job-2", Input{
		Data: []byte("whatever"),
		Mime: "application/x-totally-unknown",
	}, *config.DefaultPipelineConfig())
	if err == nil {
		t.Fatal("expected an error for an unregistered MIME type")
	}
}
