package pipeline

import (
	"strings"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func TestApplyOutputFormatSkipsReconversionWhenMimeAlreadyMatches(t *testing.T) {
	result := &model.ExtractionResult{Content: "# Heading", MimeType: "text/markdown"}
	ApplyOutputFormat(result, config.OutputMarkdown)
	if result.Content != "# Heading" {
		t.Errorf("content should be untouched when already at target MIME, got %q", result.Content)
	}
	if len(result.ProcessingWarnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.ProcessingWarnings)
	}
}

func TestApplyOutputFormatHTMLWrapsInPreWithEscapes(t *testing.T) {
	result := &model.ExtractionResult{Content: `<script>alert("hi")</script> & 'quote'`, MimeType: "text/plain"}
	ApplyOutputFormat(result, config.OutputHTML)
	if result.MimeType != "text/html" {
		t.Fatalf("expected text/html, got %q", result.MimeType)
	}
	if !strings.HasPrefix(result.Content, "<pre>") || !strings.HasSuffix(result.Content, "</pre>") {
		t.Fatalf("expected <pre>-wrapped content, got %q", result.Content)
	}
	if strings.Contains(result.Content, "<script>") {
		t.Errorf("expected tags to be escaped, got %q", result.Content)
	}
	for _, entity := range []string{"&lt;", "&gt;", "&amp;", "&#34;", "&#39;"} {
		if !strings.Contains(result.Content, entity) {
			t.Errorf("expected %s to appear in escaped content %q", entity, result.Content)
		}
	}
}

func TestApplyOutputFormatDjotFallsBackWithWarningWhenAbsent(t *testing.T) {
	result := &model.ExtractionResult{Content: "plain text", MimeType: "text/plain"}
	ApplyOutputFormat(result, config.OutputDjot)
	if result.Content != "plain text" {
		t.Errorf("expected content preserved on failed conversion, got %q", result.Content)
	}
	if len(result.ProcessingWarnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.ProcessingWarnings)
	}
}

func TestApplyOutputFormatDjotUsesDjotContentWhenPresent(t *testing.T) {
	djot := "= Heading\n"
	result := &model.ExtractionResult{Content: "ignored", MimeType: "text/plain", DjotContent: &djot}
	ApplyOutputFormat(result, config.OutputDjot)
	if result.Content != djot {
		t.Errorf("expected djot content to be used, got %q", result.Content)
	}
	if result.MimeType != "text/djot" {
		t.Errorf("expected text/djot mime, got %q", result.MimeType)
	}
}

func TestApplyOutputFormatRecordsFormatInMetadata(t *testing.T) {
	result := &model.ExtractionResult{Content: "x", MimeType: "text/plain"}
	ApplyOutputFormat(result, config.OutputPlain)
	raw, ok := result.Metadata.Additional["output_format"]
	if !ok {
		t.Fatal("expected output_format to be recorded in metadata.additional")
	}
	if string(raw) != `"plain"` {
		t.Errorf("unexpected recorded format: %s", raw)
	}
}
