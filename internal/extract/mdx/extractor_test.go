package mdx

import (
	"context"
	"strings"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

func TestExtractorExtractBytesRendersHTMLAndTitle(t *testing.T) {
	source := "---\ntitle: My Doc\n---\n\n# Hello\n\nSome *text*.\n"

	e := New()
	result, err := e.ExtractBytes(context.Background(), []byte(source), "text/mdx", registry.ExtractConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if result.MimeType != "text/html" {
		t.Errorf("unexpected mime type: %q", result.MimeType)
	}
	if !strings.Contains(result.Content, "<h1") {
		t.Errorf("expected rendered heading, got: %s", result.Content)
	}
	if result.Metadata.Title == nil || *result.Metadata.Title != "My Doc" {
		t.Errorf("expected title from frontmatter, got %v", result.Metadata.Title)
	}
}
