package xmlstream

import (
	"context"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

func TestExtractorExtractBytesReportsElementStats(t *testing.T) {
	e := New()
	data := []byte(`<root><item attr="v">text</item></root>`)

	result, err := e.ExtractBytes(context.Background(), data, "application/xml", registry.ExtractConfig{})
	if err != nil {
		t.Fatal(err)
	}
	xmlMeta, ok := result.Metadata.XMLMetadata()
	if !ok {
		t.Fatal("expected XML metadata to be set")
	}
	if xmlMeta.ElementCount != 2 {
		t.Errorf("expected element count 2, got %d", xmlMeta.ElementCount)
	}
}
