package pipeline

import (
	"context"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

func TestChunkingPostProcessorSingleChunkWhenShortContent(t *testing.T) {
	p := NewChunkingPostProcessor(100, 10, nil)
	result := &model.ExtractionResult{Content: "short document"}
	if err := p.Process(context.Background(), result, registry.ExtractConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Content != "short document" {
		t.Errorf("unexpected chunk content: %q", result.Chunks[0].Content)
	}
	if result.Chunks[0].Metadata.TotalChunks != 1 {
		t.Errorf("expected TotalChunks=1, got %d", result.Chunks[0].Metadata.TotalChunks)
	}
}

func TestChunkingPostProcessorOverlappingChunks(t *testing.T) {
	p := NewChunkingPostProcessor(10, 3, nil)
	content := "0123456789ABCDEFGHIJ" // 20 chars
	result := &model.ExtractionResult{Content: content}
	if err := p.Process(context.Background(), result, registry.ExtractConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(result.Chunks))
	}
	for i, c := range result.Chunks {
		if c.Metadata.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.Metadata.ChunkIndex)
		}
		if c.Metadata.CharEnd-c.Metadata.CharStart > 10 {
			t.Errorf("chunk %d exceeds max size: %+v", i, c.Metadata)
		}
	}
	last := result.Chunks[len(result.Chunks)-1]
	if last.Metadata.CharEnd != len(content) {
		t.Errorf("expected last chunk to reach end of content, got %d", last.Metadata.CharEnd)
	}
}

func TestChunkingPostProcessorEmptyContentProducesNoChunks(t *testing.T) {
	p := NewChunkingPostProcessor(100, 10, nil)
	result := &model.ExtractionResult{Content: ""}
	if err := p.Process(context.Background(), result, registry.ExtractConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Chunks != nil {
		t.Errorf("expected no chunks for empty content, got %v", result.Chunks)
	}
}

func TestContentPresenceValidatorRejectsFullyEmptyResult(t *testing.T) {
	v := NewContentPresenceValidator()
	result := &model.ExtractionResult{}
	if err := v.Validate(context.Background(), result, registry.ExtractConfig{}); err == nil {
		t.Fatal("expected validation error for fully empty result")
	}
}

func TestContentPresenceValidatorAcceptsImagesOnlyResult(t *testing.T) {
	v := NewContentPresenceValidator()
	result := &model.ExtractionResult{Images: []model.ExtractedImage{{Format: "png"}}}
	if err := v.Validate(context.Background(), result, registry.ExtractConfig{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
