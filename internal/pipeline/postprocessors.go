package pipeline

import (
	"context"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/registry"
)

// ChunkingPostProcessor splits the finished result's Content into
// overlapping character-count chunks and, when an EmbeddingClient is
// configured, embeds each one. Non-goals explicitly scope the chunking
// *algorithm* itself out as hard-engineering work ("already covered by the
// teacher's embedding client wiring"); this is the PostProcessor trait
// call site spec.md §4.F requires, with the simplest splitter that
// satisfies max_chars/overlap.
type ChunkingPostProcessor struct {
	maxChars int
	overlap  int
	embedder *EmbeddingClient
}

// NewChunkingPostProcessor returns a chunker. embedder may be nil, in
// which case chunks are produced without an Embedding vector.
func NewChunkingPostProcessor(maxChars, overlap int, embedder *EmbeddingClient) *ChunkingPostProcessor {
	if maxChars <= 0 {
		maxChars = 4000
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}
	return &ChunkingPostProcessor{maxChars: maxChars, overlap: overlap, embedder: embedder}
}

func (p *ChunkingPostProcessor) Name() string      { return "chunking" }
func (p *ChunkingPostProcessor) Version() string   { return "1.0.0" }
func (p *ChunkingPostProcessor) Initialize() error { return nil }
func (p *ChunkingPostProcessor) Shutdown() error   { return nil }

func (p *ChunkingPostProcessor) Process(ctx context.Context, result *model.ExtractionResult, cfg registry.ExtractConfig) error {
	if result.Content == "" {
		return nil
	}

	bounds := splitIntoChunks(len(result.Content), p.maxChars, p.overlap)
	chunks := make([]model.Chunk, 0, len(bounds))

	for i, b := range bounds {
		text := result.Content[b.start:b.end]
		chunk := model.Chunk{
			Content: text,
			Metadata: model.ChunkMetadata{
				CharStart:   b.start,
				CharEnd:     b.end,
				ChunkIndex:  i,
				TotalChunks: len(bounds),
			},
		}

		if p.embedder != nil {
			vec, err := p.embedder.Embed(ctx, text)
			if err != nil {
				// A single chunk's embedding failure doesn't lose the
				// chunk itself; the caller already treats the overall
				// post-processor error as a recorded warning.
				chunks = append(chunks, chunk)
				continue
			}
			chunk.Embedding = vec
		}
		chunks = append(chunks, chunk)
	}

	result.Chunks = chunks
	return nil
}

type charRange struct{ start, end int }

// splitIntoChunks computes [start,end) byte ranges covering total length
// n, each at most maxChars wide, consecutive ranges overlapping by
// overlap characters.
func splitIntoChunks(n, maxChars, overlap int) []charRange {
	if n <= maxChars {
		return []charRange{{0, n}}
	}

	var ranges []charRange
	stride := maxChars - overlap
	for start := 0; start < n; start += stride {
		end := start + maxChars
		if end > n {
			end = n
		}
		ranges = append(ranges, charRange{start, end})
		if end == n {
			break
		}
	}
	return ranges
}
