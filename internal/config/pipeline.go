package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OutputFormat is the pipeline's output-format conversion target.
type OutputFormat string

const (
	OutputPlain      OutputFormat = "plain"
	OutputDjot       OutputFormat = "djot"
	OutputMarkdown   OutputFormat = "markdown"
	OutputHTML       OutputFormat = "html"
	OutputStructured OutputFormat = "structured"
)

// PipelineConfig holds the document-pipeline options a caller can tune
// per invocation or via a discovered kreuzberg.toml. Unlike Config (which
// is deployment/infrastructure plumbing loaded from the environment),
// PipelineConfig travels with the extraction request itself.
type PipelineConfig struct {
	UseCache                 bool                    `toml:"use_cache"`
	ForceOCR                 bool                    `toml:"force_ocr"`
	MaxConcurrentExtractions int                     `toml:"max_concurrent_extractions"`
	OutputFormat             OutputFormat            `toml:"output_format"`
	OCR                      OCRSection              `toml:"ocr"`
	PDF                      PDFSection              `toml:"pdf"`
	Chunking                 ChunkingSection         `toml:"chunking"`
	Cache                    CacheSection            `toml:"cache"`
	Images                   ImagesSection           `toml:"images"`
	TokenReduction           TokenReductionSection   `toml:"token_reduction"`
	LanguageDetection        LanguageDetectionSection `toml:"language_detection"`
	Keywords                 KeywordsSection         `toml:"keywords"`
	PostProcessor            PostProcessorSection    `toml:"postprocessor"`
	Pages                    PagesSection            `toml:"pages"`
}

type OCRSection struct {
	Enabled        bool     `toml:"enabled"`
	Backend        string   `toml:"backend"` // "tesseract", "paddleocr", "cloud", or "" for auto
	Languages      []string `toml:"languages"`
	TableDetection bool     `toml:"table_detection"`
	ForceOCR       bool     `toml:"force_ocr"`
}

type PDFSection struct {
	Passwords        []string `toml:"passwords"`
	ExtractImages    bool     `toml:"extract_images"`
	ExtractMetadata  bool     `toml:"extract_metadata"`
	ReconstructLayout bool    `toml:"reconstruct_layout"`
	FilterSidebars   bool     `toml:"filter_sidebars"`
	RepairLigatures  bool     `toml:"repair_ligatures"`
}

type ChunkingSection struct {
	Enabled   bool             `toml:"enabled"`
	MaxChars  int              `toml:"max_chars"`
	Overlap   int              `toml:"overlap"`
	Preset    string           `toml:"preset"`
	Embedding *EmbeddingSection `toml:"embedding"`
}

// EmbeddingSection configures the optional chunk-embedding post-processor.
// Provider-agnostic: the teacher hard-codes VoyageAI, spec.md §6 only
// requires "optional embedding config".
type EmbeddingSection struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type CacheSection struct {
	UseCache bool   `toml:"use_cache"`
	Dir      string `toml:"dir"`
}

// ImagesSection configures image extraction/rendering for the image-bearing
// extractors (currently DOCX, and the PDF OCR image path).
type ImagesSection struct {
	ExtractImages    bool    `toml:"extract_images"`
	TargetDPI        int     `toml:"target_dpi"`
	MaxImageDimension int    `toml:"max_image_dimension"`
	AutoAdjustDPI    bool    `toml:"auto_adjust_dpi"`
	MinDPI           int     `toml:"min_dpi"`
	MaxDPI           int     `toml:"max_dpi"`
}

// TokenReductionSection is accepted for API-compatibility with spec.md §6;
// the token-reduction algorithm itself is out of scope (see Non-goals).
type TokenReductionSection struct {
	Mode                   string `toml:"mode"` // "off", "light", "aggressive"
	PreserveImportantWords bool   `toml:"preserve_important_words"`
}

// LanguageDetectionSection is accepted for API-compatibility; language
// detection beyond what an extractor/OCR backend reports natively is out
// of scope (see Non-goals).
type LanguageDetectionSection struct {
	Enabled         bool    `toml:"enabled"`
	MinConfidence   float64 `toml:"min_confidence"`
	DetectMultiple  bool    `toml:"detect_multiple"`
}

// KeywordsSection is accepted for API-compatibility; keyword-extraction
// internals are out of scope (see Non-goals) — only the PostProcessor
// trait call site is implemented.
type KeywordsSection struct {
	MaxKeywords int     `toml:"max_keywords"`
	MinScore    float64 `toml:"min_score"`
	Language    string  `toml:"language"`
}

// PostProcessorSection lets a caller enable/disable the pipeline's
// post-processor stage wholesale, or name specific registered processors
// to include/exclude by name.
type PostProcessorSection struct {
	Enabled          bool     `toml:"enabled"`
	EnabledProcessors  []string `toml:"enabled_processors"`
	DisabledProcessors []string `toml:"disabled_processors"`
}

// PagesSection controls per-page marker insertion in the joined content.
type PagesSection struct {
	ExtractPages      bool   `toml:"extract_pages"`
	InsertPageMarkers bool   `toml:"insert_page_markers"`
	MarkerFormat      string `toml:"marker_format"` // template containing "{page_num}"
}

// DefaultPipelineConfig mirrors the defaults spec.md §6 describes.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		MaxConcurrentExtractions: 4,
		OutputFormat:             OutputMarkdown,
		OCR: OCRSection{
			Enabled:        true,
			Languages:      []string{"eng"},
			TableDetection: true,
		},
		PDF: PDFSection{
			ExtractImages:     true,
			ExtractMetadata:   true,
			ReconstructLayout: true,
			FilterSidebars:    true,
			RepairLigatures:   true,
		},
		Chunking: ChunkingSection{
			Enabled:  true,
			MaxChars: 4000,
			Overlap:  200,
		},
		Cache: CacheSection{
			UseCache: false,
			Dir:      "/tmp/kreuzbergo-cache",
		},
		Images: ImagesSection{
			ExtractImages: true,
			TargetDPI:     150,
			MinDPI:        72,
			MaxDPI:        300,
		},
		TokenReduction: TokenReductionSection{
			Mode: "off",
		},
		PostProcessor: PostProcessorSection{
			Enabled: true,
		},
		Pages: PagesSection{
			InsertPageMarkers: false,
			MarkerFormat:      "--- page {page_num} ---",
		},
	}
}

// LoadPipelineConfig walks upward from startDir looking for a
// kreuzberg.toml, decodes it over the defaults, and returns the result.
// A missing file is not an error: the defaults are returned unchanged.
func LoadPipelineConfig(startDir string) (*PipelineConfig, error) {
	cfg := DefaultPipelineConfig()

	path, err := findUpward(startDir, "kreuzberg.toml")
	if err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findUpward searches dir and each of its ancestors for name, returning
// the first match.
func findUpward(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
