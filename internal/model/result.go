// Package model holds the data types shared by every extraction component:
// the result envelope, structure-tree blocks, OCR elements, and the
// OOXML-derived property records.
package model

import "encoding/json"

// ExtractionResult is the sole return value of an extraction.
type ExtractionResult struct {
	Content            string             `json:"content"`
	MimeType           string             `json:"mime_type"`
	Metadata           Metadata           `json:"metadata"`
	Tables             []Table            `json:"tables"`
	Images             []ExtractedImage   `json:"images,omitempty"`
	Pages              []PageContent      `json:"pages,omitempty"`
	Chunks             []Chunk            `json:"chunks,omitempty"`
	DetectedLanguages  []string           `json:"detected_languages,omitempty"`
	ProcessingWarnings []ProcessingWarning `json:"processing_warnings,omitempty"`
	DjotContent        *string            `json:"djot_content,omitempty"`
}

// ProcessingWarning is a (source, message) pair accumulated through the
// pipeline. A warning is never fatal.
type ProcessingWarning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Table is an ordered, page-numbered 2-D cell matrix with a markdown
// rendering. Tables may be shared across per-page aggregates; Go's slice
// sharing semantics make the "reference-counted" requirement moot as long as
// callers treat Cells as read-only after construction.
type Table struct {
	Cells      [][]string `json:"cells"`
	Markdown   string     `json:"markdown"`
	PageNumber int        `json:"page_number"`
	Bounds     *BoundingBox `json:"bounds,omitempty"`
}

// BoundingBox is a page-relative rectangle in PDF user-space units.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractedImage is a raw image payload, optionally OCR'd.
type ExtractedImage struct {
	Data             []byte             `json:"data"`
	Format           string             `json:"format"`
	ImageIndex       int                `json:"image_index"`
	PageNumber       *int               `json:"page_number,omitempty"`
	Width            *uint32            `json:"width,omitempty"`
	Height           *uint32            `json:"height,omitempty"`
	Colorspace       *string            `json:"colorspace,omitempty"`
	BitsPerComponent *uint32            `json:"bits_per_component,omitempty"`
	IsMask           bool               `json:"is_mask"`
	Description      *string            `json:"description,omitempty"`
	OCRResult        *ExtractionResult  `json:"ocr_result,omitempty"`
}

// PageContent is a per-page aggregate: page text plus page-local tables,
// images, and an optional structural hierarchy.
type PageContent struct {
	PageNumber int              `json:"page_number"`
	Text       string           `json:"text"`
	Tables     []Table          `json:"tables,omitempty"`
	Images     []ExtractedImage `json:"images,omitempty"`
	Blocks     []ExtractedBlock `json:"blocks,omitempty"`
}

// Chunk is a chunking post-processor's output unit.
type Chunk struct {
	Content   string        `json:"content"`
	Embedding []float32     `json:"embedding,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// ChunkMetadata carries positional information for a chunk.
type ChunkMetadata struct {
	CharStart   int  `json:"char_start"`
	CharEnd     int  `json:"char_end"`
	TokenCount  *int `json:"token_count,omitempty"`
	ChunkIndex  int  `json:"chunk_index"`
	TotalChunks int  `json:"total_chunks"`
}

// Metadata aggregates common document metadata plus a discriminated
// format-specific payload and a free-form additional-fields bag.
type Metadata struct {
	Title      *string                    `json:"title,omitempty"`
	Authors    []string                   `json:"authors,omitempty"`
	Language   *string                    `json:"language,omitempty"`
	Date       *string                    `json:"date,omitempty"`
	Subject    *string                    `json:"subject,omitempty"`
	PageCount  *int                       `json:"page_count,omitempty"`
	Format     FormatMetadata             `json:"-"`
	Error      *ErrorMetadata             `json:"error,omitempty"`
	Additional map[string]json.RawMessage `json:"additional,omitempty"`
}

// FormatType enumerates the discriminated metadata-format tags.
type FormatType string

const (
	FormatUnknown FormatType = ""
	FormatPDF     FormatType = "pdf"
	FormatExcel   FormatType = "excel"
	FormatEmail   FormatType = "email"
	FormatPPTX    FormatType = "pptx"
	FormatDOCX    FormatType = "docx"
	FormatArchive FormatType = "archive"
	FormatImage   FormatType = "image"
	FormatXML     FormatType = "xml"
	FormatText    FormatType = "text"
	FormatHTML    FormatType = "html"
	FormatOCR     FormatType = "ocr"
)

// FormatMetadata is the discriminated union of per-format metadata payloads.
// At most one of the pointer fields is non-nil, matching Type; a Type
// whose extractor has no payload to report leaves them all nil.
type FormatMetadata struct {
	Type    FormatType
	PDF     *PDFMetadata
	Excel   *ExcelMetadata
	Email   *EmailMetadata
	PPTX    *PPTXMetadata
	DOCX    *DOCXMetadata
	Archive *ArchiveMetadata
	Image   *ImageMetadata
	XML     *XMLMetadata
	Text    *TextMetadata
	HTML    *HTMLMetadata
	OCR     *OCRMetadata
}

// PDFMetadata returns the PDF metadata if present.
func (m Metadata) PDFMetadata() (*PDFMetadata, bool) {
	return m.Format.PDF, m.Format.Type == FormatPDF && m.Format.PDF != nil
}

// ExcelMetadata returns the Excel metadata if present.
func (m Metadata) ExcelMetadata() (*ExcelMetadata, bool) {
	return m.Format.Excel, m.Format.Type == FormatExcel && m.Format.Excel != nil
}

// DOCXMetadata returns the DOCX metadata if present.
func (m Metadata) DOCXMetadata() (*DOCXMetadata, bool) {
	return m.Format.DOCX, m.Format.Type == FormatDOCX && m.Format.DOCX != nil
}

// OCRMetadata returns the OCR metadata if present.
func (m Metadata) OCRMetadata() (*OCRMetadata, bool) {
	return m.Format.OCR, m.Format.Type == FormatOCR && m.Format.OCR != nil
}

// XMLMetadata returns the XML metadata if present.
func (m Metadata) XMLMetadata() (*XMLMetadata, bool) {
	return m.Format.XML, m.Format.Type == FormatXML && m.Format.XML != nil
}

// PDFMetadata describes a PDF source document.
type PDFMetadata struct {
	Title       *string  `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	CreatedAt   *string  `json:"created_at,omitempty"`
	ModifiedAt  *string  `json:"modified_at,omitempty"`
	Producer    *string  `json:"producer,omitempty"`
	PageCount   *int     `json:"page_count,omitempty"`
	PDFVersion  *string  `json:"pdf_version,omitempty"`
	IsEncrypted *bool    `json:"is_encrypted,omitempty"`
}

// ExcelMetadata lists sheets inside a spreadsheet document.
type ExcelMetadata struct {
	SheetCount int      `json:"sheet_count"`
	SheetNames []string `json:"sheet_names"`
}

// EmailMetadata captures envelope data for EML/MSG messages.
type EmailMetadata struct {
	FromEmail   *string  `json:"from_email,omitempty"`
	FromName    *string  `json:"from_name,omitempty"`
	ToEmails    []string `json:"to_emails"`
	MessageID   *string  `json:"message_id,omitempty"`
	Attachments []string `json:"attachments"`
}

// PPTXMetadata summarizes a slide deck.
type PPTXMetadata struct {
	Title   *string  `json:"title,omitempty"`
	Author  *string  `json:"author,omitempty"`
	Summary *string  `json:"summary,omitempty"`
	Fonts   []string `json:"fonts"`
}

// DOCXMetadata summarizes a word-processing document's derived properties.
type DOCXMetadata struct {
	Title          *string            `json:"title,omitempty"`
	Author         *string            `json:"author,omitempty"`
	SectionCount   int                `json:"section_count"`
	TableCount     int                `json:"table_count"`
	ThemeMajorFont *string            `json:"theme_major_font,omitempty"`
	ThemeMinorFont *string            `json:"theme_minor_font,omitempty"`
}

// ArchiveMetadata summarizes archive contents.
type ArchiveMetadata struct {
	Format    string   `json:"format"`
	FileCount int      `json:"file_count"`
	FileList  []string `json:"file_list"`
	TotalSize int      `json:"total_size"`
}

// ImageMetadata describes a standalone image document.
type ImageMetadata struct {
	Width  uint32            `json:"width"`
	Height uint32            `json:"height"`
	Format string            `json:"format"`
	EXIF   map[string]string `json:"exif"`
}

// XMLMetadata provides structural statistics for an XML document.
type XMLMetadata struct {
	ElementCount   int      `json:"element_count"`
	UniqueElements []string `json:"unique_elements"`
}

// TextMetadata contains counts for plain text and Markdown documents.
type TextMetadata struct {
	LineCount      int      `json:"line_count"`
	WordCount      int      `json:"word_count"`
	CharacterCount int      `json:"character_count"`
	Headers        []string `json:"headers,omitempty"`
}

// HTMLMetadata contains the subset of HTML head metadata the core cares
// about; the rest is left to downstream renderers.
type HTMLMetadata struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Canonical   *string `json:"canonical,omitempty"`
}

// OCRMetadata records OCR settings/results associated with an extraction.
// output_format is deliberately duplicated into Metadata.Additional under
// the key "output_format" by the pipeline driver; the source marks this
// deprecated and we carry the duplication forward unchanged.
type OCRMetadata struct {
	Language     string `json:"language"`
	OutputFormat string `json:"output_format"`
	TableCount   int    `json:"table_count"`
}

// ErrorMetadata describes a non-fatal per-document failure in batch operations.
type ErrorMetadata struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}
