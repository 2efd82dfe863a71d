// Package mimetype is the centralized format registry: the single
// source-of-truth table mapping extensions to canonical MIME types, plus
// the derived lookup structures and detection functions built on top of it.
package mimetype

import "sort"

// FormatEntry is one row of the format registry. The first extension is
// canonical; later ones are additional spellings that map to the same MIME.
type FormatEntry struct {
	Extensions []string
	MimeType   string
	Aliases    []string
}

// Well-known MIME constants referenced by the detection fallback chain.
const (
	HTMLMimeType       = "text/html"
	MarkdownMimeType   = "text/markdown"
	PDFMimeType        = "application/pdf"
	PlainTextMimeType  = "text/plain"
	PowerPointMimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	DOCXMimeType       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	LegacyWordMimeType = "application/msword"
	EMLMimeType        = "message/rfc822"
	MSGMimeType        = "application/vnd.ms-outlook"
	JSONMimeType       = "application/json"
	XMLMimeType        = "application/xml"
	ExcelMimeType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Formats is the centralized format registry, the single source of truth
// every derived lookup structure below is built from. Ported verbatim (every
// extension/MIME/alias entry) from the original Rust FORMATS table, since
// spec.md references this table abstractly without enumerating it.
var Formats = []FormatEntry{
	// Plain text.
	{Extensions: []string{"txt"}, MimeType: "text/plain"},
	{MimeType: "text/troff"},
	{MimeType: "text/x-mdoc"},
	{MimeType: "text/x-pod"},
	{MimeType: "text/x-dokuwiki"},
	// Markdown.
	{Extensions: []string{"md", "markdown"}, MimeType: "text/markdown", Aliases: []string{"text/x-markdown"}},
	{Extensions: []string{"commonmark"}, MimeType: "text/x-commonmark"},
	{MimeType: "text/x-gfm"},
	{MimeType: "text/x-markdown-extra"},
	{MimeType: "text/x-multimarkdown"},
	// MDX.
	{Extensions: []string{"mdx"}, MimeType: "text/mdx", Aliases: []string{"text/x-mdx"}},
	// Djot.
	{Extensions: []string{"djot"}, MimeType: "text/x-djot", Aliases: []string{"text/djot"}},
	// PDF.
	{Extensions: []string{"pdf"}, MimeType: "application/pdf"},
	// HTML.
	{Extensions: []string{"html", "htm"}, MimeType: "text/html", Aliases: []string{"application/xhtml+xml"}},
	// Word processing.
	{Extensions: []string{"docx"}, MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{Extensions: []string{"doc"}, MimeType: "application/msword"},
	{Extensions: []string{"odt"}, MimeType: "application/vnd.oasis.opendocument.text"},
	// Presentations.
	{Extensions: []string{"pptx"}, MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	{Extensions: []string{"ppsx"}, MimeType: "application/vnd.openxmlformats-officedocument.presentationml.slideshow"},
	{Extensions: []string{"pptm"}, MimeType: "application/vnd.ms-powerpoint.presentation.macroEnabled.12"},
	{Extensions: []string{"ppt"}, MimeType: "application/vnd.ms-powerpoint"},
	// Spreadsheets.
	{Extensions: []string{"xlsx"}, MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{Extensions: []string{"xls"}, MimeType: "application/vnd.ms-excel"},
	{Extensions: []string{"xlsm"}, MimeType: "application/vnd.ms-excel.sheet.macroEnabled.12"},
	{Extensions: []string{"xlsb"}, MimeType: "application/vnd.ms-excel.sheet.binary.macroEnabled.12"},
	{Extensions: []string{"xlam"}, MimeType: "application/vnd.ms-excel.addin.macroEnabled.12"},
	{Extensions: []string{"xla"}, MimeType: "application/vnd.ms-excel.template.macroEnabled.12"},
	{Extensions: []string{"ods"}, MimeType: "application/vnd.oasis.opendocument.spreadsheet"},
	// Images.
	{Extensions: []string{"bmp"}, MimeType: "image/bmp", Aliases: []string{"image/x-bmp", "image/x-ms-bmp"}},
	{Extensions: []string{"gif"}, MimeType: "image/gif"},
	{Extensions: []string{"jpg", "jpeg"}, MimeType: "image/jpeg", Aliases: []string{"image/pjpeg", "image/jpg"}},
	{Extensions: []string{"png"}, MimeType: "image/png"},
	{Extensions: []string{"tiff", "tif"}, MimeType: "image/tiff", Aliases: []string{"image/x-tiff"}},
	{Extensions: []string{"webp"}, MimeType: "image/webp"},
	{Extensions: []string{"jp2", "j2k", "j2c"}, MimeType: "image/jp2"},
	{Extensions: []string{"jpx"}, MimeType: "image/jpx"},
	{Extensions: []string{"jpm"}, MimeType: "image/jpm"},
	{Extensions: []string{"mj2"}, MimeType: "image/mj2"},
	{Extensions: []string{"jbig2", "jb2"}, MimeType: "image/x-jbig2"},
	{Extensions: []string{"pnm"}, MimeType: "image/x-portable-anymap"},
	{Extensions: []string{"pbm"}, MimeType: "image/x-portable-bitmap"},
	{Extensions: []string{"pgm"}, MimeType: "image/x-portable-graymap"},
	{Extensions: []string{"ppm"}, MimeType: "image/x-portable-pixmap"},
	// Data formats.
	{Extensions: []string{"csv"}, MimeType: "text/csv"},
	{Extensions: []string{"tsv"}, MimeType: "text/tab-separated-values"},
	{Extensions: []string{"json"}, MimeType: "application/json", Aliases: []string{"text/json"}},
	{MimeType: "application/csl+json"},
	{Extensions: []string{"yaml", "yml"}, MimeType: "application/x-yaml", Aliases: []string{"text/yaml", "text/x-yaml", "application/yaml"}},
	{Extensions: []string{"toml"}, MimeType: "application/toml", Aliases: []string{"text/toml"}},
	{Extensions: []string{"xml"}, MimeType: "application/xml", Aliases: []string{"text/xml"}},
	{Extensions: []string{"svg"}, MimeType: "image/svg+xml"},
	// Email.
	{Extensions: []string{"eml"}, MimeType: "message/rfc822"},
	{Extensions: []string{"msg"}, MimeType: "application/vnd.ms-outlook"},
	// Archives.
	{Extensions: []string{"zip"}, MimeType: "application/zip", Aliases: []string{"application/x-zip-compressed"}},
	{Extensions: []string{"tar"}, MimeType: "application/x-tar", Aliases: []string{"application/tar", "application/x-gtar", "application/x-ustar"}},
	{Extensions: []string{"gz", "tgz"}, MimeType: "application/gzip", Aliases: []string{"application/x-gzip"}},
	{Extensions: []string{"7z"}, MimeType: "application/x-7z-compressed"},
	// Document / academic formats.
	{Extensions: []string{"rst"}, MimeType: "text/x-rst", Aliases: []string{"text/prs.fallenstein.rst"}},
	{Extensions: []string{"org"}, MimeType: "text/x-org", Aliases: []string{"text/org", "application/x-org"}},
	{Extensions: []string{"epub"}, MimeType: "application/epub+zip", Aliases: []string{"application/x-epub+zip", "application/vnd.epub+zip"}},
	{Extensions: []string{"rtf"}, MimeType: "application/rtf", Aliases: []string{"text/rtf"}},
	{Extensions: []string{"bib"}, MimeType: "application/x-bibtex", Aliases: []string{"text/x-bibtex", "application/x-biblatex"}},
	{Extensions: []string{"ris"}, MimeType: "application/x-research-info-systems"},
	{Extensions: []string{"nbib"}, MimeType: "application/x-pubmed"},
	{Extensions: []string{"enw"}, MimeType: "application/x-endnote+xml"},
	{Extensions: []string{"fb2"}, MimeType: "application/x-fictionbook+xml", Aliases: []string{"application/x-fictionbook", "text/x-fictionbook"}},
	{Extensions: []string{"opml"}, MimeType: "application/xml+opml", Aliases: []string{"application/x-opml+xml", "text/x-opml"}},
	{Extensions: []string{"dbk", "docbook"}, MimeType: "application/docbook+xml", Aliases: []string{"text/docbook"}},
	{Extensions: []string{"jats"}, MimeType: "application/x-jats+xml", Aliases: []string{"text/jats"}},
	{Extensions: []string{"ipynb"}, MimeType: "application/x-ipynb+json"},
	{Extensions: []string{"tex", "latex"}, MimeType: "application/x-latex", Aliases: []string{"text/x-tex"}},
	{Extensions: []string{"typst", "typ"}, MimeType: "application/x-typst", Aliases: []string{"text/x-typst"}},
}

var (
	extToMime     map[string]string
	supportedMime map[string]struct{}
)

func init() {
	extToMime = make(map[string]string)
	supportedMime = make(map[string]struct{})
	for _, entry := range Formats {
		for _, ext := range entry.Extensions {
			if _, exists := extToMime[ext]; !exists {
				extToMime[ext] = entry.MimeType
			}
		}
		supportedMime[entry.MimeType] = struct{}{}
		for _, alias := range entry.Aliases {
			supportedMime[alias] = struct{}{}
		}
	}
}

// SupportedFormat is one row of ListSupportedFormats' output.
type SupportedFormat struct {
	Extension string
	MimeType  string
}

// ListSupportedFormats returns every (extension, MIME) pair, sorted by
// extension. Extensions never include a leading dot.
func ListSupportedFormats() []SupportedFormat {
	out := make([]SupportedFormat, 0, len(extToMime))
	for ext, mime := range extToMime {
		out = append(out, SupportedFormat{Extension: ext, MimeType: mime})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}

// GetExtensionsForMime returns every extension known to map to mimeType.
func GetExtensionsForMime(mimeType string) []string {
	var out []string
	for ext, mime := range extToMime {
		if mime == mimeType {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}
