package pipeline

import (
	"encoding/json"
	"html"

	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// mimeForFormat is the canonical MIME each output format converts content
// to; used both to set result.MimeType and to detect "the extractor
// already produced the target MIME" (step 7's skip-reconversion rule).
func mimeForFormat(f config.OutputFormat) string {
	switch f {
	case config.OutputPlain:
		return "text/plain"
	case config.OutputDjot:
		return "text/djot"
	case config.OutputMarkdown:
		return "text/markdown"
	case config.OutputHTML:
		return "text/html"
	case config.OutputStructured:
		return "application/json"
	default:
		return ""
	}
}

// ApplyOutputFormat converts result.Content to the requested format,
// recording the format name in metadata. Per spec.md §4.F: skip
// re-conversion if the extractor already produced the target MIME;
// conversion failures are recorded as a processing warning and the
// previous content is preserved rather than dropped.
func ApplyOutputFormat(result *model.ExtractionResult, format config.OutputFormat) {
	if format == "" {
		format = config.OutputMarkdown
	}

	recordOutputFormat(result, format)

	target := mimeForFormat(format)
	if target == "" || result.MimeType == target {
		return
	}

	switch format {
	case config.OutputHTML:
		result.Content = renderHTML(result)
		result.MimeType = target

	case config.OutputDjot:
		if result.DjotContent != nil {
			result.Content = *result.DjotContent
			result.MimeType = target
			return
		}
		result.ProcessingWarnings = append(result.ProcessingWarnings, model.ProcessingWarning{
			Source:  "output-format",
			Message: "no djot representation available, content left unconverted",
		})

	case config.OutputPlain:
		result.Content = stripMarkup(result.Content)
		result.MimeType = target

	case config.OutputMarkdown:
		// No generic HTML/plain -> Markdown converter is wired (no pack
		// library performs this conversion); content passes through
		// unchanged with a warning rather than a silent, possibly wrong,
		// transform.
		result.ProcessingWarnings = append(result.ProcessingWarnings, model.ProcessingWarning{
			Source:  "output-format",
			Message: "no converter from " + result.MimeType + " to markdown, content left unconverted",
		})

	case config.OutputStructured:
		// Structured serializes the whole ExtractionResult as JSON "at
		// the API layer" per spec.md §6; the driver only tags the
		// metadata, the actual json.Marshal happens at the CLI/binding
		// boundary that returns the result to its caller.
		result.MimeType = target
	}
}

// recordOutputFormat writes the format name into metadata.additional, per
// spec.md's note (deprecated upstream, kept here for compatibility).
func recordOutputFormat(result *model.ExtractionResult, format config.OutputFormat) {
	raw, err := json.Marshal(string(format))
	if err != nil {
		return
	}
	if result.Metadata.Additional == nil {
		result.Metadata.Additional = make(map[string]json.RawMessage)
	}
	result.Metadata.Additional["output_format"] = raw
}

// renderHTML wraps content in <pre> with the five standard entity escapes
// when there's no djot_content to render from instead.
func renderHTML(result *model.ExtractionResult) string {
	if result.DjotContent != nil {
		return "<pre>" + html.EscapeString(*result.DjotContent) + "</pre>"
	}
	return "<pre>" + html.EscapeString(result.Content) + "</pre>"
}

// stripMarkup is a best-effort plain-text reduction: it drops markdown
// heading/table/emphasis punctuation and HTML tags character-by-character,
// since no pack library performs lossless rich-text-to-plain conversion
// and spec.md's Non-goals exclude a full Markdown/HTML parser here.
func stripMarkup(content string) string {
	var out []rune
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
			// skip tag contents
		case r == '#' || r == '*' || r == '_' || r == '|' || r == '`':
			// skip common markdown punctuation
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
