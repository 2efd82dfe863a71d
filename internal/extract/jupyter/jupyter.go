// Package jupyter converts .ipynb notebooks into a prefixed-markdown
// stream, decoding embedded image outputs into ExtractedImage entries.
package jupyter

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

type notebook struct {
	Cells []cell `json:"cells"`
}

type cell struct {
	ID             string          `json:"id"`
	CellType       string          `json:"cell_type"`
	Source         sourceText      `json:"source"`
	ExecutionCount *int            `json:"execution_count"`
	Outputs        []output        `json:"outputs"`
	Metadata       cellMetadata    `json:"metadata"`
}

type cellMetadata struct {
	Tags []string `json:"tags"`
}

type output struct {
	OutputType string          `json:"output_type"`
	Name       string          `json:"name"` // stream
	Text       sourceText      `json:"text"`
	Data       map[string]json.RawMessage `json:"data"` // execute_result/display_data
	EName      string          `json:"ename"`
	EValue     string          `json:"evalue"`
	Traceback  []string        `json:"traceback"`
}

// sourceText accepts either a JSON string or an array of strings,
// concatenating array elements without a separator.
type sourceText string

func (s *sourceText) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = sourceText(asString)
		return nil
	}
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err != nil {
		return err
	}
	*s = sourceText(strings.Join(asArray, ""))
	return nil
}

// Result is the extractor's output: the rendered markdown stream plus any
// decoded image outputs.
type Result struct {
	Content string
	Images  []model.ExtractedImage
}

// Extract converts raw .ipynb JSON bytes into the prefixed-markdown form
// spec.md §4.C.3 describes.
func Extract(jobID string, data []byte) (*Result, error) {
	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, kerrors.NewParsingError(jobID, "invalid notebook JSON", err)
	}

	var b strings.Builder
	var images []model.ExtractedImage

	for i, c := range nb.Cells {
		fmt.Fprintf(&b, "\n:::: {#%s .cell .%s%s}\n", cellID(c, i), c.CellType, tagSuffix(c.Metadata.Tags))

		switch c.CellType {
		case "markdown":
			b.WriteString(string(c.Source))
			b.WriteString("\n")
		case "raw":
			b.WriteString(string(c.Source))
			b.WriteString("\n")
		case "code":
			if c.ExecutionCount != nil {
				fmt.Fprintf(&b, "In [%d]:\n", *c.ExecutionCount)
			}
			b.WriteString("```python\n")
			b.WriteString(string(c.Source))
			b.WriteString("\n```\n")

			for _, o := range c.Outputs {
				img := renderOutput(&b, o, i)
				if img != nil {
					images = append(images, *img)
				}
			}
		}

		b.WriteString("::::\n")
	}

	return &Result{Content: strings.TrimLeft(b.String(), "\n"), Images: images}, nil
}

func cellID(c cell, index int) string {
	if c.ID != "" {
		return c.ID
	}
	return "cell_" + strconv.Itoa(index)
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ")
}

var imageMimePrefixes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// renderOutput writes one code-cell output's markdown form and returns a
// decoded ExtractedImage when the output carried an image payload.
func renderOutput(b *strings.Builder, o output, cellIndex int) *model.ExtractedImage {
	switch o.OutputType {
	case "stream":
		fmt.Fprintf(b, "Stream: %s\n%s\n", o.Name, string(o.Text))
		return nil
	case "execute_result", "display_data":
		return renderRichOutput(b, o, cellIndex)
	case "error":
		fmt.Fprintf(b, "Error: %s\nValue: %s\n", o.EName, o.EValue)
		for _, line := range o.Traceback {
			b.WriteString(line)
			b.WriteString("\n")
		}
		return nil
	}
	return nil
}

func renderRichOutput(b *strings.Builder, o output, cellIndex int) *model.ExtractedImage {
	if raw, ok := o.Data["text/plain"]; ok {
		b.WriteString(decodeJSONString(raw))
		b.WriteString("\n")
		return nil
	}
	if raw, ok := o.Data["text/markdown"]; ok {
		b.WriteString(decodeJSONString(raw))
		b.WriteString("\n")
		return nil
	}
	if raw, ok := o.Data["text/html"]; ok {
		b.WriteString(decodeJSONString(raw))
		b.WriteString("\n")
		return nil
	}

	for _, mime := range imageMimePrefixes {
		raw, ok := o.Data[mime]
		if !ok {
			continue
		}
		encoded := decodeJSONString(raw)
		payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			continue
		}
		page := cellIndex + 1
		format := strings.TrimPrefix(mime, "image/")
		b.WriteString("[embedded image]\n")
		return &model.ExtractedImage{Data: payload, Format: format, PageNumber: &page}
	}

	if raw, ok := o.Data["image/svg+xml"]; ok {
		_ = raw
		b.WriteString("[embedded SVG image]\n")
		return nil
	}

	if raw, ok := o.Data["application/json"]; ok {
		var pretty bytes.Buffer
		if json.Indent(&pretty, raw, "", "  ") == nil {
			b.Write(pretty.Bytes())
			b.WriteString("\n")
		}
		return nil
	}

	return nil
}

func decodeJSONString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// text/plain etc. may also arrive as a JSON array of lines.
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return string(raw)
}
