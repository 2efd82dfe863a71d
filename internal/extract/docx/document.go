package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// Paragraph is one w:p, reduced to its concatenated run text and style.
type Paragraph struct {
	Text       string
	StyleID    string
	HeadingLvl int // 0 when not a heading
}

// Table is one w:tbl reduced to a text grid, alongside its parsed
// properties for callers that need column widths/borders/etc.
type Table struct {
	Properties model.TableProperties
	Rows       [][]string
}

// Document is the parsed body of word/document.xml: an ordered mix of
// paragraphs and tables, plus the embedded media pulled from word/media/.
type Document struct {
	Blocks  []interface{} // Paragraph or Table, in document order
	Section model.SectionProperties
	Theme   model.Theme
	Media   []EmbeddedMedia
}

// EmbeddedMedia is one file under word/media/ in the package, keyed by its
// zip entry name (docx doesn't expose a simple drawing->media mapping
// without resolving document.xml.rels, so media is surfaced as a flat list
// rather than attached to specific Drawing elements).
type EmbeddedMedia struct {
	Name string
	Data []byte
}

// Open unpacks a .docx (OOXML ZIP package) and parses its document body,
// section properties, and theme.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening docx package: %w", err)
	}

	doc := &Document{}

	bodyXML, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if err := parseDocumentBody(bodyXML, doc); err != nil {
		return nil, err
	}

	if themeXML, err := readZipEntry(zr, "word/theme/theme1.xml"); err == nil {
		theme, err := ParseTheme(xml.NewDecoder(bytes.NewReader(themeXML)))
		if err == nil {
			doc.Theme = theme
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			rc, err := f.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				continue
			}
			doc.Media = append(doc.Media, EmbeddedMedia{Name: f.Name, Data: data})
		}
	}

	return doc, nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in docx package", name)
}

// parseDocumentBody streams word/document.xml, collecting paragraphs and
// tables from w:body in document order.
func parseDocumentBody(data []byte, doc *Document) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing document.xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch localName(start.Name) {
		case "p":
			p, err := parseParagraph(dec, start)
			if err != nil {
				return err
			}
			if p.Text != "" {
				doc.Blocks = append(doc.Blocks, p)
			}
		case "tbl":
			t, err := parseTable(dec, start)
			if err != nil {
				return err
			}
			doc.Blocks = append(doc.Blocks, t)
		case "sectPr":
			sect, err := ParseSectionProperties(dec, start)
			if err != nil {
				return err
			}
			doc.Section = sect
		}
	}
	return nil
}

// parseParagraph reads a w:p element, concatenating every w:t run's text
// (w:tab becomes a tab, w:br a newline) and recording its style ID. A
// pStyle matching "Heading#" or "Title" sets HeadingLvl.
func parseParagraph(dec *xml.Decoder, start xml.StartElement) (Paragraph, error) {
	var p Paragraph
	var text strings.Builder
	depth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return p, fmt.Errorf("parsing paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "pStyle":
				p.StyleID = attrVal(t, "val")
			case "tab":
				text.WriteByte('\t')
			case "br", "cr":
				text.WriteByte('\n')
			case "p":
				depth++
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if localName(t.Name) == "p" {
				if depth == 0 {
					p.Text = strings.TrimSpace(text.String())
					p.HeadingLvl = headingLevel(p.StyleID)
					return p, nil
				}
				depth--
			}
		}
	}
}

// headingLevel maps a Word paragraph style ID to a 1-6 heading level, or 0
// for a body paragraph.
func headingLevel(styleID string) int {
	lower := strings.ToLower(styleID)
	if lower == "title" {
		return 1
	}
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	suffix := strings.TrimPrefix(lower, "heading")
	switch suffix {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6", "7", "8", "9":
		return 6
	}
	return 0
}

// parseTable reads a w:tbl element into a row/cell text grid, using the
// shared table-property parsers for structure.
func parseTable(dec *xml.Decoder, start xml.StartElement) (Table, error) {
	var table Table

	for {
		tok, err := dec.Token()
		if err != nil {
			return table, fmt.Errorf("parsing table: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "tblPr":
				props, err := ParseTableProperties(dec, t)
				if err != nil {
					return table, err
				}
				table.Properties = props
			case "tblGrid":
				cols, err := ParseTableGrid(dec, t)
				if err != nil {
					return table, err
				}
				table.Properties.GridColumns = cols
			case "tr":
				row, err := parseTableRow(dec, t)
				if err != nil {
					return table, err
				}
				table.Rows = append(table.Rows, row)
			}
		case xml.EndElement:
			if localName(t.Name) == "tbl" {
				return table, nil
			}
		}
	}
}

func parseTableRow(dec *xml.Decoder, start xml.StartElement) ([]string, error) {
	var cells []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return cells, fmt.Errorf("parsing table row: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if localName(t.Name) == "tc" {
				cellText, err := parseTableCell(dec, t)
				if err != nil {
					return cells, err
				}
				cells = append(cells, cellText)
			}
		case xml.EndElement:
			if localName(t.Name) == "tr" {
				return cells, nil
			}
		}
	}
}

func parseTableCell(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return text.String(), fmt.Errorf("parsing table cell: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if localName(t.Name) == "tab" {
				text.WriteByte('\t')
			}
			if localName(t.Name) == "p" && text.Len() > 0 {
				text.WriteByte('\n')
			}
		case xml.EndElement:
			if localName(t.Name) == "tc" {
				return strings.TrimSpace(text.String()), nil
			}
		}
	}
}

func localName(name xml.Name) string {
	return name.Local
}

// Render flattens the parsed document into markdown-ish content: headings
// as "#" runs, paragraphs as-is, tables as a pipe-delimited grid.
func (d *Document) Render() string {
	var b strings.Builder
	for _, block := range d.Blocks {
		switch v := block.(type) {
		case Paragraph:
			if v.HeadingLvl > 0 {
				b.WriteString(strings.Repeat("#", v.HeadingLvl) + " " + v.Text + "\n\n")
			} else {
				b.WriteString(v.Text + "\n\n")
			}
		case Table:
			b.WriteString(renderTableMarkdown(v.Rows))
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func renderTableMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}
