package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpenParsesParagraphsAndHeadings(t *testing.T) {
	docXML := `<w:document xmlns:w="ns"><w:body>
		<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title Here</w:t></w:r></w:p>
		<w:p><w:r><w:t>Body paragraph.</w:t></w:r></w:p>
	</w:body></w:document>`

	doc, err := Open(buildDocx(t, docXML))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}

	heading, ok := doc.Blocks[0].(Paragraph)
	if !ok || heading.HeadingLvl != 1 || heading.Text != "Title Here" {
		t.Errorf("unexpected heading block: %+v ok=%v", doc.Blocks[0], ok)
	}

	body, ok := doc.Blocks[1].(Paragraph)
	if !ok || body.HeadingLvl != 0 || body.Text != "Body paragraph." {
		t.Errorf("unexpected body block: %+v ok=%v", doc.Blocks[1], ok)
	}
}

func TestOpenParsesTableGrid(t *testing.T) {
	docXML := `<w:document xmlns:w="ns"><w:body>
		<w:tbl>
			<w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/></w:tblGrid>
			<w:tr><w:tc><w:p><w:r><w:t>A1</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>B1</w:t></w:r></w:p></w:tc></w:tr>
		</w:tbl>
	</w:body></w:document>`

	doc, err := Open(buildDocx(t, docXML))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	table, ok := doc.Blocks[0].(Table)
	if !ok {
		t.Fatalf("expected a Table block, got %T", doc.Blocks[0])
	}
	if len(table.Properties.GridColumns) != 2 {
		t.Errorf("expected 2 grid columns, got %d", len(table.Properties.GridColumns))
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "A1" || table.Rows[0][1] != "B1" {
		t.Errorf("unexpected row data: %+v", table.Rows)
	}
}

func TestRenderProducesMarkdownHeadingsAndTable(t *testing.T) {
	doc := &Document{
		Blocks: []interface{}{
			Paragraph{Text: "Intro", HeadingLvl: 2},
			Paragraph{Text: "Some text."},
			Table{Rows: [][]string{{"h1", "h2"}, {"v1", "v2"}}},
		},
	}
	rendered := doc.Render()
	if !strings.Contains(rendered, "## Intro") {
		t.Errorf("expected heading markdown, got: %s", rendered)
	}
	if !strings.Contains(rendered, "Some text.") {
		t.Errorf("expected body text, got: %s", rendered)
	}
	if !strings.Contains(rendered, "| h1 | h2 |") || !strings.Contains(rendered, "| v1 | v2 |") {
		t.Errorf("expected table markdown, got: %s", rendered)
	}
}

func TestHeadingLevelMapping(t *testing.T) {
	cases := map[string]int{
		"Title":     1,
		"Heading1":  1,
		"Heading3":  3,
		"Heading9":  6,
		"BodyText":  0,
		"":          0,
	}
	for style, want := range cases {
		if got := headingLevel(style); got != want {
			t.Errorf("headingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}
