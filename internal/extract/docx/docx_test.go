package docx

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func startElementFor(t *testing.T, dec *xml.Decoder) xml.StartElement {
	t.Helper()
	for {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("unexpected EOF looking for start element: %v", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start
		}
	}
}

func TestParseSectionProperties(t *testing.T) {
	xmlSrc := `<w:sectPr xmlns:w="ns">
		<w:pgSz w:w="12240" w:h="15840" w:orient="landscape"/>
		<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>
		<w:cols w:num="2" w:space="720"/>
	</w:sectPr>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	sec, err := ParseSectionProperties(dec, start)
	if err != nil {
		t.Fatal(err)
	}
	if sec.PageWidth != 12240 || sec.PageHeight != 15840 {
		t.Errorf("unexpected page size: %+v", sec)
	}
	if sec.Orientation != model.OrientationLandscape {
		t.Errorf("expected landscape, got %v", sec.Orientation)
	}
	if sec.Margins.Top != 1440 || sec.Margins.Header != 720 {
		t.Errorf("unexpected margins: %+v", sec.Margins)
	}
	if sec.Columns.Count != 2 {
		t.Errorf("expected 2 columns, got %d", sec.Columns.Count)
	}
}

func TestParseTableLookLegacyBitmask(t *testing.T) {
	xmlSrc := `<w:tblLook w:val="04A0"/>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	look := ParseTableLook(start)
	if !look.FirstRow || look.LastRow || !look.FirstColumn || !look.NoVBand {
		t.Errorf("unexpected bitmask decode: %+v", look)
	}
}

func TestParseTableLookModernAttributes(t *testing.T) {
	xmlSrc := `<w:tblLook w:firstRow="1" w:noVBand="1"/>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	look := ParseTableLook(start)
	if !look.FirstRow || !look.NoVBand || look.LastRow {
		t.Errorf("unexpected attribute decode: %+v", look)
	}
}

func TestParseTableProperties(t *testing.T) {
	xmlSrc := `<w:tblPr xmlns:w="ns">
		<w:tblStyle w:val="TableGrid"/>
		<w:tblW w:w="5000" w:type="pct"/>
		<w:jc w:val="center"/>
		<w:tblBorders>
			<w:top w:val="single" w:sz="4" w:color="auto"/>
		</w:tblBorders>
	</w:tblPr>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	tp, err := ParseTableProperties(dec, start)
	if err != nil {
		t.Fatal(err)
	}
	if tp.StyleID == nil || *tp.StyleID != "TableGrid" {
		t.Errorf("unexpected style id: %v", tp.StyleID)
	}
	if tp.Width.Value != 5000 || tp.Width.Type != model.WidthPct {
		t.Errorf("unexpected width: %+v", tp.Width)
	}
	if tp.Borders.Top == nil || tp.Borders.Top.Style != "single" {
		t.Errorf("unexpected top border: %+v", tp.Borders.Top)
	}
}

func TestParseCellPropertiesVMerge(t *testing.T) {
	xmlSrc := `<w:tcPr xmlns:w="ns">
		<w:gridSpan w:val="2"/>
		<w:vMerge/>
	</w:tcPr>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	cp, err := ParseCellProperties(dec, start)
	if err != nil {
		t.Fatal(err)
	}
	if cp.GridSpan != 2 {
		t.Errorf("expected gridSpan 2, got %d", cp.GridSpan)
	}
	if cp.VMerge != model.VMergeContinue {
		t.Errorf("expected continue (no val attr = continue), got %q", cp.VMerge)
	}
}

func TestParseDrawingInlineExtent(t *testing.T) {
	xmlSrc := `<w:drawing xmlns:w="ns" xmlns:wp="ns2">
		<wp:inline>
			<wp:extent cx="914400" cy="685800"/>
			<wp:docPr id="1" name="Picture 1" descr="a description"/>
		</wp:inline>
	</w:drawing>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	start := startElementFor(t, dec)

	d, err := ParseDrawing(dec, start)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Inline {
		t.Error("expected inline drawing")
	}
	if d.ExtentCX != 914400 || d.ExtentCY != 685800 {
		t.Errorf("unexpected extent: %+v", d)
	}
	if d.AltText != "a description" {
		t.Errorf("unexpected alt text: %q", d.AltText)
	}
}

func TestParseThemeColors(t *testing.T) {
	xmlSrc := `<a:theme xmlns:a="ns">
		<a:themeElements>
			<a:clrScheme name="Office">
				<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
				<a:accent1><a:srgbClr val="4472C4"/></a:accent1>
			</a:clrScheme>
			<a:fontScheme>
				<a:majorFont><a:latin typeface="Calibri Light"/></a:majorFont>
				<a:minorFont><a:latin typeface="Calibri"/></a:minorFont>
			</a:fontScheme>
		</a:themeElements>
	</a:theme>`
	dec := xml.NewDecoder(strings.NewReader(xmlSrc))
	// ParseTheme expects to be handed the decoder right after the root
	// start tag has been consumed.
	startElementFor(t, dec)

	theme, err := ParseTheme(dec)
	if err != nil {
		t.Fatal(err)
	}
	if got := Resolve(theme, model.ThemeAccent1); got != "4472C4" {
		t.Errorf("accent1: got %q", got)
	}
	if got := Resolve(theme, model.ThemeDk1); got != "000000" {
		t.Errorf("dk1: got %q", got)
	}
	if theme.MajorFonts.Latin != "Calibri Light" {
		t.Errorf("unexpected major font: %+v", theme.MajorFonts)
	}
}
