package docx

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// ParseTableProperties streams a w:tblPr (+ sibling w:tblGrid, read by the
// caller via ParseTableGrid) into a model.TableProperties.
func ParseTableProperties(dec *xml.Decoder, start xml.StartElement) (model.TableProperties, error) {
	var tp model.TableProperties

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return tp, nil
			}
			return tp, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tblStyle":
				v := attrVal(el, "val")
				tp.StyleID = &v
			case "tblW":
				tp.Width = parseWidth(el)
			case "jc":
				v := attrVal(el, "val")
				tp.Alignment = &v
			case "tblLayout":
				v := attrVal(el, "type")
				tp.Layout = &v
			case "tblLook":
				tp.Look = ParseTableLook(el)
			case "tblBorders":
				tp.Borders = parseBorders(dec, el)
			case "tblCellMar":
				tp.CellMargins = parseCellMargins(dec, el)
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return tp, nil
			}
		}
	}
}

// ParseTableGrid streams w:tblGrid into a slice of column widths.
func ParseTableGrid(dec *xml.Decoder, start xml.StartElement) ([]model.Twip, error) {
	var cols []model.Twip
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return cols, nil
			}
			return cols, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "gridCol" {
				cols = append(cols, twipAttr(el, "w"))
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return cols, nil
			}
		}
	}
}

// ParseTableLook normalizes the two encodings OOXML uses for the
// banding/first-row/first-column toggles: the 2012+ schema's individual
// boolean attributes, and the legacy hex bitmask on "val".
func ParseTableLook(el xml.StartElement) model.TableLook {
	if raw := attrVal(el, "val"); raw != "" {
		if mask, err := strconv.ParseInt(raw, 16, 64); err == nil {
			return model.TableLook{
				FirstRow:    mask&model.TableLookBitFirstRow != 0,
				LastRow:     mask&model.TableLookBitLastRow != 0,
				FirstColumn: mask&model.TableLookBitFirstColumn != 0,
				LastColumn:  mask&model.TableLookBitLastColumn != 0,
				NoHBand:     mask&model.TableLookBitNoHBand != 0,
				NoVBand:     mask&model.TableLookBitNoVBand != 0,
			}
		}
	}
	return model.TableLook{
		FirstRow:    boolAttrDefault(el, "firstRow", false),
		LastRow:     boolAttrDefault(el, "lastRow", false),
		FirstColumn: boolAttrDefault(el, "firstColumn", false),
		LastColumn:  boolAttrDefault(el, "lastColumn", false),
		NoHBand:     boolAttrDefault(el, "noHBand", false),
		NoVBand:     boolAttrDefault(el, "noVBand", false),
	}
}

func parseWidth(el xml.StartElement) model.Width {
	v, _ := strconv.Atoi(attrVal(el, "w"))
	return model.Width{Value: v, Type: model.WidthType(attrVal(el, "type"))}
}

// parseBorders consumes a w:tblBorders or w:tcBorders element's six
// possible child border definitions.
func parseBorders(dec *xml.Decoder, start xml.StartElement) model.Borders {
	var b model.Borders
	for {
		tok, err := dec.Token()
		if err != nil {
			return b
		}
		switch el := tok.(type) {
		case xml.StartElement:
			side := parseBorderSide(el)
			switch el.Name.Local {
			case "top":
				b.Top = side
			case "left", "start":
				b.Left = side
			case "bottom":
				b.Bottom = side
			case "right", "end":
				b.Right = side
			case "insideH":
				b.InsideH = side
			case "insideV":
				b.InsideV = side
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return b
			}
		}
	}
}

func parseBorderSide(el xml.StartElement) *model.BorderSide {
	size, _ := strconv.Atoi(attrVal(el, "sz"))
	side := &model.BorderSide{Style: attrVal(el, "val"), Size: size}
	if c := attrVal(el, "color"); c != "" {
		side.Color = &c
	}
	return side
}

func parseCellMargins(dec *xml.Decoder, start xml.StartElement) model.Margins {
	var m model.Margins
	for {
		tok, err := dec.Token()
		if err != nil {
			return m
		}
		switch el := tok.(type) {
		case xml.StartElement:
			w := twipAttr(el, "w")
			switch el.Name.Local {
			case "top":
				m.Top = w
			case "left", "start":
				m.Left = w
			case "bottom":
				m.Bottom = w
			case "right", "end":
				m.Right = w
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return m
			}
		}
	}
}

// ParseCellProperties streams a w:tcPr element into a model.CellProperties.
func ParseCellProperties(dec *xml.Decoder, start xml.StartElement) (model.CellProperties, error) {
	var cp model.CellProperties
	cp.GridSpan = 1

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return cp, nil
			}
			return cp, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tcW":
				cp.Width = parseWidth(el)
			case "gridSpan":
				cp.GridSpan = intAttrDefault(el, "val", 1)
			case "vMerge":
				val := attrVal(el, "val")
				if val == "" {
					val = "continue"
				}
				cp.VMerge = model.VerticalMergeState(val)
			case "tcBorders":
				cp.Borders = parseBorders(dec, el)
			case "shd":
				v := attrVal(el, "fill")
				cp.Shading = &v
			case "vAlign":
				v := attrVal(el, "val")
				cp.VerticalAlign = &v
			case "textDirection":
				v := attrVal(el, "val")
				cp.TextDirection = &v
			case "noWrap":
				cp.NoWrap = true
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return cp, nil
			}
		}
	}
}

// ParseRowProperties streams a w:trPr element into a model.RowProperties.
func ParseRowProperties(dec *xml.Decoder, start xml.StartElement) (model.RowProperties, error) {
	var rp model.RowProperties
	rp.HeightRule = model.HeightAuto

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return rp, nil
			}
			return rp, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "trHeight":
				rp.Height = twipAttr(el, "val")
				if rule := attrVal(el, "hRule"); rule != "" {
					rp.HeightRule = model.HeightRule(rule)
				}
			case "tblHeader":
				rp.IsHeader = true
			case "cantSplit":
				rp.CantSplit = true
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return rp, nil
			}
		}
	}
}
