// Package docx streams the Office Open XML parts of a .docx (document.xml,
// theme1.xml) into typed structs, without buffering the whole document
// tree. Each file here parses one structural concern: sections, tables,
// drawings, theme colors.
package docx

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// ParseSectionProperties streams a w:sectPr element (already positioned
// at its start tag) into a model.SectionProperties.
func ParseSectionProperties(dec *xml.Decoder, start xml.StartElement) (model.SectionProperties, error) {
	var sec model.SectionProperties
	sec.Orientation = model.OrientationPortrait

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return sec, nil
			}
			return sec, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pgSz":
				sec.PageWidth = twipAttr(el, "w")
				sec.PageHeight = twipAttr(el, "h")
				if attrVal(el, "orient") == "landscape" {
					sec.Orientation = model.OrientationLandscape
				}
			case "pgMar":
				sec.Margins = model.Margins{
					Top:    twipAttr(el, "top"),
					Right:  twipAttr(el, "right"),
					Bottom: twipAttr(el, "bottom"),
					Left:   twipAttr(el, "left"),
					Header: twipAttr(el, "header"),
					Footer: twipAttr(el, "footer"),
					Gutter: twipAttr(el, "gutter"),
				}
			case "cols":
				sec.Columns = model.ColumnLayout{
					Count:      intAttrDefault(el, "num", 1),
					Space:      twipAttr(el, "space"),
					EqualWidth: attrVal(el, "equalWidth") != "false",
				}
			case "docGrid":
				sec.GridLinePitch = twipAttr(el, "linePitch")
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return sec, nil
			}
		}
	}
}

func attrVal(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func twipAttr(el xml.StartElement, local string) model.Twip {
	v, _ := strconv.Atoi(attrVal(el, local))
	return model.Twip(v)
}

func intAttrDefault(el xml.StartElement, local string, def int) int {
	s := attrVal(el, local)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func emuAttr(el xml.StartElement, local string) model.EMU {
	v, _ := strconv.ParseInt(attrVal(el, local), 10, 64)
	return model.EMU(v)
}

func boolAttrDefault(el xml.StartElement, local string, def bool) bool {
	s := attrVal(el, local)
	switch s {
	case "":
		return def
	case "0", "false":
		return false
	default:
		return true
	}
}
