package docx

import (
	"encoding/xml"
	"io"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// ParseDrawing streams a w:drawing element, covering both inline and
// anchored (floating) placement, into a model.Drawing.
func ParseDrawing(dec *xml.Decoder, start xml.StartElement) (model.Drawing, error) {
	var d model.Drawing

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return d, nil
			}
			return d, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "inline":
				d.Inline = true
			case "anchor":
				d.Inline = false
				d.BehindDoc = boolAttrDefault(el, "behindDoc", false)
				d.LayoutInCell = boolAttrDefault(el, "layoutInCell", true)
				d.RelativeHeight = intAttrDefault(el, "relativeHeight", 0)
			case "extent":
				d.ExtentCX = emuAttr(el, "cx")
				d.ExtentCY = emuAttr(el, "cy")
			case "docPr":
				d.DocPropID = intAttrDefault(el, "id", 0)
				d.DocPropName = attrVal(el, "name")
				d.AltText = attrVal(el, "descr")
			case "positionH":
				d.PositionH.RelativeFrom = attrVal(el, "relativeFrom")
				d.PositionH.Offset = parsePosOffset(dec, el)
			case "positionV":
				d.PositionV.RelativeFrom = attrVal(el, "relativeFrom")
				d.PositionV.Offset = parsePosOffset(dec, el)
			case "wrapNone":
				d.Wrap = model.WrapNone
			case "wrapSquare":
				d.Wrap = model.WrapSquare
			case "wrapTight":
				d.Wrap = model.WrapTight
			case "wrapTopAndBottom":
				d.Wrap = model.WrapTopAndBottom
			case "wrapThrough":
				d.Wrap = model.WrapThrough
			case "blip":
				d.RelEmbedID = attrValNS(el, "embed")
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return d, nil
			}
		}
	}
}

func parsePosOffset(dec *xml.Decoder, start xml.StartElement) model.EMU {
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0
		}
		switch el := tok.(type) {
		case xml.CharData:
			// wp:posOffset carries its value as char data, not an attribute.
			var v model.EMU
			for _, r := range string(el) {
				if r < '0' || r > '9' {
					continue
				}
				v = v*10 + model.EMU(r-'0')
			}
			return v
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return 0
			}
		}
	}
}

func attrValNS(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
