package docx

import (
	"encoding/xml"
	"io"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// systemColorFallback are the standard last-resort hex values for the
// named system colors OOXML themes may reference instead of a literal RGB.
var systemColorFallback = map[string]string{
	"windowText": "000000",
	"window":     "FFFFFF",
}

// ParseTheme streams a theme1.xml document (positioned at its root
// a:theme element) into a model.Theme.
func ParseTheme(dec *xml.Decoder) (model.Theme, error) {
	theme := model.Theme{Colors: make(map[model.ThemeColorSlot]model.ThemeColor)}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return theme, nil
			}
			return theme, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "clrScheme":
			parseColorScheme(dec, start, &theme)
		case "majorFont":
			theme.MajorFonts = parseFontScheme(dec, start)
		case "minorFont":
			theme.MinorFonts = parseFontScheme(dec, start)
		}
	}
}

var slotNames = map[string]model.ThemeColorSlot{
	"dk1": model.ThemeDk1, "lt1": model.ThemeLt1,
	"dk2": model.ThemeDk2, "lt2": model.ThemeLt2,
	"accent1": model.ThemeAccent1, "accent2": model.ThemeAccent2,
	"accent3": model.ThemeAccent3, "accent4": model.ThemeAccent4,
	"accent5": model.ThemeAccent5, "accent6": model.ThemeAccent6,
	"hlink": model.ThemeHlink, "folHlink": model.ThemeFolHlink,
}

func parseColorScheme(dec *xml.Decoder, start xml.StartElement, theme *model.Theme) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch el := tok.(type) {
		case xml.StartElement:
			slot, known := slotNames[el.Name.Local]
			if !known {
				continue
			}
			theme.Colors[slot] = parseColorValue(dec, el)
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return
			}
		}
	}
}

// parseColorValue reads a slot's single child: either a:srgbClr (literal
// RGB) or a:sysClr (named system color with a lastClr fallback).
func parseColorValue(dec *xml.Decoder, start xml.StartElement) model.ThemeColor {
	for {
		tok, err := dec.Token()
		if err != nil {
			return model.ThemeColor{}
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "srgbClr":
				consumeElement(dec, el)
				return model.ThemeColor{RGB: attrVal(el, "val")}
			case "sysClr":
				name := attrVal(el, "val")
				fallback := attrVal(el, "lastClr")
				if fallback == "" {
					fallback = systemColorFallback[name]
				}
				consumeElement(dec, el)
				return model.ThemeColor{IsSystem: true, SystemName: name, LastColor: fallback}
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return model.ThemeColor{}
			}
		}
	}
}

func parseFontScheme(dec *xml.Decoder, start xml.StartElement) model.FontScheme {
	var fs model.FontScheme
	for {
		tok, err := dec.Token()
		if err != nil {
			return fs
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "latin":
				fs.Latin = attrVal(el, "typeface")
			case "ea":
				fs.EastAsian = attrVal(el, "typeface")
			case "cs":
				fs.ComplexScript = attrVal(el, "typeface")
			}
			consumeElement(dec, el)
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return fs
			}
		}
	}
}

// consumeElement drains tokens until start's matching end tag, for
// elements whose data is fully captured by their own attributes.
func consumeElement(dec *xml.Decoder, start xml.StartElement) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == start.Name.Local {
				depth++
			}
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				if depth == 0 {
					return
				}
				depth--
			}
		}
	}
}

// Resolve returns the theme's effective color for a slot, defaulting to
// an empty string when the slot was not declared.
func Resolve(theme model.Theme, slot model.ThemeColorSlot) string {
	c, ok := theme.Colors[slot]
	if !ok {
		return ""
	}
	return c.Resolve()
}
