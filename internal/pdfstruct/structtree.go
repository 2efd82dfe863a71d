package pdfstruct

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// StructElement is one PDF structure-tree node as handed to the walker.
// It is deliberately library-agnostic: callers adapt whatever structure
// API their PDF backend exposes into this shape.
type StructElement struct {
	Type       string // raw structure type, e.g. "H1", "P", "Figure"
	MCIDs       []int
	ActualText string
	AltText    string
	Attributes map[string]string // e.g. "O" -> link target for Link elements
	Children   []StructElement
}

// MCIDInfo is per-character or per-run style/position data keyed by MCID,
// used to pick a representative font size/bounds for an element.
type MCIDInfo struct {
	FontSize float64
	Bold     bool
	Italic   bool
	Bounds   model.BoundingBox
}

// flattenRoles is the closed set of Other-kind raw types a wrapper block
// with empty own text collapses into its children.
var flattenRoles = map[string]bool{
	"Document": true, "Part": true, "Div": true, "Sect": true,
	"Art": true, "NonStruct": true, "": true,
}

// WalkStructureTree walks a page's structure tree top-down (never via a
// library iterator that would double-visit children), builds an
// ExtractedBlock per element, and flattens empty structural wrappers.
func WalkStructureTree(roots []StructElement, mcidText map[int]string, mcidInfo map[int]MCIDInfo) []model.ExtractedBlock {
	var blocks []model.ExtractedBlock
	for _, el := range roots {
		if b, ok := buildBlock(el, mcidText, mcidInfo); ok {
			blocks = append(blocks, b)
		}
	}
	return flattenWrappers(blocks)
}

func buildBlock(el StructElement, mcidText map[int]string, mcidInfo map[int]MCIDInfo) (model.ExtractedBlock, bool) {
	role := roleFromType(el.Type, el.Children, el.Attributes)
	if role.Kind == model.RoleFigure {
		role.Alt = el.AltText
	}

	text := collectMCIDText(el.MCIDs, mcidText)
	if text == "" {
		text = el.ActualText
	}
	if text == "" {
		text = el.AltText
	}

	var children []model.ExtractedBlock
	for _, child := range el.Children {
		if cb, ok := buildBlock(child, mcidText, mcidInfo); ok {
			children = append(children, cb)
		}
	}

	block := model.ExtractedBlock{
		Role:     role,
		Text:     text,
		Children: children,
	}
	if fs, bold, italic, bounds, ok := representativeStyle(el.MCIDs, mcidInfo); ok {
		block.FontSize = &fs
		block.Bold = bold
		block.Italic = italic
		block.Bounds = &bounds
	}

	if block.IsEmpty() {
		return model.ExtractedBlock{}, false
	}
	return block, true
}

// roleFromType derives a ContentRole from the structure type's closed
// mapping. Heading levels parse from a trailing digit (H1-H6) or default
// to 1 for bare "H".
func roleFromType(raw string, children []StructElement, attrs map[string]string) model.BlockRole {
	switch {
	case raw == "H" || (len(raw) == 2 && raw[0] == 'H' && raw[1] >= '1' && raw[1] <= '6'):
		level := 1
		if len(raw) == 2 {
			level, _ = strconv.Atoi(raw[1:])
		}
		return model.BlockRole{Kind: model.RoleHeading, Level: level}
	case raw == "P" || raw == "Span":
		return model.BlockRole{Kind: model.RoleParagraph}
	case raw == "LI":
		return model.BlockRole{Kind: model.RoleListItem, Label: firstLabelChild(children)}
	case raw == "Figure":
		return model.BlockRole{Kind: model.RoleFigure}
	case raw == "Caption":
		return model.BlockRole{Kind: model.RoleCaption}
	case raw == "Code":
		return model.BlockRole{Kind: model.RoleCode}
	case raw == "BlockQuote":
		return model.BlockRole{Kind: model.RoleBlockQuote}
	case raw == "Link":
		return model.BlockRole{Kind: model.RoleLink, URL: attrs["O"]}
	case raw == "TD" || raw == "TH":
		return model.BlockRole{Kind: model.RoleTableCell, IsHeader: raw == "TH"}
	default:
		return model.BlockRole{Kind: model.RoleOther, Other: raw}
	}
}

// firstLabelChild finds the first "Lbl" child and returns its
// actualText/altText, the list-item label source per spec.
func firstLabelChild(children []StructElement) string {
	for _, c := range children {
		if c.Type == "Lbl" {
			if c.ActualText != "" {
				return c.ActualText
			}
			return c.AltText
		}
	}
	return ""
}

func collectMCIDText(mcids []int, mcidText map[int]string) string {
	var parts []string
	for _, id := range mcids {
		if t, ok := mcidText[id]; ok && t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "")
}

func representativeStyle(mcids []int, mcidInfo map[int]MCIDInfo) (fontSize float64, bold, italic bool, bounds model.BoundingBox, ok bool) {
	if len(mcids) == 0 {
		return
	}
	info, found := mcidInfo[mcids[0]]
	if !found {
		return
	}
	return info.FontSize, info.Bold, info.Italic, info.Bounds, true
}

// flattenWrappers replaces Other-kind blocks with empty own text and a
// raw type in flattenRoles by their (recursively flattened) children.
// Wrappers carrying their own text are preserved as-is.
func flattenWrappers(blocks []model.ExtractedBlock) []model.ExtractedBlock {
	var out []model.ExtractedBlock
	for _, b := range blocks {
		b.Children = flattenWrappers(b.Children)
		if b.Role.Kind == model.RoleOther && b.Text == "" && flattenRoles[b.Role.Other] {
			out = append(out, b.Children...)
			continue
		}
		out = append(out, b)
	}
	return out
}

// EstimateBodyFontSize computes the modal font size across leaf blocks,
// rounded to the nearest 0.5pt, used to validate heading levels.
func EstimateBodyFontSize(blocks []model.ExtractedBlock) float64 {
	counts := map[float64]int{}
	var walk func([]model.ExtractedBlock)
	walk = func(bs []model.ExtractedBlock) {
		for _, b := range bs {
			if len(b.Children) == 0 && b.FontSize != nil {
				rounded := math.Round(*b.FontSize*2) / 2
				counts[rounded]++
			}
			walk(b.Children)
		}
	}
	walk(blocks)

	var best float64
	bestCount := -1
	// deterministic tie-break: smallest size wins, matching a stable modal pick.
	var keys []float64
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			bestCount = counts[k]
			best = k
		}
	}
	return best
}

// ValidateHeadingLevels demotes a declared heading to a paragraph unless
// its font size is at least 1.15x the body size (or exceeds it by an
// absolute 2pt gap) and its word count is at most 12. List-item labels
// are prepended to their block's text (space-separated) as a side effect
// of the same pass, matching spec step 7.
func ValidateHeadingLevels(blocks []model.ExtractedBlock, bodySize float64) []model.ExtractedBlock {
	out := make([]model.ExtractedBlock, len(blocks))
	for i, b := range blocks {
		out[i] = validateBlock(b, bodySize)
	}
	return out
}

func validateBlock(b model.ExtractedBlock, bodySize float64) model.ExtractedBlock {
	if b.Role.Kind == model.RoleHeading {
		size := bodySize
		if b.FontSize != nil {
			size = *b.FontSize
		}
		wordCount := len(strings.Fields(b.Text))
		qualifies := (size >= bodySize*1.15 || size-bodySize >= 2.0) && wordCount <= 12
		if !qualifies {
			b.Role = model.BlockRole{Kind: model.RoleParagraph}
		}
	}
	if b.Role.Kind == model.RoleListItem && b.Role.Label != "" {
		b.Text = b.Role.Label + " " + b.Text
	}

	for i, child := range b.Children {
		b.Children[i] = validateBlock(child, bodySize)
	}
	return b
}
