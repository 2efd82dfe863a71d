package pdf

import (
	"regexp"
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
	"github.com/kreuzbergo/kreuzbergo/internal/pdfstruct"
)

// bulletPrefix matches a leading list marker: a bullet glyph, hyphen,
// asterisk, or a numbered/lettered marker like "1." or "12)".
var bulletPrefix = regexp.MustCompile(`^(\x{2022}|\x{25CF}|\x{25E6}|\x{2023}|[-*]|[0-9]{1,3}[.)])\s+`)

// synthesizeStructure builds a page's structure tree from its reconstructed
// line segments rather than a reader's tagged-PDF struct tree: pdfcpu's
// public API surfaces content streams, page objects, and document
// properties (api.ExtractContentFile, api.ExtractImagesFile, api.Properties)
// but not the optional /StructTreeRoot, and most real-world PDFs aren't
// tagged anyway. Each segment becomes one candidate element: a leading
// bullet/numbered marker splits the segment into an "LI" with a labeled
// "Lbl" child, everything else is offered up as an "H" heading candidate
// and left for WalkStructureTree + ValidateHeadingLevels to keep or demote
// against the page's actual font-size/word-count distribution.
func synthesizeStructure(segments []model.SegmentData) ([]pdfstruct.StructElement, map[int]string, map[int]pdfstruct.MCIDInfo) {
	elements := make([]pdfstruct.StructElement, 0, len(segments))
	mcidText := make(map[int]string, len(segments))
	mcidInfo := make(map[int]pdfstruct.MCIDInfo, len(segments))

	for i, seg := range segments {
		if seg.Text == "" {
			continue
		}
		info := pdfstruct.MCIDInfo{
			FontSize: seg.FontSize,
			Bold:     seg.IsBold,
			Italic:   seg.IsItalic,
			Bounds:   model.BoundingBox{X: seg.X, Y: seg.Y, Width: seg.Width, Height: seg.Height},
		}

		if loc := bulletPrefix.FindStringIndex(seg.Text); loc != nil {
			marker := strings.TrimSpace(seg.Text[:loc[1]])
			mcidText[i] = seg.Text[loc[1]:]
			mcidInfo[i] = info
			elements = append(elements, pdfstruct.StructElement{
				Type:     "LI",
				MCIDs:    []int{i},
				Children: []pdfstruct.StructElement{{Type: "Lbl", ActualText: marker}},
			})
			continue
		}

		mcidText[i] = seg.Text
		mcidInfo[i] = info
		elements = append(elements, pdfstruct.StructElement{Type: "H", MCIDs: []int{i}})
	}

	return elements, mcidText, mcidInfo
}
