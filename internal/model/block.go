package model

// BlockRole is a closed set of structure-tree roles. Exactly one field is
// meaningful per RoleKind; the rest are zero values.
type BlockRole struct {
	Kind       RoleKind
	Level      int    // Heading
	Label      string // ListItem
	Row, Col   int     // TableCell
	IsHeader   bool    // TableCell
	Alt        string  // Figure
	URL        string  // Link
	Other      string  // Other
}

// RoleKind enumerates ExtractedBlock roles.
type RoleKind int

const (
	RoleParagraph RoleKind = iota
	RoleHeading
	RoleListItem
	RoleTableCell
	RoleFigure
	RoleCaption
	RoleCode
	RoleBlockQuote
	RoleLink
	RoleOther
)

// ExtractedBlock is one node of a PDF structure-tree walk. A block with
// empty text and no children is never emitted — callers must uphold this
// invariant at construction time, not rely on later filtering.
type ExtractedBlock struct {
	Role     BlockRole
	Text     string
	Bounds   *BoundingBox
	FontSize *float64
	Bold     bool
	Italic   bool
	Children []ExtractedBlock
}

// IsEmpty reports whether a block has neither text nor children, i.e.
// whether it must not be emitted per the data-model invariant.
func (b ExtractedBlock) IsEmpty() bool {
	return b.Text == "" && len(b.Children) == 0
}

// OcrElement is a positioned OCR token.
type OcrElement struct {
	Text       string
	Bounds     BoundingBox
	Confidence float64 // always in [0, 1]
	PageNumber int
	FontSize   *float64
	Bold       bool
	Italic     bool
}

// SegmentData is a reconstructed line segment: the unit that both the
// character-based and page-object-based PDF reconstruction paths produce,
// and that the XY-Cut column splitter operates on.
type SegmentData struct {
	Text        string
	X, Y        float64
	Width       float64
	Height      float64
	FontSize    float64
	IsBold      bool
	IsItalic    bool
	IsMonospace bool
	BaselineY   float64
}
