package pdf

import (
	"strings"

	"github.com/kreuzbergo/kreuzbergo/internal/pdfstruct"
)

// matrix is a PDF 2D affine transform [a b c d e f], applied to a point
// (x,y) as x' = a*x + c*y + e, y' = b*x + d*y + f.
type matrix [6]float64

var identityMatrix = matrix{1, 0, 0, 1, 0, 0}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func (m matrix) multiply(other matrix) matrix {
	return matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// glyphAdvanceFraction approximates a character's advance width as a
// fraction of font size, in the absence of the font's actual width table
// (resolving embedded font widths/cmaps is out of scope here — see the
// package doc comment).
const glyphAdvanceFraction = 0.5

// textState tracks the subset of PDF graphics/text state that affects
// glyph placement while interpreting one page's content stream.
type textState struct {
	fontSize     float64
	charSpacing  float64
	wordSpacing  float64
	leading      float64
	textMatrix   matrix
	lineMatrix   matrix
	bold, italic bool
}

// decodeContentStream interprets tok as a text-showing program and returns
// one RawChar per character code encountered, in stream order. Character
// codes are treated as Latin-1/WinAnsi-ish byte values, which holds for
// simple (non-embedded-subset) fonts; embedded subset fonts with custom
// encodings will decode to the wrong codepoints, a known approximation of
// this run-level (not true per-glyph) reconstruction.
func decodeContentStream(tokens []token) []pdfstruct.RawChar {
	var chars []pdfstruct.RawChar
	st := textState{fontSize: 12, textMatrix: identityMatrix, lineMatrix: identityMatrix}
	var operands []token

	flushText := func(raw []byte) {
		for i, b := range raw {
			if b == ' ' && st.wordSpacing != 0 {
				advance(&st, st.wordSpacing)
			}
			x, y := st.textMatrix.apply(0, 0)
			symbolic := isLigatureMarkerByte(b) && hasAlphaNeighbor(raw, i)
			chars = append(chars, pdfstruct.RawChar{
				Codepoint:        rune(b),
				X:                x,
				Y:                y,
				FontSize:         st.fontSize,
				Bold:             st.bold,
				Italic:           st.italic,
				HasUnicodeMapErr: symbolic,
				SymbolicFont:     symbolic,
			})
			advance(&st, st.fontSize*glyphAdvanceFraction+st.charSpacing)
		}
	}

	for _, t := range tokens {
		if t.kind != tokOperator {
			operands = append(operands, t)
			continue
		}

		switch t.op {
		case "BT":
			st.textMatrix = identityMatrix
			st.lineMatrix = identityMatrix
		case "ET":
			// no-op: state persists across ET for degenerate/malformed
			// streams that emit text outside BT/ET pairs.
		case "Tf":
			if len(operands) >= 1 {
				st.fontSize = operands[len(operands)-1].num
			}
		case "Tc":
			if len(operands) >= 1 {
				st.charSpacing = operands[0].num
			}
		case "Tw":
			if len(operands) >= 1 {
				st.wordSpacing = operands[0].num
			}
		case "TL":
			if len(operands) >= 1 {
				st.leading = operands[0].num
			}
		case "Td":
			if len(operands) >= 2 {
				tx, ty := operands[0].num, operands[1].num
				st.lineMatrix = matrix{1, 0, 0, 1, tx, ty}.multiply(st.lineMatrix)
				st.textMatrix = st.lineMatrix
			}
		case "TD":
			if len(operands) >= 2 {
				tx, ty := operands[0].num, operands[1].num
				st.leading = -ty
				st.lineMatrix = matrix{1, 0, 0, 1, tx, ty}.multiply(st.lineMatrix)
				st.textMatrix = st.lineMatrix
			}
		case "Tm":
			if len(operands) >= 6 {
				m := matrix{operands[0].num, operands[1].num, operands[2].num, operands[3].num, operands[4].num, operands[5].num}
				st.lineMatrix = m
				st.textMatrix = m
			}
		case "T*":
			st.lineMatrix = matrix{1, 0, 0, 1, 0, -st.leading}.multiply(st.lineMatrix)
			st.textMatrix = st.lineMatrix
		case "Tj":
			if len(operands) >= 1 && operands[len(operands)-1].kind == tokString {
				flushText(operands[len(operands)-1].str)
			}
		case "'":
			st.lineMatrix = matrix{1, 0, 0, 1, 0, -st.leading}.multiply(st.lineMatrix)
			st.textMatrix = st.lineMatrix
			if len(operands) >= 1 && operands[len(operands)-1].kind == tokString {
				flushText(operands[len(operands)-1].str)
			}
		case `"`:
			if len(operands) >= 3 {
				st.wordSpacing = operands[0].num
				st.charSpacing = operands[1].num
			}
			st.lineMatrix = matrix{1, 0, 0, 1, 0, -st.leading}.multiply(st.lineMatrix)
			st.textMatrix = st.lineMatrix
			if len(operands) >= 1 && operands[len(operands)-1].kind == tokString {
				flushText(operands[len(operands)-1].str)
			}
		case "TJ":
			for _, op := range operands {
				switch op.kind {
				case tokString:
					flushText(op.str)
				case tokNumber:
					advance(&st, -op.num/1000*st.fontSize)
				}
			}
		}

		operands = operands[:0]
	}

	return chars
}

// isLigatureMarkerByte reports whether b is one of the ASCII punctuation
// codepoints ('!', '"', '#') that a symbolic or Type1 font's non-standard
// low-range glyph IDs decode to under this interpreter's byte-as-codepoint
// approximation, matching pdfstruct's contextual ligature-repair markers.
func isLigatureMarkerByte(b byte) bool {
	return b == '!' || b == '"' || b == '#'
}

// hasAlphaNeighbor reports whether raw[i] is flanked, on either side within
// the same string, by an ASCII letter — the signature of a marker byte
// sitting mid-word rather than appearing as literal punctuation.
func hasAlphaNeighbor(raw []byte, i int) bool {
	isAlpha := func(c byte) bool {
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	if i > 0 && isAlpha(raw[i-1]) {
		return true
	}
	if i < len(raw)-1 && isAlpha(raw[i+1]) {
		return true
	}
	return false
}

func advance(st *textState, dx float64) {
	st.textMatrix = matrix{1, 0, 0, 1, dx, 0}.multiply(st.textMatrix)
}

// joinNonEmpty joins only the non-blank strings in parts with sep.
func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
