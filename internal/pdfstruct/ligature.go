package pdfstruct

import "strings"

// encodingErrorRepairMap maps the raw unicode value a PDF library reports
// for a non-symbolic-font char with has_unicode_map_error=true to the
// ligature it actually represents. Three independent corruption schemes
// collide on overlapping byte ranges, so the map is keyed by scheme first.
var cmType1LowByte = map[rune]string{
	0x0B: "ff", 0x0C: "fi", 0x0D: "fl", 0x0E: "ffi", 0x0F: "ffl",
}

var alternateLowByte = map[rune]string{
	0x01: "fi", 0x02: "fl", 0x03: "ff", 0x04: "ffi", 0x05: "ffl",
}

var asciiFallbackCorruption = map[rune]string{
	0x21: "fi", 0x22: "ff", 0x23: "fl", 0x24: "ffi", 0x25: "ffl",
}

// RepairEncodingErrorChar returns the ligature expansion for a char the
// PDF library flagged as a unicode-map error on a non-symbolic font, and
// whether a mapping was found. Schemes are tried in a fixed priority
// order since their byte ranges overlap.
func RepairEncodingErrorChar(codepoint rune) (string, bool) {
	if s, ok := cmType1LowByte[codepoint]; ok {
		return s, true
	}
	if s, ok := alternateLowByte[codepoint]; ok {
		return s, true
	}
	if s, ok := asciiFallbackCorruption[codepoint]; ok {
		return s, true
	}
	return "", false
}

// TextHasLigatureCorruption reports whether text shows the contextual
// ligature-corruption patterns RepairContextualLigatures would fix.
func TextHasLigatureCorruption(text string) bool {
	return len(contextualMatches(text)) > 0
}

// RepairContextualLigatures corrects likely ligature corruption purely
// from surrounding context, using lookahead/lookback around the
// corruption marker characters '!', '"', and '#'. Idempotent on
// already-clean text: once a marker is replaced, nothing in the
// replacement text matches again.
func RepairContextualLigatures(text string) string {
	matches := contextualMatches(text)
	if len(matches) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(string(runes[last:m.pos]))
		b.WriteString(m.replacement)
		last = m.pos + 1
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

type contextualMatch struct {
	pos         int
	replacement string
}

func contextualMatches(text string) []contextualMatch {
	runes := []rune(text)
	var matches []contextualMatch

	isAlpha := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	isVowel := func(r rune) bool {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return true
		default:
			return false
		}
	}
	isLower := func(r rune) bool { return r >= 'a' && r <= 'z' }
	isWordStart := func(i int) bool {
		return i == 0 || !isAlpha(runes[i-1])
	}

	for i, r := range runes {
		var prev, next rune
		hasPrev, hasNext := i > 0, i < len(runes)-1
		if hasPrev {
			prev = runes[i-1]
		}
		if hasNext {
			next = runes[i+1]
		}

		switch r {
		case '!':
			switch {
			case hasPrev && hasNext && isAlpha(prev) && isAlpha(next):
				if isVowel(next) {
					matches = append(matches, contextualMatch{i, "ff"})
				} else {
					matches = append(matches, contextualMatch{i, "fi"})
				}
			case hasPrev && !hasNext && isAlpha(prev):
				matches = append(matches, contextualMatch{i, "fi"})
			case isWordStart(i) && hasNext && isLower(next):
				matches = append(matches, contextualMatch{i, "fi"})
			}
		case '"':
			if hasPrev && hasNext && isAlpha(prev) && isAlpha(next) {
				matches = append(matches, contextualMatch{i, "ffi"})
			}
		case '#':
			switch {
			case hasPrev && hasNext && isAlpha(prev) && isAlpha(next):
				matches = append(matches, contextualMatch{i, "fi"})
			case isWordStart(i) && hasNext && isLower(next):
				matches = append(matches, contextualMatch{i, "fi"})
			}
		}
	}
	return matches
}
