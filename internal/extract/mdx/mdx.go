// Package mdx is a thin veneer over goldmark: a preprocessor strips
// MDX-specific syntax (imports/exports, JSX expressions, JSX components)
// while preserving fenced code blocks and standard HTML, then the
// cleaned text is rendered as ordinary commonmark.
package mdx

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// Frontmatter is the YAML-between-fences metadata block, parsed only
// far enough to recover title/description-shaped scalar keys; a full
// YAML library is unnecessary for the flat key:value frontmatter MDX
// documents use in practice.
type Frontmatter map[string]string

// Result is the preprocessed-and-rendered document plus its frontmatter.
type Result struct {
	HTML        string
	Title       string
	Frontmatter Frontmatter
}

var jsxExpressionLine = regexp.MustCompile(`^\s*\{.*\}\s*$`)
var jsxComment = regexp.MustCompile(`\{/\*.*?\*/\}`)
var headingLine = regexp.MustCompile(`^#\s+(.+)$`)

// Extract strips frontmatter, preprocesses MDX syntax out of the body,
// and renders the remainder through goldmark.
func Extract(source string) (*Result, error) {
	frontmatter, body := splitFrontmatter(source)
	cleaned := preprocess(body)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(cleaned), &buf); err != nil {
		return nil, err
	}

	title := frontmatter["title"]
	if title == "" {
		title = firstHeading(cleaned)
	}

	return &Result{HTML: buf.String(), Title: title, Frontmatter: frontmatter}, nil
}

func splitFrontmatter(source string) (Frontmatter, string) {
	fm := Frontmatter{}
	if !strings.HasPrefix(source, "---\n") && source != "---" {
		return fm, source
	}

	lines := strings.Split(source, "\n")
	if len(lines) == 0 || lines[0] != "---" {
		return fm, source
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, source
	}

	for _, line := range lines[1:end] {
		if idx := strings.Index(line, ":"); idx != -1 {
			key := strings.TrimSpace(line[:idx])
			val := strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)
			fm[key] = val
		}
	}

	return fm, strings.Join(lines[end+1:], "\n")
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// preprocess strips MDX-specific syntax line by line, preserving fenced
// code regions and standard (lowercase-tag) HTML untouched.
func preprocess(body string) string {
	var out []string
	inFence := false
	braceSkipDepth := 0

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if braceSkipDepth > 0 {
			braceSkipDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if braceSkipDepth <= 0 {
				braceSkipDepth = 0
			}
			continue
		}

		if strings.HasPrefix(trimmed, "import ") || trimmed == "import" ||
			strings.HasPrefix(trimmed, "export ") || trimmed == "export" {
			depth := strings.Count(line, "{") - strings.Count(line, "}")
			if depth > 0 {
				braceSkipDepth = depth
			}
			continue
		}

		if jsxExpressionLine.MatchString(line) {
			continue
		}

		stripped := jsxComment.ReplaceAllString(line, "")
		stripped = stripJSXComponents(stripped)

		if strings.TrimSpace(stripped) == "" && trimmed != "" {
			continue
		}
		out = append(out, stripped)
	}

	return strings.Join(out, "\n")
}

// jsxOpenOrSelfClose matches <Name ...> or <Name ... /> where Name starts
// with an uppercase ASCII letter; jsxClose matches </Name>.
var jsxOpenOrSelfClose = regexp.MustCompile(`<([A-Z][A-Za-z0-9.]*)(\s[^<>]*)?/?>`)
var jsxClose = regexp.MustCompile(`</([A-Z][A-Za-z0-9.]*)>`)

func stripJSXComponents(line string) string {
	line = jsxOpenOrSelfClose.ReplaceAllString(line, "")
	line = jsxClose.ReplaceAllString(line, "")
	return line
}
