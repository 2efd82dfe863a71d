// Package xmlstream converts arbitrary XML into a serialized contextual
// form, tracking element counts and unique names without buffering a DOM.
package xmlstream

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
)

// Result is the serialized contextual form plus the bookkeeping spec.md
// §4.C.2 calls for.
type Result struct {
	Content          string
	ElementCount     int
	UniqueElementNames []string
}

// Extract streams r, emitting one line per piece of content:
//   - element text as "elementName: text"
//   - element attributes as "elementName[attrName]: value"
//   - CDATA copied verbatim
//
// preserveWhitespace disables the decoder's text-trimming (passed through
// from the caller's whitespace-preserve toggle). The decoder runs in
// non-strict mode, so a mismatched closing tag is accepted rather than
// reported; other syntax errors, such as a truncated document, end the
// run with a Parsing error carrying the input offset.
func Extract(jobID string, r io.Reader, preserveWhitespace bool) (*Result, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		b        strings.Builder
		stack    []string
		elements int
		names    = map[string]bool{}
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, kerrors.NewParsingError(jobID, fmt.Sprintf("xml parse error at offset %d", dec.InputOffset()), err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			stack = append(stack, name)
			elements++
			names[name] = true
			for _, attr := range el.Attr {
				fmt.Fprintf(&b, "%s[%s]: %s\n", name, attr.Name.Local, attr.Value)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := string(el)
			if !preserveWhitespace {
				text = strings.TrimSpace(text)
			}
			if text == "" || len(stack) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", stack[len(stack)-1], text)
		case xml.Comment, xml.ProcInst, xml.Directive:
			// not part of the serialized contextual form.
		}
	}

	sortedNames := make([]string, 0, len(names))
	for n := range names {
		sortedNames = append(sortedNames, n)
	}
	sort.Strings(sortedNames)

	return &Result{
		Content:            b.String(),
		ElementCount:       elements,
		UniqueElementNames: sortedNames,
	}, nil
}
