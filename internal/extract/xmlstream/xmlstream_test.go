package xmlstream

import (
	"strings"
	"testing"
)

func TestExtractElementTextAndAttributes(t *testing.T) {
	src := `<root id="1"><item name="a">hello</item><item name="b">world</item></root>`
	res, err := Extract("job", strings.NewReader(src), false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Content, "root[id]: 1") {
		t.Errorf("missing attribute line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "item[name]: a") || !strings.Contains(res.Content, "item: hello") {
		t.Errorf("missing element text: %q", res.Content)
	}
	if res.ElementCount != 3 {
		t.Errorf("expected 3 elements, got %d", res.ElementCount)
	}
	want := []string{"item", "root"}
	if len(res.UniqueElementNames) != len(want) {
		t.Fatalf("got %v want %v", res.UniqueElementNames, want)
	}
	for i, n := range want {
		if res.UniqueElementNames[i] != n {
			t.Errorf("unique names[%d]: got %q want %q", i, res.UniqueElementNames[i], n)
		}
	}
}

func TestExtractCDATAVerbatim(t *testing.T) {
	src := `<doc><script><![CDATA[if (a < b) { return; }]]></script></doc>`
	res, err := Extract("job", strings.NewReader(src), false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Content, "script: if (a < b) { return; }") {
		t.Errorf("CDATA not copied verbatim: %q", res.Content)
	}
}

func TestExtractWhitespacePreserveToggle(t *testing.T) {
	src := "<root>  padded  </root>"
	trimmed, _ := Extract("job", strings.NewReader(src), false)
	preserved, _ := Extract("job", strings.NewReader(src), true)
	if strings.Contains(trimmed.Content, "  padded  ") {
		t.Errorf("expected whitespace trimmed: %q", trimmed.Content)
	}
	if !strings.Contains(preserved.Content, "  padded  ") {
		t.Errorf("expected whitespace preserved: %q", preserved.Content)
	}
}

func TestExtractMalformedXMLReturnsParsingError(t *testing.T) {
	src := `<root><unterminated>`
	_, err := Extract("job", strings.NewReader(src), false)
	if err == nil {
		t.Fatal("expected a parsing error for malformed XML")
	}
}
