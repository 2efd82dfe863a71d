package mdx

import (
	"strings"
	"testing"
)

func TestExtractStripsImportsAndExports(t *testing.T) {
	src := "import Foo from 'foo'\n\n# Hello\n\nexport const x = 1\n\nBody text."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.HTML, "import") || strings.Contains(res.HTML, "export") {
		t.Errorf("expected import/export stripped, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "Body text") {
		t.Errorf("expected body text preserved, got %q", res.HTML)
	}
}

func TestExtractStripsMultilineImportBraces(t *testing.T) {
	src := "import {\n  Foo,\n  Bar,\n} from 'mylib'\n\nBody."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.HTML, "Foo") || strings.Contains(res.HTML, "Bar") {
		t.Errorf("expected multiline import braces fully skipped, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "Body") {
		t.Errorf("expected trailing body preserved, got %q", res.HTML)
	}
}

func TestExtractStripsJSXExpressionLines(t *testing.T) {
	src := "Text before.\n\n{/* a comment */}\n\n{someExpr}\n\nText after."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.HTML, "someExpr") {
		t.Errorf("expected JSX expression line stripped, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "Text before") || !strings.Contains(res.HTML, "Text after") {
		t.Errorf("expected surrounding text preserved, got %q", res.HTML)
	}
}

func TestExtractStripsCapitalizedComponentsKeepsText(t *testing.T) {
	src := "A <Highlight color=\"red\">warning</Highlight> message."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.HTML, "Highlight") {
		t.Errorf("expected component tags stripped, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "warning") {
		t.Errorf("expected inner text preserved, got %q", res.HTML)
	}
}

func TestExtractPreservesLowercaseHTML(t *testing.T) {
	src := "A <strong>bold</strong> word."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.HTML, "<strong>") {
		t.Errorf("expected standard HTML tag preserved by goldmark, got %q", res.HTML)
	}
}

func TestExtractPreservesFencedCodeContainingJSXLookingText(t *testing.T) {
	src := "```jsx\nimport Foo from 'foo'\n<Foo />\n```"
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.HTML, "import Foo") || !strings.Contains(res.HTML, "&lt;Foo") {
		t.Errorf("expected fenced code region preserved verbatim, got %q", res.HTML)
	}
}

func TestExtractFrontmatterTitle(t *testing.T) {
	src := "---\ntitle: My Doc\ndescription: something\n---\n\nBody."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "My Doc" {
		t.Errorf("got title %q want %q", res.Title, "My Doc")
	}
	if res.Frontmatter["description"] != "something" {
		t.Errorf("unexpected frontmatter: %+v", res.Frontmatter)
	}
}

func TestExtractFallsBackToFirstHeadingForTitle(t *testing.T) {
	src := "# My Heading\n\nBody."
	res, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "My Heading" {
		t.Errorf("got title %q want %q", res.Title, "My Heading")
	}
}
