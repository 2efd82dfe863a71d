package mimetype

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectFromPathKnownExtensions(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     PDFMimeType,
		"notes.MD":       MarkdownMimeType,
		"letter.docx":    DOCXMimeType,
		"archive.ZIP":    "application/zip",
		"notebook.ipynb": "application/x-ipynb+json",
	}
	for name, want := range cases {
		dir := t.TempDir()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := DetectFromPath("job", path, true)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: got %q want %q", name, got, want)
		}
	}
}

func TestDetectFromPathMissingExtensionIsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := DetectFromPath("job", path, true)
	if err == nil {
		t.Fatal("expected error for extensionless path")
	}
}

func TestDetectFromBytesZipInterior(t *testing.T) {
	// Scenario 4 from spec.md §8: a ZIP local file header naming word/document.xml.
	var buf []byte
	buf = append(buf, 0x50, 0x4B, 0x03, 0x04) // local file header signature
	buf = append(buf, make([]byte, 26)...)    // rest of the fixed header, irrelevant here
	buf = append(buf, []byte("word/document.xml")...)
	got, err := DetectFromBytes("job", buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DOCXMimeType {
		t.Errorf("got %q want %q", got, DOCXMimeType)
	}
}

func TestDetectFromBytesPlainZipStaysZip(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x50, 0x4B, 0x03, 0x04)
	buf = append(buf, make([]byte, 26)...)
	buf = append(buf, []byte("some/random/file.bin")...)
	got, err := DetectFromBytes("job", buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "application/zip" {
		t.Errorf("got %q want application/zip", got)
	}
}

func TestDetectFromBytesTextHeuristics(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                     JSONMimeType,
		"<root><a/></root>":           XMLMimeType,
		"<!DOCTYPE html><html></html>": HTMLMimeType,
		"%PDF-1.4\n":                  PDFMimeType,
		"just some plain text":        PlainTextMimeType,
	}
	for input, want := range cases {
		got, err := DetectFromBytes("job", []byte(input))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if got != want {
			t.Errorf("%q: got %q want %q", input, got, want)
		}
	}
}

func TestValidateEveryExtensionRoundTrips(t *testing.T) {
	// Universal invariant (spec.md §8): for every extension e in the
	// registry, validate(detect_from_path("x."+e, false)) equals the
	// canonical MIME for e.
	for _, entry := range Formats {
		for _, ext := range entry.Extensions {
			dir := t.TempDir()
			path := filepath.Join(dir, "x."+ext)
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
			detected, err := DetectFromPath("job", path, true)
			if err != nil {
				t.Fatalf("ext %q: %v", ext, err)
			}
			validated, err := Validate("job", detected)
			if err != nil {
				t.Fatalf("ext %q: validate failed: %v", ext, err)
			}
			if validated != entry.MimeType {
				t.Errorf("ext %q: got %q want %q", ext, validated, entry.MimeType)
			}
		}
	}
}

func TestValidateEveryAliasSucceeds(t *testing.T) {
	for _, entry := range Formats {
		for _, alias := range entry.Aliases {
			got, err := Validate("job", alias)
			if err != nil {
				t.Fatalf("alias %q: %v", alias, err)
			}
			if _, ok := supportedMime[got]; !ok {
				t.Errorf("alias %q: result %q not in supported set", alias, got)
			}
		}
	}
}

func TestValidateCaseInsensitive(t *testing.T) {
	for _, entry := range Formats {
		lower, err1 := Validate("job", entry.MimeType)
		upper, err2 := Validate("job", strings.ToUpper(entry.MimeType))
		if err1 != nil || err2 != nil {
			t.Fatalf("mime %q: errs %v %v", entry.MimeType, err1, err2)
		}
		if lower != upper {
			t.Errorf("mime %q: case sensitivity mismatch: %q vs %q", entry.MimeType, lower, upper)
		}
	}
}

func TestListSupportedFormatsSortedByExtension(t *testing.T) {
	list := ListSupportedFormats()
	for i := 1; i < len(list); i++ {
		if list[i-1].Extension > list[i].Extension {
			t.Fatalf("not sorted: %q before %q", list[i-1].Extension, list[i].Extension)
		}
	}
	for _, f := range list {
		if strings.HasPrefix(f.Extension, ".") {
			t.Errorf("extension %q must not have a leading dot", f.Extension)
		}
	}
}

func TestEveryRegistryExtensionMimeInSupportedSet(t *testing.T) {
	// Invariant (spec.md §3): every extension entry's canonical MIME is
	// present in the supported set.
	for _, entry := range Formats {
		for range entry.Extensions {
			if _, ok := supportedMime[entry.MimeType]; !ok {
				t.Errorf("mime %q not in supported set", entry.MimeType)
			}
		}
	}
}
