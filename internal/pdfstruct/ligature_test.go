package pdfstruct

import "testing"

func TestRepairEncodingErrorChar(t *testing.T) {
	cases := map[rune]string{
		0x0B: "ff", 0x0C: "fi", 0x0D: "fl", 0x0E: "ffi", 0x0F: "ffl",
		0x01: "fi", 0x21: "fi", 0x22: "ff",
	}
	for cp, want := range cases {
		got, ok := RepairEncodingErrorChar(cp)
		if !ok || got != want {
			t.Errorf("codepoint %#x: got %q ok=%v want %q", cp, got, ok, want)
		}
	}
	if _, ok := RepairEncodingErrorChar('z'); ok {
		t.Error("expected no mapping for an ordinary rune")
	}
}

func TestTextHasLigatureCorruptionDetectsPatterns(t *testing.T) {
	if !TextHasLigatureCorruption("e!cient") {
		t.Error("expected detection of '!' between alphabetics")
	}
	if TextHasLigatureCorruption("efficient") {
		t.Error("clean text must not be flagged")
	}
}

func TestRepairContextualLigaturesVowelNext(t *testing.T) {
	got := RepairContextualLigatures("o!er")
	if got != "offer" {
		t.Errorf("got %q want %q", got, "offer")
	}
}

func TestRepairContextualLigaturesNonVowelNext(t *testing.T) {
	got := RepairContextualLigatures("arti!cial")
	if got != "artificial" {
		t.Errorf("got %q want %q", got, "artificial")
	}
}

func TestRepairContextualLigaturesIsIdempotent(t *testing.T) {
	once := RepairContextualLigatures("e!cient and “quoted”")
	twice := RepairContextualLigatures(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestRepairContextualLigaturesWordStart(t *testing.T) {
	got := RepairContextualLigatures("!nally")
	if got != "finally" {
		t.Errorf("got %q want %q", got, "finally")
	}
}

func TestRepairContextualLigaturesQuoteBetweenAlpha(t *testing.T) {
	got := RepairContextualLigatures(`o"ce`)
	if got != "office" {
		t.Errorf("got %q want %q", got, "office")
	}
}
