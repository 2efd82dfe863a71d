package ocr

import "testing"

func TestFamilyForDirectName(t *testing.T) {
	f, ok := FamilyFor("chinese")
	if !ok || f != FamilyChinese {
		t.Fatalf("got %v ok=%v", f, ok)
	}
}

func TestFamilyForISOCode(t *testing.T) {
	cases := map[string]ScriptFamily{
		"chi_sim": FamilyChinese,
		"eng":     FamilyEnglish,
		"ell":     FamilyGreek,
		"rus":     FamilyEasternSlavic,
		"ara":     FamilyArabic,
	}
	for code, want := range cases {
		got, ok := FamilyFor(code)
		if !ok || got != want {
			t.Errorf("%s: got %v ok=%v want %v", code, got, ok, want)
		}
	}
}

func TestFamilyForUnknownReturnsFalse(t *testing.T) {
	if _, ok := FamilyFor("klingon"); ok {
		t.Fatal("expected unknown language to not resolve")
	}
}

func TestIsSupportedLanguage(t *testing.T) {
	if !IsSupportedLanguage("eng") {
		t.Error("expected eng supported")
	}
	if IsSupportedLanguage("xyz") {
		t.Error("expected xyz unsupported")
	}
}
