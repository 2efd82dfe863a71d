// Package ocr defines the OCR backend contract, script-family mapping,
// model cache management, and the per-script-family engine pool the
// pipeline driver dispatches recognition work through.
package ocr

import "github.com/kreuzbergo/kreuzbergo/internal/registry"

// ScriptFamily is one of the fixed closed set of script families a
// language maps to.
type ScriptFamily string

const (
	FamilyEnglish       ScriptFamily = "english"
	FamilyChinese       ScriptFamily = "chinese"
	FamilyLatin         ScriptFamily = "latin"
	FamilyKorean        ScriptFamily = "korean"
	FamilyEasternSlavic ScriptFamily = "eastern-slavic"
	FamilyThai          ScriptFamily = "thai"
	FamilyGreek         ScriptFamily = "greek"
	FamilyArabic        ScriptFamily = "arabic"
	FamilyDevanagari    ScriptFamily = "devanagari"
	FamilyTamil         ScriptFamily = "tamil"
	FamilyTelugu        ScriptFamily = "telugu"
	FamilyKannada       ScriptFamily = "kannada"
)

// languageToFamily maps 3-letter ISO codes (the Tesseract-style traineddata
// naming convention) to their script family.
var languageToFamily = map[string]ScriptFamily{
	"eng":     FamilyEnglish,
	"chi_sim": FamilyChinese,
	"chi_tra": FamilyChinese,
	"fra":     FamilyLatin,
	"deu":     FamilyLatin,
	"spa":     FamilyLatin,
	"ita":     FamilyLatin,
	"por":     FamilyLatin,
	"nld":     FamilyLatin,
	"kor":     FamilyKorean,
	"rus":     FamilyEasternSlavic,
	"ukr":     FamilyEasternSlavic,
	"bul":     FamilyEasternSlavic,
	"srp":     FamilyEasternSlavic,
	"tha":     FamilyThai,
	"ell":     FamilyGreek,
	"ara":     FamilyArabic,
	"fas":     FamilyArabic,
	"urd":     FamilyArabic,
	"hin":     FamilyDevanagari,
	"mar":     FamilyDevanagari,
	"nep":     FamilyDevanagari,
	"tam":     FamilyTamil,
	"tel":     FamilyTelugu,
	"kan":     FamilyKannada,
}

var knownFamilies = map[ScriptFamily]bool{
	FamilyEnglish: true, FamilyChinese: true, FamilyLatin: true, FamilyKorean: true,
	FamilyEasternSlavic: true, FamilyThai: true, FamilyGreek: true, FamilyArabic: true,
	FamilyDevanagari: true, FamilyTamil: true, FamilyTelugu: true, FamilyKannada: true,
}

// FamilyFor resolves a language string to its script family. It accepts
// either a direct family name or a 3-letter ISO code with a known mapping.
func FamilyFor(language string) (ScriptFamily, bool) {
	if knownFamilies[ScriptFamily(language)] {
		return ScriptFamily(language), true
	}
	family, ok := languageToFamily[language]
	return family, ok
}

// IsSupportedLanguage reports whether FamilyFor would resolve language.
func IsSupportedLanguage(language string) bool {
	_, ok := FamilyFor(language)
	return ok
}

// SupportedLanguageCodes returns every 3-letter ISO code with a known
// script-family mapping, for backends whose SupportedLanguages listing is
// simply "whatever FamilyFor resolves".
func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(languageToFamily))
	for code := range languageToFamily {
		codes = append(codes, code)
	}
	return codes
}

// Backend is the OCR engine contract every registered backend implements;
// it is registry.OcrBackend re-exported under this package's name so
// concrete backends (tesseract, paddleocr, cloudocr) only need to import
// ocr, not registry, for their primary interface.
type Backend = registry.OcrBackend

// Config is registry.OCRConfig re-exported for the same reason.
type Config = registry.OCRConfig
