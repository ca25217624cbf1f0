// Package langdetect identifies the language of text locally, without a
// network round trip, using statistical n-gram models. It mirrors the
// result shape of the remote identify operation so callers can swap
// between the two.
package langdetect

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/lexicore/lexicore-go/languagetranslation"
)

// minLetters guards against classifying strings too short to carry signal.
const minLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Identify returns the candidate languages for text in descending
// confidence order, or nil when the text carries too little signal.
func Identify(text string) []languagetranslation.IdentifiedLanguage {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return nil
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return nil
	}

	values := getDetector().ComputeLanguageConfidenceValues(sample)
	identified := make([]languagetranslation.IdentifiedLanguage, 0, len(values))
	for _, value := range values {
		code := strings.ToLower(value.Language().IsoCode639_1().String())
		if len(code) != 2 || value.Value() <= 0 {
			continue
		}
		identified = append(identified, languagetranslation.IdentifiedLanguage{
			Language:   code,
			Confidence: value.Value(),
		})
	}

	sort.SliceStable(identified, func(i, j int) bool {
		return identified[i].Confidence > identified[j].Confidence
	})
	if len(identified) == 0 {
		return nil
	}
	return identified
}

// Best returns the single most likely language code, or an empty string.
func Best(text string) string {
	identified := Identify(text)
	if len(identified) == 0 {
		return ""
	}
	return identified[0].Language
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
