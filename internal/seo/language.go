package seo

import (
	"strings"
	"unicode"
)

// Language is the detected primary language of a video's content.
type Language string

const (
	LanguageChinese Language = "chinese"
	LanguageEnglish Language = "english"
)

// DetectLanguage picks the primary language using signals in priority order:
// the platform's language fields, then character analysis of the title, then
// of title+description combined.
func DetectLanguage(title, description, defaultLanguage, defaultAudioLanguage string) Language {
	for _, hint := range []string{defaultLanguage, defaultAudioLanguage} {
		if hint == "" {
			continue
		}
		lower := strings.ToLower(hint)
		if strings.HasPrefix(lower, "zh") {
			return LanguageChinese
		}
		if strings.HasPrefix(lower, "en") {
			return LanguageEnglish
		}
	}

	// The title is the most indicative signal.
	titleHan := countHan(title)
	titleLatin := countLatin(title)
	if titleHan > 5 {
		return LanguageChinese
	}
	if total := titleHan + titleLatin; total > 0 && float64(titleLatin)/float64(total) > 0.7 {
		return LanguageEnglish
	}

	combined := title + " " + description
	if countHan(combined) > countLatin(combined) {
		return LanguageChinese
	}
	return LanguageEnglish
}

func countHan(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}

func countLatin(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			n++
		}
	}
	return n
}
