package syncer

import (
	"strings"
	"unicode"
)

var sectionSeparators = []string{"---", "___", "==="}

// ExtractPrimarySection pulls the Chinese section out of a bilingual
// description. The text is split on the first structural separator found and
// the section with the most han characters wins. Descriptions without a
// separator, or without any Chinese text, come back whole.
func ExtractPrimarySection(description string) string {
	for _, sep := range sectionSeparators {
		if !strings.Contains(description, sep) {
			continue
		}

		best := ""
		bestHan := 0
		for _, section := range strings.Split(description, sep) {
			if n := countHan(section); n > bestHan {
				bestHan = n
				best = strings.TrimSpace(section)
			}
		}
		if best != "" {
			return best
		}
		break
	}
	return strings.TrimSpace(description)
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
