package seo

// sentenceBoundaryWindow is how far back from the cut point TruncateAtSentence
// searches for a sentence ending.
const sentenceBoundaryWindow = 50

var sentenceEndings = map[rune]bool{
	'。': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
	'\n': true,
}

// TruncateAtSentence cuts text to at most maxLen runes, preferring to break
// just after a sentence ending within the last sentenceBoundaryWindow runes of
// the cut. Returns the text and whether it was truncated. The result never
// exceeds maxLen.
func TruncateAtSentence(text string, maxLen int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text, false
	}

	truncated := runes[:maxLen]
	low := len(truncated) - sentenceBoundaryWindow
	if low < 0 {
		low = 0
	}
	for i := len(truncated) - 1; i > low; i-- {
		if sentenceEndings[truncated[i]] {
			return trimRightSpace(truncated[:i+1]), true
		}
	}
	return trimRightSpace(truncated), true
}

func trimRightSpace(runes []rune) string {
	end := len(runes)
	for end > 0 && (runes[end-1] == ' ' || runes[end-1] == '\n' || runes[end-1] == '\t' || runes[end-1] == '\r') {
		end--
	}
	return string(runes[:end])
}
