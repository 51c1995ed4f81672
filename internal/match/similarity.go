package match

import "strings"

// Similarity returns a normalized ratio in [0,1] between two titles,
// case-insensitive. Ratio semantics follow Ratcliff-Obershelp: twice the total
// length of matching blocks over the combined length, where matching blocks
// are found by recursing around the longest common substring. Mixed-script
// titles (han plus latin) compare rune by rune, so a shared romanized segment
// still scores.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingTotal(ra, rb)) / float64(total)
}

// matchingTotal sums matching-block lengths: longest common substring, then
// recursively the regions to its left and right.
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestBlock finds the longest common substring of a and b, preferring the
// earliest start in a, then in b, on ties.
func longestBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the length of the common suffix ending at a[i], b[j]
	// for the current row i.
	prev := make([]int, len(b))
	curr := make([]int, len(b))

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				curr[j] = 0
				continue
			}
			if j == 0 {
				curr[j] = 1
			} else {
				curr[j] = prev[j-1] + 1
			}
			if curr[j] > size {
				size = curr[j]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
