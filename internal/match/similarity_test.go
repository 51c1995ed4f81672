package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Shibuya Walk", "Shibuya Walk", 1.0},
		{"case insensitive", "TOKYO", "tokyo", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// matching blocks "bcd": 2*3/(4+3)
		{"substring", "abcd", "bcd", 6.0 / 7.0},
		// shared prefix "tokyo day 1 shibuya " (20 runes) out of 24+22 runes
		{"mixed script", "Tokyo Day 1 Shibuya Walk", "Tokyo Day 1 Shibuya 散步", 40.0 / 46.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetricEnough(t *testing.T) {
	// Block matching recurses from a's point of view but the score is
	// normalized over both lengths; for these inputs both directions agree.
	a, b := "Kyoto temples complete guide", "kyoto temple guide"
	if d := math.Abs(Similarity(a, b) - Similarity(b, a)); d > 1e-9 {
		t.Errorf("similarity differs by %v between directions", d)
	}
}

func TestLongestBlockPrefersEarliest(t *testing.T) {
	ai, bi, size := longestBlock([]rune("xxabxxab"), []rune("ab"))
	if size != 2 || ai != 2 || bi != 0 {
		t.Errorf("longestBlock = (%d, %d, %d), want (2, 0, 2)", ai, bi, size)
	}
}
