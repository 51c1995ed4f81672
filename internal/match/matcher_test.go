package match

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAssignThreshold(t *testing.T) {
	primaries := []Primary{
		{ID: "yt1", Title: "Tokyo Day 1 Shibuya Walk"},
		{ID: "yt2", Title: "completely unrelated cooking stream"},
	}
	secondaries := []Secondary{
		{BVID: "BV1", AID: 100, Title: "Tokyo Day 1 Shibuya 散步"},
	}

	records := Assign(primaries, secondaries, 0.5)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.YouTubeID != "yt1" || r.BilibiliBVID != "BV1" || r.BilibiliAID != 100 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Similarity < 0.5 {
		t.Errorf("similarity %v below floor", r.Similarity)
	}

	// Same pair, stricter floor: no match.
	if records := Assign(primaries, secondaries, 0.9); len(records) != 0 {
		t.Errorf("floor 0.9 should exclude the pair, got %v", records)
	}
}

func TestAssignInjective(t *testing.T) {
	// Both primaries prefer BV1; the first in input order claims it, the
	// second falls back to its best remaining candidate.
	primaries := []Primary{
		{ID: "yt1", Title: "Osaka street food tour"},
		{ID: "yt2", Title: "Osaka street food tour part 2"},
	}
	secondaries := []Secondary{
		{BVID: "BV1", AID: 1, Title: "Osaka street food tour"},
		{BVID: "BV2", AID: 2, Title: "Osaka street food tour part 2"},
	}

	records := Assign(primaries, secondaries, 0.5)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	seen := make(map[string]string)
	for _, r := range records {
		if prev, dup := seen[r.BilibiliBVID]; dup {
			t.Fatalf("secondary %s claimed by both %s and %s", r.BilibiliBVID, prev, r.YouTubeID)
		}
		seen[r.BilibiliBVID] = r.YouTubeID
	}
	if seen["BV1"] != "yt1" || seen["BV2"] != "yt2" {
		t.Errorf("assignment = %v, want yt1->BV1 yt2->BV2", seen)
	}
}

func TestAssignGreedyOrderDependent(t *testing.T) {
	// yt1 comes first and claims the only secondary even though yt2 scores a
	// perfect match. Accepted behavior: human review is the correction step.
	primaries := []Primary{
		{ID: "yt1", Title: "Kyoto temples guide extended"},
		{ID: "yt2", Title: "Kyoto temples guide"},
	}
	secondaries := []Secondary{
		{BVID: "BV1", AID: 1, Title: "Kyoto temples guide"},
	}

	records := Assign(primaries, secondaries, 0.5)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].YouTubeID != "yt1" {
		t.Errorf("first primary in input order should win, got %s", records[0].YouTubeID)
	}
}

func TestAssignUsesMatchTitle(t *testing.T) {
	// The optimized title shares nothing with the Bilibili title; the
	// recorded original does.
	primaries := []Primary{{
		ID:         "yt1",
		Title:      "ULTIMATE Shibuya Walking Guide you MUST see",
		MatchTitle: "Tokyo Day 1 Shibuya Walk",
	}}
	secondaries := []Secondary{{BVID: "BV1", AID: 1, Title: "Tokyo Day 1 Shibuya 散步"}}

	records := Assign(primaries, secondaries, 0.5)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	// The record still carries the current title for display.
	if records[0].YouTubeTitle != primaries[0].Title {
		t.Errorf("record title = %q, want current title", records[0].YouTubeTitle)
	}
}

func TestAssignSortedBySimilarity(t *testing.T) {
	primaries := []Primary{
		{ID: "weak", Title: "Nara deer park half day"},
		{ID: "exact", Title: "Hakone onsen weekend"},
	}
	secondaries := []Secondary{
		{BVID: "BVw", AID: 1, Title: "Nara deer park day trip"},
		{BVID: "BVe", AID: 2, Title: "Hakone onsen weekend"},
	}

	records := Assign(primaries, secondaries, 0.5)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].YouTubeID != "exact" {
		t.Errorf("output should be sorted by descending similarity, got %s first", records[0].YouTubeID)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		similarity float64
		want       string
	}{
		{1.0, ConfidenceHigh},
		{0.9, ConfidenceHigh},
		{0.89, ConfidenceMedium},
		{0.7, ConfidenceMedium},
		{0.69, ConfidenceLow},
		{0.5, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := Band(tt.similarity); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.similarity, got, tt.want)
		}
	}
}

func TestBatchRoundTripAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bilibili_matches.json")

	records := []Record{
		{YouTubeID: "yt1", BilibiliBVID: "BV1", BilibiliAID: 1, Similarity: 0.95},
		{YouTubeID: "yt2", BilibiliBVID: "BV2", BilibiliAID: 2, Similarity: 0.72},
		{YouTubeID: "yt3", BilibiliBVID: "BV3", BilibiliAID: 3, Similarity: 0.55},
	}
	batch := NewBatch(records, 1, time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))
	if err := SaveBatch(path, batch); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadBatch(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != batch.ID || len(loaded.Matches) != 3 || loaded.OriginalTitlesUsed != 1 {
		t.Errorf("batch not preserved: %+v", loaded)
	}

	byConfidence := loaded.Filter(0.7, "")
	if len(byConfidence) != 2 {
		t.Errorf("filter >=0.7 returned %d records, want 2", len(byConfidence))
	}

	byID := loaded.Filter(0.99, "yt3")
	if len(byID) != 1 || byID[0].YouTubeID != "yt3" {
		t.Errorf("filter by id = %v, want yt3 only", byID)
	}
}

func TestLoadBatchAbsent(t *testing.T) {
	_, err := LoadBatch(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrNoBatch) {
		t.Errorf("expected ErrNoBatch, got %v", err)
	}
}
