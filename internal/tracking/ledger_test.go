package tracking

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/storage"
	"github.com/yuwenliu/ytman/internal/testutil"
)

func tempLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processed_videos.json")
	l, err := Load(path, testutil.FixedClock())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return l, path
}

func TestLoadAbsentIsEmpty(t *testing.T) {
	l, _ := tempLedger(t)
	if c := l.Counts(); c.Total != 0 {
		t.Errorf("fresh ledger total = %d, want 0", c.Total)
	}
}

func TestLoadMalformedFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_videos.json")
	if err := os.WriteFile(path, []byte("][garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); !errors.Is(err, storage.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestMarkOptimizedIdempotency(t *testing.T) {
	l, _ := tempLedger(t)

	before := Snapshot{Title: "东京第一天", Description: "原描述", Tags: []string{"旅行"}}
	after := catalog.MetadataDraft{
		Title:       "东京第一天：涩谷散步攻略",
		Description: "优化后的描述\n\n---\n\nEnglish section",
		Tags:        []string{"旅行", "tokyo"},
		Hashtags:    []string{"#东京", "#TravelJapan"},
	}
	if err := l.MarkOptimized("vid1", before, after, nil); err != nil {
		t.Fatal(err)
	}

	if !l.IsProcessed("vid1") {
		t.Error("vid1 should be processed after MarkOptimized")
	}

	videos := []catalog.VideoRecord{{ID: "vid1"}, {ID: "vid2"}, {ID: "vid3"}}
	remaining := l.FilterUnprocessed(videos)
	if len(remaining) != 2 || remaining[0].ID != "vid2" || remaining[1].ID != "vid3" {
		t.Errorf("FilterUnprocessed = %v, want vid2,vid3", remaining)
	}
}

func TestRoundTrip(t *testing.T) {
	l, path := tempLedger(t)

	before := Snapshot{Title: "t", Description: "d", Tags: []string{"a", "b"}}
	after := catalog.MetadataDraft{Title: "t2", Description: "d2", Tags: []string{"c"}, Hashtags: []string{"#x"}}
	if err := l.MarkOptimized("vid1", before, after, &VideoInfo{Duration: "PT8M", ViewCount: 42}); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkToolGenerated("vid2", "already good", nil); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	e1 := reloaded.Get("vid1")
	if e1 == nil {
		t.Fatal("vid1 missing after reload")
	}
	if e1.EffectiveStatus() != StatusOptimized {
		t.Errorf("vid1 status = %q", e1.EffectiveStatus())
	}
	if e1.Before.Title != "t" || e1.After.Title != "t2" || len(e1.After.Hashtags) != 1 {
		t.Errorf("vid1 snapshots not preserved: %+v", e1)
	}
	if e1.VideoInfo == nil || e1.VideoInfo.ViewCount != 42 {
		t.Errorf("vid1 video info not preserved: %+v", e1.VideoInfo)
	}

	e2 := reloaded.Get("vid2")
	if e2 == nil || e2.EffectiveStatus() != StatusToolGenerated || e2.Title != "already good" {
		t.Errorf("vid2 not preserved: %+v", e2)
	}
}

func TestCountsLegacyStatus(t *testing.T) {
	l, _ := tempLedger(t)

	if err := l.MarkOptimized("a", Snapshot{Title: "x"}, catalog.MetadataDraft{Title: "y"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkToolGenerated("b", "title", nil); err != nil {
		t.Fatal(err)
	}
	// Legacy entry written before the status field existed.
	l.entries["c"] = &Entry{Before: &Snapshot{Title: "old"}}

	c := l.Counts()
	if c.Total != 3 || c.Optimized != 2 || c.ToolGenerated != 1 {
		t.Errorf("counts = %+v, want total=3 optimized=2 tool=1", c)
	}
}

func TestRemoveAndClear(t *testing.T) {
	l, path := tempLedger(t)

	if err := l.MarkToolGenerated("a", "t", nil); err != nil {
		t.Fatal(err)
	}
	removed, err := l.Remove("a")
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	if removed, _ := l.Remove("a"); removed {
		t.Error("second remove should report not present")
	}

	if err := l.MarkToolGenerated("b", "t", nil); err != nil {
		t.Fatal(err)
	}
	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c := reloaded.Counts(); c.Total != 0 {
		t.Errorf("total after clear+reload = %d, want 0", c.Total)
	}
}

func TestOriginalTitle(t *testing.T) {
	l, _ := tempLedger(t)

	if got := l.OriginalTitle("missing"); got != "" {
		t.Errorf("original title for missing entry = %q", got)
	}

	if err := l.MarkToolGenerated("tool", "tool title", nil); err != nil {
		t.Fatal(err)
	}
	if got := l.OriginalTitle("tool"); got != "" {
		t.Errorf("tool_generated entry has no before snapshot, got %q", got)
	}

	if err := l.MarkOptimized("opt", Snapshot{Title: "the original"}, catalog.MetadataDraft{Title: "rewritten"}, nil); err != nil {
		t.Fatal(err)
	}
	if got := l.OriginalTitle("opt"); got != "the original" {
		t.Errorf("original title = %q, want %q", got, "the original")
	}
}

func TestBackfillInfo(t *testing.T) {
	l, _ := tempLedger(t)

	if err := l.MarkToolGenerated("a", "t", nil); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkToolGenerated("b", "t", &VideoInfo{Duration: "PT1M"}); err != nil {
		t.Fatal(err)
	}

	missing := l.MissingInfo()
	if len(missing) != 1 || missing[0] != "a" {
		t.Errorf("missing info = %v, want [a]", missing)
	}

	updated, err := l.BackfillInfo("a", VideoInfo{ViewCount: 7})
	if err != nil || !updated {
		t.Fatalf("backfill = %v, %v", updated, err)
	}
	if updated, _ := l.BackfillInfo("b", VideoInfo{}); updated {
		t.Error("backfill should skip entries that already have info")
	}
	if l.Get("a").VideoInfo.ViewCount != 7 {
		t.Error("backfilled info not stored")
	}
}
