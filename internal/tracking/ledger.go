// Package tracking records which videos have been processed, with full
// before/after snapshots. The ledger is the single source of truth for
// idempotency: a video id present here is skipped by later runs unless the
// operator forces reprocessing.
package tracking

import (
	"fmt"
	"time"

	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/ratelimit"
	"github.com/yuwenliu/ytman/internal/storage"
)

// Status tags how a video entered the ledger.
type Status string

const (
	// StatusOptimized marks a video whose metadata was rewritten by the
	// batch-update flow; the entry carries the full before/after state.
	StatusOptimized Status = "optimized"
	// StatusToolGenerated marks a video published with good metadata from the
	// start. It is excluded from processing without ever generating a draft.
	StatusToolGenerated Status = "tool_generated"
)

// Snapshot is the pre-optimization state of a video's editable metadata.
type Snapshot struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// VideoInfo caches platform stats alongside an entry.
type VideoInfo struct {
	PublishedAt time.Time `json:"published_at,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	ViewCount   uint64    `json:"view_count,omitempty"`
	LikeCount   uint64    `json:"like_count,omitempty"`
}

// Entry is one processed video. Older ledger files predate the status field;
// entries without one count as optimized.
type Entry struct {
	Status      Status                 `json:"status,omitempty"`
	ProcessedAt time.Time              `json:"processed_at"`
	Title       string                 `json:"title,omitempty"` // tool_generated entries keep only the title
	Before      *Snapshot              `json:"before,omitempty"`
	After       *catalog.MetadataDraft `json:"after,omitempty"`
	VideoInfo   *VideoInfo             `json:"video_info,omitempty"`
}

// EffectiveStatus resolves the legacy missing-status case.
func (e *Entry) EffectiveStatus() Status {
	if e.Status == "" {
		return StatusOptimized
	}
	return e.Status
}

// Counts summarizes ledger membership.
type Counts struct {
	Total         int
	Optimized     int
	ToolGenerated int
}

// Ledger is a durable map of video id to Entry. Every mutation flushes through
// the document store before returning, so a crash loses at most the in-flight
// item. Single writer per run; concurrent writers are not supported.
type Ledger struct {
	doc     *storage.Document
	entries map[string]*Entry
	clock   ratelimit.Clock
}

// Load opens the ledger at path. An absent file yields an empty ledger; a
// malformed file is a fatal error. A nil clock uses the system clock.
func Load(path string, clock ratelimit.Clock) (*Ledger, error) {
	if clock == nil {
		clock = ratelimit.RealClock{}
	}
	l := &Ledger{
		doc:     storage.NewDocument(path, "ledger"),
		entries: make(map[string]*Entry),
		clock:   clock,
	}
	if _, err := l.doc.Load(&l.entries); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l, nil
}

// Path returns the backing file path.
func (l *Ledger) Path() string { return l.doc.Path() }

// IsProcessed reports whether a video id is in the ledger.
func (l *Ledger) IsProcessed(videoID string) bool {
	_, ok := l.entries[videoID]
	return ok
}

// Get returns the entry for a video id, or nil.
func (l *Ledger) Get(videoID string) *Entry {
	return l.entries[videoID]
}

// MarkOptimized records a rewritten video with its before/after state and
// flushes immediately. An existing entry is overwritten.
func (l *Ledger) MarkOptimized(videoID string, before Snapshot, after catalog.MetadataDraft, info *VideoInfo) error {
	l.entries[videoID] = &Entry{
		Status:      StatusOptimized,
		ProcessedAt: l.clock.Now(),
		Before:      &before,
		After:       &after,
		VideoInfo:   info,
	}
	return l.flush()
}

// MarkToolGenerated records a video as intentionally excluded from future
// processing and flushes immediately.
func (l *Ledger) MarkToolGenerated(videoID, title string, info *VideoInfo) error {
	l.entries[videoID] = &Entry{
		Status:      StatusToolGenerated,
		ProcessedAt: l.clock.Now(),
		Title:       title,
		VideoInfo:   info,
	}
	return l.flush()
}

// BackfillInfo attaches platform stats to an existing entry that lacks them.
// Returns false if the entry is absent or already has info.
func (l *Ledger) BackfillInfo(videoID string, info VideoInfo) (bool, error) {
	entry, ok := l.entries[videoID]
	if !ok || entry.VideoInfo != nil {
		return false, nil
	}
	entry.VideoInfo = &info
	return true, l.flush()
}

// IDs lists every tracked video id, in map order.
func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	return ids
}

// MissingInfo lists ids of entries without cached platform stats.
func (l *Ledger) MissingInfo() []string {
	var ids []string
	for id, entry := range l.entries {
		if entry.VideoInfo == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// OriginalTitle returns the pre-optimization title recorded for a video, or
// "" when none exists. The matcher uses it so optimized titles still match
// their cross-platform counterparts.
func (l *Ledger) OriginalTitle(videoID string) string {
	entry, ok := l.entries[videoID]
	if !ok || entry.Before == nil {
		return ""
	}
	return entry.Before.Title
}

// Counts tallies entries by status.
func (l *Ledger) Counts() Counts {
	c := Counts{Total: len(l.entries)}
	for _, entry := range l.entries {
		switch entry.EffectiveStatus() {
		case StatusToolGenerated:
			c.ToolGenerated++
		default:
			c.Optimized++
		}
	}
	return c
}

// Remove deletes a video from the ledger so it can be reprocessed.
// Returns false if it was not present.
func (l *Ledger) Remove(videoID string) (bool, error) {
	if _, ok := l.entries[videoID]; !ok {
		return false, nil
	}
	delete(l.entries, videoID)
	return true, l.flush()
}

// Clear removes every entry.
func (l *Ledger) Clear() error {
	l.entries = make(map[string]*Entry)
	return l.flush()
}

// FilterUnprocessed returns the videos not yet in the ledger, preserving order.
func (l *Ledger) FilterUnprocessed(videos []catalog.VideoRecord) []catalog.VideoRecord {
	out := make([]catalog.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if !l.IsProcessed(v.ID) {
			out = append(out, v)
		}
	}
	return out
}

func (l *Ledger) flush() error {
	if err := l.doc.Save(l.entries); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}
