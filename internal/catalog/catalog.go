// Package catalog defines the platform-neutral video metadata types shared by
// the YouTube and Bilibili clients, the SEO optimizer, and the tracking ledger.
package catalog

import (
	"fmt"
	"time"
)

// VideoRecord is an immutable snapshot of a platform video as fetched from its
// catalog. Updates are never applied in place; they are expressed as a new
// MetadataDraft sent back through a Sink.
type VideoRecord struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Tags                 []string  `json:"tags,omitempty"`
	CategoryID           string    `json:"category_id,omitempty"`
	PublishedAt          time.Time `json:"published_at"`
	ViewCount            uint64    `json:"view_count"`
	LikeCount            uint64    `json:"like_count"`
	CommentCount         uint64    `json:"comment_count"`
	Duration             string    `json:"duration,omitempty"` // ISO-8601, e.g. PT12M34S
	DefaultLanguage      string    `json:"default_language,omitempty"`
	DefaultAudioLanguage string    `json:"default_audio_language,omitempty"`
}

// MetadataDraft is a generated candidate rewrite of a video's metadata.
// A draft is atomic: it is applied in full or not at all.
type MetadataDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Hashtags    []string `json:"hashtags,omitempty"`
}

// Validate checks that a draft crossing an external boundary (generator output,
// persisted file) carries the fields required before it may be applied.
func (d *MetadataDraft) Validate() error {
	if d == nil {
		return fmt.Errorf("draft is nil")
	}
	if d.Title == "" {
		return fmt.Errorf("draft missing title")
	}
	if d.Description == "" {
		return fmt.Errorf("draft missing description")
	}
	if len(d.Tags) == 0 {
		return fmt.Errorf("draft missing tags")
	}
	return nil
}
