// Package syncer propagates metadata from matched YouTube videos to their
// Bilibili counterparts, squeezing bilingual descriptions into the secondary
// platform's budgets.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuwenliu/ytman/internal/bilibili"
	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/match"
	"github.com/yuwenliu/ytman/internal/review"
	"github.com/yuwenliu/ytman/internal/seo"
)

// PrimarySource fetches fresh metadata from the primary platform.
type PrimarySource interface {
	GetVideo(ctx context.Context, id string) (catalog.VideoRecord, error)
}

// SecondarySink writes metadata to the secondary platform.
type SecondarySink interface {
	UpdateVideo(ctx context.Context, aid int64, title, description string, tags []string) error
}

// Compressor shrinks a description to a character budget.
type Compressor interface {
	CompressDescription(ctx context.Context, text string, maxLen int, title string) (string, error)
}

// Options tune one sync run.
type Options struct {
	MinConfidence    float64
	YouTubeID        string // narrow the run to one video
	DescLimit        int    // defaults to bilibili.DefaultDescLimit
	SimpleTruncation bool   // sentence-boundary truncation instead of LLM compression
}

// Summary reports the outcomes of a sync run.
type Summary struct {
	Synced  int
	Skipped int
	Failed  int
	Quit    bool
}

// Syncer drives one YouTube-to-Bilibili propagation run.
type Syncer struct {
	Primary    PrimarySource
	Secondary  SecondarySink
	Compressor Compressor
	Reviewer   review.Reviewer
}

// Run syncs every match at or above the confidence floor. Failures on one
// match are logged and the loop continues; there is no rollback.
func (s *Syncer) Run(ctx context.Context, batch *match.Batch, opts Options) (Summary, error) {
	matches := batch.Filter(opts.MinConfidence, opts.YouTubeID)
	if opts.YouTubeID != "" && len(matches) == 0 {
		return Summary{}, fmt.Errorf("no match found for video %s", opts.YouTubeID)
	}

	limit := opts.DescLimit
	if limit <= 0 {
		limit = bilibili.DefaultDescLimit
	}

	var sum Summary
	for i, m := range matches {
		video, description, tags, err := s.prepare(ctx, m, limit, opts.SimpleTruncation)
		if err != nil {
			slog.Error("preparing sync failed", "video", m.YouTubeID, "bvid", m.BilibiliBVID, "error", err)
			sum.Failed++
			continue
		}

		title := truncateRunes(video.Title, bilibili.TitleLimit)

		decision, err := s.Reviewer.Present(review.Comparison{
			VideoID:     m.BilibiliBVID,
			Position:    i + 1,
			Total:       len(matches),
			Title:       m.BilibiliTitle,
			Description: fmt.Sprintf("(current Bilibili metadata, similarity %.2f)", m.Similarity),
			Draft: &catalog.MetadataDraft{
				Title:       title,
				Description: description,
				Tags:        tags,
			},
		})
		if err != nil {
			return sum, err
		}

		switch decision {
		case review.Reject:
			sum.Skipped++
			continue
		case review.Quit:
			sum.Quit = true
			return sum, nil
		}

		if err := s.Secondary.UpdateVideo(ctx, m.BilibiliAID, title, description, tags); err != nil {
			slog.Error("bilibili update failed", "aid", m.BilibiliAID, "error", err)
			sum.Failed++
			continue
		}
		slog.Info("video synced", "youtube", m.YouTubeID, "bvid", m.BilibiliBVID)
		sum.Synced++
	}
	return sum, nil
}

func (s *Syncer) prepare(ctx context.Context, m match.Record, limit int, simple bool) (catalog.VideoRecord, string, []string, error) {
	video, err := s.Primary.GetVideo(ctx, m.YouTubeID)
	if err != nil {
		return catalog.VideoRecord{}, "", nil, err
	}

	section := ExtractPrimarySection(video.Description)

	var description string
	if simple {
		description, _ = seo.TruncateAtSentence(section, limit)
	} else {
		description, err = s.Compressor.CompressDescription(ctx, section, limit, video.Title)
		if err != nil {
			return catalog.VideoRecord{}, "", nil, err
		}
	}

	tags := video.Tags
	if len(tags) > bilibili.TagLimit {
		tags = tags[:bilibili.TagLimit]
	}
	return video, description, tags, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
