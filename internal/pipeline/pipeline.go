// Package pipeline runs metadata generation with bounded parallelism and
// strictly ordered consumption: at most Parallelism generation calls are in
// flight at once, and videos are handed to the reviewer in input order. A
// slow reviewer never blocks background generation, and generation never runs
// more than one window ahead of review.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/review"
)

const defaultParallelism = 3

// GenerateFunc produces a draft for one video. Called from worker goroutines.
type GenerateFunc func(ctx context.Context, video catalog.VideoRecord) (*catalog.MetadataDraft, error)

// ApplyFunc commits an approved draft: the catalog update plus the ledger
// write. Called sequentially from the consumer.
type ApplyFunc func(ctx context.Context, video catalog.VideoRecord, draft *catalog.MetadataDraft) error

// Summary reports the per-video outcomes of a run.
type Summary struct {
	Recorded int
	Skipped  int
	Failed   int
	Quit     bool
}

// Pipeline drives generation for an ordered list of videos.
type Pipeline struct {
	Parallelism int
	Generate    GenerateFunc
	Apply       ApplyFunc
}

type result struct {
	draft *catalog.MetadataDraft
	err   error
}

// Run processes videos in order, presenting each generated draft to the
// reviewer. Generation failures skip the video and continue. A Quit decision
// stops new submissions; results of tasks already in flight are discarded.
// The input must already be filtered for previously processed videos.
func (p *Pipeline) Run(ctx context.Context, videos []catalog.VideoRecord, reviewer review.Reviewer) (Summary, error) {
	window := p.Parallelism
	if window <= 0 {
		window = defaultParallelism
	}

	// One buffered channel per video so an abandoned worker never blocks.
	results := make([]chan result, len(videos))
	submit := func(i int) {
		results[i] = make(chan result, 1)
		go func() {
			draft, err := p.Generate(ctx, videos[i])
			results[i] <- result{draft: draft, err: err}
		}()
	}

	for i := 0; i < window && i < len(videos); i++ {
		submit(i)
	}

	var s Summary
	for i, video := range videos {
		res := <-results[i]

		// Keep the window full before handing over to the reviewer, so
		// generation proceeds while the human reads.
		if next := i + window; next < len(videos) {
			submit(next)
		}

		if res.err != nil {
			slog.Error("metadata generation failed", "video", video.ID, "error", res.err)
			s.Failed++
			continue
		}

		decision, err := reviewer.Present(review.Comparison{
			VideoID:     video.ID,
			Position:    i + 1,
			Total:       len(videos),
			Title:       video.Title,
			Description: video.Description,
			Tags:        video.Tags,
			Draft:       res.draft,
		})
		if err != nil {
			return s, err
		}

		switch decision {
		case review.Approve:
			if err := p.Apply(ctx, video, res.draft); err != nil {
				slog.Error("applying approved update failed", "video", video.ID, "error", err)
				s.Failed++
				continue
			}
			s.Recorded++
		case review.Reject:
			slog.Info("update skipped by reviewer", "video", video.ID)
			s.Skipped++
		case review.Quit:
			s.Quit = true
			return s, nil
		}
	}

	return s, nil
}
