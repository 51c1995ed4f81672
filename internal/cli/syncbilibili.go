package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/bilibili"
	"github.com/yuwenliu/ytman/internal/match"
	"github.com/yuwenliu/ytman/internal/review"
	"github.com/yuwenliu/ytman/internal/syncer"
)

var (
	syncMinConfidence    float64
	syncAutoApply        bool
	syncYouTubeID        string
	syncDescLimit        int
	syncSimpleTruncation bool
)

var syncBilibiliCmd = &cobra.Command{
	Use:   "sync-bilibili",
	Short: "Propagate YouTube metadata to matched Bilibili videos",
	Long: `Update Bilibili titles, descriptions and tags from the matching YouTube
videos, using the match batch produced by 'match-bilibili'.

Descriptions are compressed to Bilibili's character budget with the LLM by
default; --simple-truncation switches to plain sentence-boundary truncation.
Most Bilibili categories cap descriptions at 250 characters, some at 2000;
adjust --desc-limit accordingly.`,
	RunE: runSyncBilibili,
}

func init() {
	syncBilibiliCmd.Flags().Float64Var(&syncMinConfidence, "min-confidence", 0.7, "minimum similarity confidence (0.0-1.0)")
	syncBilibiliCmd.Flags().BoolVar(&syncAutoApply, "auto-apply", false, "sync all matches above the threshold without review")
	syncBilibiliCmd.Flags().StringVar(&syncYouTubeID, "youtube-id", "", "sync only a specific YouTube video ID")
	syncBilibiliCmd.Flags().IntVar(&syncDescLimit, "desc-limit", bilibili.DefaultDescLimit, "Bilibili description character limit")
	syncBilibiliCmd.Flags().BoolVar(&syncSimpleTruncation, "simple-truncation", false, "truncate instead of LLM compression")
}

func runSyncBilibili(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	batch, err := match.LoadBatch(cfg.MatchPath())
	if err != nil {
		if errors.Is(err, match.ErrNoBatch) {
			return fmt.Errorf("no match batch at %s: run 'match-bilibili' first", cfg.MatchPath())
		}
		return err
	}

	bili, err := getBilibili()
	if err != nil {
		return err
	}
	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}
	opt, err := getOptimizer()
	if err != nil {
		return err
	}

	var reviewer review.Reviewer
	if syncAutoApply {
		reviewer = review.NewAutoApprove(os.Stdout)
	} else {
		reviewer = review.NewTerminal(os.Stdin, os.Stdout)
	}

	s := &syncer.Syncer{
		Primary:    yt,
		Secondary:  bili,
		Compressor: opt,
		Reviewer:   reviewer,
	}

	summary, err := s.Run(ctx, batch, syncer.Options{
		MinConfidence:    syncMinConfidence,
		YouTubeID:        syncYouTubeID,
		DescLimit:        syncDescLimit,
		SimpleTruncation: syncSimpleTruncation,
	})
	if err != nil {
		return err
	}

	writeSyncSummary(os.Stdout, summary)
	return nil
}

// writeSyncSummary always prints all three counts, even when zero.
func writeSyncSummary(w io.Writer, summary syncer.Summary) {
	if summary.Quit {
		fmt.Fprintln(w, "\nSync cancelled.")
	} else {
		fmt.Fprintln(w, "\nSync completed!")
	}
	fmt.Fprintf(w, "Synced: %d, skipped: %d, failed: %d\n", summary.Synced, summary.Skipped, summary.Failed)
}
