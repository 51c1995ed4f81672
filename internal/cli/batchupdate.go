package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/pipeline"
	"github.com/yuwenliu/ytman/internal/review"
	"github.com/yuwenliu/ytman/internal/seo"
	"github.com/yuwenliu/ytman/internal/tracking"
)

var (
	batchLimit     int
	batchVideoID   string
	batchAutoApply bool
	batchForce     bool
	batchParallel  int
)

var batchUpdateCmd = &cobra.Command{
	Use:   "batch-update",
	Short: "Generate and apply optimized metadata for channel videos",
	Long: `Fetch the channel's videos, generate bilingual SEO metadata for each one,
and apply updates after per-video review.

Videos already in the tracking ledger are skipped unless --force is set.
Generation runs a few videos ahead of the review prompt, so answering takes
no extra waiting.

Examples:
  ytman batch-update
  ytman batch-update --limit 10
  ytman batch-update --video-id dQw4w9WgXcQ --force`,
	RunE: runBatchUpdate,
}

func init() {
	batchUpdateCmd.Flags().IntVar(&batchLimit, "limit", 0, "limit number of videos to process")
	batchUpdateCmd.Flags().StringVar(&batchVideoID, "video-id", "", "process only a specific video ID")
	batchUpdateCmd.Flags().BoolVar(&batchAutoApply, "auto-apply", false, "apply all changes without review")
	batchUpdateCmd.Flags().BoolVar(&batchForce, "force", false, "re-process already tracked videos")
	batchUpdateCmd.Flags().IntVar(&batchParallel, "parallel", 3, "videos to generate in parallel")
}

func runBatchUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ledger, err := loadLedger()
	if err != nil {
		return err
	}
	fmt.Printf("Tracking file: %s\n", ledger.Path())

	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}
	opt, err := getOptimizer()
	if err != nil {
		return err
	}

	var videos []catalog.VideoRecord
	if batchVideoID != "" {
		video, err := yt.GetVideo(ctx, batchVideoID)
		if err != nil {
			return err
		}
		videos = []catalog.VideoRecord{video}
	} else {
		fmt.Println("Fetching videos from your channel...")
		videos, err = yt.ListMine(ctx, 0)
		if err != nil {
			return err
		}
	}
	total := len(videos)

	counts := ledger.Counts()
	fmt.Printf("\nChannel summary:\n")
	fmt.Printf("  Total videos:            %d\n", total)
	fmt.Printf("  Already optimized:       %d\n", counts.Optimized)
	fmt.Printf("  Tool-generated (skipped): %d\n", counts.ToolGenerated)

	if !batchForce {
		before := len(videos)
		videos = ledger.FilterUnprocessed(videos)
		if skipped := before - len(videos); skipped > 0 {
			fmt.Printf("Skipping %d already tracked video(s). Use --force to re-process them.\n", skipped)
		}
	}
	if batchLimit > 0 && len(videos) > batchLimit {
		videos = videos[:batchLimit]
	}
	if len(videos) == 0 {
		fmt.Println("No videos to process. All videos already tracked.")
		return nil
	}
	fmt.Printf("Processing %d video(s) in this run.\n", len(videos))

	var reviewer review.Reviewer
	if batchAutoApply {
		reviewer = review.NewAutoApprove(os.Stdout)
	} else {
		reviewer = review.NewTerminal(os.Stdin, os.Stdout)
	}

	p := &pipeline.Pipeline{
		Parallelism: batchParallel,
		Generate: func(ctx context.Context, v catalog.VideoRecord) (*catalog.MetadataDraft, error) {
			return opt.GenerateMetadata(ctx, seo.GenerateRequest{
				Title:                v.Title,
				Description:          v.Description,
				Tags:                 v.Tags,
				DefaultLanguage:      v.DefaultLanguage,
				DefaultAudioLanguage: v.DefaultAudioLanguage,
			})
		},
		Apply: func(ctx context.Context, v catalog.VideoRecord, draft *catalog.MetadataDraft) error {
			if err := yt.UpdateVideo(ctx, v.ID, draft); err != nil {
				return err
			}
			return ledger.MarkOptimized(v.ID, tracking.Snapshot{
				Title:       v.Title,
				Description: v.Description,
				Tags:        v.Tags,
			}, *draft, &tracking.VideoInfo{
				PublishedAt: v.PublishedAt,
				Duration:    v.Duration,
				ViewCount:   v.ViewCount,
				LikeCount:   v.LikeCount,
			})
		},
	}

	summary, err := p.Run(ctx, videos, reviewer)
	if err != nil {
		return err
	}

	writeBatchSummary(os.Stdout, summary, ledger.Counts(), total)
	return nil
}

// writeBatchSummary reports the run outcome. Every count is printed, zero or
// not, so runs are comparable at a glance.
func writeBatchSummary(w io.Writer, summary pipeline.Summary, final tracking.Counts, total int) {
	if summary.Quit {
		fmt.Fprintln(w, "\nBatch update stopped by user.")
	} else {
		fmt.Fprintln(w, "\nBatch update completed!")
	}
	fmt.Fprintf(w, "Optimized in this run: %d video(s)\n", summary.Recorded)
	fmt.Fprintf(w, "Skipped by review:     %d video(s)\n", summary.Skipped)
	fmt.Fprintf(w, "Failed:                %d video(s)\n", summary.Failed)
	fmt.Fprintf(w, "Total tracked:         %d (optimized %d, tool-generated %d)\n",
		final.Total, final.Optimized, final.ToolGenerated)
	fmt.Fprintf(w, "Remaining to process:  %d\n", total-final.Total)
}
