package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/tracking"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-metadata",
	Short: "Fetch platform stats for ledger entries that lack them",
	Long: `Older ledger entries were written before platform stats were cached
alongside them. This fetches publish date, duration and counters from the
API for every entry without stats and saves them into the ledger.`,
	RunE: runBackfill,
}

func runBackfill(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ledger, err := loadLedger()
	if err != nil {
		return err
	}

	missing := ledger.MissingInfo()
	if len(missing) == 0 {
		fmt.Println("All tracked videos already have metadata. Nothing to backfill.")
		return nil
	}
	fmt.Printf("Found %d video(s) without metadata.\n", len(missing))

	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}

	updated, failed := 0, 0
	for i, id := range missing {
		fmt.Printf("Fetching metadata %d/%d: %s\n", i+1, len(missing), id)

		video, err := yt.GetVideo(ctx, id)
		if err != nil {
			fmt.Printf("✗ %v\n", err)
			failed++
			continue
		}

		ok, err := ledger.BackfillInfo(id, tracking.VideoInfo{
			PublishedAt: video.PublishedAt,
			Duration:    video.Duration,
			ViewCount:   video.ViewCount,
			LikeCount:   video.LikeCount,
		})
		if err != nil {
			return err
		}
		if ok {
			updated++
		}
	}

	fmt.Printf("\nBackfill completed: %d updated", updated)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}
