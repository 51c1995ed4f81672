package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/tracking"
)

var markVideoIDs string

var markToolGeneratedCmd = &cobra.Command{
	Use:   "mark-tool-generated",
	Short: "Mark videos as tool-generated so batch runs skip them",
	Long: `Mark videos that were published with good metadata from the start.
They are recorded in the tracking ledger without generating anything and
excluded from future batch updates.

Example:
  ytman mark-tool-generated --video-ids "abc123,def456"`,
	RunE: runMarkToolGenerated,
}

func init() {
	markToolGeneratedCmd.Flags().StringVar(&markVideoIDs, "video-ids", "", "comma-separated video IDs (required)")
	markToolGeneratedCmd.MarkFlagRequired("video-ids")
}

func runMarkToolGenerated(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ledger, err := loadLedger()
	if err != nil {
		return err
	}
	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}

	marked := 0
	for _, id := range strings.Split(markVideoIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		video, err := yt.GetVideo(ctx, id)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", id, err)
			continue
		}

		err = ledger.MarkToolGenerated(id, video.Title, &tracking.VideoInfo{
			PublishedAt: video.PublishedAt,
			Duration:    video.Duration,
			ViewCount:   video.ViewCount,
			LikeCount:   video.LikeCount,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Marked as tool-generated: %s\n", video.Title)
		marked++
	}

	fmt.Printf("\nMarked %d video(s) as tool-generated. They will be skipped in future batch updates.\n", marked)
	return nil
}
