package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/match"
)

var matchFloor float64

var matchBilibiliCmd = &cobra.Command{
	Use:   "match-bilibili",
	Short: "Match YouTube videos with Bilibili uploads by title similarity",
	Long: `Fetch both catalogs and pair videos by fuzzy title similarity. For videos
whose titles were already rewritten by batch-update, the original
pre-optimization title from the ledger is used for matching.

The match batch is saved for the sync-bilibili and export-descriptions
commands to consume.`,
	RunE: runMatchBilibili,
}

func init() {
	matchBilibiliCmd.Flags().Float64Var(&matchFloor, "similarity-floor", match.DefaultFloor, "minimum similarity to record a match")
}

func runMatchBilibili(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	bili, err := getBilibili()
	if err != nil {
		return err
	}
	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}
	ledger, err := loadLedger()
	if err != nil {
		return err
	}

	fmt.Println("Fetching YouTube videos...")
	ytVideos, err := yt.ListMine(ctx, 0)
	if err != nil {
		return err
	}

	fmt.Println("Fetching Bilibili videos...")
	biliVideos, err := bili.ListVideos(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nFound %d YouTube videos and %d Bilibili videos.\n\n", len(ytVideos), len(biliVideos))

	primaries := make([]match.Primary, 0, len(ytVideos))
	originalTitles := 0
	for _, v := range ytVideos {
		p := match.Primary{ID: v.ID, Title: v.Title}
		if original := ledger.OriginalTitle(v.ID); original != "" {
			p.MatchTitle = original
			originalTitles++
		}
		primaries = append(primaries, p)
	}

	secondaries := make([]match.Secondary, 0, len(biliVideos))
	for _, v := range biliVideos {
		secondaries = append(secondaries, match.Secondary{BVID: v.BVID, AID: v.AID, Title: v.Title})
	}

	records := match.Assign(primaries, secondaries, matchFloor)
	fmt.Printf("Used original titles for %d optimized video(s)\n", originalTitles)
	fmt.Printf("Found %d potential matches:\n\n", len(records))

	for i, r := range records {
		fmt.Printf("Match %d: %s confidence (%.1f%%)\n", i+1, r.Confidence(), r.Similarity*100)
		fmt.Printf("  YouTube:  %s\n", r.YouTubeTitle)
		fmt.Printf("  Bilibili: %s\n", r.BilibiliTitle)
		fmt.Printf("  YouTube ID: %s | Bilibili BVID: %s\n\n", r.YouTubeID, r.BilibiliBVID)
	}

	batch := match.NewBatch(records, originalTitles, time.Now())
	if err := match.SaveBatch(cfg.MatchPath(), batch); err != nil {
		return err
	}
	fmt.Printf("Matches saved to: %s\n", cfg.MatchPath())
	fmt.Println("Use them with the 'sync-bilibili' command.")
	return nil
}
