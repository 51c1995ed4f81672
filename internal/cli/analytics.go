package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuwenliu/ytman/internal/analytics"
)

var (
	analyticsDays         int
	analyticsVideoLimit   int
	analyticsGrowthDays   int
	analyticsSaveSnapshot bool
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show channel and per-video performance statistics",
	Long: `Fetch current channel statistics and recent video statistics, and report
growth, top performers, and underperforming videos from the locally stored
snapshot history. Use --save-snapshot to append the current statistics to
the history; growth figures need at least two saved snapshots.`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 28, "reporting period in days")
	analyticsCmd.Flags().IntVar(&analyticsVideoLimit, "video-limit", 50, "number of recent videos to sample")
	analyticsCmd.Flags().IntVar(&analyticsGrowthDays, "growth-days", 7, "growth comparison window in days")
	analyticsCmd.Flags().BoolVar(&analyticsSaveSnapshot, "save-snapshot", false, "record the current statistics in the snapshot history")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	yt, err := getYouTube(ctx)
	if err != nil {
		return err
	}

	history, err := analytics.Load(cfg.AnalyticsPath(), nil)
	if err != nil {
		return err
	}

	fmt.Println("Fetching channel statistics...")
	channel, err := yt.GetChannelStats(ctx)
	if err != nil {
		return err
	}
	videos, err := yt.RecentVideoStats(ctx, analyticsVideoLimit)
	if err != nil {
		return err
	}

	if analyticsSaveSnapshot {
		if err := history.RecordSnapshot(channel, videos); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Printf("Snapshot saved (%d total)\n", history.SnapshotCount())
	}

	fmt.Printf("\nPerformance report (last %d days, %d videos sampled)\n", analyticsDays, len(videos))
	fmt.Printf("\nChannel: %s\n", channel.Title)
	fmt.Printf("  Subscribers: %d\n", channel.Subscribers)
	fmt.Printf("  Total views: %d\n", channel.Views)
	fmt.Printf("  Videos:      %d\n", channel.VideoCount)

	growth, err := history.Growth(analyticsGrowthDays)
	switch {
	case errors.Is(err, analytics.ErrInsufficientHistory):
		fmt.Printf("\nGrowth: not enough history yet (need at least 2 snapshots, have %d)\n", history.SnapshotCount())
	case err != nil:
		return err
	default:
		fmt.Printf("\nGrowth over the last %d days (%d snapshots):\n", growth.PeriodDays, growth.SnapshotsCompared)
		fmt.Printf("  Views:       %+d (%d -> %d)\n", growth.ViewsGrowth, growth.OldTotalViews, growth.NewTotalViews)
		fmt.Printf("  Engagement:  %+d\n", growth.EngagementGrowth)
		fmt.Printf("  Subscribers: %+d (%d -> %d)\n", growth.SubscriberGrowth, growth.OldSubscribers, growth.NewSubscribers)
	}

	top, err := history.TopPerforming(analytics.MetricViews, 5)
	if err != nil {
		return err
	}
	if len(top) > 0 {
		fmt.Println("\nTop performing videos (by views):")
		for i, s := range top {
			fmt.Printf("  %d. %s\n     %d views, %d likes, %.2f%% engagement\n",
				i+1, s.Title, s.Views, s.Likes, s.EngagementRate)
		}
	}

	under := history.Underperforming(25, 5)
	if len(under) > 0 {
		fmt.Println("\nUnderperforming videos (bottom quartile by views):")
		for _, s := range under {
			fmt.Printf("  - %s\n    %d views, %.2f%% engagement\n", s.Title, s.Views, s.EngagementRate)
		}
	}

	if history.SnapshotCount() == 0 {
		fmt.Println("\nNo snapshot history yet. Run with --save-snapshot to start tracking.")
	}
	return nil
}
