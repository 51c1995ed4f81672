package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/tracking"
)

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Inspect or edit the processing ledger",
	Long: `Inspect the ledger of processed videos, remove single entries so they can
be re-processed, or clear the ledger entirely.

Examples:
  ytman tracking status
  ytman tracking untrack abc123
  ytman tracking clear`,
	RunE: runTrackingStatus,
}

var trackingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger counts and entries",
	RunE:  runTrackingStatus,
}

var trackingUntrackCmd = &cobra.Command{
	Use:   "untrack <video-id>",
	Short: "Remove one video from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackingUntrack,
}

var trackingClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every ledger entry",
	RunE:  runTrackingClear,
}

var trackingClearConfirmed bool

func init() {
	trackingClearCmd.Flags().BoolVar(&trackingClearConfirmed, "yes", false, "skip the confirmation prompt")

	trackingCmd.AddCommand(trackingStatusCmd)
	trackingCmd.AddCommand(trackingUntrackCmd)
	trackingCmd.AddCommand(trackingClearCmd)
}

func runTrackingStatus(cmd *cobra.Command, args []string) error {
	ledger, err := loadLedger()
	if err != nil {
		return err
	}

	counts := ledger.Counts()
	fmt.Printf("Tracking file: %s\n\n", ledger.Path())
	fmt.Printf("Tracked videos: %d\n", counts.Total)
	fmt.Printf("  Optimized:      %d\n", counts.Optimized)
	fmt.Printf("  Tool-generated: %d\n", counts.ToolGenerated)

	if !verbose || counts.Total == 0 {
		return nil
	}

	fmt.Println()
	for _, id := range sortedLedgerIDs(ledger) {
		entry := ledger.Get(id)
		title := entry.Title
		if entry.Before != nil {
			title = entry.Before.Title
		}
		fmt.Printf("- %s [%s] %s (%s)\n",
			id, entry.EffectiveStatus(), title, entry.ProcessedAt.Format("2006-01-02"))
	}
	return nil
}

func runTrackingUntrack(cmd *cobra.Command, args []string) error {
	ledger, err := loadLedger()
	if err != nil {
		return err
	}

	removed, err := ledger.Remove(args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("Video %s is not tracked.\n", args[0])
		return nil
	}
	fmt.Printf("Removed %s from tracking. It will be re-processed by the next batch update.\n", args[0])
	return nil
}

func runTrackingClear(cmd *cobra.Command, args []string) error {
	ledger, err := loadLedger()
	if err != nil {
		return err
	}

	counts := ledger.Counts()
	if counts.Total == 0 {
		fmt.Println("Ledger is already empty.")
		return nil
	}
	if !trackingClearConfirmed {
		return fmt.Errorf("refusing to drop %d tracked video(s); re-run with --yes to confirm", counts.Total)
	}

	if err := ledger.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d ledger entr(ies).\n", counts.Total)
	return nil
}

func sortedLedgerIDs(ledger *tracking.Ledger) []string {
	ids := ledger.IDs()
	sort.Strings(ids)
	return ids
}
