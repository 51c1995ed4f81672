package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/bilibili"
	"github.com/yuwenliu/ytman/internal/match"
	"github.com/yuwenliu/ytman/internal/syncer"
)

var (
	exportMinConfidence float64
	exportDescLimit     int
	exportOutput        string
)

var exportDescriptionsCmd = &cobra.Command{
	Use:   "export-descriptions",
	Short: "Write compressed descriptions to a file for manual Bilibili updates",
	Long: `Bilibili's edit API rejects some videos outright. This generates the
compressed description for every match and writes them to a text file with
edit-page links, ready for manual copy-paste in the Bilibili studio.`,
	RunE: runExportDescriptions,
}

func init() {
	exportDescriptionsCmd.Flags().Float64Var(&exportMinConfidence, "min-confidence", 0.7, "minimum similarity confidence (0.0-1.0)")
	exportDescriptionsCmd.Flags().IntVar(&exportDescLimit, "desc-limit", bilibili.DefaultDescLimit, "Bilibili description character limit")
	exportDescriptionsCmd.Flags().StringVar(&exportOutput, "output", "bilibili_sync_manual.txt", "output file")
}

func runExportDescriptions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	batch, err := match.LoadBatch(cfg.MatchPath())
	if err != nil {
		if errors.Is(err, match.ErrNoBatch) {
			return fmt.Errorf("no match batch at %s: run 'match-bilibili' first", cfg.MatchPath())
		}
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

	s := &syncer.Syncer{Primary: yt, Compressor: opt}
	n, err := s.ExportDescriptions(ctx, batch, exportMinConfidence, exportDescLimit, exportOutput)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d compressed description(s).\n", n)
	fmt.Printf("Output file: %s\n\n", exportOutput)
	fmt.Println("For each video, open the edit link, paste the description, and save.")
	return nil
}
