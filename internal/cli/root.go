// Package cli provides the command-line interface for ytman.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuwenliu/ytman/internal/bilibili"
	"github.com/yuwenliu/ytman/internal/config"
	"github.com/yuwenliu/ytman/internal/ratelimit"
	"github.com/yuwenliu/ytman/internal/seo"
	"github.com/yuwenliu/ytman/internal/tracking"
	"github.com/yuwenliu/ytman/internal/youtube"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and shared collaborators
	cfg      config.Config
	closeLog func() error

	// Lazy-initialized clients
	ytClient  *youtube.Client
	optimizer *seo.Optimizer
	limiter   *ratelimit.Limiter
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ytman",
	Short: "Bilingual SEO manager for a YouTube channel",
	Long: `Ytman optimizes a channel's video metadata with LLM-generated bilingual
titles, descriptions and tags, tracks which videos were already processed,
mirrors metadata to the matching Bilibili uploads, and keeps a local
analytics history.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, closer := cfg.NewLogger(level)
		slog.SetDefault(logger)
		closeLog = closer

		limiter = ratelimit.New(cfg.LLMMaxRequests, cfg.LLMWindow(), nil)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getYouTube authenticates against the Data API on first use.
func getYouTube(ctx context.Context) (*youtube.Client, error) {
	if ytClient != nil {
		return ytClient, nil
	}

	service, err := youtube.NewService(ctx, cfg.ClientSecretsFile, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("authenticate with YouTube: %w", err)
	}
	ytClient = youtube.NewClient(service)
	return ytClient, nil
}

// getOptimizer builds the LLM-backed generator on first use.
func getOptimizer() (*seo.Optimizer, error) {
	if optimizer != nil {
		return optimizer, nil
	}

	var err error
	optimizer, err = seo.NewOptimizer(cfg, limiter)
	if err != nil {
		return nil, fmt.Errorf("init optimizer: %w", err)
	}
	return optimizer, nil
}

// getBilibili validates the cookie credentials and builds the client.
func getBilibili() (*bilibili.Client, error) {
	if err := cfg.RequireBilibili(); err != nil {
		return nil, err
	}
	return bilibili.New(cfg.BilibiliSessData, cfg.BilibiliJCT), nil
}

// loadLedger opens the processing ledger.
func loadLedger() (*tracking.Ledger, error) {
	return tracking.Load(cfg.LedgerPath(), nil)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(batchUpdateCmd)
	rootCmd.AddCommand(markToolGeneratedCmd)
	rootCmd.AddCommand(trackingCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(matchBilibiliCmd)
	rootCmd.AddCommand(syncBilibiliCmd)
	rootCmd.AddCommand(exportDescriptionsCmd)
	rootCmd.AddCommand(newVideoCmd)
	rootCmd.AddCommand(analyticsCmd)
}
