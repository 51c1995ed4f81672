package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/yuwenliu/ytman/internal/bilibili"
	"github.com/yuwenliu/ytman/internal/match"
)

// ExportDescriptions writes compressed descriptions for every match at or
// above the confidence floor into a text file for manual copy-paste in the
// Bilibili studio. Per-match failures are logged and skipped.
func (s *Syncer) ExportDescriptions(ctx context.Context, batch *match.Batch, minConfidence float64, descLimit int, outPath string) (int, error) {
	matches := batch.Filter(minConfidence, "")
	if descLimit <= 0 {
		descLimit = bilibili.DefaultDescLimit
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("BILIBILI VIDEO DESCRIPTIONS (COMPRESSED)\n")
	b.WriteString("Copy-paste these into the Bilibili studio edit pages\n")
	b.WriteString(rule + "\n")

	written := 0
	for _, m := range matches {
		video, err := s.Primary.GetVideo(ctx, m.YouTubeID)
		if err != nil {
			slog.Error("fetching video for export failed", "video", m.YouTubeID, "error", err)
			continue
		}

		section := ExtractPrimarySection(video.Description)
		description, err := s.Compressor.CompressDescription(ctx, section, descLimit, video.Title)
		if err != nil {
			slog.Error("compressing description for export failed", "video", m.YouTubeID, "error", err)
			continue
		}

		tags := video.Tags
		if len(tags) > bilibili.TagLimit {
			tags = tags[:bilibili.TagLimit]
		}

		written++
		fmt.Fprintf(&b, "\n%s\nVIDEO %d\n%s\n\n", rule, written, rule)
		fmt.Fprintf(&b, "Bilibili Video: %s\n", m.BilibiliTitle)
		fmt.Fprintf(&b, "Edit Page: %s\n", bilibili.EditURL(m.BilibiliAID))
		fmt.Fprintf(&b, "Watch Page: %s\n\n", bilibili.ViewURL(m.BilibiliBVID))
		fmt.Fprintf(&b, "YouTube Title (reference):\n%s\n\n", video.Title)
		fmt.Fprintf(&b, "COMPRESSED DESCRIPTION (%d chars):\n", len([]rune(description)))
		b.WriteString(strings.Repeat("-", 80) + "\n")
		b.WriteString(description + "\n")
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
		fmt.Fprintf(&b, "TAGS:\n%s\n", strings.Join(tags, ", "))
	}

	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("write export file %s: %w", outPath, err)
	}
	slog.Info("manual sync export written", "file", outPath, "videos", written)
	return written, nil
}
