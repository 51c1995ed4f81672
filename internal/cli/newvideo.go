package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	newVideoTopic     string
	newVideoLocations string
	newVideoKeyPoints string
	newVideoSave      string
)

var newVideoCmd = &cobra.Command{
	Use:   "new-video",
	Short: "Generate metadata for a video that has not been uploaded yet",
	Long: `Generate a complete set of SEO metadata (title, description, tags,
hashtags) from a topic description, for pasting into the upload form.

Example:
  ytman new-video --topic "东京五日游" --locations "新宿, 涩谷" --key-points "美食, 夜景"`,
	RunE: runNewVideo,
}

func init() {
	newVideoCmd.Flags().StringVar(&newVideoTopic, "topic", "", "main topic/title of the video")
	newVideoCmd.Flags().StringVar(&newVideoLocations, "locations", "", "locations covered in the video")
	newVideoCmd.Flags().StringVar(&newVideoKeyPoints, "key-points", "", "key highlights or points covered")
	newVideoCmd.Flags().StringVar(&newVideoSave, "save", "", "save the generated metadata to a JSON file")
}

func runNewVideo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if newVideoTopic == "" {
		fmt.Print("Video topic: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read topic: %w", err)
		}
		newVideoTopic = strings.TrimSpace(line)
		if newVideoTopic == "" {
			return fmt.Errorf("a topic is required")
		}
	}

	opt, err := getOptimizer()
	if err != nil {
		return err
	}

	fmt.Println("Generating metadata...")
	draft, err := opt.GenerateNewVideoMetadata(ctx, newVideoTopic, newVideoLocations, newVideoKeyPoints)
	if err != nil {
		return err
	}

	fmt.Printf("\nTitle:\n%s\n", draft.Title)
	fmt.Printf("\nDescription:\n%s\n", draft.Description)
	fmt.Printf("\nTags:\n%s\n", strings.Join(draft.Tags, ", "))
	fmt.Printf("\nHashtags:\n%s\n", strings.Join(draft.Hashtags, " "))

	if newVideoSave != "" {
		data, err := json.MarshalIndent(draft, "", "  ")
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if err := os.WriteFile(newVideoSave, data, 0o644); err != nil {
			return fmt.Errorf("save metadata: %w", err)
		}
		fmt.Printf("\nSaved to %s\n", newVideoSave)
	}
	return nil
}
