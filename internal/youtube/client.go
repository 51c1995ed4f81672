// Package youtube wraps the Data API v3 surface the tool needs: listing the
// authenticated channel's uploads, fetching single videos, and writing
// metadata updates.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuwenliu/ytman/internal/catalog"
	"google.golang.org/api/youtube/v3"
)

const videoBatchSize = 50

// Client talks to the YouTube Data API on behalf of one channel.
type Client struct {
	service *youtube.Service
}

// NewClient wraps an authenticated service.
func NewClient(service *youtube.Service) *Client {
	return &Client{service: service}
}

// ChannelID returns the authenticated user's channel id.
func (c *Client) ChannelID(ctx context.Context) (string, error) {
	resp, err := c.service.Channels.List([]string{"id"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list own channel: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel for the authenticated user")
	}
	return resp.Items[0].Id, nil
}

// ListMine fetches every upload of the authenticated channel with full
// metadata and statistics. limit <= 0 means no limit.
func (c *Client) ListMine(ctx context.Context, limit int) ([]catalog.VideoRecord, error) {
	uploads, err := c.uploadsPlaylistID(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := c.playlistVideoIDs(ctx, uploads, limit)
	if err != nil {
		return nil, err
	}
	slog.Info("fetched upload list", "videos", len(ids))

	return c.videoDetails(ctx, ids)
}

// GetVideo fetches fresh metadata and statistics for one video.
func (c *Client) GetVideo(ctx context.Context, id string) (catalog.VideoRecord, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(id).Context(ctx).Do()
	if err != nil {
		return catalog.VideoRecord{}, fmt.Errorf("get video %s: %w", id, err)
	}
	if len(resp.Items) == 0 {
		return catalog.VideoRecord{}, fmt.Errorf("video not found: %s", id)
	}
	return recordFromItem(resp.Items[0]), nil
}

// UpdateVideo writes new title, description and tags. The category id and any
// fields the draft does not carry are preserved from the current snippet,
// which the API would otherwise blank out.
func (c *Client) UpdateVideo(ctx context.Context, id string, draft *catalog.MetadataDraft) error {
	current, err := c.GetVideo(ctx, id)
	if err != nil {
		return err
	}

	snippet := &youtube.VideoSnippet{
		Title:       draft.Title,
		Description: draft.Description,
		Tags:        draft.Tags,
		CategoryId:  current.CategoryID,
	}
	if current.DefaultLanguage != "" {
		snippet.DefaultLanguage = current.DefaultLanguage
	}

	_, err = c.service.Videos.Update([]string{"snippet"}, &youtube.Video{
		Id:      id,
		Snippet: snippet,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update video %s: %w", id, err)
	}

	slog.Info("video metadata updated", "video", id, "title", draft.Title)
	return nil
}

// ChannelStats is a point-in-time snapshot of the channel's counters.
type ChannelStats struct {
	ChannelID   string
	Title       string
	Subscribers uint64
	Views       uint64
	VideoCount  uint64
}

// GetChannelStats fetches the authenticated channel's aggregate statistics.
func (c *Client) GetChannelStats(ctx context.Context) (ChannelStats, error) {
	resp, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Mine(true).Context(ctx).Do()
	if err != nil {
		return ChannelStats{}, fmt.Errorf("channel statistics: %w", err)
	}
	if len(resp.Items) == 0 {
		return ChannelStats{}, fmt.Errorf("no channel for the authenticated user")
	}

	ch := resp.Items[0]
	stats := ChannelStats{ChannelID: ch.Id}
	if ch.Snippet != nil {
		stats.Title = ch.Snippet.Title
	}
	if ch.Statistics != nil {
		stats.Subscribers = ch.Statistics.SubscriberCount
		stats.Views = ch.Statistics.ViewCount
		stats.VideoCount = ch.Statistics.VideoCount
	}
	return stats, nil
}

// RecentVideoStats fetches the most recent uploads with statistics, newest
// first, for analytics snapshots.
func (c *Client) RecentVideoStats(ctx context.Context, limit int) ([]catalog.VideoRecord, error) {
	return c.ListMine(ctx, limit)
}

func (c *Client) uploadsPlaylistID(ctx context.Context) (string, error) {
	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("resolve uploads playlist: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel for the authenticated user")
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *Client) playlistVideoIDs(ctx context.Context, playlistID string, limit int) ([]string, error) {
	var ids []string
	seen := map[string]bool{}

	pageToken := ""
	for {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(videoBatchSize).
			PageToken(pageToken).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list playlist %s: %w", playlistID, err)
		}

		for _, item := range resp.Items {
			id := item.ContentDetails.VideoId
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			if limit > 0 && len(ids) >= limit {
				return ids, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

func (c *Client) videoDetails(ctx context.Context, ids []string) ([]catalog.VideoRecord, error) {
	records := make([]catalog.VideoRecord, 0, len(ids))

	for start := 0; start < len(ids); start += videoBatchSize {
		end := start + videoBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(ids[start:end]...).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("video details batch: %w", err)
		}

		for _, item := range resp.Items {
			records = append(records, recordFromItem(item))
		}
	}
	return records, nil
}

func recordFromItem(item *youtube.Video) catalog.VideoRecord {
	rec := catalog.VideoRecord{ID: item.Id}

	if item.Snippet != nil {
		rec.Title = item.Snippet.Title
		rec.Description = item.Snippet.Description
		rec.Tags = item.Snippet.Tags
		rec.CategoryID = item.Snippet.CategoryId
		rec.DefaultLanguage = item.Snippet.DefaultLanguage
		rec.DefaultAudioLanguage = item.Snippet.DefaultAudioLanguage
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			rec.PublishedAt = t
		}
	}
	if item.ContentDetails != nil {
		rec.Duration = item.ContentDetails.Duration
	}
	if item.Statistics != nil {
		rec.ViewCount = item.Statistics.ViewCount
		rec.LikeCount = item.Statistics.LikeCount
		rec.CommentCount = item.Statistics.CommentCount
	}
	return rec
}
