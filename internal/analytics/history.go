// Package analytics keeps a local history of channel and per-video
// statistics and answers growth and ranking queries over it.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/ratelimit"
	"github.com/yuwenliu/ytman/internal/storage"
	"github.com/yuwenliu/ytman/internal/youtube"
)

// ErrInsufficientHistory means fewer than two snapshots exist, so no growth
// can be computed.
var ErrInsufficientHistory = errors.New("need at least two snapshots to calculate growth")

// ChannelSnapshot is one point-in-time record of the channel plus the sampled
// catalog totals.
type ChannelSnapshot struct {
	Timestamp         time.Time `json:"timestamp"`
	ChannelID         string    `json:"channel_id"`
	ChannelTitle      string    `json:"channel_title"`
	Subscribers       uint64    `json:"subscribers"`
	TotalViews        uint64    `json:"total_views"`
	VideoCount        uint64    `json:"video_count"`
	SampledVideos     int       `json:"sampled_videos"`
	CatalogViews      uint64    `json:"catalog_views"`
	CatalogEngagement uint64    `json:"catalog_engagement"`
	AvgEngagementRate float64   `json:"avg_engagement_rate"`
}

// VideoPoint is one sampled statistics point for a single video.
type VideoPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	Views          uint64    `json:"views"`
	Likes          uint64    `json:"likes"`
	Comments       uint64    `json:"comments"`
	EngagementRate float64   `json:"engagement_rate"`
}

// VideoHistory is everything recorded about one video over time.
type VideoHistory struct {
	Title       string       `json:"title"`
	PublishedAt time.Time    `json:"published_at"`
	Points      []VideoPoint `json:"snapshots"`
}

type historyFile struct {
	Snapshots []ChannelSnapshot        `json:"snapshots"`
	Videos    map[string]*VideoHistory `json:"videos"`
}

// History is the persisted analytics store.
type History struct {
	doc       *storage.Document
	clock     ratelimit.Clock
	snapshots []ChannelSnapshot
	videos    map[string]*VideoHistory
}

// Load opens the history file, creating an empty history when absent.
func Load(path string, clock ratelimit.Clock) (*History, error) {
	if clock == nil {
		clock = ratelimit.RealClock{}
	}

	doc := storage.NewDocument(path, "analytics history")
	var file historyFile
	if _, err := doc.Load(&file); err != nil {
		return nil, err
	}
	if file.Videos == nil {
		file.Videos = map[string]*VideoHistory{}
	}

	return &History{
		doc:       doc,
		clock:     clock,
		snapshots: file.Snapshots,
		videos:    file.Videos,
	}, nil
}

// SnapshotCount reports how many channel snapshots are recorded.
func (h *History) SnapshotCount() int { return len(h.snapshots) }

// Latest returns the newest channel snapshot.
func (h *History) Latest() (ChannelSnapshot, bool) {
	if len(h.snapshots) == 0 {
		return ChannelSnapshot{}, false
	}
	return h.snapshots[len(h.snapshots)-1], true
}

// RecordSnapshot appends a channel snapshot and a per-video point for every
// sampled video, then persists the history.
func (h *History) RecordSnapshot(channel youtube.ChannelStats, videos []catalog.VideoRecord) error {
	now := h.clock.Now()

	snap := ChannelSnapshot{
		Timestamp:     now,
		ChannelID:     channel.ChannelID,
		ChannelTitle:  channel.Title,
		Subscribers:   channel.Subscribers,
		TotalViews:    channel.Views,
		VideoCount:    channel.VideoCount,
		SampledVideos: len(videos),
	}

	var rateSum float64
	for _, v := range videos {
		rate := engagementRate(v.ViewCount, v.LikeCount, v.CommentCount)
		rateSum += rate
		snap.CatalogViews += v.ViewCount
		snap.CatalogEngagement += v.LikeCount + v.CommentCount

		vh := h.videos[v.ID]
		if vh == nil {
			vh = &VideoHistory{Title: v.Title, PublishedAt: v.PublishedAt}
			h.videos[v.ID] = vh
		}
		vh.Points = append(vh.Points, VideoPoint{
			Timestamp:      now,
			Views:          v.ViewCount,
			Likes:          v.LikeCount,
			Comments:       v.CommentCount,
			EngagementRate: rate,
		})
	}
	if len(videos) > 0 {
		snap.AvgEngagementRate = rateSum / float64(len(videos))
	}

	h.snapshots = append(h.snapshots, snap)
	return h.flush()
}

// Growth compares the oldest and newest snapshots within the last days days.
// When the window holds fewer than two snapshots the last two overall are
// compared instead.
type Growth struct {
	PeriodDays        int
	ViewsGrowth       int64
	EngagementGrowth  int64
	SubscriberGrowth  int64
	OldTotalViews     uint64
	NewTotalViews     uint64
	OldSubscribers    uint64
	NewSubscribers    uint64
	SnapshotsCompared int
}

func (h *History) Growth(days int) (Growth, error) {
	if len(h.snapshots) < 2 {
		return Growth{}, ErrInsufficientHistory
	}

	cutoff := h.clock.Now().Add(-time.Duration(days) * 24 * time.Hour)
	var recent []ChannelSnapshot
	for _, s := range h.snapshots {
		if !s.Timestamp.Before(cutoff) {
			recent = append(recent, s)
		}
	}
	if len(recent) < 2 {
		recent = h.snapshots[len(h.snapshots)-2:]
	}

	oldest, newest := recent[0], recent[len(recent)-1]
	return Growth{
		PeriodDays:        days,
		ViewsGrowth:       int64(newest.CatalogViews) - int64(oldest.CatalogViews),
		EngagementGrowth:  int64(newest.CatalogEngagement) - int64(oldest.CatalogEngagement),
		SubscriberGrowth:  int64(newest.Subscribers) - int64(oldest.Subscribers),
		OldTotalViews:     oldest.CatalogViews,
		NewTotalViews:     newest.CatalogViews,
		OldSubscribers:    oldest.Subscribers,
		NewSubscribers:    newest.Subscribers,
		SnapshotsCompared: len(recent),
	}, nil
}

// Standing is one video with its most recent sampled statistics.
type Standing struct {
	VideoID     string
	Title       string
	PublishedAt time.Time
	VideoPoint
}

// Ranking metrics accepted by TopPerforming.
const (
	MetricViews      = "views"
	MetricLikes      = "likes"
	MetricEngagement = "engagement_rate"
)

// TopPerforming returns up to limit videos sorted descending by metric.
func (h *History) TopPerforming(metric string, limit int) ([]Standing, error) {
	key, err := metricKey(metric)
	if err != nil {
		return nil, err
	}

	standings := h.latestStandings()
	sort.SliceStable(standings, func(i, j int) bool {
		return key(standings[i]) > key(standings[j])
	})
	return capList(standings, limit), nil
}

// Underperforming returns videos at or below the given view-count percentile,
// worst first.
func (h *History) Underperforming(percentile, limit int) []Standing {
	standings := h.latestStandings()
	if len(standings) == 0 {
		return nil
	}

	views := make([]uint64, len(standings))
	for i, s := range standings {
		views[i] = s.Views
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })

	idx := len(views) * percentile / 100
	if idx >= len(views) {
		idx = len(views) - 1
	}
	threshold := views[idx]

	var under []Standing
	for _, s := range standings {
		if s.Views <= threshold {
			under = append(under, s)
		}
	}
	sort.SliceStable(under, func(i, j int) bool { return under[i].Views < under[j].Views })
	return capList(under, limit)
}

func (h *History) latestStandings() []Standing {
	var out []Standing
	for id, vh := range h.videos {
		if len(vh.Points) == 0 {
			continue
		}
		out = append(out, Standing{
			VideoID:     id,
			Title:       vh.Title,
			PublishedAt: vh.PublishedAt,
			VideoPoint:  vh.Points[len(vh.Points)-1],
		})
	}
	return out
}

func (h *History) flush() error {
	return h.doc.Save(historyFile{Snapshots: h.snapshots, Videos: h.videos})
}

func metricKey(metric string) (func(Standing) float64, error) {
	switch metric {
	case MetricViews:
		return func(s Standing) float64 { return float64(s.Views) }, nil
	case MetricLikes:
		return func(s Standing) float64 { return float64(s.Likes) }, nil
	case MetricEngagement:
		return func(s Standing) float64 { return s.EngagementRate }, nil
	default:
		return nil, fmt.Errorf("unknown metric %q (use views, likes or engagement_rate)", metric)
	}
}

func capList(list []Standing, limit int) []Standing {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func engagementRate(views, likes, comments uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments) / float64(views) * 100
}
