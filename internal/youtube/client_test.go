package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	yt "google.golang.org/api/youtube/v3"
)

func TestRecordFromItem(t *testing.T) {
	item := &yt.Video{
		Id: "abc123",
		Snippet: &yt.VideoSnippet{
			Title:                "东京五日游",
			Description:          "desc",
			Tags:                 []string{"travel", "东京"},
			CategoryId:           "19",
			PublishedAt:          "2025-03-01T08:30:00Z",
			DefaultLanguage:      "zh-CN",
			DefaultAudioLanguage: "zh",
		},
		ContentDetails: &yt.VideoContentDetails{Duration: "PT12M34S"},
		Statistics:     &yt.VideoStatistics{ViewCount: 1234, LikeCount: 56},
	}

	rec := recordFromItem(item)
	assert.Equal(t, "abc123", rec.ID)
	assert.Equal(t, "东京五日游", rec.Title)
	assert.Equal(t, "19", rec.CategoryID)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), rec.PublishedAt)
	assert.Equal(t, "PT12M34S", rec.Duration)
	assert.Equal(t, uint64(1234), rec.ViewCount)
	assert.Equal(t, "zh", rec.DefaultAudioLanguage)
}

func TestRecordFromItemSparse(t *testing.T) {
	rec := recordFromItem(&yt.Video{Id: "x"})
	assert.Equal(t, "x", rec.ID)
	assert.True(t, rec.PublishedAt.IsZero())
	assert.Zero(t, rec.ViewCount)
}
