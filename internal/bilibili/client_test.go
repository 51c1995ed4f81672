package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuwenliu/ytman/internal/testutil"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *testutil.StubClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	clock := testutil.FixedClock()
	c := New("sess-value", "csrf-value")
	c.memberBase = srv.URL
	c.apiBase = srv.URL
	c.clock = clock
	return c, clock
}

func archivePage(ids ...int) map[string]any {
	audits := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		audits = append(audits, map[string]any{
			"Archive": map[string]any{
				"bvid":  fmt.Sprintf("BV%03d", id),
				"aid":   id,
				"title": fmt.Sprintf("video %d", id),
				"tag":   "旅行,travel",
			},
		})
	}
	return map[string]any{
		"code": 0,
		"data": map[string]any{"arc_audits": audits},
	}
}

func TestListVideosPaging(t *testing.T) {
	var pages []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/x/web/archives", r.URL.Path)
		pn := r.URL.Query().Get("pn")
		pages = append(pages, pn)

		// SESSDATA cookie must accompany every call.
		if cookie, err := r.Cookie("SESSDATA"); assert.NoError(t, err) {
			assert.Equal(t, "sess-value", cookie.Value)
		}

		var body map[string]any
		switch pn {
		case "1":
			ids := make([]int, 30)
			for i := range ids {
				ids[i] = i + 1
			}
			body = archivePage(ids...)
		default:
			body = archivePage(31, 32)
		}
		json.NewEncoder(w).Encode(body)
	})

	c, clock := testClient(t, handler)
	start := clock.Now()

	videos, err := c.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 32)
	assert.Equal(t, []string{"1", "2"}, pages)
	assert.Equal(t, []string{"旅行", "travel"}, videos[0].Tags)
	// One inter-page pause.
	assert.Equal(t, 500*time.Millisecond, clock.Now().Sub(start))
}

func TestGetVideo(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/x/web-interface/view", r.URL.Path)
		assert.Equal(t, "BV1xx", r.URL.Query().Get("bvid"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"bvid":  "BV1xx",
				"aid":   777,
				"title": "东京散步",
				"desc":  "描述",
				"tid":   250,
				"tag":   []map[string]any{{"tag_name": "旅行"}, {"tag_name": "日本"}},
			},
		})
	})

	c, _ := testClient(t, handler)
	v, err := c.GetVideo(context.Background(), "BV1xx")
	require.NoError(t, err)
	assert.Equal(t, int64(777), v.AID)
	assert.Equal(t, []string{"旅行", "日本"}, v.Tags)
	assert.Equal(t, int64(250), v.TypeID)
}

func TestUpdateVideo(t *testing.T) {
	var edited editPayload
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/x/web-interface/view":
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{
					"bvid": "BV1xx", "aid": 777, "tid": 250,
					"pic": "http://cover", "copyright": 1,
				},
			})
		case "/x/vu/web/edit":
			assert.Equal(t, "csrf-value", r.URL.Query().Get("csrf"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&edited))
			json.NewEncoder(w).Encode(map[string]any{"code": 0})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	c, _ := testClient(t, handler)
	err := c.UpdateVideo(context.Background(), 777, "新标题", "新描述", []string{"旅行", "日本"})
	require.NoError(t, err)

	assert.Equal(t, int64(777), edited.AID)
	assert.Equal(t, "新标题", edited.Title)
	assert.Equal(t, "旅行,日本", edited.Tag)
	// Fields the edit endpoint requires are carried from the current archive.
	assert.Equal(t, int64(250), edited.TID)
	assert.Equal(t, "http://cover", edited.Cover)
	assert.Equal(t, 1, edited.Copyright)
	assert.Equal(t, descFormatID, edited.DescFormatID)
}

func TestUpdateVideoLimits(t *testing.T) {
	c := New("s", "c")

	longTitle := make([]rune, TitleLimit+1)
	for i := range longTitle {
		longTitle[i] = '字'
	}
	err := c.UpdateVideo(context.Background(), 1, string(longTitle), "d", nil)
	assert.ErrorContains(t, err, "title too long")

	manyTags := make([]string, TagLimit+1)
	for i := range manyTags {
		manyTags[i] = fmt.Sprintf("t%d", i)
	}
	err = c.UpdateVideo(context.Background(), 1, "ok", "d", manyTags)
	assert.ErrorContains(t, err, "too many tags")
}

func TestAPIErrorMapping(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{-111, "CSRF verification failed"},
		{21001, "parameter error"},
		{21011, "video part data required"},
		{21015, "video not editable"},
		{-404, "API error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %d", tt.code), func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"code": tt.code, "message": "boom"})
			})
			c, _ := testClient(t, handler)
			_, err := c.GetVideo(context.Background(), "BV1xx")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestURLHelpers(t *testing.T) {
	assert.Equal(t, "https://member.bilibili.com/platform/upload/video/frame?aid=77", EditURL(77))
	assert.Equal(t, "https://www.bilibili.com/video/BV1xx", ViewURL("BV1xx"))
}
