// Package bilibili is a cookie-authenticated client for the member and
// web-interface APIs: listing the account's archives, fetching video details,
// and editing metadata.
package bilibili

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yuwenliu/ytman/internal/ratelimit"
)

// Platform limits enforced on metadata writes.
const (
	TitleLimit       = 80
	TagLimit         = 10
	DefaultDescLimit = 250
)

const (
	defaultMemberBase = "https://member.bilibili.com"
	defaultAPIBase    = "https://api.bilibili.com"

	listPageSize  = 30
	pagePause     = 500 * time.Millisecond
	requestUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	descFormatID  = 31
	requestExpiry = 30 * time.Second
)

// APIError is a non-zero code in a Bilibili response envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	switch e.Code {
	case -111:
		return fmt.Sprintf("bilibili: CSRF verification failed (code %d): refresh the SESSDATA and bili_jct cookies", e.Code)
	case 21001:
		return fmt.Sprintf("bilibili: parameter error (code %d): %s", e.Code, e.Message)
	case 21011:
		return fmt.Sprintf("bilibili: video part data required (code %d): %s; use the manual sync export", e.Code, e.Message)
	case 21015:
		return fmt.Sprintf("bilibili: video not editable (code %d): %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("bilibili: API error (code %d): %s", e.Code, e.Message)
	}
}

// Video is one archive as the member API reports it.
type Video struct {
	BVID        string
	AID         int64
	Title       string
	Description string
	Tags        []string
	Cover       string
	Duration    int64
	PubDate     int64
	State       int
	TypeID      int64
	Copyright   int
}

// Client calls the Bilibili APIs with the account's session cookies.
type Client struct {
	httpClient *http.Client
	sessData   string
	csrf       string
	memberBase string
	apiBase    string
	clock      ratelimit.Clock
}

// New creates a client from the SESSDATA and bili_jct cookie values.
func New(sessData, csrf string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestExpiry},
		sessData:   sessData,
		csrf:       csrf,
		memberBase: defaultMemberBase,
		apiBase:    defaultAPIBase,
		clock:      ratelimit.RealClock{},
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listData struct {
	ArcAudits []struct {
		Archive struct {
			BVID      string `json:"bvid"`
			AID       int64  `json:"aid"`
			Title     string `json:"title"`
			Desc      string `json:"desc"`
			Tag       string `json:"tag"`
			Cover     string `json:"cover"`
			Duration  int64  `json:"duration"`
			PubDate   int64  `json:"pubdate"`
			State     int    `json:"state"`
			TypeID    int64  `json:"typeid"`
			Copyright int    `json:"copyright"`
		} `json:"Archive"`
	} `json:"arc_audits"`
}

type viewData struct {
	BVID      string `json:"bvid"`
	AID       int64  `json:"aid"`
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	Pic       string `json:"pic"`
	Duration  int64  `json:"duration"`
	PubDate   int64  `json:"pubdate"`
	Copyright int    `json:"copyright"`
	TID       int64  `json:"tid"`
	Tag       []struct {
		TagName string `json:"tag_name"`
	} `json:"tag"`
}

// ListVideos fetches all of the account's archives, paging through the member
// API with a short pause between pages.
func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	var videos []Video

	for page := 1; ; page++ {
		if page > 1 {
			c.clock.Sleep(pagePause)
		}

		params := url.Values{
			"pn":          {strconv.Itoa(page)},
			"ps":          {strconv.Itoa(listPageSize)},
			"coop":        {"1"},
			"status":      {"is_pubing,pubed,not_pubed"},
			"interactive": {"1"},
		}

		var data listData
		if err := c.get(ctx, c.memberBase+"/x/web/archives", params, &data); err != nil {
			return nil, fmt.Errorf("list videos page %d: %w", page, err)
		}
		if len(data.ArcAudits) == 0 {
			break
		}

		for _, audit := range data.ArcAudits {
			a := audit.Archive
			videos = append(videos, Video{
				BVID:        a.BVID,
				AID:         a.AID,
				Title:       a.Title,
				Description: a.Desc,
				Tags:        splitTags(a.Tag),
				Cover:       a.Cover,
				Duration:    a.Duration,
				PubDate:     a.PubDate,
				State:       a.State,
				TypeID:      a.TypeID,
				Copyright:   a.Copyright,
			})
		}
		if len(data.ArcAudits) < listPageSize {
			break
		}
	}

	slog.Info("fetched bilibili archives", "videos", len(videos))
	return videos, nil
}

// GetVideo fetches one video by its BV id.
func (c *Client) GetVideo(ctx context.Context, bvid string) (Video, error) {
	return c.view(ctx, url.Values{"bvid": {bvid}})
}

// GetVideoByAID fetches one video by its numeric id.
func (c *Client) GetVideoByAID(ctx context.Context, aid int64) (Video, error) {
	return c.view(ctx, url.Values{"aid": {strconv.FormatInt(aid, 10)}})
}

func (c *Client) view(ctx context.Context, params url.Values) (Video, error) {
	var data viewData
	if err := c.get(ctx, c.apiBase+"/x/web-interface/view", params, &data); err != nil {
		return Video{}, fmt.Errorf("get video %s: %w", params.Encode(), err)
	}

	tags := make([]string, 0, len(data.Tag))
	for _, t := range data.Tag {
		tags = append(tags, t.TagName)
	}

	return Video{
		BVID:        data.BVID,
		AID:         data.AID,
		Title:       data.Title,
		Description: data.Desc,
		Tags:        tags,
		Cover:       data.Pic,
		Duration:    data.Duration,
		PubDate:     data.PubDate,
		TypeID:      data.TID,
		Copyright:   data.Copyright,
	}, nil
}

type editPayload struct {
	AID          int64  `json:"aid"`
	Title        string `json:"title"`
	Desc         string `json:"desc"`
	Tag          string `json:"tag"`
	DescFormatID int    `json:"desc_format_id"`
	TID          int64  `json:"tid"`
	Cover        string `json:"cover"`
	Copyright    int    `json:"copyright"`
}

// UpdateVideo edits a video's title, description and tags. The category,
// cover and copyright flags are carried over from the current archive, which
// the edit endpoint requires even when unchanged.
func (c *Client) UpdateVideo(ctx context.Context, aid int64, title, description string, tags []string) error {
	if n := len([]rune(title)); n > TitleLimit {
		return fmt.Errorf("title too long: %d runes (max %d)", n, TitleLimit)
	}
	if len(tags) > TagLimit {
		return fmt.Errorf("too many tags: %d (max %d)", len(tags), TagLimit)
	}

	current, err := c.GetVideoByAID(ctx, aid)
	if err != nil {
		return err
	}

	payload := editPayload{
		AID:          aid,
		Title:        title,
		Desc:         description,
		Tag:          strings.Join(tags, ","),
		DescFormatID: descFormatID,
		TID:          current.TypeID,
		Cover:        current.Cover,
		Copyright:    current.Copyright,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode edit payload: %w", err)
	}

	// CSRF goes in the query string, not the body.
	endpoint := fmt.Sprintf("%s/x/vu/web/edit?csrf=%s", c.memberBase, url.QueryEscape(c.csrf))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build edit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("update video %d: %w", aid, err)
	}

	slog.Info("bilibili video updated", "aid", aid, "title", title)
	return nil
}

// EditURL is the studio edit page for a video, for manual updates.
func EditURL(aid int64) string {
	return fmt.Sprintf("https://member.bilibili.com/platform/upload/video/frame?aid=%d", aid)
}

// ViewURL is the public watch page for a video.
func ViewURL(bvid string) string {
	return "https://www.bilibili.com/video/" + bvid
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", requestUA)
	req.Header.Set("Referer", "https://member.bilibili.com/")
	req.AddCookie(&http.Cookie{Name: "SESSDATA", Value: c.sessData})
	req.AddCookie(&http.Cookie{Name: "bili_jct", Value: c.csrf})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
