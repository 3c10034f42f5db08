package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

const (
	// DefaultBaseURL is the ScrapingDog YouTube API root.
	DefaultBaseURL = "https://api.scrapingdog.com/youtube"

	defaultMaxRetries    = 3
	defaultRetryInterval = 2 * time.Second
	requestTimeout       = 30 * time.Second
)

// Client fetches channel data from the ScrapingDog YouTube Channel API.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	maxRetries    uint64
	retryInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries overrides the number of retry attempts after the first try.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryInterval overrides the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// NewClient creates a ScrapingDog client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		apiKey:        apiKey,
		baseURL:       DefaultBaseURL,
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// channelResponse is the subset of the ScrapingDog channel payload we use.
type channelResponse struct {
	Channel struct {
		Title string `json:"title"`
	} `json:"channel"`
	About struct {
		Subscribers flexString `json:"subscribers"`
		Videos      flexString `json:"videos"`
	} `json:"about"`
	VideoSections []struct {
		Videos []rawVideo `json:"videos"`
	} `json:"videos_sections"`
}

type rawVideo struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Link          string     `json:"link"`
	Views         flexString `json:"views"`
	PublishedTime string     `json:"published_time"`
	Thumbnail     string     `json:"thumbnail"`
	Length        string     `json:"length"`
}

// FetchChannel fetches one channel's data, retrying transient failures with
// exponential backoff. Returns an error only after all attempts fail; the
// caller is expected to skip the channel in that case.
func (c *Client) FetchChannel(ctx context.Context, handle string) (*model.ChannelRecord, error) {
	var record *model.ChannelRecord
	attempt := 0

	operation := func() error {
		attempt++
		log.Info().Str("handle", handle).Int("attempt", attempt).Msg("fetching channel data")

		rec, err := c.fetchOnce(ctx, handle)
		if err != nil {
			log.Warn().Str("handle", handle).Err(err).Msg("channel fetch failed")
			return err
		}
		record = rec
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", handle, err)
	}
	return record, nil
}

func (c *Client) fetchOnce(ctx context.Context, handle string) (*model.ChannelRecord, error) {
	endpoint := c.baseURL + "/channel/"

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("channel_id", handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var data channelResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return parseChannelResponse(&data, handle), nil
}

// parseChannelResponse flattens the raw API payload into a ChannelRecord.
// Videos are collected across all sections, deduplicated by ID in order of
// first appearance.
func parseChannelResponse(data *channelResponse, handle string) *model.ChannelRecord {
	name := data.Channel.Title
	if name == "" {
		name = handle
	}

	record := &model.ChannelRecord{
		ChannelName:      name,
		Handle:           handle,
		Subscribers:      ParseViewCount(string(data.About.Subscribers)),
		TotalVideosCount: ParseViewCount(string(data.About.Videos)),
	}

	seen := make(map[string]struct{})
	for _, section := range data.VideoSections {
		for _, vid := range section.Videos {
			if vid.ID == "" {
				continue
			}
			if _, dup := seen[vid.ID]; dup {
				continue
			}
			seen[vid.ID] = struct{}{}

			title := vid.Title
			if title == "" {
				title = "Untitled"
			}
			link := vid.Link
			if link == "" {
				link = "https://www.youtube.com/watch?v=" + vid.ID
			}

			record.Videos = append(record.Videos, model.VideoRecord{
				ID:            vid.ID,
				Title:         title,
				Link:          link,
				Views:         ParseViewCount(string(vid.Views)),
				PublishedTime: vid.PublishedTime,
				DaysAgo:       ParsePublishedTime(vid.PublishedTime),
				Thumbnail:     vid.Thumbnail,
				Length:        vid.Length,
			})
		}
	}

	log.Info().
		Str("channel", record.ChannelName).
		Int("videos", len(record.Videos)).
		Int64("subscribers", record.Subscribers).
		Msg("channel parsed")

	return record
}
