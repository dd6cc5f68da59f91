// Package youtube wraps the two YouTube Data API v3 endpoints used for
// comment ingestion: video search and comment threads.
package youtube

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"cryptopulse/internal/adapters/httpsource"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	maxSearchPage   = 50
	maxCommentsPage = 100
)

// Config contains the API key and limits
type Config struct {
	APIKey            string
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration
	BaseURL           string
}

// Video is a search hit
type Video struct {
	ID          string
	ChannelID   string
	Channel     string
	Title       string
	PublishedAt time.Time
}

// Client talks to the YouTube Data API
type Client struct {
	api    *httpsource.Client
	apiKey string
	log    *logger.Logger
}

// NewClient creates a new YouTube client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &Client{
		api: httpsource.New(httpsource.Config{
			Name:              "youtube",
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			MaxRetries:        cfg.MaxRetries,
		}),
		apiKey: cfg.APIKey,
		log:    logger.Get().With("component", "youtube_client"),
	}
}

type searchResponse struct {
	ETag          string `json:"etag"`
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			ChannelID    string    `json:"channelId"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// SearchVideos returns up to limit videos for query published after the given time,
// most viewed first
func (c *Client) SearchVideos(ctx context.Context, query string, publishedAfter time.Time, limit int) ([]Video, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "youtube api key is not configured")
	}

	var (
		videos    []Video
		pageToken string
		prevETag  string
	)

	for len(videos) < limit {
		params := url.Values{
			"key":               {c.apiKey},
			"q":                 {query},
			"part":              {"id,snippet"},
			"type":              {"video"},
			"order":             {"viewCount"},
			"maxResults":        {strconv.Itoa(min(maxSearchPage, limit-len(videos)))},
			"publishedAfter":    {publishedAfter.UTC().Format(time.RFC3339)},
			"relevanceLanguage": {"en"},
			"regionCode":        {"US"},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp searchResponse
		if err := c.api.GetJSON(ctx, "/search", params, nil, &resp); err != nil {
			return videos, err
		}

		// a repeated page means the token did not advance
		if pageToken != "" && resp.ETag != "" && resp.ETag == prevETag {
			return videos, errors.Newf("youtube pagination stalled at page token %q", pageToken)
		}
		prevETag = resp.ETag

		for _, item := range resp.Items {
			if item.ID.VideoID == "" {
				continue
			}
			videos = append(videos, Video{
				ID:          item.ID.VideoID,
				ChannelID:   item.Snippet.ChannelID,
				Channel:     item.Snippet.ChannelTitle,
				Title:       item.Snippet.Title,
				PublishedAt: item.Snippet.PublishedAt,
			})
			if len(videos) == limit {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.log.Infow("YouTube search complete", "query", query, "videos", len(videos))
	return videos, nil
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			VideoID         string `json:"videoId"`
			ChannelID       string `json:"channelId"`
			TotalReplyCount int    `json:"totalReplyCount"`
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string `json:"authorDisplayName"`
					AuthorChannelID   struct {
						Value string `json:"value"`
					} `json:"authorChannelId"`
					TextOriginal string    `json:"textOriginal"`
					TextDisplay  string    `json:"textDisplay"`
					LikeCount    int       `json:"likeCount"`
					PublishedAt  time.Time `json:"publishedAt"`
					UpdatedAt    time.Time `json:"updatedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// VideoComments returns up to limit top-level comments of a video.
// Comments written by the channel owner are skipped.
func (c *Client) VideoComments(ctx context.Context, videoID string, limit int) ([]sentiment.YouTubeComment, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "youtube api key is not configured")
	}

	var (
		comments  []sentiment.YouTubeComment
		pageToken string
		skipped   int
	)

	for len(comments) < limit {
		params := url.Values{
			"key":        {c.apiKey},
			"part":       {"snippet"},
			"videoId":    {videoID},
			"textFormat": {"plainText"},
			"maxResults": {strconv.Itoa(min(maxCommentsPage, limit-len(comments)))},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp commentThreadsResponse
		if err := c.api.GetJSON(ctx, "/commentThreads", params, nil, &resp); err != nil {
			return comments, err
		}

		for _, item := range resp.Items {
			top := item.Snippet.TopLevelComment.Snippet
			if top.AuthorChannelID.Value != "" && top.AuthorChannelID.Value == item.Snippet.ChannelID {
				skipped++
				continue
			}

			text := top.TextOriginal
			if text == "" {
				text = top.TextDisplay
			}

			comments = append(comments, sentiment.YouTubeComment{
				CommentID:       item.ID,
				VideoID:         item.Snippet.VideoID,
				ChannelID:       item.Snippet.ChannelID,
				AuthorChannelID: top.AuthorChannelID.Value,
				Author:          top.AuthorDisplayName,
				Text:            text,
				LikeCount:       top.LikeCount,
				ReplyCount:      item.Snippet.TotalReplyCount,
				PublishedAt:     top.PublishedAt,
				UpdatedAt:       top.UpdatedAt,
			})
			if len(comments) == limit {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if skipped > 0 {
		c.log.Debugw("Skipped channel owner comments", "video_id", videoID, "count", skipped)
	}
	return comments, nil
}
