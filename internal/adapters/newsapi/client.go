// Package newsapi queries the NewsAPI "everything" endpoint.
package newsapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"cryptopulse/internal/adapters/httpsource"
	"cryptopulse/pkg/errors"
)

const DefaultBaseURL = "https://newsapi.org"

// Config contains the API key and limits
type Config struct {
	APIKey            string
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration
	BaseURL           string
}

// Article is one NewsAPI result
type Article struct {
	SourceName  string
	Title       string
	Description string
	URL         string
	Content     string
	PublishedAt time.Time
}

// Client talks to NewsAPI
type Client struct {
	api    *httpsource.Client
	apiKey string
}

// NewClient creates a new NewsAPI client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &Client{
		api: httpsource.New(httpsource.Config{
			Name:              "newsapi",
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			MaxRetries:        cfg.MaxRetries,
		}),
		apiKey: cfg.APIKey,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		Content     string    `json:"content"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Everything returns English articles matching query published on or after from (day precision)
func (c *Client) Everything(ctx context.Context, query string, from time.Time) ([]Article, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "newsapi key is not configured")
	}

	params := url.Values{
		"q":        {query},
		"from":     {from.UTC().Format(time.DateOnly)},
		"language": {"en"},
	}
	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	var resp everythingResponse
	if err := c.api.GetJSON(ctx, "/v2/everything", params, header, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, errors.Newf("newsapi error %s: %s", resp.Code, resp.Message)
	}

	articles := make([]Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.URL == "" || a.PublishedAt.IsZero() {
			continue
		}
		articles = append(articles, Article{
			SourceName:  a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Content:     a.Content,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
