// Package reddit is a minimal Reddit API client using application-only OAuth.
package reddit

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"cryptopulse/internal/adapters/httpsource"
	"cryptopulse/pkg/errors"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// tokens are refreshed this long before Reddit expires them
	tokenSlack = time.Minute
)

// Config contains Reddit credentials and endpoints
type Config struct {
	ClientID          string
	ClientSecret      string
	UserAgent         string
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration

	BaseURL  string
	TokenURL string
}

// Submission is a search result post
type Submission struct {
	ID        string
	Title     string
	SelfText  string
	Score     int
	CreatedAt time.Time
}

// Comment is a top-level comment of a submission
type Comment struct {
	ID        string
	Body      string
	Score     int
	CreatedAt time.Time
}

// Client talks to the Reddit API
type Client struct {
	api      *httpsource.Client
	cfg      Config
	mu       sync.Mutex
	token    string
	tokenExp time.Time
	now      func() time.Time
}

// NewClient creates a new Reddit client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	return &Client{
		api: httpsource.New(httpsource.Config{
			Name:              "reddit",
			BaseURL:           cfg.BaseURL,
			UserAgent:         cfg.UserAgent,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			MaxRetries:        cfg.MaxRetries,
		}),
		cfg: cfg,
		now: time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached client-credentials token, fetching a new one when expired
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExp) {
		return c.token, nil
	}

	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", errors.Wrap(errors.ErrUnauthorized, "reddit client credentials are not configured")
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	header := http.Header{}
	header.Set("Authorization", "Basic "+credentials)

	var tok tokenResponse
	err := c.api.DoJSON(ctx, httpsource.Request{
		Method: http.MethodPost,
		Path:   c.cfg.TokenURL,
		Header: header,
		Form:   url.Values{"grant_type": {"client_credentials"}},
	}, &tok)
	if err != nil {
		return "", errors.Wrap(err, "failed to obtain reddit token")
	}
	if tok.AccessToken == "" {
		return "", errors.Wrap(errors.ErrUnauthorized, "reddit returned an empty token")
	}

	c.token = tok.AccessToken
	c.tokenExp = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSlack)
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// get performs an authorized GET; an expired token is refreshed once
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		header := http.Header{}
		header.Set("Authorization", "bearer "+token)

		err = c.api.GetJSON(ctx, path, query, header, out)
		var statusErr *errors.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized && attempt == 0 {
			c.invalidateToken()
			continue
		}
		return err
	}
	return nil
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string    `json:"kind"`
			Data thingData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type thingData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

func unix(v float64) time.Time {
	return time.Unix(int64(v), 0).UTC()
}

// Search runs a subreddit-restricted search
func (c *Client) Search(ctx context.Context, subreddit, query, timeRange string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"q":           {query},
		"restrict_sr": {"1"},
		"t":           {timeRange},
		"limit":       {strconv.Itoa(limit)},
		"raw_json":    {"1"},
	}

	var resp listing
	if err := c.get(ctx, "/r/"+url.PathEscape(subreddit)+"/search", params, &resp); err != nil {
		return nil, err
	}

	submissions := make([]Submission, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		submissions = append(submissions, Submission{
			ID:        child.Data.ID,
			Title:     child.Data.Title,
			SelfText:  child.Data.SelfText,
			Score:     child.Data.Score,
			CreatedAt: unix(child.Data.CreatedUTC),
		})
	}
	return submissions, nil
}

// Comments returns up to limit top-level comments; "load more" stubs are not expanded
func (c *Client) Comments(ctx context.Context, submissionID string, limit int) ([]Comment, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"limit":    {strconv.Itoa(limit)},
		"depth":    {"1"},
		"raw_json": {"1"},
	}

	// [0] is the submission itself, [1] the comment tree
	var resp []listing
	if err := c.get(ctx, "/comments/"+url.PathEscape(submissionID), params, &resp); err != nil {
		return nil, err
	}
	if len(resp) < 2 {
		return nil, nil
	}

	comments := make([]Comment, 0, limit)
	for _, child := range resp[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		comments = append(comments, Comment{
			ID:        child.Data.ID,
			Body:      child.Data.Body,
			Score:     child.Data.Score,
			CreatedAt: unix(child.Data.CreatedUTC),
		})
		if len(comments) == limit {
			break
		}
	}
	return comments, nil
}
