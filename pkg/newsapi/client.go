package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Typed API errors. 426 is NewsAPI's "upgrade required" answer on the
// free plan for /everything queries outside the allowed window.
var (
	ErrInvalidKey      = errors.New("newsapi: invalid API key")
	ErrUpgradeRequired = errors.New("newsapi: plan upgrade required for this query")
	ErrRateLimited     = errors.New("newsapi: rate limited")
)

// Article is one NewsAPI result.
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	URLToImage  string     `json:"urlToImage"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type searchResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

// Client talks to NewsAPI v2.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Search queries /everything for the keyword; when the plan rejects the
// query (426) it retries against /top-headlines with the same keyword.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	articles, err := c.get(ctx, "/everything", url.Values{
		"q":        {query},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(pageSize)},
	})
	if errors.Is(err, ErrUpgradeRequired) {
		return c.TopHeadlines(ctx, query, pageSize)
	}
	return articles, err
}

// TopHeadlines queries /top-headlines for the keyword.
func (c *Client) TopHeadlines(ctx context.Context, query string, pageSize int) ([]Article, error) {
	return c.get(ctx, "/top-headlines", url.Values{
		"q":        {query},
		"language": {"en"},
		"pageSize": {fmt.Sprint(pageSize)},
	})
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrInvalidKey
	case http.StatusUpgradeRequired:
		return nil, ErrUpgradeRequired
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi error %s: %s", body.Code, body.Message)
	}

	return body.Articles, nil
}
