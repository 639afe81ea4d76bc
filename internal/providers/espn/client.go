package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// FeedError wraps any network or parse failure talking to ESPN.
// Cycles that hit one skip the affected sport and retry next tick.
type FeedError struct {
	URL string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed error fetching %s: %v", e.URL, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// Client handles ESPN API requests
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a new ESPN API client
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "Mozilla/5.0 (compatible; SkoreBot/1.0)",
	}
}

// FetchScoreboard fetches the current scoreboard for a sport.
// ESPN's default window covers "today" plus games within ~24 hours.
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", BaseURL, sportPath)
	return c.fetch(ctx, url)
}

// FetchSummary fetches the detailed game summary, which carries scoring plays
func (c *Client) FetchSummary(ctx context.Context, sportPath string, gameID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", BaseURL, sportPath, gameID)
	return c.fetch(ctx, url)
}

// fetch makes an HTTP GET request and returns parsed JSON
func (c *Client) fetch(ctx context.Context, url string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &FeedError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FeedError{URL: url, Err: fmt.Errorf("status=%d, body=%s", resp.StatusCode, string(body))}
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FeedError{URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return result, nil
}
