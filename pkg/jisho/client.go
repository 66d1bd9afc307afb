// Package jisho is a client for the jisho.org word search API, used as the
// last-resort online dictionary.
package jisho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://jisho.org/api/v1/search/words"

	// MaxSenses is how many sense groups a result keeps.
	MaxSenses = 3
)

// Result is the first matching entry of a search.
type Result struct {
	// Reading is the kana of the first Japanese form, or the keyword when
	// the API gives none.
	Reading string
	// Senses holds up to MaxSenses groups of English definitions.
	Senses [][]string
}

// Meaning formats the senses as "1. a, b<br>2. c".
func (r *Result) Meaning() string {
	lines := make([]string, 0, len(r.Senses))
	for i, s := range r.Senses {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.Join(s, ", ")))
	}
	return strings.Join(lines, "<br>")
}

// Client queries the Jisho API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects the public API.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "jisho"),
	}
}

// Search looks up keyword. It returns nil, nil when the API reports no
// result or a non-200 meta status; transport and decode failures are errors.
func (c *Client) Search(ctx context.Context, keyword string) (*Result, error) {
	reqURL := c.baseURL + "?keyword=" + url.QueryEscape(keyword)

	c.log.DebugContext(ctx, "jisho request", slog.String("keyword", keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jisho: create request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, req, keyword)
	if err != nil {
		return nil, fmt.Errorf("jisho: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jisho: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jisho: read body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("jisho: decode json: %w", err)
	}
	if parsed.Meta.Status != http.StatusOK || len(parsed.Data) == 0 {
		return nil, nil
	}

	result := mapEntry(parsed.Data[0], keyword)
	c.log.DebugContext(ctx, "jisho response",
		slog.String("keyword", keyword),
		slog.Int("results", len(parsed.Data)),
		slog.Int("senses", len(result.Senses)),
	)
	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, keyword string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "jisho retry", slog.String("keyword", keyword), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return c.httpClient.Do(req)
}

func mapEntry(e apiEntry, keyword string) *Result {
	r := &Result{Reading: keyword}
	if len(e.Japanese) > 0 && e.Japanese[0].Reading != "" {
		r.Reading = e.Japanese[0].Reading
	}
	for i, s := range e.Senses {
		if i >= MaxSenses {
			break
		}
		r.Senses = append(r.Senses, s.EnglishDefinitions)
	}
	return r
}
