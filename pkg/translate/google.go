package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// Google uses the public web translation endpoint; no API key is needed.
type Google struct {
	baseURL    string
	source     string
	target     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewGoogle(baseURL, source, target string, client *http.Client, logger *slog.Logger) *Google {
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Google{baseURL: baseURL, source: source, target: target, httpClient: client, log: logger}
}

func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{
		"client": {"gtx"},
		"sl":     {g.source},
		"tl":     {g.target},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("google: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		g.log.WarnContext(ctx, "google translate rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("retry_after", resp.Header.Get("Retry-After")),
			slog.String("body", string(snippet)))
		return "", fmt.Errorf("google: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google: read body: %w", err)
	}
	out, err := parseGoogle(body)
	if err != nil {
		g.log.DebugContext(ctx, "google translate response not understood", slog.Int("bytes", len(body)))
		return "", err
	}
	return out, nil
}

// parseGoogle concatenates the translated segments of a response shaped
// [[["translated","original",...],...],...].
func parseGoogle(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("google: decode response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("google: empty response")
	}
	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("google: decode segments: %w", err)
	}
	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}
