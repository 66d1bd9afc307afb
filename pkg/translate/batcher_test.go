package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fakeTranslator prefixes every line with "en:". A request containing a
// poisoned line fails; requests longer than maxLines lose their last line.
type fakeTranslator struct {
	mu       sync.Mutex
	poison   string
	maxLines int
	calls    []int
}

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	lines := strings.Split(text, "\n")
	f.mu.Lock()
	f.calls = append(f.calls, len(lines))
	f.mu.Unlock()

	if f.poison != "" && strings.Contains(text, f.poison) {
		return "", errors.New("backend rejected input")
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "en:" + l
	}
	if f.maxLines > 0 && len(out) > f.maxLines {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n", nil
}

func TestBatcher_AllSucceed(t *testing.T) {
	tr := &fakeTranslator{}
	b := NewBatcher(tr, 2, 0, discard())

	var batches []map[string]string
	got, err := b.Run(context.Background(), []string{"a", " b ", "a", "", "c"}, func(m map[string]string) error {
		batches = append(batches, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "en:a", "b": "en:b", "c": "en:c"}, got)
	assert.Equal(t, []int{2, 1}, tr.calls)
	require.Len(t, batches, 2)
	assert.Equal(t, map[string]string{"c": "en:c"}, batches[1])
}

func TestBatcher_BisectsToIsolateFailure(t *testing.T) {
	tr := &fakeTranslator{poison: "bad"}
	b := NewBatcher(tr, 4, 0, discard())

	got, err := b.Run(context.Background(), []string{"s1", "s2", "bad", "s4"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"s1":  "en:s1",
		"s2":  "en:s2",
		"bad": FailedMarker,
		"s4":  "en:s4",
	}, got)
	// [4] fails -> [2 ok] + [2 fails] -> [1 fails] + [1 ok]
	assert.Equal(t, []int{4, 2, 2, 1, 1}, tr.calls)
}

func TestBatcher_BisectsOnLineMismatch(t *testing.T) {
	tr := &fakeTranslator{maxLines: 1}
	b := NewBatcher(tr, 3, 0, discard())

	got, err := b.Run(context.Background(), []string{"x", "y", "z"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x": "en:x", "y": "en:y", "z": "en:z"}, got)
}

func TestBatcher_OnBatchErrorStops(t *testing.T) {
	tr := &fakeTranslator{}
	b := NewBatcher(tr, 1, 0, discard())
	stop := errors.New("disk full")

	_, err := b.Run(context.Background(), []string{"a", "b"}, func(map[string]string) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Len(t, tr.calls, 1)
}

func TestBatcher_DelayBetweenBatches(t *testing.T) {
	tr := &fakeTranslator{}
	b := NewBatcher(tr, 1, 50*time.Millisecond, discard())

	start := time.Now()
	_, err := b.Run(context.Background(), []string{"a", "b", "c"}, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestBatcher_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBatcher(&fakeTranslator{}, 1, time.Hour, discard())

	_, err := b.Run(ctx, []string{"a"}, nil)
	assert.Error(t, err)
}

func TestGoogle_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ja", r.Form.Get("sl"))
		assert.Equal(t, "en", r.Form.Get("tl"))
		assert.Equal(t, "猫だ\n犬だ", r.Form.Get("q"))
		w.Write([]byte(`[[["It's a cat\n","猫だ\n",null,null,10],["It's a dog","犬だ",null,null,10]],null,"ja"]`))
	}))
	defer srv.Close()

	g := NewGoogle(srv.URL, "ja", "en", srv.Client(), discard())
	got, err := g.Translate(context.Background(), "猫だ\n犬だ")
	require.NoError(t, err)
	assert.Equal(t, "It's a cat\nIt's a dog", got)
}

func TestGoogle_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	_, err := NewGoogle(srv.URL, "ja", "en", srv.Client(), logger).Translate(context.Background(), "x")
	assert.Error(t, err)
	assert.Contains(t, logs.String(), "status=429")
	assert.Contains(t, logs.String(), "retry_after=30")
	assert.Contains(t, logs.String(), `body="slow down"`)
}

func TestOpenAI_TruncatedResponseLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
"choices":[{"index":0,"finish_reason":"length","message":{"role":"assistant","content":" It's a cat \n"}}],
"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`))
	}))
	defer srv.Close()

	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	o := NewOpenAI("key", "m", srv.URL, time.Second, logger)
	got, err := o.Translate(context.Background(), "猫だ\n犬だ")
	require.NoError(t, err)
	assert.Equal(t, "It's a cat", got)
	assert.Contains(t, logs.String(), "prompt_tokens=12")
	assert.Contains(t, logs.String(), "openai response truncated")
	assert.Contains(t, logs.String(), "lines=2")
}
