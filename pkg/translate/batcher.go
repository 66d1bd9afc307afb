package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBatchSize is the number of sentences sent per request.
const DefaultBatchSize = 20

// Batcher groups sentences into requests and isolates failing sentences by
// recursive bisection. Consecutive batches are spaced by a rate limiter.
type Batcher struct {
	tr      Translator
	size    int
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewBatcher creates a Batcher. A delay of zero disables spacing.
func NewBatcher(tr Translator, size int, delay time.Duration, logger *slog.Logger) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Batcher{
		tr:      tr,
		size:    size,
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.With("component", "translate"),
	}
}

// Run translates the unique non-empty sentences, in first-seen order, one
// batch at a time. After each batch, onBatch receives that batch's results
// so the caller can persist them. Failed sentences map to FailedMarker.
// Run stops early only when ctx is cancelled or onBatch returns an error.
func (b *Batcher) Run(ctx context.Context, sentences []string, onBatch func(map[string]string) error) (map[string]string, error) {
	unique := dedupe(sentences)
	all := make(map[string]string, len(unique))

	for start := 0; start < len(unique); start += b.size {
		end := min(start+b.size, len(unique))
		if err := b.limiter.Wait(ctx); err != nil {
			return all, fmt.Errorf("translate: wait: %w", err)
		}

		results := make(map[string]string, end-start)
		b.translate(ctx, unique[start:end], results)
		if err := ctx.Err(); err != nil {
			return all, err
		}
		for k, v := range results {
			all[k] = v
		}
		if onBatch != nil {
			if err := onBatch(results); err != nil {
				return all, err
			}
		}
		b.log.InfoContext(ctx, "translation progress", slog.Int("done", end), slog.Int("total", len(unique)))
	}
	return all, nil
}

// translate fills out with a translation for every sentence of batch.
func (b *Batcher) translate(ctx context.Context, batch []string, out map[string]string) {
	if ctx.Err() != nil {
		return
	}
	lines, err := b.attempt(ctx, batch)
	if err == nil {
		for i, s := range batch {
			out[s] = strings.TrimSpace(lines[i])
		}
		return
	}
	if len(batch) == 1 {
		b.log.WarnContext(ctx, "sentence translation failed", slog.String("sentence", batch[0]), slog.String("error", err.Error()))
		out[batch[0]] = FailedMarker
		return
	}
	b.log.DebugContext(ctx, "bisecting batch", slog.Int("size", len(batch)), slog.String("error", err.Error()))
	mid := len(batch) / 2
	b.translate(ctx, batch[:mid], out)
	b.translate(ctx, batch[mid:], out)
}

func (b *Batcher) attempt(ctx context.Context, batch []string) ([]string, error) {
	text, err := b.tr.Translate(ctx, strings.Join(batch, "\n"))
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	if len(lines) != len(batch) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrLineMismatch, len(batch), len(lines))
	}
	return lines, nil
}

func dedupe(sentences []string) []string {
	seen := make(map[string]bool, len(sentences))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
