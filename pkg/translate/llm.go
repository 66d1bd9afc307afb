package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultOpenAIModel    = "gpt-4o-mini"
)

func buildPrompt(text string) string {
	n := strings.Count(text, "\n") + 1
	return fmt.Sprintf(`Translate the following %d Japanese anime subtitle lines into natural English.
Return exactly %d lines: one translation per input line, in the same order.
Do not number the lines, merge them, or add any commentary.

%s`, n, n, text)
}

// Anthropic translates with the Claude Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

func NewAnthropic(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *Anthropic {
	opts := []aoption.RequestOption{aoption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aoption.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Anthropic{client: anthropic.NewClient(opts...), model: model, timeout: timeout, log: logger}
}

func (a *Anthropic) Translate(ctx context.Context, text string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	start := time.Now()
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	a.log.DebugContext(ctx, "anthropic translation",
		slog.String("model", a.model),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
		slog.Duration("elapsed", time.Since(start)))
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		a.log.WarnContext(ctx, "anthropic response truncated", slog.Int("lines", strings.Count(text, "\n")+1))
	}
	if len(msg.Content) == 0 {
		return "", errors.New("anthropic: empty response")
	}
	return strings.TrimSpace(msg.Content[0].Text), nil
}

// OpenAI translates with an OpenAI-compatible chat completions API.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model, timeout: timeout, log: logger}
}

func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a professional Japanese to English subtitle translator."),
			openai.UserMessage(buildPrompt(text)),
		},
		Model:       o.model,
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	o.log.DebugContext(ctx, "openai translation",
		slog.String("model", o.model),
		slog.Int64("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int64("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)))
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	if resp.Choices[0].FinishReason == "length" {
		o.log.WarnContext(ctx, "openai response truncated", slog.Int("lines", strings.Count(text, "\n")+1))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
