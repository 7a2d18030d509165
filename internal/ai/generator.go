// Package ai talks to an OpenAI-compatible chat completion service to translate source text
// and extract study phrases from it.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"CardForge/internal/model"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("generative text service is not configured")

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// Generator produces translations and flashcard phrases from Japanese text.
type Generator interface {
	Translate(ctx context.Context, text string) (string, error)
	ExtractPhrases(ctx context.Context, text string) ([]model.TextQA, error)
}

// Config selects the endpoint and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIGenerator implements Generator with go-openai.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *zap.SugaredLogger
}

// New returns a Generator for cfg. Without an API key every call fails with ErrNotConfigured.
func New(cfg Config, log *zap.SugaredLogger) Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.APIKey == "" {
		return disabled{}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	g := &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	return g
}

func (g *OpenAIGenerator) Translate(ctx context.Context, text string) (string, error) {
	content, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Translate the following Japanese text to natural-sounding English:\n\n" + text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (g *OpenAIGenerator) ExtractPhrases(ctx context.Context, text string) ([]model.TextQA, error) {
	content, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Japanese Text:\n%q", text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "phrase_extraction",
				Strict: true,
				Schema: phrasesJSONSchema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract phrases: %w", err)
	}
	phrases, err := parsePhrases(content)
	if err != nil {
		g.log.Warnw("unparseable phrase extraction response", "content", truncate(content, 200), "error", err)
		return nil, fmt.Errorf("extract phrases: %w", err)
	}
	return phrases, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		g.log.Errorw("chat completion failed", "model", g.model, "latency_ms", latency.Milliseconds(), "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	g.log.Debugw("chat completion done", "model", g.model, "latency_ms", latency.Milliseconds(), "tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parsePhrases reads {"phrases": [...]} or a bare array, optionally inside a markdown fence.
// Pairs missing either side are dropped and every pair gets a fresh id.
func parsePhrases(content string) ([]model.TextQA, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if m := fencedJSON.FindStringSubmatch(content); len(m) > 1 {
			content = m[1]
		}
	}

	type pair struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	var raw []pair
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Phrases []pair `json:"phrases"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, err
		}
		raw = wrapped.Phrases
	}

	out := make([]model.TextQA, 0, len(raw))
	for _, p := range raw {
		q, a := strings.TrimSpace(p.Question), strings.TrimSpace(p.Answer)
		if q == "" || a == "" {
			continue
		}
		out = append(out, model.NewQA(q, a))
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type disabled struct{}

func (disabled) Translate(context.Context, string) (string, error) { return "", ErrNotConfigured }
func (disabled) ExtractPhrases(context.Context, string) ([]model.TextQA, error) {
	return nil, ErrNotConfigured
}
