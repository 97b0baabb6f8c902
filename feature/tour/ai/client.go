package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config holds the OpenAI-compatible endpoint used for AI descriptions.
type Config struct {
	Enabled        bool    `mapstructure:"enabled" default:"false"`
	BaseURL        string  `mapstructure:"base_url" default:"https://api.openai.com/v1"`
	APIKey         string  `mapstructure:"api_key" default:""`
	Model          string  `mapstructure:"model" default:"gpt-4o-mini"`
	MaxTokens      int     `mapstructure:"max_tokens" default:"600"`
	Temperature    float64 `mapstructure:"temperature" default:"0.7"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" default:"60"`
	RetryCount     int     `mapstructure:"retry_count" default:"2"`
}

// ErrDisabled is returned when the generator is not configured.
var ErrDisabled = errors.New("ai description generator is disabled")

// Input is the record context sent to the model.
type Input struct {
	Title    string
	Category string
	Addr     string
	Overview string
}

// Generator writes a visitor-facing description for a record.
type Generator interface {
	Describe(ctx context.Context, in Input) (string, error)
}

// Client is a Generator backed by a chat completions endpoint.
type Client struct {
	cfg    Config
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a chat completions client with retry on 429 and 5xx.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			var status, attempt int
			if r != nil {
				status = r.StatusCode()
				if r.Request != nil {
					attempt = r.Request.Attempt
				}
			}
			logger.Warn("AI request retrying",
				zap.Int("status", status),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		})

	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

const systemPrompt = "You write short, factual Korean travel descriptions for a tourism portal. " +
	"Use only the facts provided. Answer with plain text, at most three paragraphs."

// Describe implements Generator.
func (c *Client) Describe(ctx context.Context, in Input) (string, error) {
	if !c.cfg.Enabled {
		return "", ErrDisabled
	}

	var out chatResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt(in)},
			},
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		}).
		SetResult(&out).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("chat completion: http %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat completion: empty content")
	}
	return text, nil
}

func prompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "이름: %s\n", in.Title)
	if in.Category != "" {
		fmt.Fprintf(&b, "분류: %s\n", in.Category)
	}
	if in.Addr != "" {
		fmt.Fprintf(&b, "주소: %s\n", in.Addr)
	}
	fmt.Fprintf(&b, "개요: %s\n", in.Overview)
	return b.String()
}
