package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured     = errors.New("ai: api key not configured")
	ErrMalformedResponse = errors.New("ai: malformed response")
)

const (
	DefaultBaseURL           = "https://generativelanguage.googleapis.com"
	DefaultModel             = "gemini-3-flash-preview"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerMinute = 30
)

// Summarizer writes the daily recap prose.
type Summarizer interface {
	Summarize(ctx context.Context, overdue, dueToday []model.Task) (string, error)
}

// Interpreter turns a free-form activity description into a task suggestion.
type Interpreter interface {
	Interpret(ctx context.Context, activity string) (model.Suggestion, error)
}

type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client talks to the generateContent endpoint of a Gemini-compatible API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func NewClient(cfg Config, log logrus.FieldLogger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 2),
		log:     log.WithField("component", "ai"),
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Summarize asks the model for a short morning briefing.
func (c *Client) Summarize(ctx context.Context, overdue, dueToday []model.Task) (string, error) {
	text, err := c.generate(ctx, recapPrompt(overdue, dueToday), "")
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty recap", ErrMalformedResponse)
	}
	return text, nil
}

// Interpret asks the model for a JSON task suggestion.
func (c *Client) Interpret(ctx context.Context, activity string) (model.Suggestion, error) {
	text, err := c.generate(ctx, interpretPrompt(activity), "application/json")
	if err != nil {
		return model.Suggestion{}, err
	}
	return parseSuggestion(text)
}

func parseSuggestion(text string) (model.Suggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var s model.Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &s); err != nil {
		return model.Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(s.Title) == "" {
		return model.Suggestion{}, fmt.Errorf("%w: missing title", ErrMalformedResponse)
	}
	if s.NextSteps == nil {
		s.NextSteps = []string{}
	}
	return s, nil
}

func (c *Client) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req := generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	if mimeType != "" {
		req.GenerationConfig = &generationConfig{ResponseMimeType: mimeType}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	log := c.log.WithFields(logrus.Fields{
		"model":    c.model,
		"status":   resp.StatusCode,
		"duration": time.Since(started).Round(time.Millisecond),
	})

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			log.WithField("error", apiErr.Error.Message).Warn("generate failed")
			return "", fmt.Errorf("ai: api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		log.Warn("generate failed")
		return "", fmt.Errorf("ai: api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	var sb strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	log.Debug("generate ok")
	return sb.String(), nil
}
