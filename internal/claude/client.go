package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tcpagent/internal"
	"tcpagent/internal/config"
)

// Client talks to the Anthropic Messages API and turns contract text into
// a raw field-value mapping. Retries transient failures with exponential
// backoff; reports token usage and estimated cost per call.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

var (
	fenceOpenRe  = regexp.MustCompile("^```(?:json)?\\s*\n")
	fenceCloseRe = regexp.MustCompile("\n```\\s*$")
)

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.AnthropicTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.AnthropicRateLimitRPS),
	}
}

// ExtractFields sends the contract text through the extraction prompt and
// decodes the returned JSON mapping.
func (c *Client) ExtractFields(ctx context.Context, contractText string) (map[string]any, internal.ExtractionUsage, error) {
	if strings.TrimSpace(c.cfg.AnthropicAPIKey) == "" {
		return nil, internal.ExtractionUsage{}, errors.New("missing ANTHROPIC_API_KEY")
	}

	body, usage, err := c.complete(ctx, BuildPrompt(contractText))
	if err != nil {
		return nil, usage, err
	}

	raw := stripFences(body)
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, usage, fmt.Errorf("decode extraction response: %w", err)
	}
	if len(fields) == 0 {
		return nil, usage, errors.New("empty field mapping from model")
	}
	return fields, usage, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, internal.ExtractionUsage, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     c.cfg.AnthropicModel,
		MaxTokens: c.cfg.AnthropicMaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", internal.ExtractionUsage{}, err
	}

	url := strings.TrimRight(c.cfg.AnthropicBaseURL, "/") + "/v1/messages"
	maxAttempts := c.cfg.AnthropicMaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(1000*(1<<(attempt-2))+rand.Intn(250)) * time.Millisecond
			select {
			case <-ctx.Done():
				return "", internal.ExtractionUsage{}, ctx.Err()
			case <-time.After(backoff):
			}
		}
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", internal.ExtractionUsage{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.cfg.AnthropicAPIKey)
		req.Header.Set("anthropic-version", c.cfg.AnthropicVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		blob, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = fmt.Errorf("anthropic status %d", resp.StatusCode)
				continue
			}
			return "", internal.ExtractionUsage{}, fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode, string(blob))
		}

		var parsed messagesResponse
		if err := json.Unmarshal(blob, &parsed); err != nil {
			return "", internal.ExtractionUsage{}, err
		}
		if parsed.Error != nil {
			return "", internal.ExtractionUsage{}, fmt.Errorf("anthropic api error: %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		if len(parsed.Content) == 0 {
			return "", internal.ExtractionUsage{}, errors.New("empty completion")
		}

		usage := internal.ExtractionUsage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		}
		usage.CostUSD = float64(usage.InputTokens)*c.cfg.CostInputPerMTok/1e6 +
			float64(usage.OutputTokens)*c.cfg.CostOutputPerMTok/1e6

		return strings.TrimSpace(parsed.Content[0].Text), usage, nil
	}

	if lastErr == nil {
		lastErr = errors.New("anthropic request failed")
	}
	return "", internal.ExtractionUsage{}, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504, 529:
		return true
	default:
		return false
	}
}

// stripFences removes a markdown code fence the model sometimes wraps
// around the JSON payload.
func stripFences(text string) string {
	out := strings.TrimSpace(text)
	if strings.HasPrefix(out, "```") {
		out = fenceOpenRe.ReplaceAllString(out, "")
		out = fenceCloseRe.ReplaceAllString(out, "")
		out = strings.TrimSpace(out)
	}
	return out
}
