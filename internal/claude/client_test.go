package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"tcpagent/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.AnthropicAPIKey = "test"
	cfg.AnthropicBaseURL = "https://example.test"
	cfg.AnthropicRateLimitRPS = 1000
	cfg.AnthropicMaxRetries = 3
	return cfg
}

func completion(text string, inTokens, outTokens int) string {
	payload := map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"usage":   map[string]any{"input_tokens": inTokens, "output_tokens": outTokens},
	}
	blob, _ := json.Marshal(payload)
	return string(blob)
}

func TestExtractFieldsWithRetry(t *testing.T) {
	attempt := 0
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/v1/messages" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("x-api-key") != "test" {
				t.Fatalf("missing api key header")
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(strings.NewReader(`{"error":{"type":"rate_limit_error"}}`)),
					Header:     make(http.Header),
				}, nil
			}
			body := completion("```json\n{\"vessel_name\": \"northern star\", \"daily_hire_rate_usd\": \"$18,500\"}\n```", 1200, 300)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	fields, usage, err := client.ExtractFields(context.Background(), "contract text")
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
	if fields["vessel_name"] != "northern star" {
		t.Fatalf("fields=%v", fields)
	}
	if usage.InputTokens != 1200 || usage.OutputTokens != 300 {
		t.Fatalf("usage=%+v", usage)
	}
	// 1200 * $3/MTok + 300 * $15/MTok
	wantCost := 1200*3.0/1e6 + 300*15.0/1e6
	if usage.CostUSD != wantCost {
		t.Fatalf("cost=%v want %v", usage.CostUSD, wantCost)
	}
}

func TestExtractFieldsRejectsEmptyMapping(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(completion("{}", 10, 1))),
				Header:     make(http.Header),
			}, nil
		}),
	}
	if _, _, err := client.ExtractFields(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty mapping")
	}
}

func TestExtractFieldsRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.AnthropicAPIKey = ""
	client := NewClient(cfg)
	if _, _, err := client.ExtractFields(context.Background(), "text"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "{\"a\": 1}", want: "{\"a\": 1}"},
		{input: "```json\n{\"a\": 1}\n```", want: "{\"a\": 1}"},
		{input: "```\n{\"a\": 1}\n```", want: "{\"a\": 1}"},
	}
	for _, tc := range cases {
		if got := stripFences(tc.input); got != tc.want {
			t.Fatalf("stripFences(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}
