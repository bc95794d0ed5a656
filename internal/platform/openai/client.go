// Package openai is a minimal embeddings client for the OpenAI API, used by
// the vectorization layer when no local embedder is configured.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/surveykg-backend/internal/platform/logger"
)

const defaultBaseURL = "https://api.openai.com"

type Client struct {
	apiKey     string
	baseURL    string
	embedModel string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(apiKey, embedModel string, log *logger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key required")
	}
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With("client", "OpenAI"),
	}, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns one vector per input, in input order. Blank inputs are
// replaced with a single space because the API rejects empty strings.
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	req := embeddingsRequest{Model: c.embedModel, Input: clean}
	var resp embeddingsResponse
	if err := c.do(ctx, "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(clean))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = vec
		}
	}
	for i := range out {
		if len(out[i]) == 0 {
			return nil, fmt.Errorf("openai: embeddings response missing index %d (requested=%d returned=%d model=%s)",
				i, len(clean), len(resp.Data), c.embedModel)
		}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("openai: %s returned %d: %s", path, resp.StatusCode, truncate(string(raw), 300))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
