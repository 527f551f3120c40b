package vlm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	logger "github.com/bluespot/cli/internal/logger"
)

// Client talks to an Ollama-compatible /api/generate endpoint. The endpoint is
// a black box: it accepts an image plus an instruction and returns free-form
// text with timing metadata. Nothing about the reply's phrasing is guaranteed.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint and model name.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateRequest is the /api/generate request payload. Images are
// base64-encoded; Stream is always false, a single complete response is
// requested per analysis.
type GenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

// GenerateResponse is one /api/generate response record.
type GenerateResponse struct {
	Model           string `json:"model"`
	CreatedAt       string `json:"created_at"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	TotalDuration   int64  `json:"total_duration"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Duration returns the server-reported generation time.
func (r GenerateResponse) Duration() time.Duration {
	return time.Duration(r.TotalDuration)
}

// Generate sends the prompt and images to the model and returns every JSON
// record found in the payload. Despite stream being disabled, some servers
// still chunk their output into several concatenated records; the caller
// decides which one is the final coherent reply.
func (c *Client) Generate(ctx context.Context, prompt string, images ...string) ([]GenerateResponse, error) {
	body, err := json.Marshal(GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: images,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Sending analysis request", "url", c.baseURL, "model", c.model, "images", len(images))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model endpoint unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode, string(msg))
	}

	dec := json.NewDecoder(resp.Body)
	var records []GenerateResponse
	for {
		var r GenerateResponse
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if len(records) > 0 {
				logger.Debug("Discarding trailing undecodable payload data", "error", err)
				break
			}
			return nil, fmt.Errorf("failed to decode model response: %w", err)
		}
		records = append(records, r)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("model returned an empty payload")
	}

	logger.Debug("Model responded", "records", len(records), "duration", records[len(records)-1].Duration())
	return records, nil
}
