// Package arkvlm implements ports.Describer against an
// OpenAI-compatible chat completions endpoint. Frames travel inline as
// base64 data URLs, so the endpoint needs no access to the source
// video.
package arkvlm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/awmthink/viseeker/pkg/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "doubao-seed-1-6-250615"

// DefaultBaseURL is the Ark endpoint used when none is configured.
const DefaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"

// Options configure the client. APIKey is required; BaseURL and Model
// fall back to the Ark defaults.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to a chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  ports.Logger
}

// New creates a Client from opts.
func New(opts Options, logger ports.Logger) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithComponent("vlm"),
	}
}

// Wire types for the chat completions request and response.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Describe sends the prompt and the frames as one user message. Each
// frame is preceded by a text part naming its timestamp so the model
// can anchor events in time.
func (c *Client) Describe(ctx context.Context, prompt string, frames []ports.DescribeFrame) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("vlm api key not configured")
	}
	if len(frames) == 0 {
		return "", fmt.Errorf("no frames to describe")
	}

	content := []contentPart{{Type: "text", Text: prompt}}
	for _, f := range frames {
		content = append(content,
			contentPart{Type: "text", Text: fmt.Sprintf("[%.1f second]", f.Timestamp)},
			contentPart{Type: "image_url", ImageURL: &imageURL{
				URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(f.JPEG),
			}},
		)
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("Sending %d frames to %s", len(frames), c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("chat completions: unexpected response (status %s)", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat completions: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completions: status %s", resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ ports.Describer = (*Client)(nil)
