package clients

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Completer produces a chat completion constrained to a JSON object.
type Completer interface {
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	client *resty.Client
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewGroqClient(baseURL, apiKey, model string, timeout time.Duration) *GroqClient {
	if apiKey == "" {
		return nil
	}
	return &GroqClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetAuthToken(apiKey),
		model: model,
	}
}

func (g *GroqClient) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	if g == nil {
		return "", ErrNotEnabled
	}
	body := chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.4,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	result := &chatCompletionResponse{}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post("/chat/completions")
	if err != nil {
		return "", errors.Wrap(err, "groq chat completion")
	}
	if resp.IsError() {
		return "", &StatusError{Service: "groq", Code: resp.StatusCode(), Body: resp.String()}
	}
	if len(result.Choices) == 0 {
		return "", errors.New("groq chat completion: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}
