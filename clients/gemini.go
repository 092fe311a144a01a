package clients

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

type ChatTurn struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text" binding:"required"`
}

// Chatter continues a multi-turn conversation.
type Chatter interface {
	Chat(ctx context.Context, history []ChatTurn, message string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
	system string
}

const farmingAssistantPrompt = "You are AgriVista's farming assistant. Answer questions about crops, soil, " +
	"fertilizers, irrigation, pests, weather and market prices for smallholder farmers in India. " +
	"Keep answers practical and short. If the question is unrelated to agriculture, say so politely."

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, nil
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiClient{client: client, model: model, system: farmingAssistantPrompt}, nil
}

func (g *GeminiClient) Chat(ctx context.Context, history []ChatTurn, message string) (string, error) {
	if g == nil {
		return "", ErrNotEnabled
	}
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
	})
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned an empty reply")
	}
	return text, nil
}
