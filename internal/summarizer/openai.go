package summarizer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

type openAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a Generator backed by chat completions. The prompt is
// sent as a single user message.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key is empty", models.ErrConfiguration)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAIGenerator{
		client: openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  model,
	}, nil
}

func (g *openAIGenerator) Name() string {
	return "openai-chat"
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return completion.Choices[0].Message.Content, nil
}
