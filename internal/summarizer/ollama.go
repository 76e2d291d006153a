package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaGenerator struct {
	client *api.Client
	model  string
}

// NewOllama creates a Generator for a local Ollama server
func NewOllama(host, model string, httpClient *http.Client) (Generator, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ollamaGenerator{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (g *ollamaGenerator) Name() string {
	return "ollama"
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var out strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out.String(), nil
}
