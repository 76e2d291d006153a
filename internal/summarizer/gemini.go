package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

type geminiGenerator struct {
	apiKeys []string
	model   string
	baseURL string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int

	// call is swapped in tests
	call func(ctx context.Context, key, prompt string) (string, error)
}

// NewGemini creates a Generator that rotates through the supplied Gemini API
// keys when one is rate limited. baseURL is optional.
func NewGemini(apiKeys []string, model, baseURL string, log logger.Logger) (Generator, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("%w: no gemini api keys", models.ErrConfiguration)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	g := &geminiGenerator{
		apiKeys: apiKeys,
		model:   model,
		baseURL: baseURL,
		logger:  log,
	}
	g.call = g.generateContent
	return g, nil
}

func (g *geminiGenerator) Name() string {
	return "gemini"
}

// Generate tries each key at most once, rotating on 429 / quota errors.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range len(g.apiKeys) {
		key, idx := g.key()

		text, err := g.call(ctx, key, prompt)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiGenerator) generateContent(ctx context.Context, key, prompt string) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (g *geminiGenerator) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

// rotateKey advances past idx unless another caller already did
func (g *geminiGenerator) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
