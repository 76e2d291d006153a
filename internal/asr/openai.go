package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

const openAIName = "openai-asr"

type openAIBackend struct {
	client openai.Client
	model  string
	logger logger.Logger
}

// verboseTranscription is the subset of the verbose_json response we read
type verboseTranscription struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewOpenAI creates a backend for the hosted transcription endpoint.
// Extra request options (base URL, HTTP client) are appended after the key.
func NewOpenAI(apiKey, model string, log logger.Logger, opts ...option.RequestOption) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key is empty", models.ErrConfiguration)
	}
	if model == "" {
		model = "whisper-1"
	}
	return &openAIBackend{
		client: openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  model,
		logger: log,
	}, nil
}

func (b *openAIBackend) Name() string {
	return openAIName
}

func (b *openAIBackend) Transcribe(ctx context.Context, unit models.AudioUnit) ([]models.TranscriptSegment, error) {
	f, err := os.Open(unit.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open audio: %v", models.ErrFilesystem, err)
	}
	defer f.Close()

	resp, err := b.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  openai.AudioModel(b.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	})
	if err != nil {
		return nil, models.NewCollaboratorError(openAIName, err)
	}

	var verbose verboseTranscription
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return nil, models.NewCollaboratorError(openAIName, fmt.Errorf("decode verbose_json: %w", err))
	}

	segments := make([]models.TranscriptSegment, 0, len(verbose.Segments))
	for _, s := range verbose.Segments {
		segments = append(segments, models.TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text})
	}
	b.logger.Debug(ctx, "openai returned %d segments for %s", len(segments), unit.Path)
	return segments, nil
}
