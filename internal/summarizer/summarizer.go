package summarizer

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// NoTranscriptMessage is returned for an empty transcript without calling
// the generator
const NoTranscriptMessage = "No transcript available to summarize."

func (s *implSummarizer) Summarize(ctx context.Context, transcript models.Transcript) (string, error) {
	if transcript.IsEmpty() {
		s.logger.Warn(ctx, "Transcript is empty, skipping summary")
		return NoTranscriptMessage, nil
	}

	prompt := BuildPrompt(s.prompt, transcript)
	s.logger.Info(ctx, "Summarizing %d segments with %s", len(transcript), s.generator.Name())
	s.logger.Debug(ctx, "Prompt length: %d characters", len(prompt))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", models.NewCollaboratorError(s.generator.Name(), err)
	}

	s.logger.Info(ctx, "Summary complete")
	return strings.TrimSpace(text), nil
}

// BuildPrompt joins the instruction and the transcript lines with a blank line
func BuildPrompt(instruction string, transcript models.Transcript) string {
	return instruction + "\n\n" + strings.Join(transcript.Lines(), "\n")
}
