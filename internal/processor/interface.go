package processor

import (
	"context"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Processor runs the transcription pipeline. Stages run sequentially
// within one call. A call owns its scratch directory, so concurrent calls
// must not share an audio file.
type Processor interface {
	// Transcribe returns the speaker-labeled transcript of audioPath.
	// numSpeakers of 0 uses the configured default.
	Transcribe(ctx context.Context, audioPath string, numSpeakers int) (models.Transcript, error)
	Summarize(ctx context.Context, transcript models.Transcript) (string, error)

	// ProcessNote stores the audio under the note, transcribes it and
	// persists the results. Nothing is written when a stage fails.
	ProcessNote(ctx context.Context, req NoteRequest) (*NoteResult, error)
	// SummarizeNote summarizes the saved transcript of a note
	SummarizeNote(ctx context.Context, note string) (string, error)

	// Process is the watcher handler for a file dropped into the inbox
	Process(ctx context.Context, audioPath string) error
}

type NoteRequest struct {
	Note        string
	AudioPath   string
	NumSpeakers int
	Summarize   bool
}

type NoteResult struct {
	AudioPath      string
	TranscriptPath string
	SummaryPath    string
	Transcript     models.Transcript
	Summary        string
}
