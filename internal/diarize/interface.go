package diarize

import "context"

// Diarizer labels who speaks when in a recording
type Diarizer interface {
	// Diarize runs once over the whole recording and returns the raw
	// `<start> <end> <label>` lines. numSpeakers of 0 lets the model decide.
	Diarize(ctx context.Context, audioPath string, numSpeakers int) (string, error)
}

// Options configures the external diarization helper
type Options struct {
	Python           string
	Script           string
	Device           string
	HuggingFaceToken string
}
