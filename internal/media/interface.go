package media

import "context"

// Tool wraps the ffmpeg/ffprobe operations the pipeline needs
type Tool interface {
	// ProbeDuration returns the duration of the file in seconds
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// ExtractSpan writes [start, start+duration) seconds of src into dst;
	// the container is chosen from dst's extension
	ExtractSpan(ctx context.Context, src, dst string, start, duration float64) error
	// ToWAV converts src into 16 kHz mono PCM WAV at dst
	ToWAV(ctx context.Context, src, dst string) error
}
