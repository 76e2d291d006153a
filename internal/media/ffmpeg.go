package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (t *implTool) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := t.executor.Execute(ctx, t.ffprobe, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	raw := strings.TrimSpace(out)
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", raw, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("ffprobe returned negative duration %v", seconds)
	}

	t.logger.Debug(ctx, "Probed duration of %s: %.3fs", path, seconds)
	return seconds, nil
}

func (t *implTool) ExtractSpan(ctx context.Context, src, dst string, start, duration float64) error {
	// -ss before -i seeks on the input, so the chunk timeline starts at 0
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", src,
		"-vn",
		dst,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg extract span: %w", err)
	}
	return nil
}

// ToWAV produces the 16kHz mono PCM format the diarization model expects
func (t *implTool) ToWAV(ctx context.Context, src, dst string) error {
	t.logger.Info(ctx, "Converting audio to WAV: %s", src)

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		dst,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg convert to wav: %w", err)
	}
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
