package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/media"
	"github.com/nguyentantai21042004/speechnote/internal/models"
	"github.com/nguyentantai21042004/speechnote/pkg/executor"
)

const (
	whisperName   = "whisper-cpp"
	whisperPrefix = "transcript"
)

// WhisperOptions configures the local whisper.cpp binary
type WhisperOptions struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Prompt     string
	Threads    int
}

type whisperBackend struct {
	opts     WhisperOptions
	executor executor.Executor
	media    media.Tool
	logger   logger.Logger
}

// whisperOutput is the document written by `whisper-cli -oj`
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// NewWhisper creates a backend running whisper.cpp locally. Input that is
// not WAV is converted with the media tool first.
func NewWhisper(opts WhisperOptions, exec executor.Executor, tool media.Tool, log logger.Logger) (Backend, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("%w: whisper model path is empty", models.ErrConfiguration)
	}
	if opts.BinaryPath == "" {
		opts.BinaryPath = "whisper-cli"
	}
	if opts.Threads <= 0 {
		opts.Threads = 4
	}
	return &whisperBackend{opts: opts, executor: exec, media: tool, logger: log}, nil
}

func (b *whisperBackend) Name() string {
	return whisperName
}

func (b *whisperBackend) Transcribe(ctx context.Context, unit models.AudioUnit) ([]models.TranscriptSegment, error) {
	workDir, err := os.MkdirTemp("", "speechnote-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create whisper dir: %v", models.ErrFilesystem, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			b.logger.Warn(ctx, "Failed to cleanup whisper dir %s: %v", workDir, err)
		}
	}()

	input := unit.Path
	if !strings.EqualFold(filepath.Ext(input), ".wav") {
		input = filepath.Join(workDir, "input.wav")
		if err := b.media.ToWAV(ctx, unit.Path, input); err != nil {
			return nil, fmt.Errorf("convert for whisper: %w", err)
		}
	}

	// -oj writes <prefix>.json with per-segment offsets in milliseconds.
	// The binary runs inside workDir so stray outputs land there too.
	args := []string{
		"-m", b.opts.ModelPath,
		"-f", input,
		"-oj",
		"-t", strconv.Itoa(b.opts.Threads),
		"--output-file", whisperPrefix,
	}
	if b.opts.Language != "" {
		args = append(args, "-l", b.opts.Language)
	}
	if b.opts.Prompt != "" {
		args = append(args, "--prompt", b.opts.Prompt)
	}

	if _, err := b.executor.ExecuteInDir(ctx, workDir, b.opts.BinaryPath, args...); err != nil {
		return nil, models.NewCollaboratorError(whisperName, err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, whisperPrefix+".json"))
	if err != nil {
		return nil, models.NewCollaboratorError(whisperName, fmt.Errorf("read output: %w", err))
	}
	return parseWhisperJSON(data)
}

func parseWhisperJSON(data []byte) ([]models.TranscriptSegment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, models.NewCollaboratorError(whisperName, fmt.Errorf("decode output: %w", err))
	}

	segments := make([]models.TranscriptSegment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		segments = append(segments, models.TranscriptSegment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  t.Text,
		})
	}
	return segments, nil
}
