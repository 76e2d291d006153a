package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
	"github.com/nguyentantai21042004/speechnote/internal/testutil"
)

const whisperJSON = `{
  "result": {"language": "en"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,500"}, "offsets": {"from": 0, "to": 2500}, "text": " Hi there."},
    {"timestamps": {"from": "00:00:02,500", "to": "00:00:04,120"}, "offsets": {"from": 2500, "to": 4120}, "text": " How are you?"}
  ]
}`

type recordingMedia struct {
	converted []string
}

func (r *recordingMedia) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return 0, nil
}

func (r *recordingMedia) ExtractSpan(ctx context.Context, src, dst string, start, duration float64) error {
	return nil
}

func (r *recordingMedia) ToWAV(ctx context.Context, src, dst string) error {
	r.converted = append(r.converted, src)
	return os.WriteFile(dst, []byte("RIFF"), 0644)
}

func writeWhisperOutput(call testutil.Call) (string, error) {
	prefix := filepath.Join(call.Dir, testutil.Arg(call.Args, "--output-file"))
	return "", os.WriteFile(prefix+".json", []byte(whisperJSON), 0644)
}

func TestWhisperTranscribe(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		wantConvert bool
	}{
		{"wav input used directly", "session.wav", false},
		{"mp3 input converted", "chunk_0001.mp3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &testutil.FakeExecutor{Handler: writeWhisperOutput}
			tool := &recordingMedia{}
			b, err := NewWhisper(WhisperOptions{ModelPath: "ggml-base.bin", Language: "vi", Threads: 8}, exec, tool, logger.NewNop())
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), tt.file)
			segs, err := b.Transcribe(context.Background(), models.AudioUnit{Path: path})
			require.NoError(t, err)

			assert.Equal(t, []models.TranscriptSegment{
				{Start: 0, End: 2.5, Text: " Hi there."},
				{Start: 2.5, End: 4.12, Text: " How are you?"},
			}, segs)

			calls := exec.CallsTo("whisper-cli")
			require.Len(t, calls, 1)
			args := calls[0].Args
			assert.Contains(t, args, "-oj")
			assert.Equal(t, "ggml-base.bin", testutil.Arg(args, "-m"))
			assert.Equal(t, "vi", testutil.Arg(args, "-l"))
			assert.Equal(t, "8", testutil.Arg(args, "-t"))
			assert.Equal(t, "transcript", testutil.Arg(args, "--output-file"))
			require.NotEmpty(t, calls[0].Dir)

			if tt.wantConvert {
				assert.Equal(t, []string{path}, tool.converted)
				assert.NotEqual(t, path, testutil.Arg(args, "-f"))
			} else {
				assert.Empty(t, tool.converted)
				assert.Equal(t, path, testutil.Arg(args, "-f"))
			}

			// scratch output is removed after the call
			_, statErr := os.Stat(calls[0].Dir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestWhisperFailure(t *testing.T) {
	exec := &testutil.FakeExecutor{Handler: func(testutil.Call) (string, error) {
		return "", errors.New("model not found")
	}}
	b, err := NewWhisper(WhisperOptions{ModelPath: "m.bin"}, exec, &recordingMedia{}, logger.NewNop())
	require.NoError(t, err)

	_, err = b.Transcribe(context.Background(), models.AudioUnit{Path: "a.wav"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrCollaborator))
}

func TestNewWhisperRequiresModel(t *testing.T) {
	_, err := NewWhisper(WhisperOptions{}, &testutil.FakeExecutor{}, &recordingMedia{}, logger.NewNop())
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestParseWhisperJSONInvalid(t *testing.T) {
	_, err := parseWhisperJSON([]byte("not json"))
	assert.ErrorIs(t, err, models.ErrCollaborator)
}
