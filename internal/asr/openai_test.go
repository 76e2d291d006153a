package asr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

const verboseJSON = `{
  "task": "transcribe",
  "language": "english",
  "duration": 8.47,
  "text": "Good morning. Thanks for coming in.",
  "segments": [
    {"id": 0, "seek": 0, "start": 0.0, "end": 3.2, "text": " Good morning."},
    {"id": 1, "seek": 0, "start": 3.2, "end": 8.47, "text": " Thanks for coming in."}
  ]
}`

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (Backend, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := NewOpenAI("sk-test", "whisper-1", logger.NewNop(),
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0644))
	return b, path
}

func TestOpenAITranscribe(t *testing.T) {
	var gotForm string
	b, path := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		gotForm = string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(verboseJSON))
	})

	segs, err := b.Transcribe(context.Background(), models.AudioUnit{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []models.TranscriptSegment{
		{Start: 0, End: 3.2, Text: " Good morning."},
		{Start: 3.2, End: 8.47, Text: " Thanks for coming in."},
	}, segs)

	assert.Contains(t, gotForm, "verbose_json")
	assert.Contains(t, gotForm, "segment")
	assert.Contains(t, gotForm, "whisper-1")
}

func TestOpenAIServiceError(t *testing.T) {
	b, path := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`))
	})

	_, err := b.Transcribe(context.Background(), models.AudioUnit{Path: path})
	require.Error(t, err)

	var ce *models.CollaboratorError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "openai-asr", ce.Collaborator)
}

func TestOpenAIMissingFile(t *testing.T) {
	b, err := NewOpenAI("sk-test", "", logger.NewNop())
	require.NoError(t, err)

	_, err = b.Transcribe(context.Background(), models.AudioUnit{Path: "/nope.mp3"})
	assert.ErrorIs(t, err, models.ErrFilesystem)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "whisper-1", logger.NewNop())
	assert.ErrorIs(t, err, models.ErrConfiguration)
}
