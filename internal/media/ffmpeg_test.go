package media

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeDuration(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		want    float64
		wantErr bool
	}{
		{"plain seconds", "184.512000\n", nil, 184.512, false},
		{"garbage", "N/A\n", nil, 0, true},
		{"negative", "-1\n", nil, 0, true},
		{"ffprobe failure", "", errors.New("exit 1"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &testutil.FakeExecutor{Handler: func(testutil.Call) (string, error) {
				return tt.output, tt.err
			}}
			tool := New("ffmpeg", "ffprobe", exec, logger.NewNop())

			got, err := tool.ProbeDuration(context.Background(), "a.mp3")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, "ffprobe", exec.Calls()[0].Name)
		})
	}
}

func TestExtractSpanArgs(t *testing.T) {
	exec := &testutil.FakeExecutor{}
	tool := New("/usr/bin/ffmpeg", "ffprobe", exec, logger.NewNop())

	require.NoError(t, tool.ExtractSpan(context.Background(), "in.m4a", "out/chunk_0001.mp3", 600, 123.4567))

	calls := exec.CallsTo("/usr/bin/ffmpeg")
	require.Len(t, calls, 1)
	assert.Equal(t, "600.000", testutil.Arg(calls[0].Args, "-ss"))
	assert.Equal(t, "123.457", testutil.Arg(calls[0].Args, "-t"))
	assert.Equal(t, "in.m4a", testutil.Arg(calls[0].Args, "-i"))
	assert.Equal(t, "out/chunk_0001.mp3", testutil.LastArg(calls[0].Args))
}

func TestToWAVArgs(t *testing.T) {
	exec := &testutil.FakeExecutor{}
	tool := New("ffmpeg", "ffprobe", exec, logger.NewNop())

	require.NoError(t, tool.ToWAV(context.Background(), "in.mp3", "in.wav"))

	args := exec.Calls()[0].Args
	assert.Equal(t, "16000", testutil.Arg(args, "-ar"))
	assert.Equal(t, "1", testutil.Arg(args, "-ac"))
	assert.Equal(t, "pcm_s16le", testutil.Arg(args, "-c:a"))
	assert.Equal(t, "in.wav", testutil.LastArg(args))
}
