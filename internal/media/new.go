package media

import (
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/pkg/executor"
)

type implTool struct {
	ffmpeg   string
	ffprobe  string
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Tool running the given ffmpeg and ffprobe binaries
func New(ffmpegPath, ffprobePath string, exec executor.Executor, log logger.Logger) Tool {
	return &implTool{
		ffmpeg:   ffmpegPath,
		ffprobe:  ffprobePath,
		executor: exec,
		logger:   log,
	}
}
