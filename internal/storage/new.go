package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

type implFileManager struct {
	baseDir    string
	binaryExts map[string]bool
	logger     logger.Logger
}

// New creates a FileManager rooted at baseDir, creating it if needed
func New(baseDir string, binaryExts []string, log logger.Logger) (FileManager, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", models.ErrFilesystem, baseDir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", models.ErrFilesystem, abs, err)
	}

	exts := make(map[string]bool, len(binaryExts))
	for _, e := range binaryExts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}

	return &implFileManager{
		baseDir:    abs,
		binaryExts: exts,
		logger:     log,
	}, nil
}
