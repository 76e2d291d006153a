package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// audioUnit describes the whole recording at audioPath
func audioUnit(audioPath string) (models.AudioUnit, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return models.AudioUnit{}, fmt.Errorf("%w: stat audio: %v", models.ErrFilesystem, err)
	}
	if info.IsDir() {
		return models.AudioUnit{}, fmt.Errorf("%w: %s is a directory", models.ErrFilesystem, audioPath)
	}
	return models.AudioUnit{
		Path:      audioPath,
		Format:    strings.TrimPrefix(strings.ToLower(filepath.Ext(audioPath)), "."),
		SizeBytes: info.Size(),
	}, nil
}

// importAudio copies the source file into the note directory unless a file
// with the same name is already stored there
func (p *implProcessor) importAudio(ctx context.Context, note, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("%w: open audio: %v", models.ErrFilesystem, err)
	}
	defer src.Close()

	stored, created, err := p.deps.Files.SaveAudio(note, filepath.Base(srcPath), src)
	if err != nil {
		return "", fmt.Errorf("store audio: %w", err)
	}
	if created {
		p.logger.Info(ctx, "Audio stored: %s", stored)
	} else {
		p.logger.Info(ctx, "Audio already stored, reusing: %s", stored)
	}
	return stored, nil
}
