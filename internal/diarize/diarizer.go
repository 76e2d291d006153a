package diarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

const collaboratorName = "diarizer"

func (d *implDiarizer) Diarize(ctx context.Context, audioPath string, numSpeakers int) (string, error) {
	wavPath := audioPath
	if !strings.EqualFold(filepath.Ext(audioPath), ".wav") {
		tmpDir, err := os.MkdirTemp("", "speechnote-diarize-*")
		if err != nil {
			return "", fmt.Errorf("%w: create temp dir: %v", models.ErrFilesystem, err)
		}
		defer d.cleanupTempDir(ctx, tmpDir)

		wavPath = filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))+".wav")
		if err := d.media.ToWAV(ctx, audioPath, wavPath); err != nil {
			return "", fmt.Errorf("convert for diarization: %w", err)
		}
	}

	args := []string{d.opts.Script, "--audio", wavPath}
	if numSpeakers > 0 {
		args = append(args, "--num-speakers", strconv.Itoa(numSpeakers))
	}
	if d.opts.Device != "" {
		args = append(args, "--device", d.opts.Device)
	}
	env := []string{"HUGGINGFACE_AUTH_TOKEN=" + d.opts.HuggingFaceToken}

	d.logger.Info(ctx, "Running diarization (%d speakers): %s", numSpeakers, wavPath)

	out, err := d.executor.ExecuteWithEnv(ctx, env, d.opts.Python, args...)
	if err != nil {
		return "", models.NewCollaboratorError(collaboratorName, err)
	}

	d.logger.Debug(ctx, "Diarization returned %d bytes", len(out))
	return out, nil
}

func (d *implDiarizer) cleanupTempDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		d.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		d.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
