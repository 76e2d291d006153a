package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

const scratchDirName = ".scratch"

var (
	ErrInvalidName = errors.New("invalid name")
	ErrNoteExists  = errors.New("note already exists")
)

// ValidateName rejects names that are not a single visible path element
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`) || name != filepath.Base(name):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return nil
}

func (m *implFileManager) ListNotes() ([]string, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: %v", models.ErrFilesystem, err)
	}

	var notes []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			notes = append(notes, e.Name())
		}
	}
	sort.Strings(notes)
	return notes, nil
}

func (m *implFileManager) CreateNote(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	dir := filepath.Join(m.baseDir, name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", ErrNoteExists, name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create note: %v", models.ErrFilesystem, err)
	}
	return nil
}

func (m *implFileManager) FilePath(note, file string) (string, error) {
	if err := ValidateName(note); err != nil {
		return "", fmt.Errorf("note: %w", err)
	}
	if err := ValidateName(file); err != nil {
		return "", fmt.Errorf("file: %w", err)
	}
	dir := filepath.Join(m.baseDir, note)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create note dir: %v", models.ErrFilesystem, err)
	}
	return filepath.Join(dir, file), nil
}

func (m *implFileManager) SaveAudio(note, file string, r io.Reader) (string, bool, error) {
	path, err := m.FilePath(note, file)
	if err != nil {
		return "", false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		m.logger.Debug(context.Background(), "Audio already stored: %s", path)
		return path, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: create %s: %v", models.ErrFilesystem, path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", false, fmt.Errorf("%w: write %s: %v", models.ErrFilesystem, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", false, fmt.Errorf("%w: close %s: %v", models.ErrFilesystem, path, err)
	}
	return path, true, nil
}

func (m *implFileManager) ScratchDir(runID string) string {
	return filepath.Join(m.baseDir, scratchDirName, runID)
}
