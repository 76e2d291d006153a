package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

const maxLineBytes = 16 * 1024 * 1024

func transcriptFile(note string) string { return note + ".jsonl" }
func summaryFile(note string) string    { return note + "_summary.txt" }

func (m *implFileManager) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", models.ErrFilesystem, path, err)
	}

	f := &File{Path: path, Data: data}
	if m.binaryExts[strings.ToLower(filepath.Ext(path))] {
		f.Binary = true
		return f, nil
	}

	f.Text, f.Encoding = m.decode(data)
	return f, nil
}

// decode returns data as UTF-8. Valid UTF-8 passes through, otherwise the
// encoding is sniffed and ISO-8859-1 is the last resort.
func (m *implFileManager) decode(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	enc, name, _ := charset.DetermineEncoding(data, "text/plain")
	if decoded, err := enc.NewDecoder().Bytes(data); err == nil && name != "utf-8" {
		return string(decoded), name
	}

	m.logger.Warn(context.Background(), "Could not detect text encoding, falling back to ISO-8859-1")
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded), "iso-8859-1"
}

// SaveResults writes the transcript and, when summary is non-nil, the
// summary. Both are staged next to their targets before either is renamed
// into place, and a failed summary rename puts the previous transcript back.
func (m *implFileManager) SaveResults(note string, transcript models.Transcript, summary *string) (string, string, error) {
	transcriptPath, err := m.FilePath(note, transcriptFile(note))
	if err != nil {
		return "", "", err
	}
	data, err := encodeTranscript(transcript)
	if err != nil {
		return "", "", err
	}

	// Step 1: Stage everything
	st, err := stageFile(transcriptPath, data)
	if err != nil {
		return "", "", err
	}
	if summary == nil {
		if err := st.commit(); err != nil {
			return "", "", err
		}
		return transcriptPath, "", nil
	}

	summaryPath, err := m.FilePath(note, summaryFile(note))
	if err != nil {
		st.discard()
		return "", "", err
	}
	ss, err := stageFile(summaryPath, []byte(*summary))
	if err != nil {
		st.discard()
		return "", "", err
	}

	// Step 2: Move the previous transcript aside so it can be restored
	backup := st.tmp + ".prev"
	hadPrevious := true
	if err := os.Rename(transcriptPath, backup); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			st.discard()
			ss.discard()
			return "", "", fmt.Errorf("%w: back up %s: %v", models.ErrFilesystem, transcriptPath, err)
		}
		hadPrevious = false
	}

	// Step 3: Commit both
	if err := st.commit(); err != nil {
		ss.discard()
		m.restore(backup, transcriptPath, hadPrevious)
		return "", "", err
	}
	if err := ss.commit(); err != nil {
		m.restore(backup, transcriptPath, hadPrevious)
		return "", "", err
	}

	if hadPrevious {
		if err := os.Remove(backup); err != nil {
			m.logger.Warn(context.Background(), "Failed to remove transcript backup %s: %v", backup, err)
		}
	}
	return transcriptPath, summaryPath, nil
}

// restore puts the previous transcript back, or removes the new one when
// there was none
func (m *implFileManager) restore(backup, path string, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = os.Rename(backup, path)
	} else {
		err = os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		m.logger.Error(context.Background(), "Failed to restore transcript %s: %v", path, err)
	}
}

func encodeTranscript(transcript models.Transcript) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, seg := range transcript {
		if err := enc.Encode(seg); err != nil {
			return nil, fmt.Errorf("encode segment: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func (m *implFileManager) LoadTranscript(note string) (models.Transcript, error) {
	path, err := m.FilePath(note, transcriptFile(note))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Transcript{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open transcript: %v", models.ErrFilesystem, err)
	}
	defer f.Close()

	transcript := models.Transcript{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var seg models.AlignedSegment
		if err := json.Unmarshal(raw, &seg); err != nil {
			return nil, fmt.Errorf("decode %s line %d: %w", path, line, err)
		}
		transcript = append(transcript, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read transcript: %v", models.ErrFilesystem, err)
	}
	return transcript, nil
}

func (m *implFileManager) SaveSummary(note, summary string) (string, error) {
	path, err := m.FilePath(note, summaryFile(note))
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path, []byte(summary)); err != nil {
		return "", err
	}
	return path, nil
}

// LoadSummary returns "" when no summary was saved yet
func (m *implFileManager) LoadSummary(note string) (string, error) {
	path, err := m.FilePath(note, summaryFile(note))
	if err != nil {
		return "", err
	}
	f, err := m.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

// writeAtomic replaces path only once the new content is fully on disk
func writeAtomic(path string, data []byte) error {
	st, err := stageFile(path, data)
	if err != nil {
		return err
	}
	return st.commit()
}

// staged is a fully written temp file waiting to replace path
type staged struct {
	tmp  string
	path string
}

func stageFile(path string, data []byte) (staged, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return staged{}, fmt.Errorf("%w: create temp file: %v", models.ErrFilesystem, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return staged{}, fmt.Errorf("%w: chmod temp file: %v", models.ErrFilesystem, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return staged{}, fmt.Errorf("%w: write temp file: %v", models.ErrFilesystem, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return staged{}, fmt.Errorf("%w: sync temp file: %v", models.ErrFilesystem, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return staged{}, fmt.Errorf("%w: close temp file: %v", models.ErrFilesystem, err)
	}
	return staged{tmp: tmpName, path: path}, nil
}

func (s staged) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		s.discard()
		return fmt.Errorf("%w: replace %s: %v", models.ErrFilesystem, s.path, err)
	}
	return nil
}

func (s staged) discard() {
	_ = os.Remove(s.tmp)
}
