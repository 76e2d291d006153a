package storage

import (
	"io"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// FileManager stores everything that belongs to a note under
// <base>/<note>/. Note names are single path elements chosen by the user.
type FileManager interface {
	ListNotes() ([]string, error)
	CreateNote(name string) error
	// FilePath returns <base>/<note>/<file>, creating the note directory
	FilePath(note, file string) (string, error)

	// SaveAudio stores r as <note>/<file>. An existing file is kept and
	// created is false.
	SaveAudio(note, file string, r io.Reader) (path string, created bool, err error)
	// Load reads a stored file. Binary extensions come back raw, anything
	// else is decoded to UTF-8 text.
	Load(path string) (*File, error)

	// SaveResults writes the transcript and, when summary is non-nil, the
	// summary. Either both are replaced or neither is.
	SaveResults(note string, transcript models.Transcript, summary *string) (transcriptPath, summaryPath string, err error)
	// LoadTranscript returns an empty transcript when none was saved yet
	LoadTranscript(note string) (models.Transcript, error)
	SaveSummary(note, summary string) (string, error)
	LoadSummary(note string) (string, error)

	// ScratchDir is a per-run directory outside every note; the caller removes it
	ScratchDir(runID string) string
}

// File is the content returned by Load
type File struct {
	Path   string
	Binary bool
	Data   []byte
	// Text is set for non-binary files
	Text string
	// Encoding is the detected source encoding of Text
	Encoding string
}
