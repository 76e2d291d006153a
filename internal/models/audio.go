package models

import "fmt"

const bytesPerMB = 1024 * 1024

// AudioUnit is one file submitted to the ASR service: either the whole
// recording or a chunk cut from it.
type AudioUnit struct {
	Path      string
	Format    string
	SizeBytes int64
	// Duration in seconds; zero when not probed.
	Duration float64

	IsChunk    bool
	ChunkIndex int
	// BaseOffset is ChunkIndex × split duration, in seconds on the global timeline.
	BaseOffset float64
}

// SizeMB returns the size in binary megabytes.
func (u AudioUnit) SizeMB() float64 {
	return float64(u.SizeBytes) / bytesPerMB
}

func (u AudioUnit) String() string {
	if !u.IsChunk {
		return u.Path
	}
	return fmt.Sprintf("chunk %d (+%.2fs): %s", u.ChunkIndex, u.BaseOffset, u.Path)
}

// ChunkingDecision is the outcome of the chunker for one recording.
// Units is the whole file when Split is false, otherwise the chunks
// ordered by index.
type ChunkingDecision struct {
	Split      bool
	SizeMB     float64
	Units      []AudioUnit
	ScratchDir string
}
