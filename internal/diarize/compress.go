package diarize

import (
	"context"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Malformed describes the line that stopped ParseLab early
type Malformed struct {
	// Line is 1-based
	Line int
	Text string
	// Skipped counts the non-blank lines left unparsed, the stopping line included
	Skipped int
}

// ParseLab reads `<start> <end> <label>` lines in order. The first line
// that is not exactly three fields with numeric times ends the scan.
// Malformed is nil when everything after that point is blank.
func ParseLab(text string) ([]models.DiarizationInterval, *Malformed) {
	lines := strings.Split(text, "\n")

	var intervals []models.DiarizationInterval
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		iv, ok := parseLine(line)
		if !ok {
			return intervals, malformedFrom(lines, i)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

func parseLine(line string) (models.DiarizationInterval, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return models.DiarizationInterval{}, false
	}
	start, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return models.DiarizationInterval{}, false
	}
	end, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return models.DiarizationInterval{}, false
	}
	return models.DiarizationInterval{Start: start, End: end, Label: fields[2]}, true
}

func malformedFrom(lines []string, stop int) *Malformed {
	var m *Malformed
	for i := stop; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if m == nil {
			m = &Malformed{Line: i + 1, Text: strings.TrimSpace(lines[i])}
		}
		m.Skipped++
	}
	return m
}

// Merge collapses consecutive intervals with the same label into turns.
// Zero-length intervals are skipped so they cannot split a turn: A 0-2,
// B 2-2, A 2-4 yields one turn A 0-4 rather than A, B, A. A turn's end is
// the furthest end seen, so a nested interval never shortens it.
func Merge(intervals []models.DiarizationInterval) []models.SpeakerTurn {
	var turns []models.SpeakerTurn
	for _, iv := range intervals {
		if iv.End <= iv.Start {
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].Label == iv.Label {
			turns[n-1].End = max(turns[n-1].End, iv.End)
			continue
		}
		turns = append(turns, models.SpeakerTurn{Start: iv.Start, End: iv.End, Label: iv.Label})
	}
	return turns
}

// Compress parses raw diarizer output into speaker turns. A malformed
// remainder is logged and returned; the turns parsed before it are kept.
func Compress(ctx context.Context, log logger.Logger, text string) ([]models.SpeakerTurn, *Malformed) {
	intervals, malformed := ParseLab(text)
	if malformed != nil {
		log.Warn(ctx, "Diarization output malformed at line %d (%q), ignored %d remaining lines",
			malformed.Line, malformed.Text, malformed.Skipped)
	}

	turns := Merge(intervals)
	log.Debug(ctx, "Compressed %d diarization intervals into %d turns", len(intervals), len(turns))
	return turns, malformed
}
