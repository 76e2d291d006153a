// Package align assigns transcript segments to speaker turns by maximum
// temporal overlap.
package align

import (
	"sort"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Policy decides what happens to a segment that overlaps no turn
type Policy string

const (
	// PolicyDrop discards zero-overlap segments
	PolicyDrop Policy = "drop"
	// PolicyUnattributed keeps them under UnattributedLabel
	PolicyUnattributed Policy = "unattributed"
)

// UnattributedLabel marks text no speaker turn overlapped
const UnattributedLabel = "UNATTRIBUTED"

type Options struct {
	Policy Policy
}

// Result is the aligned transcript plus the segments no turn overlapped.
// Dropped is filled under both policies.
type Result struct {
	Segments models.Transcript
	Dropped  []models.TranscriptSegment
}

// Overlap is the length of the intersection of [aStart, aEnd] and
// [bStart, bEnd], or 0 when they are disjoint
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}

// bestTurn returns the index of the turn overlapping s the most. Only a
// strictly greater overlap replaces the current best, so the earliest
// turn wins ties. Returns -1 when nothing overlaps.
func bestTurn(s models.TranscriptSegment, turns []models.SpeakerTurn) int {
	best, bestOverlap := -1, 0.0
	for i, t := range turns {
		if o := Overlap(s.Start, s.End, t.Start, t.End); o > bestOverlap {
			best, bestOverlap = i, o
		}
	}
	return best
}

// Align builds the speaker-labeled transcript. Output follows turn order;
// turns that received no text are omitted. Inputs are not modified.
func Align(segments []models.TranscriptSegment, turns []models.SpeakerTurn, opts Options) Result {
	texts := make([]strings.Builder, len(turns))

	var (
		dropped      []models.TranscriptSegment
		unattributed models.Transcript
		lastWasMiss  bool
	)

	for _, s := range segments {
		i := bestTurn(s, turns)
		if i < 0 {
			dropped = append(dropped, s)
			if opts.Policy == PolicyUnattributed {
				unattributed = appendUnattributed(unattributed, s, lastWasMiss)
			}
			lastWasMiss = true
			continue
		}
		lastWasMiss = false
		texts[i].WriteString(strings.TrimSpace(s.Text))
		texts[i].WriteString(" ")
	}

	var out models.Transcript
	for i, t := range turns {
		text := strings.TrimSpace(texts[i].String())
		if text == "" {
			continue
		}
		out = append(out, models.AlignedSegment{Start: t.Start, End: t.End, Label: t.Label, Text: text})
	}

	var kept models.Transcript
	for _, u := range unattributed {
		if u.Text != "" {
			kept = append(kept, u)
		}
	}
	if len(kept) > 0 {
		out = interleave(out, kept)
	}
	return Result{Segments: out, Dropped: dropped}
}

// appendUnattributed extends the last bucket when the previous segment was
// also unmatched, otherwise opens a new one
func appendUnattributed(buckets models.Transcript, s models.TranscriptSegment, extend bool) models.Transcript {
	text := strings.TrimSpace(s.Text)
	if extend && len(buckets) > 0 {
		last := &buckets[len(buckets)-1]
		last.End = max(last.End, s.End)
		last.Text = strings.TrimSpace(last.Text + " " + text)
		return buckets
	}
	return append(buckets, models.AlignedSegment{Start: s.Start, End: s.End, Label: UnattributedLabel, Text: text})
}

// interleave merges the unattributed buckets into the attributed segments
// by start time. Attributed segments come first on equal starts.
func interleave(attributed, unattributed models.Transcript) models.Transcript {
	merged := make(models.Transcript, 0, len(attributed)+len(unattributed))
	merged = append(merged, attributed...)
	merged = append(merged, unattributed...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	return merged
}
