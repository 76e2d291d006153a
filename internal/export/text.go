// Package export renders transcripts and summaries for download.
package export

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// TranscriptText renders one "label: text" line per segment
func TranscriptText(transcript models.Transcript) string {
	if transcript.IsEmpty() {
		return ""
	}
	return strings.Join(transcript.Lines(), "\n") + "\n"
}

// Timestamp formats seconds as mm:ss, or h:mm:ss past the hour
func Timestamp(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
