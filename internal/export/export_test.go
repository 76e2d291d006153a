package export

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

var sample = models.Transcript{
	{Start: 0, End: 4.2, Label: "SPEAKER_00", Text: "Chào em, hôm nay thế nào?"},
	{Start: 4.2, End: 3725, Label: "SPEAKER_01", Text: "Dạ, em ổn."},
}

func TestTranscriptText(t *testing.T) {
	assert.Equal(t, "SPEAKER_00: Chào em, hôm nay thế nào?\nSPEAKER_01: Dạ, em ổn.\n", TranscriptText(sample))
	assert.Equal(t, "", TranscriptText(nil))
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{4.9, "00:04"},
		{61, "01:01"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Timestamp(tt.seconds))
		})
	}
}

// documentXML returns the body of word/document.xml from a docx file
func documentXML(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestTranscriptDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note_transcript.docx")
	require.NoError(t, TranscriptDocx("note", sample, path))

	body := documentXML(t, path)
	assert.Contains(t, body, "SPEAKER_00 [00:00 - 00:04]: ")
	assert.Contains(t, body, "Dạ, em ổn.")
	assert.Contains(t, body, "1:02:05")
}

func TestSummaryDocx(t *testing.T) {
	markdown := strings.Join([]string{
		"# Session overview",
		"",
		"- **Stress** about exams",
		"1. Sleep schedule",
		"---",
		"Plain `closing` note.",
	}, "\n")

	path := filepath.Join(t.TempDir(), "note_summary.docx")
	require.NoError(t, SummaryDocx("note", markdown, path))

	body := documentXML(t, path)
	assert.Contains(t, body, "Session overview")
	assert.Contains(t, body, "Stress")
	assert.Contains(t, body, "1. Sleep schedule")
	assert.Contains(t, body, "Plain closing note.")
	assert.NotContains(t, body, "**")
	assert.NotContains(t, body, "# Session")
}

func TestCleanMarkdownInline(t *testing.T) {
	assert.Equal(t, "bold code", cleanMarkdownInline("**bold** `code`"))
}
