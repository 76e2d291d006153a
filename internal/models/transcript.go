package models

// TranscriptSegment is a timestamped piece of ASR output on the global timeline.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// DiarizationInterval is one raw frame from the diarization model.
type DiarizationInterval struct {
	Start float64
	End   float64
	Label string
}

// SpeakerTurn is a maximal run of raw intervals sharing one label.
type SpeakerTurn struct {
	Start float64
	End   float64
	Label string
}

// AlignedSegment is one line of the final transcript.
type AlignedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
	Text  string  `json:"text"`
}

// Transcript is the ordered, speaker-labeled result of one transcribe call.
type Transcript []AlignedSegment

// IsEmpty reports whether the transcript has no segments.
func (t Transcript) IsEmpty() bool {
	return len(t) == 0
}

// Lines renders each segment as "label: text".
func (t Transcript) Lines() []string {
	lines := make([]string, 0, len(t))
	for _, s := range t {
		lines = append(lines, s.Label+": "+s.Text)
	}
	return lines
}
