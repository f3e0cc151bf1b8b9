package models

// CaptionWord is a single transcribed word with timing information.
type CaptionWord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// CaptionSegment is a contiguous unit of transcribed speech with aggregate
// timing and best-effort word-level timestamps. Segments are ordered by
// start time across a transcript; words are ordered within a segment.
type CaptionSegment struct {
	Words []CaptionWord `json:"words,omitempty"`
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
}

// Duration returns the segment length in seconds.
func (s CaptionSegment) Duration() float64 {
	return s.End - s.Start
}
