package voice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		style     string
		wantVoice string
	}{
		{"energetic", "en-US-GuyNeural"},
		{"calm", "en-US-JennyNeural"},
		{"news", "en-US-ChristopherNeural"},
		{"friendly", "en-US-AriaNeural"},
		{"unknown", "en-US-AriaNeural"},
		{"", "en-US-AriaNeural"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.wantVoice, ProfileFor(tt.style).Voice)
		})
	}
}

func TestStylesAllHaveProfiles(t *testing.T) {
	for _, style := range Styles() {
		p := ProfileFor(style)
		assert.NotEmpty(t, p.Voice, style)
		assert.NotEmpty(t, p.Rate, style)
	}
}

func TestSynthesizeEmptyScript(t *testing.T) {
	s := NewSynthesizer("edge-tts", time.Second, nil)

	_, err := s.Synthesize(context.Background(), "", "calm", t.TempDir())
	require.Error(t, err)
}

func TestSynthesizeMissingBinary(t *testing.T) {
	s := NewSynthesizer("definitely-not-a-real-binary", time.Second, nil)

	_, err := s.Synthesize(context.Background(), "hello world", "calm", t.TempDir())
	require.Error(t, err)
}
