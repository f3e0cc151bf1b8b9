// Package transcribe produces word-timed transcripts from narration
// audio using the whisper.cpp CLI.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/pkg/models"
)

// Transcriber shells out to whisper.cpp for speech recognition.
type Transcriber struct {
	binary  string
	model   string
	timeout time.Duration
	log     *logging.Logger

	run func(ctx context.Context, name string, args ...string) error
}

// NewTranscriber creates a whisper.cpp backed transcriber.
func NewTranscriber(binary, modelPath string, timeout time.Duration, log *logging.Logger) *Transcriber {
	if binary == "" {
		binary = "whisper-cli"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	t := &Transcriber{binary: binary, model: modelPath, timeout: timeout, log: log}
	t.run = t.runCommand
	return t
}

// whisperOutput mirrors the JSON whisper.cpp writes with -oj -ojf.
type whisperOutput struct {
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Tokens []struct {
			Text    string `json:"text"`
			Offsets struct {
				From int64 `json:"from"`
				To   int64 `json:"to"`
			} `json:"offsets"`
			P float64 `json:"p"`
		} `json:"tokens"`
	} `json:"transcription"`
}

// Transcribe runs whisper on the audio file and returns timed segments
// with per-word timestamps.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) ([]models.CaptionSegment, error) {
	outBase := filepath.Join(filepath.Dir(audioPath), "transcript")

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	args := []string{
		"-m", t.model,
		"-f", audioPath,
		"-oj",  // JSON output
		"-ojf", // full JSON with token data
		"-of", outBase,
	}
	if err := t.run(ctx, t.binary, args...); err != nil {
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	jsonPath := outBase + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}
	defer os.Remove(jsonPath)

	return parseWhisperJSON(data)
}

func (t *Transcriber) runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w, stderr: %s", err, stderr.String())
	}
	return nil
}

// parseWhisperJSON converts whisper's segment and token output into
// caption segments. Sub-word tokens are merged into words at whitespace
// boundaries; special tokens like [_BEG_] are dropped.
func parseWhisperJSON(data []byte) ([]models.CaptionSegment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}

	var segments []models.CaptionSegment
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		segment := models.CaptionSegment{
			Text:  text,
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
		}

		var current *models.CaptionWord
		for _, tok := range seg.Tokens {
			if strings.HasPrefix(tok.Text, "[_") {
				continue
			}
			startsWord := strings.HasPrefix(tok.Text, " ") || current == nil
			piece := strings.TrimSpace(tok.Text)
			if piece == "" {
				continue
			}

			if startsWord {
				segment.Words = append(segment.Words, models.CaptionWord{
					Text:       piece,
					Start:      float64(tok.Offsets.From) / 1000,
					End:        float64(tok.Offsets.To) / 1000,
					Confidence: tok.P,
				})
				current = &segment.Words[len(segment.Words)-1]
			} else {
				current.Text += piece
				current.End = float64(tok.Offsets.To) / 1000
				if tok.P < current.Confidence {
					current.Confidence = tok.P
				}
			}
		}

		segments = append(segments, segment)
	}

	return segments, nil
}
