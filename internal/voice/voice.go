// Package voice synthesizes narration audio with the edge-tts CLI.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/videoforge/videoforge/internal/logging"
)

// Synthesizer shells out to edge-tts to voice a script.
type Synthesizer struct {
	binary  string
	timeout time.Duration
	log     *logging.Logger
}

// NewSynthesizer creates an edge-tts backed synthesizer. An empty binary
// defaults to "edge-tts" on PATH.
func NewSynthesizer(binary string, timeout time.Duration, log *logging.Logger) *Synthesizer {
	if binary == "" {
		binary = "edge-tts"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Synthesizer{binary: binary, timeout: timeout, log: log}
}

// Synthesize voices the script in the given narration style and writes
// the result into outDir, returning the audio file path.
func (s *Synthesizer) Synthesize(ctx context.Context, script, voiceStyle, outDir string) (string, error) {
	if script == "" {
		return "", fmt.Errorf("empty script")
	}

	profile := ProfileFor(voiceStyle)
	outPath := filepath.Join(outDir, "narration.mp3")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := []string{
		"--voice", profile.Voice,
		"--rate", profile.Rate,
		"--pitch", profile.Pitch,
		"--text", script,
		"--write-media", outPath,
	}

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("edge-tts failed: %w, stderr: %s", err, stderr.String())
	}

	// edge-tts exits zero but writes nothing on some service errors.
	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("edge-tts produced no audio for voice %s", profile.Voice)
	}

	s.log.WithField("voice", profile.Voice).Debugf("synthesized %d bytes of narration", info.Size())
	return outPath, nil
}
