package render

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/videoforge/videoforge/internal/logging"
)

const (
	// seamlessFadeDuration is the fade applied at the very start and end
	// of a seamless loop.
	seamlessFadeDuration = 1.0
	// extraLoopCopies pads the concat list so rounding never undershoots.
	extraLoopCopies = 2
)

// Looper extends a short rendered segment to a much longer duration by
// repetition. Built for multi-hour ambient outputs where re-rendering the
// full length would be wasteful.
type Looper struct {
	ffmpeg *FFmpeg
	log    *logging.Logger
}

// NewLooper creates a loop extender.
func NewLooper(ffmpeg *FFmpeg, log *logging.Logger) *Looper {
	return &Looper{ffmpeg: ffmpeg, log: log}
}

// Loop extends inputPath to targetDuration via stream copy. The input is
// repeated indefinitely and cut at the target, so the last repetition may
// be truncated mid-clip.
func (l *Looper) Loop(ctx context.Context, inputPath string, targetDuration float64, outPath string) error {
	err := l.ffmpeg.Run(ctx,
		"-stream_loop", "-1",
		"-i", inputPath,
		"-t", formatSeconds(targetDuration),
		"-c", "copy",
		"-y",
		outPath,
	)
	if err != nil {
		return Errorf(KindEncodeFailure, "looping", "stream-copy loop failed: %v", err)
	}
	return nil
}

// LoopSeamless extends inputPath to targetDuration with a single fade-in
// at the start and fade-out ending exactly at the target, re-encoding the
// output. It needs the input's duration; an unreadable input is fatal
// here since copy counts cannot be computed. Any ffmpeg failure falls
// back to the plain stream-copy loop.
func (l *Looper) LoopSeamless(ctx context.Context, inputPath string, targetDuration float64, outPath string) error {
	inputDur, err := l.ffmpeg.Duration(ctx, inputPath)
	if err != nil || inputDur <= 0 {
		return Errorf(KindDurationProbeFailure, "looping", "cannot probe loop input %s: %v", inputPath, err)
	}

	copies := loopCopies(inputDur, targetDuration)
	listPath, err := writeConcatList(repeatPath(inputPath, copies))
	if err != nil {
		return Errorf(KindEncodeFailure, "looping", "writing concat list: %v", err)
	}
	defer os.Remove(listPath)

	fadeOutStart := targetDuration - seamlessFadeDuration
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	err = l.ffmpeg.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-t", formatSeconds(targetDuration),
		"-vf", fmt.Sprintf("fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
			formatSeconds(seamlessFadeDuration), formatSeconds(fadeOutStart), formatSeconds(seamlessFadeDuration)),
		"-af", fmt.Sprintf("afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s",
			formatSeconds(seamlessFadeDuration), formatSeconds(fadeOutStart), formatSeconds(seamlessFadeDuration)),
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-y",
		outPath,
	)
	if err != nil {
		l.log.WithError(err).Warn("seamless loop failed, falling back to stream-copy loop")
		return l.Loop(ctx, inputPath, targetDuration, outPath)
	}
	return nil
}

// LoopAudio extends an audio file to targetDuration via stream copy.
func (l *Looper) LoopAudio(ctx context.Context, inputPath string, targetDuration float64, outPath string) error {
	err := l.ffmpeg.Run(ctx,
		"-stream_loop", "-1",
		"-i", inputPath,
		"-t", formatSeconds(targetDuration),
		"-c", "copy",
		"-y",
		outPath,
	)
	if err != nil {
		return Errorf(KindEncodeFailure, "looping", "audio loop failed: %v", err)
	}
	return nil
}

// loopCopies returns how many repetitions of an input of inputDur seconds
// cover targetDuration, padded so the trim always has material.
func loopCopies(inputDur, targetDuration float64) int {
	if inputDur <= 0 {
		return 1
	}
	return int(math.Ceil(targetDuration/inputDur)) + extraLoopCopies
}

func repeatPath(path string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = path
	}
	return paths
}

// LoopedOutputPath derives the output path for a loop-extended file by
// suffixing the base name.
func LoopedOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := filepath.Base(inputPath)
	return filepath.Join(dir, base[:len(base)-len(ext)]+"_looped"+ext)
}
