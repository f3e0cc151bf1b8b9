package render

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/videoforge/videoforge/internal/logging"
)

const (
	// duckVolume is the music level while narration plays with Duck set.
	duckVolume = 0.3
	// defaultDuckThreshold in dB.
	defaultDuckThreshold = -20.0
	// normalizeTargetPeak is the linear peak amplitude after normalization.
	normalizeTargetPeak = 0.9
	// audioBitrate for all mixed outputs.
	audioBitrate = "192k"
)

var maxVolumePattern = regexp.MustCompile(`max_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)

// Mixer combines narration and background music into a single normalized
// audio track of an exact target duration.
type Mixer struct {
	ffmpeg *FFmpeg
	log    *logging.Logger
}

// NewMixer creates an audio mixer.
func NewMixer(ffmpeg *FFmpeg, log *logging.Logger) *Mixer {
	return &Mixer{ffmpeg: ffmpeg, log: log}
}

// MixOptions describes a single mix. Either input path may be empty.
type MixOptions struct {
	Narration       string
	Music           string
	MusicVolume     float64 // 0.0 to 1.0
	NarrationVolume float64 // 0.0 to 1.0
	TargetDuration  float64 // seconds; 0 means narration duration
	FadeIn          float64 // music fade-in, seconds
	FadeOut         float64 // music fade-out, seconds
	Duck            bool    // attenuate music while narration plays
	DuckThreshold   float64 // dB
}

// Mix produces a single audio track of exactly opts.TargetDuration
// seconds. Narration (may be empty) plays at NarrationVolume from t=0.
// Music (may be empty) is tiled to fill the target, faded in and out,
// and, when Duck is set, attenuated while the narration plays. The
// result is peak normalized. Missing inputs degrade: music-only,
// narration-only, or silence are all valid outputs.
func (m *Mixer) Mix(ctx context.Context, opts MixOptions, workDir string) (string, error) {
	outPath := filepath.Join(workDir, "mixed_audio.m4a")

	narrationPath := opts.Narration
	narrationDur := 0.0
	if narrationPath != "" {
		d, err := m.ffmpeg.Duration(ctx, narrationPath)
		if err != nil {
			m.log.WithError(err).Warn("narration track unreadable, mixing without it")
			narrationPath = ""
		} else {
			narrationDur = d
		}
	}

	if opts.TargetDuration <= 0 {
		opts.TargetDuration = narrationDur
	}
	targetDuration := opts.TargetDuration

	useMusic := opts.Music != ""
	if useMusic {
		if _, err := m.ffmpeg.Duration(ctx, opts.Music); err != nil {
			m.log.WithError(err).Warn("music track unreadable, mixing without it")
			useMusic = false
		}
	}

	var args []string
	var filter string

	switch {
	case narrationPath != "" && useMusic:
		args = []string{
			"-i", narrationPath,
			"-stream_loop", "-1", "-i", opts.Music,
		}
		filter = buildMixFilter(opts, narrationDur)

	case narrationPath != "":
		args = []string{"-i", narrationPath}
		filter = fmt.Sprintf("[0:a]volume=%.2f,%s[aout]",
			opts.NarrationVolume, padTrimFilter(targetDuration))

	case useMusic:
		args = []string{"-stream_loop", "-1", "-i", opts.Music}
		filter = fmt.Sprintf("[0:a]%s[aout]", musicChainFilter(opts))

	default:
		// Silent track keeps the muxing stage uniform.
		args = []string{"-f", "lavfi", "-i", "anullsrc=r=44100:cl=stereo"}
		filter = fmt.Sprintf("[0:a]%s[aout]", padTrimFilter(targetDuration))
	}

	args = append(args,
		"-filter_complex", filter,
		"-map", "[aout]",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-y",
		outPath,
	)

	if err := m.ffmpeg.Run(ctx, args...); err != nil {
		return "", Errorf(KindEncodeFailure, "mixing-audio", "mix failed: %v", err)
	}

	return m.normalize(ctx, outPath, workDir)
}

// Concatenate joins audio files in order with short crossfades between
// adjacent pairs, returning the combined track.
func (m *Mixer) Concatenate(ctx context.Context, paths []string, workDir string) (string, error) {
	if len(paths) == 0 {
		return "", Errorf(KindEncodeFailure, "mixing-audio", "no audio files to concatenate")
	}
	if len(paths) == 1 {
		return paths[0], nil
	}

	outPath := filepath.Join(workDir, "concat_audio.m4a")

	args := []string{}
	for _, p := range paths {
		args = append(args, "-i", p)
	}
	args = append(args,
		"-filter_complex", buildAcrossfadeFilter(len(paths)),
		"-map", "[aout]",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-y",
		outPath,
	)

	if err := m.ffmpeg.Run(ctx, args...); err != nil {
		return "", Errorf(KindEncodeFailure, "mixing-audio", "audio concat failed: %v", err)
	}
	return outPath, nil
}

// normalize runs a volumedetect pass and applies the gain that brings the
// peak to the target amplitude. A failed detection pass leaves the mix
// as is.
func (m *Mixer) normalize(ctx context.Context, inPath, workDir string) (string, error) {
	stderr, err := m.ffmpeg.RunCapture(ctx,
		"-i", inPath,
		"-af", "volumedetect",
		"-f", "null",
		"-",
	)
	if err != nil {
		m.log.WithError(err).Warn("volume detection failed, skipping normalization")
		return inPath, nil
	}

	maxDB, ok := parseMaxVolume(stderr)
	if !ok {
		m.log.Warn("no max_volume in detection output, skipping normalization")
		return inPath, nil
	}

	gain := normalizeGainDB(maxDB)
	if math.Abs(gain) < 0.1 {
		return inPath, nil
	}

	outPath := filepath.Join(workDir, "normalized_audio.m4a")
	err = m.ffmpeg.Run(ctx,
		"-i", inPath,
		"-af", fmt.Sprintf("volume=%.2fdB", gain),
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-y",
		outPath,
	)
	if err != nil {
		m.log.WithError(err).Warn("normalization pass failed, keeping unnormalized mix")
		return inPath, nil
	}

	os.Remove(inPath)
	return outPath, nil
}

// buildMixFilter builds the narration+music filter graph: music tiled
// and faded, optionally ducked while narration plays, both mixed without
// renormalization then padded and trimmed to the exact target.
func buildMixFilter(opts MixOptions, narrationDur float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[0:a]volume=%.2f[narr];", opts.NarrationVolume)
	fmt.Fprintf(&b, "[1:a]%s", musicChainFilter(opts))
	if opts.Duck && narrationDur > 0 {
		fmt.Fprintf(&b, ",volume=%.2f:enable='between(t,0,%.3f)'", duckVolume, narrationDur)
	}
	b.WriteString("[mus];")
	fmt.Fprintf(&b, "[narr][mus]amix=inputs=2:duration=longest:normalize=0,%s[aout]",
		padTrimFilter(opts.TargetDuration))

	return b.String()
}

// musicChainFilter trims looped music to the target and applies the mix
// volume plus fade in/out. Zero fades are omitted.
func musicChainFilter(opts MixOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "atrim=0:%.3f,volume=%.2f", opts.TargetDuration, opts.MusicVolume)
	if opts.FadeIn > 0 {
		fmt.Fprintf(&b, ",afade=t=in:st=0:d=%.3f", opts.FadeIn)
	}
	if opts.FadeOut > 0 {
		fadeOutStart := opts.TargetDuration - opts.FadeOut
		if fadeOutStart < 0 {
			fadeOutStart = 0
		}
		fmt.Fprintf(&b, ",afade=t=out:st=%.3f:d=%.3f", fadeOutStart, opts.FadeOut)
	}
	return b.String()
}

// padTrimFilter pads with silence then trims, guaranteeing exact length.
func padTrimFilter(targetDuration float64) string {
	return fmt.Sprintf("apad,atrim=0:%.3f", targetDuration)
}

// buildAcrossfadeFilter chains acrossfade between n inputs:
// [0:a][1:a]acrossfade=d=0.5[a1];[a1][2:a]acrossfade=d=0.5[a2];...
func buildAcrossfadeFilter(n int) string {
	var b strings.Builder
	prev := "0:a"
	for i := 1; i < n; i++ {
		label := fmt.Sprintf("a%d", i)
		if i == n-1 {
			label = "aout"
		}
		fmt.Fprintf(&b, "[%s][%d:a]acrossfade=d=0.5[%s];", prev, i, label)
		prev = label
	}
	return strings.TrimSuffix(b.String(), ";")
}

// parseMaxVolume extracts the max_volume reading from volumedetect output.
func parseMaxVolume(stderr string) (float64, bool) {
	match := maxVolumePattern.FindStringSubmatch(stderr)
	if match == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeGainDB returns the gain that moves the measured peak to the
// normalization target.
func normalizeGainDB(maxVolumeDB float64) float64 {
	return 20*math.Log10(normalizeTargetPeak) - maxVolumeDB
}
