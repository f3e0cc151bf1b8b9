package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/pkg/models"
)

const videoBitrate = "8000k"

// Compositor burns captions into the assembled video track and muxes in
// the mixed audio, producing the final deliverable.
type Compositor struct {
	ffmpeg *FFmpeg
	log    *logging.Logger
}

// NewCompositor creates a compositor.
func NewCompositor(ffmpeg *FFmpeg, log *logging.Logger) *Compositor {
	return &Compositor{ffmpeg: ffmpeg, log: log}
}

// Composite produces the final video: videoPath with overlays burned in
// (if any) and audioPath muxed as the audio track, cut to at most
// maxDuration and encoded at the recipe's frame rate. audioPath may be
// empty, in which case the video's own audio (or silence) is kept.
func (c *Compositor) Composite(
	ctx context.Context,
	videoPath, audioPath string,
	overlays []TextOverlay,
	rec recipe.Recipe,
	maxDuration float64,
	workDir string,
) (string, error) {
	outPath := filepath.Join(workDir, "final.mp4")

	args := []string{"-i", videoPath}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	}

	if len(overlays) > 0 {
		width, height := recipe.ResolutionSize(rec.Resolution)
		assPath := filepath.Join(workDir, "captions.ass")
		if err := WriteASS(assPath, overlays, rec.Subtitles, width, height); err != nil {
			return "", Errorf(KindEncodeFailure, "compositing", "writing subtitle file: %v", err)
		}
		args = append(args, "-vf",
			fmt.Sprintf("subtitles=%s,fps=%d", escapeFilterPath(assPath), rec.FPS))
	} else {
		args = append(args, "-vf", fmt.Sprintf("fps=%d", rec.FPS))
	}

	if audioPath != "" {
		args = append(args, "-map", "0:v", "-map", "1:a")
	}

	args = append(args,
		"-t", formatSeconds(maxDuration),
		"-c:v", "libx264",
		"-preset", "medium",
		"-b:v", videoBitrate,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		"-shortest",
		"-y",
		outPath,
	)

	if err := c.ffmpeg.Run(ctx, args...); err != nil {
		return "", Errorf(KindEncodeFailure, "compositing", "final encode failed: %v", err)
	}

	return outPath, nil
}

// CompositeDuration returns the duration cap for the final cut: the
// recipe duration, unless the assembled material is shorter.
func CompositeDuration(rec recipe.Recipe, assembledDuration float64) float64 {
	if assembledDuration > 0 && assembledDuration < rec.Duration {
		return assembledDuration
	}
	return rec.Duration
}

// OverlaysFromSegments renders caption segments into positioned overlays
// using the recipe's subtitle style.
func OverlaysFromSegments(segments []models.CaptionSegment, rec recipe.Recipe, videoDuration float64) []TextOverlay {
	width, height := recipe.ResolutionSize(rec.Resolution)
	engine := CaptionEngine{}
	return engine.Render(segments, rec.Subtitles, videoDuration, width, height)
}
