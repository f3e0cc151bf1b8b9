package render

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/recipe"
)

// ClipKind identifies the source media type of a planned clip.
type ClipKind string

const (
	ClipVideo ClipKind = "video"
	ClipImage ClipKind = "image"
	ClipColor ClipKind = "color" // placeholder
)

const (
	// maxKenBurnsImages caps how many stills become pan/zoom segments.
	maxKenBurnsImages = 5
	// placeholderMaxDuration caps the flat-color fallback clip.
	placeholderMaxDuration = 10.0
	// maxPlannedClips is a safety bound on the coverage loop.
	maxPlannedClips = 1000
)

// ClipPlan describes one clip selection before any media is touched:
// which source, which slice of it, and which effect applies.
type ClipPlan struct {
	Source         string
	Kind           ClipKind
	SourceDuration float64 // natural duration; videos only
	TargetDuration float64
	StartOffset    float64 // offset into the source; videos only
	Effect         VisualEffect
}

// Assembler selects, trims and loops source media into a clip sequence
// covering a target duration, then renders it into a single video track.
type Assembler struct {
	ffmpeg *FFmpeg
	log    *logging.Logger
}

// NewAssembler creates a clip assembler.
func NewAssembler(ffmpeg *FFmpeg, log *logging.Logger) *Assembler {
	return &Assembler{ffmpeg: ffmpeg, log: log}
}

// Source is one usable input to clip planning.
type Source struct {
	Path     string
	Kind     ClipKind
	Duration float64 // videos only
}

// Plan probes the available sources and draws clip selections until their
// effective total covers targetDuration. Unprobeable sources are skipped
// with a warning. With no usable sources at all, the plan degrades to a
// single flat-color placeholder capped at 10 seconds.
func (a *Assembler) Plan(
	ctx context.Context,
	videoPaths, imagePaths []string,
	layout recipe.LayoutConfig,
	pacing recipe.PacingConfig,
	targetDuration float64,
) []ClipPlan {
	var pool []Source
	for _, path := range videoPaths {
		info, err := a.ffmpeg.Probe(ctx, path)
		if err != nil || info.Duration <= 0 || !info.HasVideo {
			a.log.WithError(err).Warnf("skipping unreadable video source: %s", path)
			continue
		}
		pool = append(pool, Source{Path: path, Kind: ClipVideo, Duration: info.Duration})
	}

	if layout.Style == "ken-burns" {
		count := 0
		for _, path := range imagePaths {
			if count >= maxKenBurnsImages {
				break
			}
			if _, err := os.Stat(path); err != nil {
				a.log.Warnf("skipping missing image source: %s", path)
				continue
			}
			pool = append(pool, Source{Path: path, Kind: ClipImage})
			count++
		}
	}

	if len(pool) == 0 {
		a.log.Warn("no usable assets, planning placeholder clip")
	}
	return PlanClips(pool, layout, pacing, targetDuration)
}

// PlanClips draws clip selections round-robin over the source pool until
// their effective total covers targetDuration, accounting for crossfade
// overlap. An empty pool yields a single placeholder clip.
func PlanClips(pool []Source, layout recipe.LayoutConfig, pacing recipe.PacingConfig, targetDuration float64) []ClipPlan {
	if len(pool) == 0 {
		dur := targetDuration
		if dur > placeholderMaxDuration {
			dur = placeholderMaxDuration
		}
		return []ClipPlan{{Kind: ClipColor, TargetDuration: dur, Effect: NoEffect()}}
	}

	crossfade := layout.TransitionType == "crossfade"

	var plans []ClipPlan
	var total float64
	for total < targetDuration && len(plans) < maxPlannedClips {
		for _, src := range pool {
			clipDur := pacing.MinClipDuration + rand.Float64()*(pacing.MaxClipDuration-pacing.MinClipDuration)

			plan := ClipPlan{
				Source:         src.Path,
				Kind:           src.Kind,
				SourceDuration: src.Duration,
				TargetDuration: clipDur,
				Effect:         NoEffect(),
			}

			switch src.Kind {
			case ClipVideo:
				if src.Duration > clipDur {
					plan.StartOffset = rand.Float64() * (src.Duration - clipDur)
				}
				if layout.TransitionType == "fade" {
					plan.Effect = VisualEffect{
						Kind:       EffectTransition,
						Transition: &TransitionParams{Type: "fade", Duration: layout.TransitionDuration},
					}
				} else if crossfade && len(plans) > 0 {
					plan.Effect = VisualEffect{
						Kind:       EffectTransition,
						Transition: &TransitionParams{Type: "crossfade", Duration: layout.TransitionDuration},
					}
				}
			case ClipImage:
				pz := DefaultPanZoom()
				plan.Effect = VisualEffect{Kind: EffectPanZoom, PanZoom: &pz}
			}

			// Crossfaded clips overlap their predecessor, shrinking the
			// effective total.
			effective := clipDur
			if crossfade && len(plans) > 0 {
				effective -= layout.TransitionDuration
			}
			if effective < 0 {
				effective = 0
			}

			plans = append(plans, plan)
			total += effective

			if total >= targetDuration || len(plans) >= maxPlannedClips {
				break
			}
		}
	}

	return plans
}

// PlannedDuration returns the effective total duration of a plan sequence,
// accounting for crossfade overlap.
func PlannedDuration(plans []ClipPlan) float64 {
	var total float64
	for i, p := range plans {
		total += p.TargetDuration
		if i > 0 && p.Effect.Kind == EffectTransition && p.Effect.Transition.Type == "crossfade" {
			total -= p.Effect.Transition.Duration
		}
	}
	return total
}

// Execute renders each plan into a normalized intermediate segment and
// stitches them per the layout. It returns the assembled video track path
// and its duration. Segments that fail to render are skipped; zero
// rendered segments is fatal.
func (a *Assembler) Execute(
	ctx context.Context,
	plans []ClipPlan,
	layout recipe.LayoutConfig,
	width, height, fps int,
	workDir string,
) (string, float64, error) {
	type segment struct {
		path     string
		duration float64
	}

	var segments []segment
	for i, plan := range plans {
		segPath := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
		if err := a.renderSegment(ctx, plan, width, height, fps, segPath); err != nil {
			a.log.WithError(err).Warnf("skipping clip that failed to render: %s", plan.Source)
			continue
		}
		segments = append(segments, segment{path: segPath, duration: plan.TargetDuration})
	}

	if len(segments) == 0 {
		return "", 0, Errorf(KindDecodeFailure, "assembling-clips", "no clips could be rendered from %d planned", len(plans))
	}

	// Split-screen pairs consecutive segments; an odd leftover pairs with
	// itself.
	if layout.Style == "split-screen" {
		var paired []segment
		for i := 0; i < len(segments); i += 2 {
			first := segments[i]
			second := first
			if i+1 < len(segments) {
				second = segments[i+1]
			}
			pairPath := filepath.Join(workDir, fmt.Sprintf("pair_%03d.mp4", i/2))
			if err := a.renderSplitScreen(ctx, first.path, second.path, "horizontal", width, height, pairPath); err != nil {
				a.log.WithError(err).Warn("skipping split-screen pair that failed to render")
				continue
			}
			dur := first.duration
			if second.duration < dur {
				dur = second.duration
			}
			paired = append(paired, segment{path: pairPath, duration: dur})
		}
		if len(paired) == 0 {
			return "", 0, Errorf(KindDecodeFailure, "assembling-clips", "no split-screen pairs could be rendered")
		}
		segments = paired
	}

	outPath := filepath.Join(workDir, "assembled.mp4")

	if layout.TransitionType == "crossfade" && len(segments) > 1 {
		paths := make([]string, len(segments))
		durations := make([]float64, len(segments))
		for i, seg := range segments {
			paths[i] = seg.path
			durations[i] = seg.duration
		}
		if err := a.stitchCrossfade(ctx, paths, durations, layout.TransitionDuration, outPath); err != nil {
			return "", 0, Errorf(KindEncodeFailure, "assembling-clips", "crossfade stitch failed: %v", err)
		}
	} else {
		paths := make([]string, len(segments))
		for i, seg := range segments {
			paths[i] = seg.path
		}
		if err := a.stitchConcat(ctx, paths, outPath); err != nil {
			return "", 0, Errorf(KindEncodeFailure, "assembling-clips", "concat failed: %v", err)
		}
	}

	duration, err := a.ffmpeg.Duration(ctx, outPath)
	if err != nil {
		return "", 0, Errorf(KindEncodeFailure, "assembling-clips", "probing assembled output: %v", err)
	}

	return outPath, duration, nil
}

// renderSegment renders one clip plan into a normalized video-only
// segment at the target resolution and frame rate.
func (a *Assembler) renderSegment(ctx context.Context, plan ClipPlan, width, height, fps int, outPath string) error {
	var args []string
	var filter string

	switch plan.Kind {
	case ClipVideo:
		if plan.SourceDuration > 0 && plan.SourceDuration < plan.TargetDuration {
			// Loop the source enough times to cover the target.
			loops := int(plan.TargetDuration/plan.SourceDuration) + 1
			args = append(args, "-stream_loop", fmt.Sprintf("%d", loops), "-i", plan.Source)
		} else {
			args = append(args, "-ss", formatSeconds(plan.StartOffset), "-i", plan.Source)
		}
		args = append(args, "-t", formatSeconds(plan.TargetDuration))
		filter = fmt.Sprintf("scale=%d:%d,setsar=1,fps=%d", width, height, fps)

		if plan.Effect.Kind == EffectTransition && plan.Effect.Transition.Type == "fade" {
			d := plan.Effect.Transition.Duration
			filter += fmt.Sprintf(",fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
				formatSeconds(d), formatSeconds(plan.TargetDuration-d), formatSeconds(d))
		}

	case ClipImage:
		pz := plan.Effect.PanZoom
		if pz == nil {
			def := DefaultPanZoom()
			pz = &def
		}
		args = append(args, "-i", plan.Source)
		filter = panZoomFilter(*pz, plan.TargetDuration, width, height, fps)

	case ClipColor:
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("color=c=0x323232:s=%dx%d:r=%d", width, height, fps),
			"-t", formatSeconds(plan.TargetDuration),
		)

	default:
		return fmt.Errorf("unknown clip kind: %s", plan.Kind)
	}

	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-an",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-y",
		outPath,
	)

	return a.ffmpeg.Run(ctx, args...)
}

// panZoomFilter builds a zoompan filter interpolating scale and crop
// center linearly over the clip. The image is upscaled first so the
// subpixel crop motion stays smooth.
func panZoomFilter(pz PanZoomParams, duration float64, width, height, fps int) string {
	frames := int(duration * float64(fps))
	if frames < 2 {
		frames = 2
	}
	// zoompan evaluates per output frame; on runs 0..frames-1.
	progress := fmt.Sprintf("on/%d", frames-1)
	zoom := fmt.Sprintf("%.3f+(%.3f-%.3f)*%s", pz.StartScale, pz.EndScale, pz.StartScale, progress)
	x := fmt.Sprintf("(iw-iw/zoom)*(%.3f+(%.3f-%.3f)*%s)", pz.StartCX, pz.EndCX, pz.StartCX, progress)
	y := fmt.Sprintf("(ih-ih/zoom)*(%.3f+(%.3f-%.3f)*%s)", pz.StartCY, pz.EndCY, pz.StartCY, progress)

	return fmt.Sprintf("scale=%d:%d,zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		width*2, height*2, zoom, x, y, frames, width, height, fps)
}

// stitchConcat joins segments with the concat demuxer. Segments are
// uniformly encoded, so stream copy is safe and fast.
func (a *Assembler) stitchConcat(ctx context.Context, paths []string, outPath string) error {
	if len(paths) == 1 {
		return copyFile(paths[0], outPath)
	}

	listPath, err := writeConcatList(paths)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listPath)

	return a.ffmpeg.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outPath,
	)
}

// stitchCrossfade overlaps adjacent segments with an xfade chain. Offsets
// are computed from the actual segment durations.
func (a *Assembler) stitchCrossfade(ctx context.Context, paths []string, durations []float64, overlap float64, outPath string) error {
	args := []string{}
	for _, p := range paths {
		args = append(args, "-i", p)
	}
	args = append(args,
		"-filter_complex", buildXfadeFilter(durations, overlap),
		"-map", "[outv]",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-y",
		outPath,
	)
	return a.ffmpeg.Run(ctx, args...)
}

// buildXfadeFilter chains xfade between every adjacent pair:
// [0:v][1:v]xfade=...:offset=d0-T[v01];[v01][2:v]xfade=...[v02];...
// The final label is normalized to [outv].
func buildXfadeFilter(durations []float64, overlap float64) string {
	var filter strings.Builder

	prevLabel := "0:v"
	offset := 0.0
	for i := 1; i < len(durations); i++ {
		offset += durations[i-1] - overlap
		if offset < 0 {
			offset = 0
		}

		label := fmt.Sprintf("v%02d", i)
		if i == len(durations)-1 {
			label = "outv"
		}
		fmt.Fprintf(&filter, "[%s][%d:v]xfade=transition=fade:duration=%s:offset=%s[%s];",
			prevLabel, i, formatSeconds(overlap), formatSeconds(offset), label)
		prevLabel = label
	}

	return strings.TrimSuffix(filter.String(), ";")
}

// renderSplitScreen lays two segments side by side (or stacked) at half
// resolution each.
func (a *Assembler) renderSplitScreen(ctx context.Context, first, second, orientation string, width, height int, outPath string) error {
	var filter string
	if orientation == "vertical" {
		filter = fmt.Sprintf(
			"[0:v]scale=%d:%d,setsar=1[a];[1:v]scale=%d:%d,setsar=1[b];[a][b]vstack=inputs=2:shortest=1[v]",
			width, height/2, width, height/2)
	} else {
		filter = fmt.Sprintf(
			"[0:v]scale=%d:%d,setsar=1[a];[1:v]scale=%d:%d,setsar=1[b];[a][b]hstack=inputs=2:shortest=1[v]",
			width/2, height, width/2, height)
	}

	return a.ffmpeg.Run(ctx,
		"-i", first,
		"-i", second,
		"-filter_complex", filter,
		"-map", "[v]",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-y",
		outPath,
	)
}

// writeConcatList writes a concat demuxer file list to a temp file.
func writeConcatList(paths []string) (string, error) {
	tempFile, err := os.CreateTemp("", "concat_*.txt")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tempFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}

	return tempFile.Name(), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
