package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/metrics"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/internal/tracing"
	"github.com/videoforge/videoforge/pkg/models"
)

// loopBaseDuration is the length of the base segment rendered before
// loop extension kicks in for very long outputs.
const loopBaseDuration = 300.0

// loopExtendThreshold: outputs longer than this are produced by
// rendering a base segment and looping it.
const loopExtendThreshold = 600.0

// Director turns a topic into a narration script.
type Director interface {
	Script(ctx context.Context, topic string, rec recipe.Recipe) (string, error)
}

// Synthesizer turns a script into a narration audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, voiceStyle, outDir string) (string, error)
}

// AssetFetcher locates source media for a topic. Implementations return
// whatever they can find; empty slices are not errors.
type AssetFetcher interface {
	FetchVideos(ctx context.Context, keywords []string, count int, outDir string) ([]string, error)
	FetchImages(ctx context.Context, keywords []string, count int, outDir string) ([]string, error)
	FetchMusic(ctx context.Context, mood string, outDir string) (string, error)
}

// Transcriber produces word-timed caption segments from narration audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]models.CaptionSegment, error)
}

// ProgressReporter receives job progress updates.
type ProgressReporter interface {
	Report(ctx context.Context, jobID string, progress int, message string)
}

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) Report(context.Context, string, int, string) {}

// Pipeline orchestrates a full render: script, narration, assets,
// assembly, audio mix, captions, composite, and loop extension. Asset
// and synthesis failures degrade the output; encode failures abort.
type Pipeline struct {
	registry    *recipe.Registry
	director    Director
	synthesizer Synthesizer
	fetcher     AssetFetcher
	transcriber Transcriber
	progress    ProgressReporter

	assembler  *Assembler
	mixer      *Mixer
	looper     *Looper
	compositor *Compositor

	workBase string
	log      *logging.Logger
}

// PipelineDeps bundles the collaborators a pipeline needs.
type PipelineDeps struct {
	Registry    *recipe.Registry
	Director    Director
	Synthesizer Synthesizer
	Fetcher     AssetFetcher
	Transcriber Transcriber
	Progress    ProgressReporter
	FFmpeg      *FFmpeg
	WorkBase    string
	Logger      *logging.Logger
}

// NewPipeline wires a render pipeline from its dependencies. A nil
// Progress reporter is replaced with a no-op.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Progress == nil {
		deps.Progress = NopProgress{}
	}
	if deps.WorkBase == "" {
		deps.WorkBase = os.TempDir()
	}
	return &Pipeline{
		registry:    deps.Registry,
		director:    deps.Director,
		synthesizer: deps.Synthesizer,
		fetcher:     deps.Fetcher,
		transcriber: deps.Transcriber,
		progress:    deps.Progress,
		assembler:   NewAssembler(deps.FFmpeg, deps.Logger),
		mixer:       NewMixer(deps.FFmpeg, deps.Logger),
		looper:      NewLooper(deps.FFmpeg, deps.Logger),
		compositor:  NewCompositor(deps.FFmpeg, deps.Logger),
		workBase:    deps.WorkBase,
		log:         deps.Logger,
	}
}

// Run renders the job end to end and returns the output file path. The
// job's temp directory is removed on return.
func (p *Pipeline) Run(ctx context.Context, job *models.Job) (string, error) {
	span, ctx := tracing.StartSpan(ctx, "render.pipeline")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "job_id", job.ID)
	tracing.SetTag(span, "recipe", job.Config.Recipe)

	start := time.Now()
	log := p.log.WithJobID(job.ID).WithRecipe(job.Config.Recipe)

	rec, err := p.registry.Get(job.Config.Recipe, recipe.Overrides{
		Duration:   job.Config.Duration,
		Resolution: job.Config.Resolution,
		FPS:        job.Config.FPS,
	})
	if err != nil {
		return "", NewError(KindUnknownRecipe, "resolving-recipe", err)
	}

	workDir, err := os.MkdirTemp(p.workBase, "render_"+job.ID+"_*")
	if err != nil {
		return "", Errorf(KindEncodeFailure, "preparing-workspace", "creating work dir: %v", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.WithError(rmErr).Warn("failed to clean up work directory")
		}
	}()

	p.progress.Report(ctx, job.ID, 0, "starting render")

	// Very long recipes render a base segment then loop it out.
	renderTarget := rec.Duration
	loopExtend := rec.Duration > loopExtendThreshold
	if loopExtend {
		renderTarget = loopBaseDuration
	}

	// Stage: script
	script := p.runScript(ctx, job, rec, log)
	p.progress.Report(ctx, job.ID, 10, "script ready")

	// Stage: narration
	narrationPath := p.runSynthesis(ctx, rec, script, workDir, log)
	p.progress.Report(ctx, job.ID, 40, "narration ready")

	// Stage: assets
	videos, images, musicPath := p.runFetch(ctx, job, rec, workDir, log)
	p.progress.Report(ctx, job.ID, 50, "assets ready")

	// Stage: assembly
	stageStart := time.Now()
	plans := p.assembler.Plan(ctx, videos, images, rec.Layout, rec.Pacing, renderTarget)
	assembledPath, assembledDur, err := p.assembler.Execute(ctx, plans, rec.Layout,
		widthOf(rec), heightOf(rec), rec.FPS, workDir)
	if err != nil {
		tracing.LogError(span, err)
		return "", err
	}
	metrics.RecordStageDuration("assembly", time.Since(stageStart).Seconds())
	p.progress.Report(ctx, job.ID, 70, "clips assembled")

	// Stage: audio mix and captions
	stageStart = time.Now()
	mixTarget := assembledDur
	if renderTarget < mixTarget {
		mixTarget = renderTarget
	}
	audioPath, err := p.mixer.Mix(ctx, MixOptions{
		Narration:       narrationPath,
		Music:           musicPath,
		MusicVolume:     rec.Audio.MusicVolume,
		NarrationVolume: rec.Audio.NarrationVolume,
		TargetDuration:  mixTarget,
		FadeIn:          rec.Pacing.FadeDuration,
		FadeOut:         rec.Pacing.FadeDuration,
		Duck:            rec.Audio.DuckNarration,
		DuckThreshold:   defaultDuckThreshold,
	}, workDir)
	if err != nil {
		tracing.LogError(span, err)
		return "", err
	}

	var overlays []TextOverlay
	if narrationPath != "" && p.transcriber != nil {
		segments, terr := p.transcriber.Transcribe(ctx, narrationPath)
		if terr != nil {
			log.WithError(terr).Warn("transcription failed, rendering without captions")
		} else {
			overlays = OverlaysFromSegments(segments, rec, mixTarget)
		}
	}
	metrics.RecordStageDuration("audio_captions", time.Since(stageStart).Seconds())

	// Stage: composite
	stageStart = time.Now()
	maxDur := CompositeDuration(rec, assembledDur)
	if loopExtend && maxDur > renderTarget {
		maxDur = renderTarget
	}
	finalPath, err := p.compositor.Composite(ctx, assembledPath, audioPath, overlays, rec, maxDur, workDir)
	if err != nil {
		tracing.LogError(span, err)
		return "", err
	}
	metrics.RecordStageDuration("composite", time.Since(stageStart).Seconds())
	p.progress.Report(ctx, job.ID, 80, "video rendered")

	// Stage: loop extension
	if loopExtend {
		stageStart = time.Now()
		loopedPath := LoopedOutputPath(finalPath)
		if err := p.looper.LoopSeamless(ctx, finalPath, rec.Duration, loopedPath); err != nil {
			tracing.LogError(span, err)
			return "", err
		}
		finalPath = loopedPath
		metrics.RecordStageDuration("loop_extension", time.Since(stageStart).Seconds())
		p.progress.Report(ctx, job.ID, 95, "loop created")
	}

	// Move the result out of the temp dir before cleanup.
	outPath := filepath.Join(p.workBase, fmt.Sprintf("output_%s.mp4", job.ID))
	if err := os.Rename(finalPath, outPath); err != nil {
		if cpErr := copyFile(finalPath, outPath); cpErr != nil {
			return "", Errorf(KindEncodeFailure, "finalizing", "moving output: %v", cpErr)
		}
	}

	elapsed := time.Since(start)
	metrics.VideoDurationRendered.Add(rec.Duration)
	if elapsed.Seconds() > 0 {
		metrics.RecordRenderSpeed(rec.Name, rec.Resolution, rec.Duration/elapsed.Seconds())
	}
	log.WithField("duration", elapsed.String()).Infof("render complete: %s", outPath)

	p.progress.Report(ctx, job.ID, 100, "render complete")
	return outPath, nil
}

// runScript asks the director for a narration script. Failure degrades
// to using the raw topic as the script.
func (p *Pipeline) runScript(ctx context.Context, job *models.Job, rec recipe.Recipe, log *logging.Logger) string {
	if p.director == nil {
		return job.Topic
	}
	script, err := p.director.Script(ctx, job.Topic, rec)
	if err != nil || script == "" {
		log.WithError(err).Warn("script generation failed, narrating the topic directly")
		return job.Topic
	}
	return script
}

// runSynthesis voices the script. Synthesis failure degrades to a silent
// render.
func (p *Pipeline) runSynthesis(ctx context.Context, rec recipe.Recipe, script, workDir string, log *logging.Logger) string {
	if p.synthesizer == nil || script == "" {
		return ""
	}
	path, err := p.synthesizer.Synthesize(ctx, script, rec.Audio.VoiceStyle, workDir)
	if err != nil {
		log.WithError(err).Warn("narration synthesis failed, rendering without narration")
		metrics.RecordError("synthesizer", KindSynthesisFailure.String())
		return ""
	}
	return path
}

// runFetch gathers source media. Fetch errors are absorbed; the
// assembler degrades to a placeholder when nothing arrives.
func (p *Pipeline) runFetch(ctx context.Context, job *models.Job, rec recipe.Recipe, workDir string, log *logging.Logger) (videos, images []string, musicPath string) {
	if p.fetcher == nil {
		return nil, nil, ""
	}

	keywords := rec.Keywords(job.Topic)

	videos, err := p.fetcher.FetchVideos(ctx, keywords, 8, workDir)
	if err != nil {
		log.WithError(err).Warn("video fetch failed, continuing with what we have")
		metrics.RecordAssetFetch("video", "error")
	} else {
		metrics.RecordAssetFetch("video", "ok")
	}

	if rec.Layout.Style == "ken-burns" {
		images, err = p.fetcher.FetchImages(ctx, keywords, maxKenBurnsImages, workDir)
		if err != nil {
			log.WithError(err).Warn("image fetch failed, continuing with what we have")
			metrics.RecordAssetFetch("image", "error")
		} else {
			metrics.RecordAssetFetch("image", "ok")
		}
	}

	if rec.Audio.BackgroundMusic {
		musicPath, err = p.fetcher.FetchMusic(ctx, rec.Name, workDir)
		if err != nil {
			log.WithError(err).Warn("music fetch failed, rendering without music")
			metrics.RecordAssetFetch("music", "error")
			musicPath = ""
		} else if musicPath != "" {
			metrics.RecordAssetFetch("music", "ok")
		}
	}

	return videos, images, musicPath
}

func widthOf(rec recipe.Recipe) int {
	w, _ := recipe.ResolutionSize(rec.Resolution)
	return w
}

func heightOf(rec recipe.Recipe) int {
	_, h := recipe.ResolutionSize(rec.Resolution)
	return h
}
