package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/videoforge/videoforge/internal/assets"
	"github.com/videoforge/videoforge/internal/cache"
	"github.com/videoforge/videoforge/internal/config"
	"github.com/videoforge/videoforge/internal/database"
	"github.com/videoforge/videoforge/internal/director"
	"github.com/videoforge/videoforge/internal/jobs"
	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/metrics"
	"github.com/videoforge/videoforge/internal/queue"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/internal/render"
	"github.com/videoforge/videoforge/internal/storage"
	"github.com/videoforge/videoforge/internal/tracing"
	"github.com/videoforge/videoforge/internal/transcribe"
	"github.com/videoforge/videoforge/internal/voice"
	"github.com/videoforge/videoforge/pkg/models"
)

const progressCacheTTL = time.Hour

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	workerID := workerIdentity()
	log = log.WithWorkerID(workerID)

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("videoforge-worker", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Warnf("tracing disabled: %v", err)
		} else {
			defer closer.Close()
		}
	}

	store, dbClose, err := openStore(cfg, log)
	if err != nil {
		log.Fatalf("failed to open job store: %v", err)
	}
	defer dbClose()

	stor, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("failed to connect to queue: %v", err)
	}
	defer q.Close()

	var jobCache *cache.Cache
	if cfg.Redis.Host != "" {
		jobCache, err = cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnf("redis unavailable, progress cache disabled: %v", err)
			jobCache = nil
		} else {
			defer jobCache.Close()
		}
	}

	if err := os.MkdirAll(cfg.Renderer.TempDir, 0755); err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}

	registry := recipe.NewRegistry()
	dir := director.New(registry, log)
	ffmpeg := render.NewFFmpeg(cfg.Renderer.FFmpegPath, cfg.Renderer.FFprobePath)

	pipeline := render.NewPipeline(render.PipelineDeps{
		Registry: registry,
		Director: dir,
		Synthesizer: voice.NewSynthesizer(cfg.Voice.EdgeTTSPath, cfg.Voice.Timeout, log),
		Fetcher: assets.NewFetcher(assets.Options{
			APIKey:        cfg.Assets.PexelsAPIKey,
			Cache:         jobCache,
			CacheTTL:      cfg.Assets.CacheTTL,
			LocalVideoDir: cfg.Assets.LocalVideoDir,
			LocalMusicDir: cfg.Assets.LocalMusicDir,
			Logger:        log,
		}),
		Transcriber: transcribe.NewTranscriber(cfg.Whisper.BinaryPath, cfg.Whisper.ModelPath, cfg.Whisper.Timeout, log),
		Progress:    &storeProgress{store: store, cache: jobCache, log: log},
		FFmpeg:      ffmpeg,
		WorkBase:    cfg.Renderer.TempDir,
		Logger:      log,
	})

	worker := &Worker{
		id:       workerID,
		store:    store,
		storage:  stor,
		director: dir,
		pipeline: pipeline,
		log:      log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down worker")
		cancel()
	}()

	metricsServer := metrics.NewServer(cfg.Server.MetricsPort)
	go func() {
		if err := metricsServer.Start(); err != nil {
			log.Errorf("metrics server failed: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics server shutdown: %v", err)
		}
	}()

	metrics.WorkerActive.Inc()
	defer metrics.WorkerActive.Dec()

	log.Info("worker started, waiting for jobs")
	if err := q.ConsumeJobs(ctx, worker.Process); err != nil {
		log.Fatalf("failed to consume jobs: %v", err)
	}
	if err := q.ConsumeDLQ(ctx, worker.ProcessDeadLetter); err != nil {
		log.Warnf("failed to consume dead letter queue: %v", err)
	}

	<-ctx.Done()
	log.Info("worker stopped")
}

// openStore connects the Postgres job store, or an in-memory one when no
// database is configured.
func openStore(cfg *config.Config, log *logging.Logger) (jobs.Store, func(), error) {
	if cfg.Database.Host == "" {
		log.Warn("no database configured, using in-memory job store")
		return jobs.NewMemoryStore(), func() {}, nil
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return database.NewRepository(db), db.Close, nil
}

func workerIdentity() string {
	host, err := os.Hostname()
	if err != nil {
		host = "worker"
	}
	return fmt.Sprintf("%s-%s", host, uuid.New().String()[:8])
}

// storeProgress writes pipeline milestones through the job store and,
// when available, the redis status cache.
type storeProgress struct {
	store jobs.Store
	cache *cache.Cache
	log   *logging.Logger
}

func (sp *storeProgress) Report(ctx context.Context, jobID string, progress int, message string) {
	if err := sp.store.SetProgress(ctx, jobID, progress, message); err != nil {
		sp.log.WithJobID(jobID).Warnf("failed to persist progress: %v", err)
	}
	if sp.cache != nil {
		if err := sp.cache.SetJobProgress(ctx, jobID, progress, progressCacheTTL); err != nil {
			sp.log.WithJobID(jobID).Debugf("failed to cache progress: %v", err)
		}
	}
}

// Worker processes render jobs from the queue one at a time.
type Worker struct {
	id       string
	store    jobs.Store
	storage  *storage.Storage
	director *director.Director
	pipeline *render.Pipeline
	log      *logging.Logger
}

// Process renders a single job end to end. The returned error drives the
// queue's retry and dead-letter handling.
func (w *Worker) Process(job *models.Job) error {
	ctx := context.Background()
	log := w.log.WithJobID(job.ID)
	start := time.Now()

	metrics.JobsInProgress.Inc()
	defer metrics.JobsInProgress.Dec()
	defer metrics.WorkerJobsProcessed.WithLabelValues(w.id).Inc()

	// "auto" defers recipe choice to the director.
	if job.Config.Recipe == "" || job.Config.Recipe == "auto" {
		sel := w.director.SelectRecipe(job.Topic, "")
		log.WithRecipe(sel.Recipe).Infof("selected recipe: %s", sel.Reasoning)
		job.Config.Recipe = sel.Recipe
	}

	now := time.Now()
	job.Status = models.JobStatusProcessing
	job.WorkerID = w.id
	job.StartedAt = &now
	if err := w.store.Update(ctx, job); err != nil {
		log.Errorf("failed to mark job processing: %v", err)
		return err
	}

	outputPath, err := w.pipeline.Run(ctx, job)
	if err != nil {
		log.WithError(err).Error("render failed")
		w.finish(ctx, job, models.JobStatusFailed, "", err.Error())
		metrics.RecordJobCompleted(job.Config.Recipe, "failed", job.Config.Resolution, time.Since(start).Seconds())
		return err
	}

	objectName := storage.RenderObjectName(job.ID)
	if err := w.storage.UploadFile(ctx, objectName, outputPath); err != nil {
		log.WithError(err).Error("failed to upload rendered video")
		w.finish(ctx, job, models.JobStatusFailed, "", "upload failed: "+err.Error())
		metrics.RecordJobCompleted(job.Config.Recipe, "failed", job.Config.Resolution, time.Since(start).Seconds())
		return err
	}
	if err := os.Remove(outputPath); err != nil {
		log.Warnf("failed to remove local output %s: %v", outputPath, err)
	}

	w.finish(ctx, job, models.JobStatusCompleted, objectName, "")
	metrics.RecordJobCompleted(job.Config.Recipe, "completed", job.Config.Resolution, time.Since(start).Seconds())
	log.Infof("job completed in %s, stored as %s", time.Since(start).Round(time.Second), objectName)
	return nil
}

// ProcessDeadLetter records a job that exhausted its retries. The store
// already holds the failure from the last attempt, so this only tags the
// job as permanently dead and counts it.
func (w *Worker) ProcessDeadLetter(job *models.Job, reason string) error {
	metrics.JobsDeadLettered.Inc()
	log := w.log.WithJobID(job.ID)
	log.Errorf("job dead-lettered: %s", reason)

	ctx := context.Background()
	stored, err := w.store.Get(ctx, job.ID)
	if err != nil {
		log.Warnf("dead-lettered job not in store: %v", err)
		return nil
	}

	stored.Status = models.JobStatusFailed
	stored.Message = "dead-lettered: " + reason
	if err := w.store.Update(ctx, stored); err != nil {
		log.Warnf("failed to record dead-lettered job: %v", err)
	}
	return nil
}

func (w *Worker) finish(ctx context.Context, job *models.Job, status, outputPath, errMsg string) {
	now := time.Now()
	job.Status = status
	job.OutputPath = outputPath
	job.ErrorMsg = errMsg
	job.CompletedAt = &now
	if status == models.JobStatusCompleted {
		job.Progress = 100
		job.Message = "completed"
	}
	if err := w.store.Update(ctx, job); err != nil {
		w.log.WithJobID(job.ID).Errorf("failed to record final job state: %v", err)
	}
}
