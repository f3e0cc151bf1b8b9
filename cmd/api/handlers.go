package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videoforge/videoforge/internal/jobs"
	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/metrics"
	"github.com/videoforge/videoforge/internal/queue"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/internal/storage"
	"github.com/videoforge/videoforge/pkg/models"
)

const (
	defaultEstimatedTime = 120 // seconds
	loopEstimatedTime    = 600
)

// jobPublisher is the slice of queue.Queue the API needs.
type jobPublisher interface {
	PublishJob(ctx context.Context, job *models.Job) error
	RetryFromDLQ(ctx context.Context, job *models.Job) error
	GetQueueDepth() (int, error)
	GetDLQDepth() (int, error)
}

// urlSigner produces a time-limited download URL for a stored object.
type urlSigner interface {
	GetURL(ctx context.Context, objectName string) (string, error)
}

type API struct {
	store    jobs.Store
	queue    jobPublisher
	storage  urlSigner
	registry *recipe.Registry
	log      *logging.Logger
}

var validResolutions = map[string]bool{
	"":         true,
	"1080p":    true,
	"720p":     true,
	"vertical": true,
}

// generate accepts a topic and enqueues a render job.
func (api *API) generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Recipe != "" && req.Recipe != "auto" && !api.registry.Exists(req.Recipe) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unknown recipe: " + req.Recipe,
			"recipes": append([]string{"auto"}, api.registry.List()...),
		})
		return
	}

	if !validResolutions[req.Resolution] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resolution: " + req.Resolution})
		return
	}

	job := &models.Job{
		Topic:  req.Topic,
		Status: models.JobStatusQueued,
		Config: models.RenderConfig{
			Recipe:       req.Recipe,
			Duration:     req.Duration,
			Resolution:   req.Resolution,
			OutputFormat: req.OutputFormat,
		},
	}
	if job.Config.Recipe == "" {
		job.Config.Recipe = "auto"
	}

	if err := api.store.Create(c.Request.Context(), job); err != nil {
		api.log.Errorf("creating job: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	if err := api.queue.PublishJob(c.Request.Context(), job); err != nil {
		api.log.Errorf("queueing job %s: %v", job.ID, err)
		job.Status = models.JobStatusFailed
		job.ErrorMsg = "failed to enqueue job"
		if uerr := api.store.Update(c.Request.Context(), job); uerr != nil {
			api.log.Errorf("marking job %s failed: %v", job.ID, uerr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue job"})
		return
	}

	metrics.RecordJobCreated(job.Config.Recipe)
	if depth, err := api.queue.GetQueueDepth(); err == nil {
		metrics.JobsQueueDepth.Set(float64(depth))
	}

	estimated := defaultEstimatedTime
	if job.Config.Recipe == "loop10h" {
		estimated = loopEstimatedTime
	}

	api.log.WithField("job_id", job.ID).Infof("accepted generation request for topic %q", req.Topic)

	c.JSON(http.StatusAccepted, models.GenerateResponse{
		JobID:         job.ID,
		Status:        job.Status,
		EstimatedTime: estimated,
		Message:       "video generation queued",
	})
}

// status reports progress for a single job.
func (api *API) status(c *gin.Context) {
	job, err := api.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		JobID:      job.ID,
		Status:     job.Status,
		Progress:   job.Progress,
		Message:    job.Message,
		OutputPath: job.OutputPath,
		Error:      job.ErrorMsg,
	})
}

// download returns a time-limited URL for a completed job's video.
func (api *API) download(c *gin.Context) {
	jobID := c.Param("id")

	job, err := api.store.Get(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if job.Status != models.JobStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "job is not completed",
			"status": job.Status,
		})
		return
	}

	url, err := api.storage.GetURL(c.Request.Context(), storage.RenderObjectName(jobID))
	if err != nil {
		api.log.Errorf("signing download URL for job %s: %v", jobID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": jobID,
		"url":    url,
	})
}

// retryJob requeues a failed job from scratch.
func (api *API) retryJob(c *gin.Context) {
	job, err := api.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if job.Status != models.JobStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "only failed jobs can be retried",
			"status": job.Status,
		})
		return
	}

	job.Status = models.JobStatusQueued
	job.Progress = 0
	job.Message = ""
	job.ErrorMsg = ""
	job.OutputPath = ""
	job.WorkerID = ""
	job.StartedAt = nil
	job.CompletedAt = nil
	if err := api.store.Update(c.Request.Context(), job); err != nil {
		api.log.Errorf("resetting job %s for retry: %v", job.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset job"})
		return
	}

	if err := api.queue.RetryFromDLQ(c.Request.Context(), job); err != nil {
		api.log.Errorf("requeueing job %s: %v", job.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to requeue job"})
		return
	}

	api.log.WithField("job_id", job.ID).Info("failed job requeued")
	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// listJobs returns recent jobs, newest first.
func (api *API) listJobs(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	list, err := api.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":   list,
		"limit":  limit,
		"offset": offset,
	})
}

// listRecipes describes the available recipes and their defaults.
func (api *API) listRecipes(c *gin.Context) {
	type recipeInfo struct {
		Name       string  `json:"name"`
		Duration   float64 `json:"duration"`
		Resolution string  `json:"resolution"`
		FPS        int     `json:"fps"`
		Layout     string  `json:"layout"`
	}

	var out []recipeInfo
	for _, name := range api.registry.List() {
		rec, err := api.registry.Get(name, recipe.Overrides{})
		if err != nil {
			continue
		}
		out = append(out, recipeInfo{
			Name:       rec.Name,
			Duration:   rec.Duration,
			Resolution: rec.Resolution,
			FPS:        rec.FPS,
			Layout:     rec.Layout.Style,
		})
	}

	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

// healther is implemented by stores with a backing service to probe.
type healther interface {
	Health(ctx context.Context) error
}

func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h, ok := api.store.(healther); ok {
		if err := h.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	resp := gin.H{"status": "healthy"}
	if depth, err := api.queue.GetQueueDepth(); err == nil {
		resp["queue_depth"] = depth
	}
	if depth, err := api.queue.GetDLQDepth(); err == nil {
		resp["dlq_depth"] = depth
	}
	c.JSON(http.StatusOK, resp)
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

var _ jobPublisher = (*queue.Queue)(nil)
