package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Job Metrics
	JobsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_created_total",
			Help: "Total number of render jobs created",
		},
		[]string{"recipe"},
	)

	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_completed_total",
			Help: "Total number of completed render jobs",
		},
		[]string{"recipe", "status"},
	)

	JobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videoforge_jobs_in_progress",
			Help: "Number of jobs currently rendering",
		},
	)

	JobsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videoforge_jobs_queue_depth",
			Help: "Number of jobs waiting in queue",
		},
	)

	JobsDeadLettered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_dead_lettered_total",
			Help: "Total number of jobs that exhausted their retries",
		},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_job_duration_seconds",
			Help:    "Render job duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
		[]string{"recipe", "resolution"},
	)

	// Render Stage Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_stage_duration_seconds",
			Help:    "Per-stage render duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
		[]string{"stage"},
	)

	RenderSpeed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_render_speed_ratio",
			Help:    "Render speed ratio (output duration / processing time)",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 4.0, 8.0, 16.0},
		},
		[]string{"recipe", "resolution"},
	)

	VideoDurationRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videoforge_video_duration_rendered_seconds_total",
			Help: "Total duration of video rendered in seconds",
		},
	)

	// Asset Metrics
	AssetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_asset_fetches_total",
			Help: "Total number of stock asset fetches",
		},
		[]string{"kind", "status"},
	)

	// Worker Metrics
	WorkerActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videoforge_worker_active",
			Help: "Number of active render workers",
		},
	)

	WorkerJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_worker_jobs_processed_total",
			Help: "Total number of jobs processed by workers",
		},
		[]string{"worker_id"},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	// Database Metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videoforge_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordJobCreated records a job creation
func RecordJobCreated(recipe string) {
	JobsCreatedTotal.WithLabelValues(recipe).Inc()
}

// RecordJobCompleted records a job completion
func RecordJobCompleted(recipe, status, resolution string, duration float64) {
	JobsCompletedTotal.WithLabelValues(recipe, status).Inc()
	JobDuration.WithLabelValues(recipe, resolution).Observe(duration)
}

// RecordStageDuration records a render stage duration
func RecordStageDuration(stage string, duration float64) {
	StageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordRenderSpeed records the output-duration to wall-clock ratio
func RecordRenderSpeed(recipe, resolution string, speed float64) {
	RenderSpeed.WithLabelValues(recipe, resolution).Observe(speed)
}

// RecordAssetFetch records a stock asset fetch
func RecordAssetFetch(kind, status string) {
	AssetFetchesTotal.WithLabelValues(kind, status).Inc()
}

// UpdateJobMetrics updates current job gauges
func UpdateJobMetrics(inProgress, queueDepth int) {
	JobsInProgress.Set(float64(inProgress))
	JobsQueueDepth.Set(float64(queueDepth))
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string, duration float64) {
	DatabaseOperationsTotal.WithLabelValues(operation, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
