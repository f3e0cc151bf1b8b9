package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/internal/jobs"
	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/pkg/models"
)

type fakePublisher struct {
	published []*models.Job
	retried   []*models.Job
	err       error
}

func (f *fakePublisher) PublishJob(ctx context.Context, job *models.Job) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) RetryFromDLQ(ctx context.Context, job *models.Job) error {
	if f.err != nil {
		return f.err
	}
	f.retried = append(f.retried, job)
	return nil
}

func (f *fakePublisher) GetQueueDepth() (int, error) {
	return len(f.published), nil
}

func (f *fakePublisher) GetDLQDepth() (int, error) {
	return 0, nil
}

type fakeSigner struct{}

func (fakeSigner) GetURL(ctx context.Context, objectName string) (string, error) {
	return "https://cdn.example.com/" + objectName + "?sig=abc", nil
}

func newTestAPI() (*API, *jobs.MemoryStore, *fakePublisher) {
	store := jobs.NewMemoryStore()
	pub := &fakePublisher{}
	api := &API{
		store:    store,
		queue:    pub,
		storage:  fakeSigner{},
		registry: recipe.NewRegistry(),
		log:      logging.NewNopLogger(),
	}
	return api, store, pub
}

func newTestRouter(api *API) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", api.healthCheck)
	v1 := router.Group("/api/v1")
	v1.POST("/generate", api.generate)
	v1.GET("/status/:id", api.status)
	v1.GET("/download/:id", api.download)
	v1.GET("/jobs", api.listJobs)
	v1.POST("/jobs/:id/retry", api.retryJob)
	v1.GET("/recipes", api.listRecipes)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateAcceptsJob(t *testing.T) {
	api, store, pub := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodPost, "/api/v1/generate", models.GenerateRequest{
		Topic:  "peaceful rain sounds",
		Recipe: "ambient",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, models.JobStatusQueued, resp.Status)
	assert.Equal(t, defaultEstimatedTime, resp.EstimatedTime)

	stored, err := store.Get(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, "peaceful rain sounds", stored.Topic)
	assert.Equal(t, "ambient", stored.Config.Recipe)

	require.Len(t, pub.published, 1)
	assert.Equal(t, resp.JobID, pub.published[0].ID)
}

func TestGenerateDefaultsToAuto(t *testing.T) {
	api, store, _ := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodPost, "/api/v1/generate", models.GenerateRequest{Topic: "some topic"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	stored, err := store.Get(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, "auto", stored.Config.Recipe)
}

func TestGenerateLoopEstimate(t *testing.T) {
	api, _, _ := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodPost, "/api/v1/generate", models.GenerateRequest{
		Topic:  "10 hour rain",
		Recipe: "loop10h",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, loopEstimatedTime, resp.EstimatedTime)
}

func TestGenerateValidation(t *testing.T) {
	api, _, pub := newTestAPI()
	router := newTestRouter(api)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing topic", map[string]string{"recipe": "news"}},
		{"unknown recipe", models.GenerateRequest{Topic: "t", Recipe: "vlog"}},
		{"unknown resolution", models.GenerateRequest{Topic: "t", Resolution: "4k"}},
		{"negative duration", map[string]interface{}{"topic": "t", "duration": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, pub.published)
}

func TestGeneratePublishFailureMarksJobFailed(t *testing.T) {
	api, store, pub := newTestAPI()
	pub.err = errors.New("broker down")
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodPost, "/api/v1/generate", models.GenerateRequest{Topic: "x"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	list, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.JobStatusFailed, list[0].Status)
}

func TestStatus(t *testing.T) {
	api, store, _ := newTestAPI()
	router := newTestRouter(api)

	job := &models.Job{
		Topic:    "topic",
		Status:   models.JobStatusProcessing,
		Progress: 40,
		Message:  "mixing audio",
	}
	require.NoError(t, store.Create(context.Background(), job))

	w := doJSON(t, router, http.MethodGet, "/api/v1/status/"+job.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, job.ID, resp.JobID)
	assert.Equal(t, models.JobStatusProcessing, resp.Status)
	assert.Equal(t, 40.0, resp.Progress)
	assert.Equal(t, "mixing audio", resp.Message)
}

func TestStatusNotFound(t *testing.T) {
	api, _, _ := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodGet, "/api/v1/status/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload(t *testing.T) {
	api, store, _ := newTestAPI()
	router := newTestRouter(api)

	job := &models.Job{Topic: "t", Status: models.JobStatusCompleted}
	require.NoError(t, store.Create(context.Background(), job))

	w := doJSON(t, router, http.MethodGet, "/api/v1/download/"+job.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["url"], "renders/"+job.ID+".mp4")
}

func TestDownloadNotCompleted(t *testing.T) {
	api, store, _ := newTestAPI()
	router := newTestRouter(api)

	job := &models.Job{Topic: "t", Status: models.JobStatusProcessing}
	require.NoError(t, store.Create(context.Background(), job))

	w := doJSON(t, router, http.MethodGet, "/api/v1/download/"+job.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/download/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRetryJob(t *testing.T) {
	api, store, pub := newTestAPI()
	router := newTestRouter(api)

	job := &models.Job{
		Topic:    "t",
		Status:   models.JobStatusFailed,
		Progress: 40,
		ErrorMsg: "render failed",
		WorkerID: "worker-1",
	}
	require.NoError(t, store.Create(context.Background(), job))

	w := doJSON(t, router, http.MethodPost, "/api/v1/jobs/"+job.ID+"/retry", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, pub.retried, 1)

	got, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, got.Status)
	assert.Equal(t, 0.0, got.Progress)
	assert.Empty(t, got.ErrorMsg)
	assert.Empty(t, got.WorkerID)
}

func TestRetryJobOnlyWhenFailed(t *testing.T) {
	api, store, pub := newTestAPI()
	router := newTestRouter(api)

	job := &models.Job{Topic: "t", Status: models.JobStatusProcessing}
	require.NoError(t, store.Create(context.Background(), job))

	w := doJSON(t, router, http.MethodPost, "/api/v1/jobs/"+job.ID+"/retry", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pub.retried)

	w = doJSON(t, router, http.MethodPost, "/api/v1/jobs/missing/retry", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobs(t *testing.T) {
	api, store, _ := newTestAPI()
	router := newTestRouter(api)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Create(context.Background(), &models.Job{Topic: "t", Status: models.JobStatusQueued}))
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/jobs?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jobs  []models.Job `json:"jobs"`
		Limit int          `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Jobs, 2)
	assert.Equal(t, 2, resp.Limit)
}

func TestListRecipes(t *testing.T) {
	api, _, _ := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recipes []struct {
			Name     string  `json:"name"`
			Duration float64 `json:"duration"`
			Layout   string  `json:"layout"`
		} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recipes, 5)

	names := make([]string, 0, len(resp.Recipes))
	for _, r := range resp.Recipes {
		names = append(names, r.Name)
		assert.Greater(t, r.Duration, 0.0)
		assert.NotEmpty(t, r.Layout)
	}
	assert.Equal(t, []string{"ambient", "brainrot", "loop10h", "news", "stories"}, names)
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI()
	router := newTestRouter(api)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
