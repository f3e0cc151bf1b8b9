package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/generate", "202", 0.042)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/generate", "202"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordJobCreated(t *testing.T) {
	JobsCreatedTotal.Reset()

	RecordJobCreated("ambient")
	RecordJobCreated("news")
	RecordJobCreated("ambient")

	ambient := testutil.ToFloat64(JobsCreatedTotal.WithLabelValues("ambient"))
	if ambient != 2.0 {
		t.Errorf("Expected ambient counter to be 2.0, got %f", ambient)
	}

	news := testutil.ToFloat64(JobsCreatedTotal.WithLabelValues("news"))
	if news != 1.0 {
		t.Errorf("Expected news counter to be 1.0, got %f", news)
	}
}

func TestRecordJobCompleted(t *testing.T) {
	JobsCompletedTotal.Reset()

	RecordJobCompleted("brainrot", "completed", "1080p", 95.2)
	RecordJobCompleted("brainrot", "failed", "1080p", 12.0)

	completed := testutil.ToFloat64(JobsCompletedTotal.WithLabelValues("brainrot", "completed"))
	if completed != 1.0 {
		t.Errorf("Expected completed counter to be 1.0, got %f", completed)
	}

	failed := testutil.ToFloat64(JobsCompletedTotal.WithLabelValues("brainrot", "failed"))
	if failed != 1.0 {
		t.Errorf("Expected failed counter to be 1.0, got %f", failed)
	}
}

func TestRecordAssetFetch(t *testing.T) {
	AssetFetchesTotal.Reset()

	RecordAssetFetch("video", "ok")
	RecordAssetFetch("video", "ok")
	RecordAssetFetch("image", "error")

	ok := testutil.ToFloat64(AssetFetchesTotal.WithLabelValues("video", "ok"))
	if ok != 2.0 {
		t.Errorf("Expected video ok counter to be 2.0, got %f", ok)
	}

	errs := testutil.ToFloat64(AssetFetchesTotal.WithLabelValues("image", "error"))
	if errs != 1.0 {
		t.Errorf("Expected image error counter to be 1.0, got %f", errs)
	}
}

func TestUpdateJobMetrics(t *testing.T) {
	UpdateJobMetrics(3, 7)

	if got := testutil.ToFloat64(JobsInProgress); got != 3.0 {
		t.Errorf("Expected in-progress gauge to be 3.0, got %f", got)
	}
	if got := testutil.ToFloat64(JobsQueueDepth); got != 7.0 {
		t.Errorf("Expected queue depth gauge to be 7.0, got %f", got)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheAccess("asset_search", true)
	RecordCacheAccess("asset_search", false)
	RecordCacheAccess("asset_search", false)

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("asset_search"))
	if hits != 1.0 {
		t.Errorf("Expected 1 hit, got %f", hits)
	}

	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("asset_search"))
	if misses != 2.0 {
		t.Errorf("Expected 2 misses, got %f", misses)
	}
}
