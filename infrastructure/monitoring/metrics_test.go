package monitoring_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/event"
	"imospy/infrastructure/monitoring"
)

func TestMetrics_CountsEvents(t *testing.T) {
	m := monitoring.NewMetrics()

	evt := event.New(event.ScrapeCompleted, map[string]interface{}{"stored_count": 7, "duration_ms": int64(1500)})
	evt.Platform = "tiktok"
	m.Emit(context.Background(), evt)
	m.Emit(context.Background(), evt)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues(event.ScrapeCompleted, "tiktok")))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.ContentStored.WithLabelValues("tiktok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScrapeDuration))
}

func TestMetrics_AdsAnalyzed(t *testing.T) {
	m := monitoring.NewMetrics()
	m.Emit(context.Background(), event.New(event.AdsAnalyzed, map[string]interface{}{"ad_count": 3}))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AdsAnalyzed))
}

func TestMetrics_Handler(t *testing.T) {
	m := monitoring.NewMetrics()
	m.Emit(context.Background(), event.New(event.PostDecodeFailed, nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `imospy_events_total{name="post.decode_failed",platform=""} 1`)
}
