package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(inferenceCalls.WithLabelValues("model-x", "ok"))
	IncInferenceCall("model-x", "ok")
	after := testutil.ToFloat64(inferenceCalls.WithLabelValues("model-x", "ok"))
	if after-before != 1 {
		t.Fatalf("expected inference counter to grow by 1, got %v", after-before)
	}

	before = testutil.ToFloat64(degradedStages.WithLabelValues("summary"))
	IncDegradedStage("summary")
	if got := testutil.ToFloat64(degradedStages.WithLabelValues("summary")) - before; got != 1 {
		t.Fatalf("expected degraded counter to grow by 1, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncAnalysisStarted()
	ObserveAnalysisDuration(1500 * time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, name := range []string{"recruit_analysis_started_total", "recruit_analysis_duration_ms_bucket"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
