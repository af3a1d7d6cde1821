package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recruit"

var (
	analysisStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_started_total",
		Help:      "Total analysis runs started.",
	})
	analysisCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_completed_total",
		Help:      "Total analysis runs that persisted an outcome.",
	})
	analysisFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_failed_total",
		Help:      "Total analysis runs that ended without an outcome.",
	}, []string{"reason"})
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_ms",
		Help:      "Analysis run duration in milliseconds.",
		Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	inferenceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_calls_total",
		Help:      "Inference calls by model and outcome.",
	}, []string{"model", "outcome"})
	degradedStages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_degraded_stages_total",
		Help:      "Pipeline stages whose output was replaced by a placeholder.",
	}, []string{"stage"})
	scoreAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_score_anomalies_total",
		Help:      "Synthesis outputs whose score could not be extracted.",
	})
	sweepItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_sweep_items_total",
		Help:      "Applications processed by the recovery sweep, by result.",
	}, []string{"result"})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter for reason.
func IncAnalysisFailed(reason string) {
	analysisFailed.WithLabelValues(reason).Inc()
}

// ObserveAnalysisDuration records a run duration.
func ObserveAnalysisDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncInferenceCall counts one inference call for model with outcome "ok" or "error".
func IncInferenceCall(model, outcome string) {
	inferenceCalls.WithLabelValues(model, outcome).Inc()
}

// IncDegradedStage counts a stage that fell back to placeholder text.
func IncDegradedStage(stage string) {
	degradedStages.WithLabelValues(stage).Inc()
}

// IncScoreAnomaly counts a synthesis output without a parseable score.
func IncScoreAnomaly() {
	scoreAnomalies.Inc()
}

// IncSweepItem counts one application handled by the recovery sweep.
func IncSweepItem(result string) {
	sweepItems.WithLabelValues(result).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
