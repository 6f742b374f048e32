package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageExtraction = "extraction"
	stageGrounding  = "grounding"
	stagePlanning   = "planning"
	stageCodeGen    = "codegen"
)

// Metrics collects per-query and per-stage pipeline measurements. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	queries       *prometheus.CounterVec
	queryDuration prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	planSteps     prometheus.Histogram
}

// NewMetrics registers the pipeline collectors with reg. A nil reg falls
// back to the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ontoplan_queries_total",
			Help: "Queries processed, by outcome.",
		}, []string{"outcome"}),
		queryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ontoplan_query_duration_seconds",
			Help:    "End to end pipeline wall time per query.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ontoplan_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage"}),
		stageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ontoplan_stage_errors_total",
			Help: "Stage failures, by stage.",
		}, []string{"stage"}),
		planSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ontoplan_plan_steps",
			Help:    "Step count of validated plans.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
	}
}

// timeStage returns a stop function observing the stage's duration.
func (m *Metrics) timeStage(stage string) func() {
	if m == nil {
		return func() {}
	}
	started := time.Now()
	return func() {
		m.stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) observeQuery(elapsed time.Duration, failedStage string) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failedStage != "" {
		outcome = "error"
		m.stageErrors.WithLabelValues(failedStage).Inc()
	}
	m.queries.WithLabelValues(outcome).Inc()
	m.queryDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observePlanSize(steps int) {
	if m == nil {
		return
	}
	m.planSteps.Observe(float64(steps))
}
