package observability

import (
	"context"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by build events.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	BooleanOps    *prometheus.CounterVec
	Warnings      prometheus.Counter
	Builds        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vessel_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"stage"},
		),
		BooleanOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vessel_boolean_ops_total",
				Help: "Boolean operations handed to the geometry kernel",
			},
			[]string{"op", "result"},
		),
		Warnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vessel_warnings_total",
				Help: "Recoverable problems reported during builds",
			},
		),
		Builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vessel_builds_total",
				Help: "Finished builds by outcome",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.StageDuration, m.BooleanOps, m.Warnings, m.Builds)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
// A build counts once its round stage finishes, or when any stage fails.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageFinish: func(_ context.Context, e *domain.StageEvent) {
			m.StageDuration.WithLabelValues(string(e.Stage)).Observe(e.Duration.Seconds())
			switch {
			case e.Err != nil:
				m.Builds.WithLabelValues("error").Inc()
			case e.Stage == domain.StageRound:
				m.Builds.WithLabelValues("ok").Inc()
			}
		},
		OnBooleanOp: func(_ context.Context, e *domain.BooleanEvent) {
			m.BooleanOps.WithLabelValues(e.Op, result(e.Err)).Inc()
		},
		OnWarning: func(context.Context, *domain.WarningEvent) {
			m.Warnings.Inc()
		},
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
