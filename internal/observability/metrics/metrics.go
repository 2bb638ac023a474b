// Package metrics exposes Prometheus counters for the charge information flow.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/garyjia/charge-information/internal/application/dispatcher"
	"github.com/garyjia/charge-information/internal/domain/event"
)

const (
	metricPrefix = "charge_information_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	stepSubmissions   *prometheus.CounterVec
	stepLatency       *prometheus.HistogramVec
	validationWarning *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	workflowEvents    *prometheus.CounterVec
	exports           *prometheus.CounterVec
)

// Init registers the metrics with reg, or the default registerer when reg is nil.
// Only the first call registers.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		stepSubmissions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "step_submissions_total",
				Help: "Total step submissions by flow, step and result",
			},
			[]string{"flow", "step", "result"},
		)
		stepLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "step_latency_seconds",
				Help:    "Step submission latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"flow"},
		)
		validationWarning = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_warnings_total",
				Help: "Total validation warnings shown on check answers by warning",
			},
			[]string{"warning"},
		)
		transitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "workflow_transitions_total",
				Help: "Total approval workflow transitions by trigger and new status",
			},
			[]string{"trigger", "status"},
		)
		workflowEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "workflow_events_total",
				Help: "Total charge version workflow events by type",
			},
			[]string{"type"},
		)
		exports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total check answers exports by result",
			},
			[]string{"result"},
		)

		reg.MustRegister(
			stepSubmissions,
			stepLatency,
			validationWarning,
			transitions,
			workflowEvents,
			exports,
		)
	})
}

// ObserveStep records a step submission
func ObserveStep(flow, step string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if stepSubmissions != nil {
		stepSubmissions.WithLabelValues(flow, step, result).Inc()
	}
	if stepLatency != nil {
		stepLatency.WithLabelValues(flow).Observe(duration.Seconds())
	}
}

// AddValidationWarnings counts warnings by name
func AddValidationWarnings(counts map[string]int) {
	if validationWarning == nil {
		return
	}
	for warning, n := range counts {
		if n > 0 {
			validationWarning.WithLabelValues(warning).Add(float64(n))
		}
	}
}

// IncTransition counts a workflow state change
func IncTransition(trigger, status string) {
	if trigger == "" {
		trigger = "unknown"
	}
	if transitions != nil {
		transitions.WithLabelValues(trigger, status).Inc()
	}
}

// IncExport counts a check answers export
func IncExport(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if exports != nil {
		exports.WithLabelValues(result).Inc()
	}
}

// Subscribe counts workflow events published on d
func Subscribe(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStatusChanged, "metrics.transitions", func(ctx context.Context, evt *event.Event) error {
		IncTransition(evt.String(event.KeyTrigger), evt.String(event.KeyNewStatus))
		return nil
	})

	for _, t := range event.Lifecycle {
		d.SubscribeNamed(t, "metrics.events", func(ctx context.Context, evt *event.Event) error {
			if workflowEvents != nil {
				workflowEvents.WithLabelValues(string(evt.Type)).Inc()
			}
			return nil
		})
	}
}
