package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	jobReasonDeadlineExceeded = "deadline_exceeded"
	jobReasonCanceled         = "canceled"
	jobReasonError            = "error"
)

type jobMetrics struct {
	runs      *prometheus.CounterVec
	errors    *prometheus.CounterVec
	timeouts  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	contracts *prometheus.GaugeVec
}

var (
	metricsOnce sync.Once
	metrics     *jobMetrics
)

// schedulerMetrics registers the collectors on the default registerer once.
func schedulerMetrics() *jobMetrics {
	metricsOnce.Do(func() {
		m := &jobMetrics{
			runs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "billboards_scheduler_job_runs_total",
				Help: "Scheduler job executions.",
			}, []string{"job"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "billboards_scheduler_job_errors_total",
				Help: "Scheduler job failures by reason.",
			}, []string{"job", "reason"}),
			timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "billboards_scheduler_job_timeouts_total",
				Help: "Scheduler jobs that hit their deadline.",
			}, []string{"job"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "billboards_scheduler_job_duration_seconds",
				Help:    "Scheduler job duration.",
				Buckets: prometheus.DefBuckets,
			}, []string{"job"}),
			contracts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "billboards_contracts",
				Help: "Contracts per status bucket at the last scan.",
			}, []string{"status"}),
		}
		prometheus.DefaultRegisterer.MustRegister(m.runs, m.errors, m.timeouts, m.duration, m.contracts)
		metrics = m
	})
	return metrics
}

func resetSchedulerMetricsForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func (m *jobMetrics) observe(job string, duration time.Duration, err error) {
	m.runs.WithLabelValues(job).Inc()
	m.duration.WithLabelValues(job).Observe(duration.Seconds())
	if err == nil {
		return
	}
	reason := jobReasonError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = jobReasonDeadlineExceeded
		m.timeouts.WithLabelValues(job).Inc()
	case errors.Is(err, context.Canceled):
		reason = jobReasonCanceled
	}
	m.errors.WithLabelValues(job, reason).Inc()
}
