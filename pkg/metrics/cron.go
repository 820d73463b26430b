package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cycle results reported by the cron service.
const (
	CycleCompleted = "completed"
	CycleSkipped   = "skipped"
	CycleFailed    = "failed"
)

// CronMetrics covers the background sweeps: per-job runs, per-cycle results
// and how many rows each sweep touched.
type CronMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	cycles      *prometheus.CounterVec
	swept       *prometheus.CounterVec
}

// NewCronMetrics registers the cron collectors on reg. A nil reg yields a
// recorder that drops every observation.
func NewCronMetrics(reg prometheus.Registerer) *CronMetrics {
	if reg == nil {
		return &CronMetrics{}
	}
	m := &CronMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cron_job_runs_total",
			Help: "Cron job executions by outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_cron_job_duration_seconds",
			Help:    "Duration of cron jobs in seconds.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "storefront_cron_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cron_cycles_total",
			Help: "Cron cycles by result; skipped means another worker held the lock.",
		}, []string{"result"}),
		swept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cron_items_swept_total",
			Help: "Rows purged or flagged by sweep jobs.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.duration, m.lastSuccess, m.cycles, m.swept)
	return m
}

// ObserveRun records one job execution.
func (m *CronMetrics) ObserveRun(job string, duration time.Duration, err error) {
	if m == nil || m.runs == nil {
		return
	}
	job = normalizeLabel(job)
	m.duration.WithLabelValues(job).Observe(duration.Seconds())
	if err != nil {
		m.runs.WithLabelValues(job, "failure").Inc()
		return
	}
	m.runs.WithLabelValues(job, "success").Inc()
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func (m *CronMetrics) ObserveCycle(result string) {
	if m == nil || m.cycles == nil {
		return
	}
	m.cycles.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *CronMetrics) AddSwept(job string, n int64) {
	if m == nil || m.swept == nil || n <= 0 {
		return
	}
	m.swept.WithLabelValues(normalizeLabel(job)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
