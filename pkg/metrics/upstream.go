package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics measures calls made to the remote commerce API.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_upstream_request_duration_seconds",
		Help:    "Latency of remote commerce API calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
	reg.MustRegister(duration)
	return &UpstreamMetrics{duration: duration}
}

// Observe records one call. status 0 means the request never got a response.
func (u *UpstreamMetrics) Observe(endpoint string, status int, elapsed time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(endpoint), StatusClass(status)).Observe(elapsed.Seconds())
}

// StatusClass buckets an HTTP status as "2xx", "4xx", ... or "error" for transport failures.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
