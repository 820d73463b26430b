package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestUpstreamMetricsLabelsByStatusClass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewUpstreamMetrics(reg)
	m.Observe("cart.get", http.StatusOK, 40*time.Millisecond)
	m.Observe("cart.get", http.StatusCreated, 10*time.Millisecond)
	m.Observe("orders.create", 0, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	count, err := fetchHistogramCount(mfs, "storefront_upstream_request_duration_seconds", map[string]string{"endpoint": "cart.get", "status": "2xx"})
	if err != nil {
		t.Fatalf("fetch histogram: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 samples for cart.get 2xx, got %d", count)
	}
	if _, err := fetchHistogramCount(mfs, "storefront_upstream_request_duration_seconds", map[string]string{"endpoint": "orders.create", "status": "error"}); err != nil {
		t.Fatalf("transport failures should be labelled error: %v", err)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{0: "error", 200: "2xx", 401: "4xx", 502: "5xx", 700: "error"}
	for status, want := range cases {
		if got := StatusClass(status); got != want {
			t.Fatalf("status %d: expected %s got %s", status, want, got)
		}
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.Transition("order_review", "card_entry")
	m.Transition("order_review", "card_entry")
	m.Outcome("cod", "paid")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "storefront_checkout_transitions_total")
	if mf == nil {
		t.Fatal("transitions metric missing")
	}
	var found bool
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), map[string]string{"from": "order_review", "to": "card_entry"}) {
			found = true
			if metric.GetCounter().GetValue() != 2 {
				t.Fatalf("expected 2 transitions, got %f", metric.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Fatal("transition series missing")
	}
	if got, err := fetchCounterValue(mfs, "storefront_checkout_outcomes_total", "outcome", "paid"); err != nil || got != 1 {
		t.Fatalf("expected one paid outcome, got %f err=%v", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewUpstreamMetrics(nil).Observe("x", 200, time.Second)
	NewCheckoutMetrics(nil).Outcome("cod", "paid")
	var nilMetrics *CheckoutMetrics
	nilMetrics.Transition("a", "b")
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name string, labels map[string]string) (uint64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleCount(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}
