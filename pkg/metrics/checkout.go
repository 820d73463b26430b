package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts phase transitions and terminal outcomes of the checkout flow.
type CheckoutMetrics struct {
	transitions *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_transitions_total",
		Help: "Checkout phase transitions.",
	}, []string{"from", "to"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_outcomes_total",
		Help: "Checkout attempts by payment method and outcome.",
	}, []string{"method", "outcome"})
	reg.MustRegister(transitions, outcomes)
	return &CheckoutMetrics{transitions: transitions, outcomes: outcomes}
}

func (c *CheckoutMetrics) Transition(from, to string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (c *CheckoutMetrics) Outcome(method, outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}
