package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout outcomes.
type CheckoutMetrics struct {
	submitDuration *prometheus.HistogramVec
	ordersPlaced   *prometheus.CounterVec
	orderFailures  *prometheus.CounterVec
	promoChecks    *prometheus.CounterVec
	proofUploads   *prometheus.CounterVec
	validations    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"order_type"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders written to the order store.",
	}, []string{"order_type", "payment"})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_order_failures_total",
		Help: "Order writes that failed, by error kind.",
	}, []string{"kind"})
	promoChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_promo_validations_total",
		Help: "Promo code validations by result.",
	}, []string{"result"})
	proofUploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_proof_uploads_total",
		Help: "Payment proof uploads by result.",
	}, []string{"result"})
	validations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_form_rejections_total",
		Help: "Form fields that failed validation at submit.",
	}, []string{"field"})
	reg.MustRegister(submitDuration, ordersPlaced, orderFailures, promoChecks, proofUploads, validations)
	return &CheckoutMetrics{
		submitDuration: submitDuration,
		ordersPlaced:   ordersPlaced,
		orderFailures:  orderFailures,
		promoChecks:    promoChecks,
		proofUploads:   proofUploads,
		validations:    validations,
	}
}

// ObserveSubmit records how long an order submission took.
func (c *CheckoutMetrics) ObserveSubmit(orderType string, duration time.Duration) {
	if c == nil || c.submitDuration == nil {
		return
	}
	c.submitDuration.WithLabelValues(normalizeLabel(orderType)).Observe(duration.Seconds())
}

// IncOrderPlaced counts a stored order.
func (c *CheckoutMetrics) IncOrderPlaced(orderType, payment string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(orderType), normalizeLabel(payment)).Inc()
}

// IncOrderFailure counts a failed order write.
func (c *CheckoutMetrics) IncOrderFailure(kind string) {
	if c == nil || c.orderFailures == nil {
		return
	}
	c.orderFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncPromo counts a promo validation outcome.
func (c *CheckoutMetrics) IncPromo(result string) {
	if c == nil || c.promoChecks == nil {
		return
	}
	c.promoChecks.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncProof counts a proof upload outcome.
func (c *CheckoutMetrics) IncProof(result string) {
	if c == nil || c.proofUploads == nil {
		return
	}
	c.proofUploads.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncFieldRejected counts a field that blocked submission.
func (c *CheckoutMetrics) IncFieldRejected(field string) {
	if c == nil || c.validations == nil {
		return
	}
	c.validations.WithLabelValues(normalizeLabel(field)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
