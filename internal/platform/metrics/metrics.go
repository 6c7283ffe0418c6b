package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the ledger counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // Validation or business rule failure
	OutcomeError    = "error"
)

// Recorder groups the service's Prometheus collectors. A nil *Recorder is valid and
// records nothing, which keeps tests and tools free of registry wiring.
type Recorder struct {
	Registry *prometheus.Registry

	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	feesCollected     *prometheus.CounterVec
	rateLookups       *prometheus.CounterVec
	providerRequests  *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
	donationStatus    *prometheus.CounterVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		Registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		feesCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_fees_collected_total",
			Help: "Fees retained by the platform, in currency units",
		}, []string{"category", "currency"}),
		rateLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_rate_lookups_total",
			Help: "Exchange rate lookups by result",
		}, []string{"result"}),
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_provider_requests_total",
			Help: "Upstream exchange rate requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fx_provider_request_duration_seconds",
			Help:    "Upstream exchange rate request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"provider"}),
		donationStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donation_transitions_total",
			Help: "Donation status transitions by target status",
		}, []string{"status"}),
	}
}

// ObserveOperation records one ledger operation.
func (r *Recorder) ObserveOperation(operation, outcome string, started time.Time) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// AddFee records a fee retained by the platform.
func (r *Recorder) AddFee(category, currency string, amount float64) {
	if r == nil || amount <= 0 {
		return
	}
	r.feesCollected.WithLabelValues(category, currency).Add(amount)
}

// RateLookup records how a rate request was served: same_currency, cache_hit, cache_miss or unavailable.
func (r *Recorder) RateLookup(result string) {
	if r == nil {
		return
	}
	r.rateLookups.WithLabelValues(result).Inc()
}

// ProviderRequest records one upstream rate request.
func (r *Recorder) ProviderRequest(provider, outcome string, started time.Time) {
	if r == nil {
		return
	}
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
	r.providerLatency.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// DonationTransition records a donation entering status.
func (r *Recorder) DonationTransition(status string) {
	if r == nil {
		return
	}
	r.donationStatus.WithLabelValues(status).Inc()
}
