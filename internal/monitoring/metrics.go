package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Risk check metrics
	riskChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_checks_total",
			Help: "Total number of risk checks by outcome",
		},
		[]string{"symbol", "recommendation"},
	)

	riskScores = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskgate_risk_score",
			Help:    "Distribution of consolidated risk scores",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"symbol"},
	)

	checkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskgate_check_duration_seconds",
			Help:    "End to end risk check latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"symbol"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskgate_current_price",
			Help: "Last observed price per symbol",
		},
		[]string{"symbol"},
	)

	// Provider metrics
	providerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_provider_failures_total",
			Help: "Total number of failed provider calls",
		},
		[]string{"provider"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(riskChecksTotal)
	prometheus.MustRegister(riskScores)
	prometheus.MustRegister(checkDuration)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(providerFailures)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRiskCheck records one completed risk check
func RecordRiskCheck(symbol, recommendation string, riskScore int, elapsed time.Duration) {
	riskChecksTotal.WithLabelValues(symbol, recommendation).Inc()
	riskScores.WithLabelValues(symbol).Observe(float64(riskScore))
	checkDuration.WithLabelValues(symbol).Observe(elapsed.Seconds())
}

// UpdatePrice updates the last observed price metric
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordProviderFailure records a failed provider call
func RecordProviderFailure(provider string) {
	providerFailures.WithLabelValues(provider).Inc()
}
