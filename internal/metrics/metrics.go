// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowdfunding",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crowdfunding",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	donations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "crowdfunding",
			Subsystem: "donations",
			Name:      "created_total",
			Help:      "Total number of donations created.",
		},
	)

	donatedAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "crowdfunding",
			Subsystem: "donations",
			Name:      "amount_total",
			Help:      "Sum of donated amounts at creation time.",
		},
	)

	campaigns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowdfunding",
			Subsystem: "campaigns",
			Name:      "mutations_total",
			Help:      "Campaign creations, updates and deletions.",
		},
		[]string{"op"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, donations, donatedAmount, campaigns)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request; path is the route template
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordDonation counts a new donation and its amount
func RecordDonation(amount decimal.Decimal) {
	donations.Inc()
	donatedAmount.Add(amount.InexactFloat64())
}

// RecordCampaign counts a campaign mutation (create, update or delete)
func RecordCampaign(op string) {
	campaigns.WithLabelValues(op).Inc()
}
