package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// Inventory
	PurchasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweetshop_purchases_total",
			Help: "Completed purchases",
		},
	)
	UnitsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweetshop_units_sold_total",
			Help: "Units removed from stock by purchases",
		},
	)
	PurchaseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_purchase_failures_total",
			Help: "Rejected purchases",
		},
		[]string{"reason"}, // invalid|not_found|insufficient_stock|error
	)
	RestocksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweetshop_restocks_total",
			Help: "Completed restocks",
		},
	)

	// Auth
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // ok|invalid
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry; repeat calls are
// no-ops.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			PurchasesTotal,
			UnitsSold,
			PurchaseFailures,
			RestocksTotal,
			LoginsTotal,
		)
	})
}
