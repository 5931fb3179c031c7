// Package metrics defines and registers all custom Prometheus metrics for the
// POS API. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pos"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials" or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRotationsTotal counts refresh-token rotations by outcome.
// Label:
//   - result: "success", "reused", "expired", "invalid" or "rate_limited"
var TokenRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of refresh-token rotations, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests denied by the fixed-window limiter.
// Label:
//   - class: the endpoint class that denied the request ("auth", "sales")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests denied by the rate limiter, by endpoint class.",
	},
	[]string{"class"},
)

// SalesCreatedTotal counts recorded sales.
// Label:
//   - custom: "true" when the sale contains at least one custom-item line
var SalesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_created_total",
		Help:      "Total number of sales recorded, by custom-item usage.",
	},
	[]string{"custom"},
)

// SaleTotalAmount observes the tax-inclusive amount of recorded sales.
var SaleTotalAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sale_total_amount",
		Help:      "Tax-inclusive amount of recorded sales, in the smallest currency unit.",
		Buckets:   prometheus.ExponentialBuckets(100, 4, 8), // 100 … ~1.6M
	},
)
