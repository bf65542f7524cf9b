package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Ledger metrics
var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transfers_total",
		Help: "Completed and rejected wallet transfers",
	}, []string{"result"})

	TransferRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transfer_retries_total",
		Help: "Transfer attempts retried after a concurrency conflict",
	})

	GiftCardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_gift_cards_total",
		Help: "Gift card state transitions",
	}, []string{"event"})

	OutboxDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_outbox_dispatched_total",
		Help: "Outbox notification delivery attempts",
	}, []string{"result"})
)
