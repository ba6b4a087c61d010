package utils

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts finished requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wemake_http_requests_total",
		Help: "Finished HTTP requests.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route template and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wemake_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	tableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wemake_table_rows",
		Help: "Row count for a table.",
	}, []string{"table"})
)

// RowCollector refreshes the wemake_table_rows gauge from Count on every tick.
type RowCollector struct {
	Count    func(ctx context.Context) (map[string]int64, error)
	Interval time.Duration
}

// Run collects until ctx is done. Count errors are logged and the next tick retries.
func (c RowCollector) Run(ctx context.Context) {
	interval := c.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

func (c RowCollector) collect(ctx context.Context) {
	counts, err := c.Count(ctx)
	if err != nil {
		Sugar.Warnw("collect table rows failed", "err", err)
		return
	}
	for table, n := range counts {
		tableRows.WithLabelValues(table).Set(float64(n))
	}
}
