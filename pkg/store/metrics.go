package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recall",
		Subsystem: "store",
		Name:      "reads_total",
		Help:      "Recording cache reads by result (hit, miss, error).",
	}, []string{"result"})

	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recall",
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Recording cache upserts by result (ok, error).",
	}, []string{"result"})
)

// PoolStatsCollector collects connection pool statistics as Prometheus
// metrics. It reads stats directly from the pool on each scrape, ensuring
// up-to-date values.
type PoolStatsCollector struct {
	pool *pgxpool.Pool

	totalConns    *prometheus.Desc
	idleConns     *prometheus.Desc
	acquiredConns *prometheus.Desc
	maxConns      *prometheus.Desc
}

// NewPoolStatsCollector creates a collector for the given connection pool.
func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	return &PoolStatsCollector{
		pool: pool,
		totalConns: prometheus.NewDesc(
			prometheus.BuildFQName("recall", "db_pool", "total_conns"),
			"Total number of connections currently open in the pool",
			nil, nil,
		),
		idleConns: prometheus.NewDesc(
			prometheus.BuildFQName("recall", "db_pool", "idle_conns"),
			"Number of idle connections in the pool",
			nil, nil,
		),
		acquiredConns: prometheus.NewDesc(
			prometheus.BuildFQName("recall", "db_pool", "acquired_conns"),
			"Number of connections currently acquired from the pool",
			nil, nil,
		),
		maxConns: prometheus.NewDesc(
			prometheus.BuildFQName("recall", "db_pool", "max_conns"),
			"Maximum number of connections allowed in the pool",
			nil, nil,
		),
	}
}

// Describe sends all metric descriptors to the channel.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.acquiredConns
	ch <- c.maxConns
}

// Collect reads the current pool stats and emits them as gauges.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()))
}
