package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is the subset of *pgxpool.Pool the collector reads.
type PoolStats interface {
	Stat() *pgxpool.Stat
}

// PoolStatsCollector exports pgxpool statistics as Prometheus gauges.
type PoolStatsCollector struct {
	pool    PoolStats
	service string

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
}

func NewPoolStatsCollector(pool PoolStats, service string) *PoolStatsCollector {
	labels := []string{"service"}
	return &PoolStatsCollector{
		pool:     pool,
		service:  service,
		acquired: prometheus.NewDesc("db_pool_acquired_connections", "Number of currently acquired connections", labels, nil),
		idle:     prometheus.NewDesc("db_pool_idle_connections", "Number of currently idle connections", labels, nil),
		total:    prometheus.NewDesc("db_pool_total_connections", "Total number of connections in the pool", labels, nil),
		max:      prometheus.NewDesc("db_pool_max_connections", "Maximum size of the pool", labels, nil),
	}
}

func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
}

func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns()), c.service)
}
