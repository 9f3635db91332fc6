package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatter is satisfied by *pgxpool.Pool.
type PoolStatter interface {
	Stat() *pgxpool.Stat
}

// PoolCollector reads pgxpool statistics on each scrape.
type PoolCollector struct {
	pools map[string]PoolStatter

	acquireCount    *prometheus.Desc
	acquireDuration *prometheus.Desc
	acquiredConns   *prometheus.Desc
	idleConns       *prometheus.Desc
	maxConns        *prometheus.Desc
	totalConns      *prometheus.Desc
	emptyAcquire    *prometheus.Desc
}

func NewPoolCollector(pools map[string]PoolStatter) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pgxpool", name), help, []string{"pool"}, nil)
	}
	return &PoolCollector{
		pools:           pools,
		acquireCount:    desc("acquire_total", "Cumulative count of successful connection acquires."),
		acquireDuration: desc("acquire_duration_seconds_total", "Cumulative time spent acquiring connections."),
		acquiredConns:   desc("acquired_conns", "Number of currently acquired connections."),
		idleConns:       desc("idle_conns", "Number of idle connections in the pool."),
		maxConns:        desc("max_conns", "Maximum number of connections allowed."),
		totalConns:      desc("total_conns", "Total number of connections in the pool."),
		emptyAcquire:    desc("empty_acquire_total", "Cumulative count of acquires that had to wait for a connection."),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.maxConns
	ch <- c.totalConns
	ch <- c.emptyAcquire
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	for name, pool := range c.pools {
		s := pool.Stat()

		ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()), name)
		ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration().Seconds(), name)
		ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns()), name)
		ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns()), name)
		ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns()), name)
		ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns()), name)
		ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount()), name)
	}
}
