// Package metrics is the Prometheus Collector exposed at /metrics,
// tracking query outcomes, latency, and graph size.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

type Collector struct {
	reg *prometheus.Registry

	QueriesTotal   *prometheus.CounterVec // outcome label: found|not_found|error
	QueryDuration  prometheus.Histogram
	SettledStates  prometheus.Histogram
	GraphNodes     prometheus.Gauge
	GraphStops     prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "router_queries_total",
			Help: "Total directions queries, by outcome.",
		}, []string{"outcome"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "router_query_duration_seconds",
			Help:    "Wall-clock duration of a directions query.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		SettledStates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "router_settled_states",
			Help:    "Number of settled states on the returned path.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 20),
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "router_graph_nodes",
			Help: "Number of road nodes in the loaded graph store.",
		}),
		GraphStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "router_graph_stops",
			Help: "Number of transit stops in the loaded graph store.",
		}),
	}

	reg.MustRegister(c.QueriesTotal, c.QueryDuration, c.SettledStates, c.GraphNodes, c.GraphStops)
	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on addr.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error: " + err.Error())
		}
	}()
	slog.Info("metrics listening on " + addr)
	return srv
}
