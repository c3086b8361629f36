// Package adminhttp exposes the side-channel HTTP server: Prometheus
// metrics and a health check, routed and logged the way the teacher
// routes and logs its main API — gorilla/mux plus a gorilla/handlers
// logging wrapper, just a much smaller surface.
package adminhttp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/pkg/log"
)

// Server is the admin HTTP listener. It never shares a goroutine with
// the command-serving TCP acceptor.
type Server struct {
	http *http.Server
	// Addr is the actual bound address, useful when addr was given
	// with a ":0" port.
	Addr string
}

// Start binds addr and begins serving /metrics and /healthz in a
// background goroutine, logging any non-graceful failure. The
// listener is established before Start returns, mirroring the
// fail-fast-on-bind pattern of the main command listener.
func Start(addr string, ks *keyspace.Keyspace) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding admin address %s: %w", addr, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(newStatsCollector(ks))

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		fmt.Fprintln(rw, "ok")
	})

	logged := handlers.CustomLoggingHandler(io.Discard, router, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Debugf("adminhttp: %s %s -> %d", params.Request.Method, params.URL.Path, params.StatusCode)
	})

	srv := &http.Server{Handler: logged}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("adminhttp: server stopped: %s", err.Error())
		}
	}()

	return &Server{http: srv, Addr: listener.Addr().String()}, nil
}

// Shutdown gracefully stops the admin server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// statsCollector adapts keyspace.Stats to a Prometheus Collector,
// computing fresh values from the keyspace's atomic counters on every
// scrape rather than caching them: counters for the running totals, a
// gauge for the current entry count.
type statsCollector struct {
	ks *keyspace.Keyspace

	hits            *prometheus.Desc
	misses          *prometheus.Desc
	evictions       *prometheus.Desc
	expiredRemovals *prometheus.Desc
	totalEntries    *prometheus.Desc
}

func newStatsCollector(ks *keyspace.Keyspace) *statsCollector {
	return &statsCollector{
		ks:              ks,
		hits:            prometheus.NewDesc("volatix_hits_total", "Total GET hits.", nil, nil),
		misses:          prometheus.NewDesc("volatix_misses_total", "Total GET misses.", nil, nil),
		evictions:       prometheus.NewDesc("volatix_evictions_total", "Total entries evicted for capacity.", nil, nil),
		expiredRemovals: prometheus.NewDesc("volatix_expired_removals_total", "Total entries removed for TTL expiry.", nil, nil),
		totalEntries:    prometheus.NewDesc("volatix_total_entries", "Current number of stored entries.", nil, nil),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expiredRemovals
	ch <- c.totalEntries
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.ks.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expiredRemovals, prometheus.CounterValue, float64(s.ExpiredRemovals))
	ch <- prometheus.MustNewConstMetric(c.totalEntries, prometheus.GaugeValue, float64(s.TotalEntries))
}
