package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LinesRead counts every line delivered by a tailer, matched or not.
	LinesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logstream_lines_read_total",
		Help: "Lines read from tailed files",
	}, []string{"type"})

	// PatternMatches counts sink invocations (one per matching pattern).
	PatternMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logstream_pattern_matches_total",
		Help: "Pattern matches dispatched downstream",
	}, []string{"type"})

	// RecordsEmitted counts fully processed records handed to the sinks.
	RecordsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logstream_records_emitted_total",
		Help: "Parsed, enriched records emitted",
	}, []string{"type"})

	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logstream_parse_failures_total",
		Help: "Matched lines that fit no known sub-format",
	}, []string{"type"})

	GeoFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logstream_geo_lookup_failures_total",
		Help: "Geo lookups that returned no data",
	})

	TransmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logstream_transmit_failures_total",
		Help: "Records the collection API rejected or never received",
	})
)

// StartServer exposes /metrics on the given address. Blocks.
func StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
