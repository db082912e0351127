package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/MindsetIO/log-stream/internal/dispatch"
	"github.com/MindsetIO/log-stream/internal/faillog"
	"github.com/MindsetIO/log-stream/internal/geo"
	"github.com/MindsetIO/log-stream/internal/ingest"
	"github.com/MindsetIO/log-stream/internal/metrics"
	"github.com/MindsetIO/log-stream/internal/parser"
	"github.com/MindsetIO/log-stream/internal/rate"
	"github.com/MindsetIO/log-stream/internal/transmit"
	"github.com/MindsetIO/log-stream/internal/types"
)

// Output is the unit handed to sinks per matched line: the enriched record
// plus the refreshed estimates for its type and for all types combined.
type Output struct {
	Record    *parser.ParsedRecord
	Rate      rate.Estimate
	Aggregate rate.Estimate
}

// Sink consumes fully processed outputs (dashboard store, tests).
type Sink func(Output)

// Pipeline runs one (file, record type) source end to end: tail, classify,
// parse, enrich, record history, estimate, emit. Each pipeline owns its
// tailer and dispatcher outright; the rate set, enricher, poster and
// failure log are the only collaborators shared with other pipelines, and
// each guards itself. Within a pipeline everything is sequential: a line is
// fully processed before the next is read, so a slow geo lookup or POST
// stalls only its own source.
type Pipeline struct {
	source     types.SourceConfig
	recordType parser.RecordType
	tailer     ingest.Ingester
	dispatcher *dispatch.Dispatcher
	enricher   geo.Enricher
	rates      *rate.Set
	poster     *transmit.Poster
	failures   *faillog.Logger
	sink       Sink

	arrival time.Time // arrival of the line currently being dispatched
}

// New wires a pipeline for one source. Pattern compilation and record type
// validation failures surface here, at startup.
func New(src types.SourceConfig, enricher geo.Enricher, rates *rate.Set, poster *transmit.Poster, failures *faillog.Logger, sink Sink) (*Pipeline, error) {
	recordType, err := parser.TypeFromString(src.Type)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Path, err)
	}

	p := &Pipeline{
		source:     src,
		recordType: recordType,
		tailer:     ingest.NewFileTailer(src.Path),
		enricher:   enricher,
		rates:      rates,
		poster:     poster,
		failures:   failures,
		sink:       sink,
	}

	p.dispatcher, err = dispatch.New(recordType, src.Patterns, p.handleMatch)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Run tails the source until Stop. The returned error is fatal for this
// source only; a failed open here must not take down sibling pipelines.
func (p *Pipeline) Run() error {
	lines, err := p.tailer.Start()
	if err != nil {
		return fmt.Errorf("source %s unavailable: %w", p.source.Path, err)
	}

	log.Printf("[PIPELINE] %s listening on %s (%d patterns)", p.recordType, p.source.Path, len(p.source.Patterns))

	for line := range lines {
		metrics.LinesRead.WithLabelValues(string(p.recordType)).Inc()
		p.arrival = line.Timestamp
		p.dispatcher.Dispatch(line.Content)
	}
	return nil
}

// Stop shuts the tailer down, which ends Run.
func (p *Pipeline) Stop() {
	if err := p.tailer.Stop(); err != nil {
		log.Printf("[PIPELINE] stop %s: %v", p.source.Path, err)
	}
}

// handleMatch carries one pattern match through parse, enrichment, history
// and emission. Every failure past this point is recovered locally.
func (p *Pipeline) handleMatch(recordType parser.RecordType, line string) {
	metrics.PatternMatches.WithLabelValues(string(recordType)).Inc()

	rec, err := parser.Parse(recordType, line, p.arrival)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(string(recordType)).Inc()
		p.failures.Report(faillog.KindParse, p.source.Path, string(recordType), line, err)
		return
	}

	if rec.IP != "" && p.enricher != nil {
		info, err := p.enricher.Enrich(rec.IP)
		if err != nil {
			metrics.GeoFailures.Inc()
			p.failures.Report(faillog.KindEnrich, p.source.Path, string(recordType), rec.IP, err)
		} else {
			rec.Geo = info
		}
	}

	est := p.rates.Record(rec.Type, rec.Arrival)
	agg := p.rates.EstimateAll(time.Now())

	if err := p.poster.Post(rec); err != nil {
		metrics.TransmitFailures.Inc()
		p.failures.Report(faillog.KindTransmit, p.source.Path, string(recordType), "", err)
	}

	metrics.RecordsEmitted.WithLabelValues(string(recordType)).Inc()
	if p.sink != nil {
		p.sink(Output{Record: rec, Rate: est, Aggregate: agg})
	}
}
