// Package prometheus instruments fetchers and parsers with Prometheus
// metrics and exports them in the node-exporter textfile format.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/digest"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "digest"

// Metrics holds the collectors for one process. Collectors are registered
// on a private registry rather than the global default.
type Metrics struct {
	Registry *prometheus.Registry

	pagesFetched  *prometheus.CounterVec
	bytesFetched  prometheus.Counter
	fetchDuration prometheus.Histogram
	parses        *prometheus.CounterVec
	words         prometheus.Histogram
	linksStored   *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Total number of page fetches by outcome.",
		}, []string{"outcome"}),
		bytesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_fetched_total",
			Help:      "Total bytes of HTML downloaded.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Total number of parsed documents by outcome and content type.",
		}, []string{"outcome", "content_type"}),
		words: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parsed_words",
			Help:      "Word count of successfully parsed documents.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),
		linksStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Links processed during ingest by link type and status.",
		}, []string{"type", "status"}),
	}
	m.Registry.MustRegister(m.pagesFetched, m.bytesFetched, m.fetchDuration, m.parses, m.words, m.linksStored)
	return m
}

// ObserveLink counts one ingested link. status is "saved", "skipped" or
// "failed".
func (m *Metrics) ObserveLink(typ digest.LinkType, status string) {
	m.linksStored.WithLabelValues(string(typ), status).Inc()
}

// WriteTextfile writes every registered metric to path in the textfile
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// Ensure InstrumentedFetcher implements digest.Fetcher at compile time.
var _ digest.Fetcher = (*InstrumentedFetcher)(nil)

// InstrumentedFetcher counts fetches, downloaded bytes and latency.
type InstrumentedFetcher struct {
	next    digest.Fetcher
	metrics *Metrics
}

// NewInstrumentedFetcher wraps next.
func NewInstrumentedFetcher(next digest.Fetcher, m *Metrics) *InstrumentedFetcher {
	return &InstrumentedFetcher{next: next, metrics: m}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
		if err != nil {
			f.metrics.pagesFetched.WithLabelValues(outcome(err)).Inc()
			return
		}
		f.metrics.pagesFetched.WithLabelValues("ok").Inc()
		f.metrics.bytesFetched.Add(float64(len(html)))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close closes the wrapped fetcher.
func (f *InstrumentedFetcher) Close() error {
	return f.next.Close()
}

// outcome labels a fetch error by its domain code.
func outcome(err error) string {
	switch digest.ErrorCode(err) {
	case digest.ENOTFOUND:
		return "not_found"
	case digest.EUNAUTHORIZED:
		return "denied"
	case digest.EINVALID:
		return "invalid"
	default:
		return "error"
	}
}

// Ensure InstrumentedParser implements digest.Parser at compile time.
var _ digest.Parser = (*InstrumentedParser)(nil)

// InstrumentedParser counts parse results by outcome and content type and
// observes word counts.
type InstrumentedParser struct {
	next    digest.Parser
	metrics *Metrics
}

// NewInstrumentedParser wraps next.
func NewInstrumentedParser(next digest.Parser, m *Metrics) *InstrumentedParser {
	return &InstrumentedParser{next: next, metrics: m}
}

// Parse delegates to the wrapped parser and records the result.
func (p *InstrumentedParser) Parse(html, sourceURL string) *digest.ParsedContent {
	result := p.next.Parse(html, sourceURL)
	p.observe(result)
	return result
}

// ParseAll delegates to the wrapped parser and records every result.
func (p *InstrumentedParser) ParseAll(docs []digest.RawDocument) []*digest.ParsedContent {
	results := p.next.ParseAll(docs)
	for _, r := range results {
		p.observe(r)
	}
	return results
}

func (p *InstrumentedParser) observe(r *digest.ParsedContent) {
	if r == nil || !r.Success {
		p.metrics.parses.WithLabelValues("failed", "").Inc()
		return
	}
	p.metrics.parses.WithLabelValues("ok", string(r.ContentType)).Inc()
	p.metrics.words.Observe(float64(r.WordCount))
}
