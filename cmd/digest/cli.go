package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/ingest"
	"github.com/fwojciec/digest/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Now         func() time.Time
	Classifier  *digest.Classifier
	Fetcher     digest.Fetcher
	Parser      digest.Parser
	Links       digest.LinkService
	Newsletters digest.NewsletterService
	Emails      digest.EmailSource
	Ingester    *ingest.Ingester
	Metrics     *prometheus.Metrics
	Exporter    func(dir, name string) digest.LinkExporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `env:"DIGEST_DB" help:"SQLite database path (default ~/.digest/digest.db)"`
	Verbose bool   `short:"v" help:"Log at debug level"`

	Classify ClassifyCmd `cmd:"" help:"Classify URLs by link type"`
	Parse    ParseCmd    `cmd:"" help:"Parse HTML files or URLs into structured article data"`
	Ingest   IngestCmd   `cmd:"" help:"Ingest newsletter emails from a mail directory"`
	Links    LinksCmd    `cmd:"" help:"List stored links"`
	Export   ExportCmd   `cmd:"" help:"Export stored links as markdown files"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	URLs     []string `arg:"" name:"url" help:"URLs to classify"`
	Extended bool     `short:"x" help:"Use the extended rule set (youtube, utm tracking)"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Sources   []string      `arg:"" name:"source" help:"HTML file paths or http(s) URLs"`
	URL       string        `short:"u" name:"url" help:"Source URL to report for file inputs"`
	Validate  bool          `help:"Include a quality report"`
	Extractor string        `short:"e" default:"heuristic" enum:"heuristic,readability,trafilatura" help:"Main-content extractor (heuristic, readability, trafilatura)"`
	Render    bool          `short:"r" help:"Fetch URLs with a headless browser"`
	Timeout   time.Duration `default:"10s" help:"Fetch timeout"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Dir          string        `arg:"" help:"Directory of .eml files or a Maildir"`
	Since        string        `short:"s" help:"Only emails received since a date (2006-01-02) or duration ago (72h)"`
	Summarize    bool          `help:"Generate summaries with the configured providers"`
	Summarizers  []string      `env:"DIGEST_SUMMARIZERS" default:"gemini,openai" help:"Summary providers in fallback order"`
	SummaryLimit int           `default:"500" help:"Maximum summary length in characters"`
	GeminiKey    string        `env:"GEMINI_API_KEY" help:"Gemini API key"`
	OpenAIKey    string        `env:"OPENAI_API_KEY" name:"openai-key" help:"OpenAI API key"`
	OpenAIURL    string        `env:"OPENAI_BASE_URL" name:"openai-url" help:"OpenAI-compatible API base URL"`
	Render       bool          `short:"r" help:"Fetch x.com links with a headless browser"`
	Extended     bool          `short:"x" help:"Use the extended classification rule set"`
	Robots       bool          `help:"Honour robots.txt"`
	Cache        string        `env:"DIGEST_CACHE" help:"Page cache file (bbolt); empty disables caching"`
	CacheTTL     time.Duration `default:"24h" help:"Page cache time to live"`
	MetricsFile  string        `help:"Write Prometheus metrics to this textfile after the run"`
	Concurrency  int           `short:"c" default:"8" help:"Concurrent link fetches per email"`
	RPS          float64       `default:"2" help:"Requests per second per host"`
	Timeout      time.Duration `default:"10s" help:"Fetch timeout"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	Type       string `short:"t" help:"Only links of this type"`
	Newsletter string `short:"n" help:"Only links from this newsletter"`
	Limit      int    `short:"l" default:"50" help:"Maximum number of links"`
	Full       bool   `help:"Show summaries"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir        string `arg:"" help:"Parent directory"`
	Name       string `arg:"" help:"Export directory name"`
	Type       string `short:"t" help:"Only links of this type"`
	Newsletter string `short:"n" help:"Only links from this newsletter"`
}
