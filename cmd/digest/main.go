package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/bbolt"
	"github.com/fwojciec/digest/fs"
	"github.com/fwojciec/digest/gemini"
	"github.com/fwojciec/digest/goquery"
	"github.com/fwojciec/digest/htmltomarkdown"
	digesthttp "github.com/fwojciec/digest/http"
	"github.com/fwojciec/digest/ingest"
	"github.com/fwojciec/digest/openai"
	"github.com/fwojciec/digest/prometheus"
	"github.com/fwojciec/digest/readability"
	"github.com/fwojciec/digest/rod"
	digestslog "github.com/fwojciec/digest/slog"
	"github.com/fwojciec/digest/sqlite"
	"github.com/fwojciec/digest/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db and DIGEST_DB are unset.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close releases every resource opened by Run.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && first == nil {
			first = err
		}
		m.DB = nil
	}
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("digest"),
		kong.Description("Turn newsletter emails into a library of summarised links"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'digest --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	defer m.Close()

	switch cmd {
	case "classify":
		deps.Classifier = classifierFor(cli.Classify.Extended)

	case "parse":
		if err := m.wireParse(deps, &cli.Parse); err != nil {
			return err
		}

	case "ingest", "links", "export":
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		deps.Links = digestslog.NewLoggingLinkService(sqlite.NewLinkService(m.DB), deps.Logger)
		deps.Newsletters = sqlite.NewNewsletterService(m.DB)
		deps.Exporter = func(dir, name string) digest.LinkExporter {
			return fs.NewFileStore(dir, name)
		}
		if cmd == "ingest" {
			if err := m.wireIngest(ctx, deps, &cli.Ingest); err != nil {
				return err
			}
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	if path == "" {
		path = m.DBPath
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set DIGEST_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

func (m *Main) wireParse(deps *Dependencies, c *ParseCmd) error {
	var pageURL *url.URL
	first := firstURL(c.Sources)
	source := c.URL
	if first != "" {
		source = first
	}
	if source != "" {
		pageURL, _ = url.Parse(source)
	}

	p := goquery.NewParser()
	p.Extractor = extractorFor(c.Extractor, pageURL)
	deps.Parser = digestslog.NewLoggingParser(p, deps.Logger)

	if first == "" {
		return nil
	}
	if c.Render {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, f)
		deps.Fetcher = digestslog.NewLoggingFetcher(f, deps.Logger)
		return nil
	}
	deps.Fetcher = digestslog.NewLoggingFetcher(digesthttp.NewFetcher(digesthttp.WithTimeout(c.Timeout)), deps.Logger)
	return nil
}

func (m *Main) wireIngest(ctx context.Context, deps *Dependencies, c *IngestCmd) error {
	logger := deps.Logger
	deps.Metrics = prometheus.NewMetrics()
	deps.Emails = fs.NewMailDir(c.Dir)

	opts := []digesthttp.Option{digesthttp.WithTimeout(c.Timeout)}
	if c.Robots {
		opts = append(opts, digesthttp.WithRobots())
	}
	var fetcher digest.Fetcher = digesthttp.NewFetcher(opts...)
	fetcher = prometheus.NewInstrumentedFetcher(digestslog.NewLoggingFetcher(fetcher, logger), deps.Metrics)
	if c.Cache != "" {
		cache, err := bbolt.Open(c.Cache, bbolt.WithTTL(c.CacheTTL))
		if err != nil {
			return fmt.Errorf("failed to open page cache at %q: %w", c.Cache, err)
		}
		m.closers = append(m.closers, cache)
		fetcher = bbolt.NewCachingFetcher(cache, fetcher)
	}

	var renderer digest.Fetcher
	if c.Render {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, f)
		renderer = prometheus.NewInstrumentedFetcher(digestslog.NewLoggingFetcher(f, logger), deps.Metrics)
	}

	parser := prometheus.NewInstrumentedParser(digestslog.NewLoggingParser(goquery.NewParser(), logger), deps.Metrics)

	in := &ingest.Ingester{
		Links:         deps.Links,
		Newsletters:   deps.Newsletters,
		LinkExtractor: goquery.NewLinkExtractor(),
		Classifier:    classifierFor(c.Extended),
		Fetcher:       fetcher,
		Renderer:      renderer,
		Parser:        parser,
		SummaryLimit:  c.SummaryLimit,
		Converter:     htmltomarkdown.NewConverter(),
		RateLimiter:   ingest.NewDomainLimiter(c.RPS),
		Logger:        logger,
		Observe:       deps.Metrics.ObserveLink,
		Concurrency:   c.Concurrency,
	}

	if tc, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel); err == nil {
		in.TokenCounter = tc
	} else {
		logger.Warn("token counting disabled", "err", err)
	}

	if c.Summarize {
		providers, err := summarizers(ctx, c, deps.Stderr)
		if err != nil {
			return err
		}
		in.Summarizer = digestslog.NewLoggingSummarizer(ingest.NewFallbackSummarizer(providers...), logger)
	}

	deps.Ingester = in
	return nil
}

// summarizers builds the configured providers in order. Providers without
// an API key are skipped with a hint; the fallback summary still applies.
func summarizers(ctx context.Context, c *IngestCmd, stderr io.Writer) ([]digest.Summarizer, error) {
	var providers []digest.Summarizer
	for _, name := range c.Summarizers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case gemini.Provider:
			if c.GeminiKey == "" {
				fmt.Fprintln(stderr, "Hint: GEMINI_API_KEY not set, skipping gemini. Get a key at https://aistudio.google.com/apikey")
				continue
			}
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  c.GeminiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			providers = append(providers, gemini.NewSummarizer(client, gemini.DefaultModel))
		case openai.Provider:
			if c.OpenAIKey == "" {
				fmt.Fprintln(stderr, "Hint: OPENAI_API_KEY not set, skipping openai")
				continue
			}
			providers = append(providers, openai.NewSummarizer(openai.NewClient(c.OpenAIKey, c.OpenAIURL), openai.DefaultModel))
		case "":
		default:
			return nil, digest.Errorf(digest.EINVALID, "unknown summarizer %q (want gemini or openai)", name)
		}
	}
	return providers, nil
}

func classifierFor(extended bool) *digest.Classifier {
	if extended {
		return digest.NewClassifier(digest.ExtendedRules()...)
	}
	return digest.NewClassifier(digest.StandardRules()...)
}

// extractorFor returns the main-content extractor named by the --extractor
// flag. pageURL may be nil.
func extractorFor(name string, pageURL *url.URL) digest.Extractor {
	switch name {
	case "readability":
		return &readability.Extractor{PageURL: pageURL}
	case "trafilatura":
		return &trafilatura.Extractor{PageURL: pageURL}
	default:
		return goquery.NewContainerExtractor()
	}
}

func defaultDBPath() string {
	if path := os.Getenv("DIGEST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "digest.db"
	}
	dir := filepath.Join(home, ".digest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "digest.db")
}
