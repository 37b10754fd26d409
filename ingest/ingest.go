// Package ingest turns newsletter emails into stored links. It coordinates
// link extraction, classification, fetching, parsing, summarisation and
// storage.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of links processed in parallel per email.
const DefaultConcurrency = 8

// Link statuses reported to Observe.
const (
	StatusSaved   = "saved"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Ingester orchestrates the processing of newsletter emails.
type Ingester struct {
	Links         digest.LinkService
	Newsletters   digest.NewsletterService
	LinkExtractor digest.LinkExtractor
	Classifier    *digest.Classifier
	Fetcher       digest.Fetcher
	Parser        digest.Parser

	// Renderer, when set, fetches x.com links, which need JavaScript, and
	// re-fetches pages whose plain parse is failed or minimal.
	Renderer digest.Fetcher
	// Summarizer, when set, replaces parsed summaries with generated ones.
	Summarizer   digest.Summarizer
	SummaryLimit int
	// Converter, when set, stores newsletter bodies as markdown.
	Converter    digest.Converter
	TokenCounter digest.TokenCounter
	RateLimiter  digest.DomainLimiter
	Logger       *slog.Logger

	// Observe, when set, is called once per link with its final status.
	Observe func(typ digest.LinkType, status string)

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of an ingest run.
type Result struct {
	Emails        int
	EmailsSkipped int
	Links         int
	Saved         int
	Skipped       int
	Failed        int
	Bytes         int
	Tokens        int
}

// ProgressEvent reports progress during an ingest run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Subject   string
	URL       string
	LinkType  digest.LinkType
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressEmail
	ProgressEmailSkipped
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting ingest progress.
type ProgressFunc func(event ProgressEvent)

// linkResult holds the outcome of processing a single URL.
type linkResult struct {
	link  *digest.Link
	bytes int
	skip  bool
	err   error
}

// Ingest processes emails in order. Emails whose message ID was already
// recorded are skipped. Per-link failures are counted in the Result; only
// storage failures for the newsletter record or a cancelled context abort
// the run, returning the partial Result alongside the error.
func (in *Ingester) Ingest(ctx context.Context, emails []*digest.Email, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	seen := bloom.NewFilter(bloom.DefaultCapacity, bloom.DefaultFPRate)
	result := &Result{}

	progress(ProgressEvent{Type: ProgressStarted, Total: len(emails)})

	for i, email := range emails {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		processed, err := in.processed(ctx, email)
		if err != nil {
			return result, err
		}
		if processed {
			result.EmailsSkipped++
			progress(ProgressEvent{Type: ProgressEmailSkipped, Completed: i + 1, Total: len(emails), Subject: email.Subject})
			continue
		}

		progress(ProgressEvent{Type: ProgressEmail, Completed: i + 1, Total: len(emails), Subject: email.Subject})
		if err := in.ingestEmail(ctx, email, seen, result, progress); err != nil {
			return result, err
		}
		result.Emails++
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: len(emails), Total: len(emails)})
	return result, nil
}

func (in *Ingester) processed(ctx context.Context, email *digest.Email) (bool, error) {
	if email.MessageID == "" {
		return false, nil
	}
	_, err := in.Newsletters.FindNewsletterByMessageID(ctx, email.MessageID)
	switch digest.ErrorCode(err) {
	case "":
		return true, nil
	case digest.ENOTFOUND:
		return false, nil
	default:
		return false, fmt.Errorf("lookup newsletter %s: %w", email.MessageID, err)
	}
}

func (in *Ingester) ingestEmail(ctx context.Context, email *digest.Email, seen *bloom.Filter, result *Result, progress ProgressFunc) error {
	urls, err := in.LinkExtractor.ExtractLinks(email.Body())
	if err != nil {
		in.logger().Warn("extract links", "subject", email.Subject, "err", err)
		urls = nil
	}
	result.Links += len(urls)

	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]linkResult, len(urls))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = in.processURL(ctx, email, u, seen)
			return nil
		})
	}
	_ = g.Wait()

	// Store sequentially so links keep their order of appearance.
	for i, r := range results {
		typ := in.classify(urls[i])
		event := ProgressEvent{Completed: i + 1, Total: len(urls), Subject: email.Subject, URL: urls[i], LinkType: typ}
		switch {
		case r.skip:
			result.Skipped++
			in.observe(typ, StatusSkipped)
			event.Type = ProgressSkipped
			progress(event)
			continue
		case r.link == nil:
			result.Failed++
			in.observe(typ, StatusFailed)
			event.Type, event.Error = ProgressFailed, r.err
			progress(event)
			continue
		}

		err := in.Links.CreateLink(ctx, r.link)
		switch {
		case digest.ErrorCode(err) == digest.ECONFLICT:
			result.Skipped++
			in.observe(typ, StatusSkipped)
			event.Type = ProgressSkipped
		case err != nil:
			result.Failed++
			in.observe(typ, StatusFailed)
			event.Type, event.Error = ProgressFailed, err
		case r.err != nil:
			// Stored without content so the URL is not lost.
			result.Failed++
			in.observe(typ, StatusFailed)
			event.Type, event.Error = ProgressFailed, r.err
		default:
			result.Saved++
			result.Bytes += r.bytes
			result.Tokens += in.countTokens(ctx, r.link.Content)
			in.observe(typ, StatusSaved)
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return in.recordNewsletter(ctx, email, len(urls))
}

// processURL classifies, dedups and, for fetchable types, fetches, parses
// and summarises one URL. A result with a link and an error means the link
// should be stored bare.
func (in *Ingester) processURL(ctx context.Context, email *digest.Email, rawURL string, seen *bloom.Filter) linkResult {
	if seen.Seen(rawURL) {
		return linkResult{skip: true}
	}
	if _, err := in.Links.FindLinkByURL(ctx, rawURL); err == nil {
		return linkResult{skip: true}
	}

	typ := in.classify(rawURL)
	bare := digest.NewLinkFromContent(rawURL, typ, email.Newsletter, nil)
	if !fetchable(typ) {
		return linkResult{link: bare}
	}

	html, rendered, err := in.fetch(ctx, typ, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return linkResult{err: ctx.Err()}
		}
		return linkResult{link: bare, err: err}
	}

	parsed := in.Parser.Parse(html, rawURL)
	if !rendered && in.Renderer != nil && NeedsRender(parsed) {
		html, parsed = in.rerender(ctx, rawURL, html, parsed)
	}
	if !parsed.Success {
		return linkResult{link: bare, bytes: len(html), err: digest.Errorf(digest.EINVALID, "%s", parsed.Error)}
	}

	link := digest.NewLinkFromContent(rawURL, typ, email.Newsletter, parsed)
	if in.Summarizer != nil && parsed.Content != "" {
		summary, err := in.Summarizer.Summarize(ctx, digest.SummaryRequest{
			Title:     parsed.Title,
			Content:   parsed.Content,
			MaxLength: in.SummaryLimit,
		})
		if err != nil {
			in.logger().Warn("summarize", "url", rawURL, "err", err)
		} else if summary != nil && summary.Summary != "" {
			link.Summary = summary.Summary
		}
	}
	return linkResult{link: link, bytes: len(html)}
}

// fetchable reports whether links of typ are fetched and parsed. PDFs and
// advertiser links are stored by URL only.
func fetchable(typ digest.LinkType) bool {
	return typ != digest.LinkPDF && typ != digest.LinkAdvertiser
}

// fetch retrieves rawURL through the renderer for x links when one is set,
// otherwise through the plain fetcher. rendered reports which was used.
func (in *Ingester) fetch(ctx context.Context, typ digest.LinkType, rawURL string) (html string, rendered bool, err error) {
	if typ == digest.LinkX && in.Renderer != nil {
		html, err = in.fetchWith(ctx, in.Renderer, rawURL)
		return html, true, err
	}
	html, err = in.fetchWith(ctx, in.Fetcher, rawURL)
	return html, false, err
}

func (in *Ingester) fetchWith(ctx context.Context, fetcher digest.Fetcher, rawURL string) (string, error) {
	if in.RateLimiter != nil {
		if err := in.RateLimiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return "", err
		}
	}
	delays := in.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, fetcher.Fetch, in.Logger, delays)
}

// rerender fetches rawURL through the renderer after a thin plain parse and
// keeps whichever result carries more content.
func (in *Ingester) rerender(ctx context.Context, rawURL, html string, parsed *digest.ParsedContent) (string, *digest.ParsedContent) {
	renderedHTML, err := in.fetchWith(ctx, in.Renderer, rawURL)
	if err != nil {
		in.logger().Debug("render fallback", "url", rawURL, "err", err)
		return html, parsed
	}
	renderedParse := in.Parser.Parse(renderedHTML, rawURL)
	if !RenderedRicher(parsed, renderedParse) {
		return html, parsed
	}
	in.logger().Debug("render fallback", "url", rawURL, "words", renderedParse.WordCount)
	return renderedHTML, renderedParse
}

func (in *Ingester) recordNewsletter(ctx context.Context, email *digest.Email, linkCount int) error {
	if email.MessageID == "" {
		return nil
	}
	body := email.Text
	if email.HTML != "" && in.Converter != nil {
		if md, err := in.Converter.Convert(email.HTML); err == nil {
			body = md
		} else {
			in.logger().Warn("convert newsletter body", "subject", email.Subject, "err", err)
		}
	}
	n := &digest.Newsletter{
		MessageID:  email.MessageID,
		Name:       email.Newsletter,
		Sender:     email.From,
		Subject:    email.Subject,
		Body:       body,
		LinkCount:  linkCount,
		ReceivedAt: email.ReceivedAt,
	}
	if err := in.Newsletters.CreateNewsletter(ctx, n); err != nil && digest.ErrorCode(err) != digest.ECONFLICT {
		return fmt.Errorf("record newsletter %s: %w", email.MessageID, err)
	}
	return nil
}

func (in *Ingester) classify(rawURL string) digest.LinkType {
	if in.Classifier != nil {
		return in.Classifier.Classify(rawURL)
	}
	return digest.Classify(rawURL)
}

func (in *Ingester) countTokens(ctx context.Context, content string) int {
	if in.TokenCounter == nil || content == "" {
		return 0
	}
	tokens, err := in.TokenCounter.CountTokens(ctx, content)
	if err != nil {
		return 0
	}
	return tokens
}

func (in *Ingester) observe(typ digest.LinkType, status string) {
	if in.Observe != nil {
		in.Observe(typ, status)
	}
}

func (in *Ingester) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.New(slog.DiscardHandler)
}
