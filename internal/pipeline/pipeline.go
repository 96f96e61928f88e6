// Package pipeline ties link collection, PDF text extraction, trend
// aggregation and summarization into one sequential run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/oiltrends/internal/budget"
	"github.com/hyperifyio/oiltrends/internal/fetch"
	"github.com/hyperifyio/oiltrends/internal/paginate"
	"github.com/hyperifyio/oiltrends/internal/pdftext"
	"github.com/hyperifyio/oiltrends/internal/trend"
)

// DefaultInstruction is prepended to the document text in the summary prompt.
const DefaultInstruction = "Summarize the document, focusing on the price fluctuations of palm oil and soybean oil, with particular emphasis on the significant changes that have occurred in the last two months. Present the key factors driving these recent price movements in bullet points, including global demand, supply, and geopolitical events."

// PromptSource selects which text follows the instruction in the prompt.
type PromptSource string

const (
	// PromptFull uses the combined text of every extracted document.
	PromptFull PromptSource = "full"
	// PromptRelevant uses only the aggregated trend descriptions.
	PromptRelevant PromptSource = "relevant"
)

// ParsePromptSource accepts "full" or "relevant"; empty means full.
func ParsePromptSource(s string) (PromptSource, error) {
	switch PromptSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", PromptFull:
		return PromptFull, nil
	case PromptRelevant:
		return PromptRelevant, nil
	}
	return "", fmt.Errorf("unknown prompt source %q (want full or relevant)", s)
}

// Summarizer turns a prompt into text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// PDFTextFunc extracts text from the first pageLimit pages of a PDF.
type PDFTextFunc func(data []byte, pageLimit int) (string, error)

// Config holds the per-run settings of an Orchestrator.
type Config struct {
	// Products defaults to trend.Products().
	Products []string
	// Instruction defaults to DefaultInstruction.
	Instruction  string
	PageLimit    int
	PromptSource PromptSource
	// Model, SystemPrompt and ReservedOutputTokens size the prompt budget.
	// An empty Model disables truncation.
	Model                string
	SystemPrompt         string
	ReservedOutputTokens int
}

// Orchestrator runs the PDF summary pipeline. It holds no per-run state and
// may be reused.
type Orchestrator struct {
	// Pages fetches listing pages.
	Pages paginate.Fetcher
	// Documents fetches PDFs; nil means Pages.
	Documents  paginate.Fetcher
	PDFText    PDFTextFunc
	Splitter   trend.Splitter
	Summarizer Summarizer
	Config     Config
}

// Result is everything a front-end needs to display a finished run.
type Result struct {
	RunID   string
	Summary string
	Links   []paginate.Link
	Report  trend.Report
	Notices []Notice
	Prompt  string
	// Documents counts the PDFs whose text was used.
	Documents int
}

// Run collects PDF links starting at startURL, extracts and aggregates their
// text, and summarizes it. Unreachable pages or documents become notices; only
// an empty link set or a failed summary abort the run.
func (o *Orchestrator) Run(ctx context.Context, startURL string, maxPages int) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", res.RunID).Logger()
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = l.With().Str("run_id", res.RunID).Logger()
	}
	ctx = logger.WithContext(ctx)

	links, err := paginate.Collect(ctx, o.Pages, startURL, paginate.PDFMatcher(), maxPages)
	if err != nil {
		if len(links) == 0 {
			return nil, &Error{Kind: NoLinksFound, Err: err}
		}
		failed := startURL
		var fe *fetch.Error
		if errors.As(err, &fe) {
			failed = fe.URL
		}
		logger.Warn().Err(err).Str("url", failed).Msg("pagination stopped early")
		res.Notices = append(res.Notices, Notice{Kind: NoticePagination, URL: failed, Message: err.Error()})
	}
	if len(links) == 0 {
		return nil, &Error{Kind: NoLinksFound}
	}
	res.Links = links
	logger.Info().Str("stage", "collect").Int("links", len(links)).Msg("collected PDF links")

	combined := o.combinedText(ctx, res)

	splitter := o.Splitter
	if splitter == nil {
		punkt, err := trend.NewPunktSplitter()
		if err != nil {
			return nil, err
		}
		splitter = punkt
	}
	cfg := o.config()
	res.Report = trend.Aggregate(combined, cfg.Products, splitter)
	logger.Info().Str("stage", "aggregate").Int("documents", res.Documents).Int("records", res.Report.Count()).Msg("aggregated trends")

	body := combined
	if cfg.PromptSource == PromptRelevant {
		body = res.Report.Relevant
	}
	if cfg.Model != "" {
		fitted, cut := budget.FitBody(cfg.Model, cfg.ReservedOutputTokens, cfg.SystemPrompt, cfg.Instruction, body)
		if cut {
			msg := fmt.Sprintf("prompt text truncated from %d to %d bytes for model %s", len(body), len(fitted), cfg.Model)
			logger.Warn().Str("model", cfg.Model).Int("from", len(body)).Int("to", len(fitted)).Msg("prompt truncated")
			res.Notices = append(res.Notices, Notice{Kind: NoticeTruncated, Message: msg})
			body = fitted
		}
	}
	res.Prompt = cfg.Instruction + " " + body

	start := time.Now()
	summary, err := o.Summarizer.Summarize(ctx, res.Prompt)
	if err != nil {
		return res, &Error{Kind: SummarizationFailed, Err: err}
	}
	res.Summary = summary
	logger.Info().Str("stage", "summarize").Dur("elapsed", time.Since(start)).Int("prompt_chars", len(res.Prompt)).Msg("summary received")
	return res, nil
}

// combinedText fetches and extracts every link in order. Each document's text
// is followed by a single space.
func (o *Orchestrator) combinedText(ctx context.Context, res *Result) string {
	logger := zerolog.Ctx(ctx)
	docs := o.Documents
	if docs == nil {
		docs = o.Pages
	}
	extract := o.PDFText
	if extract == nil {
		extract = pdftext.ExtractFirstPages
	}
	limit := o.config().PageLimit

	var sb strings.Builder
	for _, link := range res.Links {
		target, err := link.Resolve()
		if err != nil {
			logger.Warn().Err(err).Str("href", link.Href).Msg("skipping unresolvable link")
			res.Notices = append(res.Notices, Notice{Kind: NoticeLink, URL: link.Href, Message: err.Error()})
			continue
		}
		data, _, err := docs.Get(ctx, target)
		if err != nil {
			logger.Warn().Err(err).Str("url", target).Msg("skipping PDF; fetch failed")
			res.Notices = append(res.Notices, Notice{Kind: NoticeFetch, URL: target, Message: err.Error()})
			continue
		}
		text, err := extract(data, limit)
		if err != nil {
			logger.Warn().Err(err).Str("url", target).Msg("skipping PDF; extraction failed")
			res.Notices = append(res.Notices, Notice{Kind: NoticeExtract, URL: target, Message: err.Error()})
			continue
		}
		if text == "" {
			logger.Debug().Str("url", target).Msg("PDF has no text")
			continue
		}
		sb.WriteString(text)
		sb.WriteString(" ")
		res.Documents++
		logger.Debug().Str("url", target).Int("chars", len(text)).Msg("extracted PDF text")
	}
	return sb.String()
}

func (o *Orchestrator) config() Config {
	c := o.Config
	if len(c.Products) == 0 {
		c.Products = trend.Products()
	}
	if strings.TrimSpace(c.Instruction) == "" {
		c.Instruction = DefaultInstruction
	}
	if c.PageLimit <= 0 {
		c.PageLimit = pdftext.DefaultPageLimit
	}
	if c.PromptSource == "" {
		c.PromptSource = PromptFull
	}
	return c
}
