// Package app wires configuration, HTTP, extraction and the LLM backend into
// the actions exposed by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/oiltrends/internal/extract"
	"github.com/hyperifyio/oiltrends/internal/fetch"
	"github.com/hyperifyio/oiltrends/internal/llm"
	"github.com/hyperifyio/oiltrends/internal/paginate"
	"github.com/hyperifyio/oiltrends/internal/pipeline"
	"github.com/hyperifyio/oiltrends/internal/summarize"
	"github.com/hyperifyio/oiltrends/internal/trend"
)

// maxPDFBytes caps a single PDF download.
const maxPDFBytes = 64 << 20

// ErrNoMatches is returned by FindKeywordLinks when no anchor matched.
var ErrNoMatches = errors.New("no matching links found")

type App struct {
	cfg       Config
	http      *http.Client
	llmHTTP   *http.Client
	pages     *fetch.Client
	documents *fetch.Client
	provider  *llm.OpenAIProvider
	splitter  trend.Splitter
	extractor extract.Extractor
}

// New builds an App from an already validated configuration.
func New(ctx context.Context, cfg Config) (*App, error) {
	hc := newHTTPClient(cfg.SSLVerify, cfg.Timeout)
	// The LLM endpoint receives the API key, so SSLVerify never applies to it.
	llmHC := newHTTPClient(true, cfg.Timeout)
	splitter, err := trend.NewPunktSplitter()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:     cfg,
		http:    hc,
		llmHTTP: llmHC,
		pages: &fetch.Client{
			HTTPClient:        hc,
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.Timeout,
			RedirectMaxHops:   cfg.MaxRedirects,
		},
		documents: &fetch.Client{
			HTTPClient:        hc,
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.Timeout,
			RedirectMaxHops:   cfg.MaxRedirects,
			MaxBodyBytes:      maxPDFBytes,
		},
		provider:  llm.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL, llmHC),
		splitter:  splitter,
		extractor: extract.ReadabilityExtractor{},
	}
	if !cfg.SSLVerify {
		log.Warn().Msg("TLS certificate verification is disabled for page and PDF fetches")
	}
	return a, nil
}

// Close releases idle connections.
func (a *App) Close() {
	a.http.CloseIdleConnections()
	a.llmHTTP.CloseIdleConnections()
}

// Preflight lists the backend's models as a connectivity check. Failures are
// logged and never returned; the summary call surfaces real errors.
func (a *App) Preflight(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := a.provider.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// FindKeywordLinks collects anchors whose href or text contains one of the
// configured keywords. Links gathered before a page failure are returned
// along with the error.
func (a *App) FindKeywordLinks(ctx context.Context, startURL string, maxPages int) ([]paginate.Link, error) {
	links, err := paginate.Collect(ctx, a.pages, startURL, paginate.KeywordMatcher(a.cfg.Keywords...), maxPages)
	if err != nil {
		log.Warn().Err(err).Str("url", startURL).Int("links", len(links)).Msg("keyword search stopped")
		return links, err
	}
	if len(links) == 0 {
		return nil, ErrNoMatches
	}
	log.Info().Str("url", startURL).Int("links", len(links)).Msg("keyword links found")
	return links, nil
}

// FindPDFLinksAndSummarize runs the PDF summary pipeline.
func (a *App) FindPDFLinksAndSummarize(ctx context.Context, startURL string, maxPages int) (*pipeline.Result, error) {
	source, err := pipeline.ParsePromptSource(a.cfg.PromptSource)
	if err != nil {
		return nil, err
	}
	o := &pipeline.Orchestrator{
		Pages:     a.pages,
		Documents: a.documents,
		Splitter:  a.splitter,
		Summarizer: &summarize.Summarizer{
			Client:       a.provider,
			Model:        a.cfg.LLMModel,
			SystemPrompt: a.cfg.SystemPrompt,
			Temperature:  0.1,
			MaxTokens:    a.cfg.ReservedOutputTokens,
		},
		Config: pipeline.Config{
			Instruction:          a.cfg.Instruction,
			PageLimit:            a.cfg.PDFPageLimit,
			PromptSource:         source,
			Model:                a.cfg.LLMModel,
			SystemPrompt:         a.systemPrompt(),
			ReservedOutputTokens: a.cfg.ReservedOutputTokens,
		},
	}
	return o.Run(ctx, startURL, maxPages)
}

// PageAnalysis is the trend report for a single web page.
type PageAnalysis struct {
	URL    string
	Title  string
	Text   string
	Report trend.Report
}

// AnalyzePage fetches one HTML page, extracts its readable text and
// aggregates the price trends it mentions.
func (a *App) AnalyzePage(ctx context.Context, pageURL string) (*PageAnalysis, error) {
	body, finalURL, err := a.pages.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc := a.extractor.Extract(fetch.DecodeHTML(body, ""), finalURL)
	if doc.Text == "" {
		return nil, fmt.Errorf("no readable text at %s", finalURL)
	}
	rep := trend.Aggregate(doc.Text, trend.Products(), a.splitter)
	log.Info().Str("url", finalURL).Int("chars", len(doc.Text)).Int("records", rep.Count()).Msg("page analyzed")
	return &PageAnalysis{URL: finalURL, Title: doc.Title, Text: doc.Text, Report: rep}, nil
}

func (a *App) systemPrompt() string {
	if a.cfg.SystemPrompt != "" {
		return a.cfg.SystemPrompt
	}
	return summarize.DefaultSystemPrompt
}
