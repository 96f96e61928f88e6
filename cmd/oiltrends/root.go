package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/oiltrends/internal/app"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	envFiles   []string
	noSpinner  bool

	llmBase      string
	llmModel     string
	llmKey       string
	systemPrompt string
	reserved     int

	sslVerify    bool
	userAgent    string
	timeout      time.Duration
	maxRedirects int

	maxPages     int
	pdfPages     int
	keywords     []string
	instruction  string
	promptSource string

	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	def := app.DefaultConfig()

	root := &cobra.Command{
		Use:   "oiltrends",
		Short: "oiltrends: vegetable oil price trends from report listings",
		Long: `oiltrends walks a paginated listing page, collects report links and PDFs,
extracts price-trend sentences for Palm Oil, Rapeseed Oil, PFAD and Sunflower
Oil, and asks an OpenAI-compatible model for a summary.

Usage:
  oiltrends links <url> [flags]
  oiltrends summarize <url> [flags]
  oiltrends page <url> [flags]`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to YAML or JSON config file")
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading the environment")
	f.BoolVar(&opts.noSpinner, "no-spinner", false, "Disable the progress spinner")

	f.StringVar(&opts.llmBase, "llm.base", def.LLMBaseURL, "OpenAI-compatible base URL (env LLM_BASE_URL)")
	f.StringVar(&opts.llmModel, "llm.model", def.LLMModel, "Model name (env LLM_MODEL)")
	f.StringVar(&opts.llmKey, "llm.key", "", "API key (env LLM_API_KEY or GOOGLE_API_KEY)")
	f.StringVar(&opts.systemPrompt, "llm.systemPrompt", "", "Override the summarizer system prompt")
	f.IntVar(&opts.reserved, "llm.reservedOutputTokens", def.ReservedOutputTokens, "Tokens reserved for the summary when sizing the prompt")

	f.BoolVar(&opts.sslVerify, "ssl-verify", def.SSLVerify, "Verify TLS certificates (env SSL_VERIFY)")
	f.StringVar(&opts.userAgent, "user-agent", def.UserAgent, "User-Agent header for page and PDF requests")
	f.DurationVar(&opts.timeout, "timeout", def.Timeout, "Per-request timeout")
	f.IntVar(&opts.maxRedirects, "max-redirects", def.MaxRedirects, "Maximum redirects followed per request")

	f.IntVarP(&opts.maxPages, "pages", "p", def.MaxPages, "Number of listing pages to walk (>= 1)")
	f.IntVar(&opts.pdfPages, "pdf-pages", def.PDFPageLimit, "Leading PDF pages to extract text from")
	f.StringSliceVar(&opts.keywords, "keywords", def.Keywords, "Keywords matched against link hrefs and texts")
	f.StringVar(&opts.instruction, "instruction", "", "Summary instruction placed before the document text")
	f.StringVar(&opts.promptSource, "prompt-source", def.PromptSource, "Text sent after the instruction: full or relevant")

	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(newLinksCmd(opts), newSummarizeCmd(opts), newPageCmd(opts))
	return root
}

// loadConfig resolves the configuration with precedence
// flags > environment > config file > defaults.
func (o *options) loadConfig(cmd *cobra.Command) (app.Config, error) {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.DefaultConfig()
	if strings.TrimSpace(o.configPath) != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config %s: %w", o.configPath, err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return app.Config{}, err
		}
	}
	app.ApplyEnvOverrides(&cfg)

	changed := cmd.Flags().Changed
	if changed("llm.base") {
		cfg.LLMBaseURL = o.llmBase
	}
	if changed("llm.model") {
		cfg.LLMModel = o.llmModel
	}
	if changed("llm.key") {
		cfg.LLMAPIKey = o.llmKey
	}
	if changed("llm.systemPrompt") {
		cfg.SystemPrompt = o.systemPrompt
	}
	if changed("llm.reservedOutputTokens") {
		cfg.ReservedOutputTokens = o.reserved
	}
	if changed("ssl-verify") {
		cfg.SSLVerify = o.sslVerify
	}
	if changed("user-agent") {
		cfg.UserAgent = o.userAgent
	}
	if changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if changed("max-redirects") {
		cfg.MaxRedirects = o.maxRedirects
	}
	if changed("pages") {
		cfg.MaxPages = o.maxPages
	}
	if changed("pdf-pages") {
		cfg.PDFPageLimit = o.pdfPages
	}
	if changed("keywords") {
		cfg.Keywords = o.keywords
	}
	if changed("instruction") {
		cfg.Instruction = o.instruction
	}
	if changed("prompt-source") {
		cfg.PromptSource = o.promptSource
	}
	if o.verbose {
		cfg.Verbose = true
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

// newApp loads and validates the configuration and builds the App.
func (o *options) newApp(cmd *cobra.Command, requireLLM bool) (*app.App, app.Config, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	if err := app.ValidateConfig(cfg, requireLLM); err != nil {
		return nil, cfg, err
	}
	a, err := app.New(contextOf(cmd), cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("init app: %w", err)
	}
	return a, cfg, nil
}

// withSpinner runs fn while a spinner with the given message is shown on
// stderr.
func (o *options) withSpinner(verbose bool, msg string, fn func() error) error {
	if o.noSpinner || verbose {
		return fn()
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()
	return fn()
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
