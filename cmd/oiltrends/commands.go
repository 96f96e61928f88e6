package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/oiltrends/internal/app"
	"github.com/hyperifyio/oiltrends/internal/paginate"
	"github.com/hyperifyio/oiltrends/internal/pipeline"
)

func newLinksCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "links <url>",
		Short: "List links whose href or text mentions a configured keyword",
		Example: `  oiltrends links https://example.com/news --pages 3
  oiltrends links https://example.com/news --keywords "Palm Oil,PFAD"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startURL, err := checkURL(args[0])
			if err != nil {
				return err
			}
			a, cfg, err := opts.newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var links []paginate.Link
			err = opts.withSpinner(cfg.Verbose, "Fetching and analyzing links...", func() error {
				var ferr error
				links, ferr = a.FindKeywordLinks(contextOf(cmd), startURL, cfg.MaxPages)
				return ferr
			})
			out := cmd.OutOrStdout()
			if errors.Is(err, app.ErrNoMatches) {
				fmt.Fprintln(out, "No matching links found for the given keywords.")
				return nil
			}
			if len(links) > 0 {
				renderKeywordLinks(out, links, cfg.MaxPages)
			}
			if err != nil {
				fmt.Fprintf(out, "\nAn error occurred while fetching the URL: %v\n", err)
				return errReported
			}
			return nil
		},
	}
}

func newSummarizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <url>",
		Short: "Collect PDF links, extract price trends and summarize them with the LLM",
		Example: `  oiltrends summarize https://example.com/reports --pages 2
  oiltrends summarize https://example.com/reports --prompt-source relevant`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startURL, err := checkURL(args[0])
			if err != nil {
				return err
			}
			a, cfg, err := opts.newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Preflight(contextOf(cmd))

			var res *pipeline.Result
			err = opts.withSpinner(cfg.Verbose, "Fetching and analyzing PDF links...", func() error {
				var rerr error
				res, rerr = a.FindPDFLinksAndSummarize(contextOf(cmd), startURL, cfg.MaxPages)
				return rerr
			})
			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, pipeline.ErrNoLinksFound):
				fmt.Fprintln(out, "No PDF links found on the page.")
				var pe *pipeline.Error
				if errors.As(err, &pe) && pe.Err != nil {
					fmt.Fprintf(out, "An error occurred while fetching the URL: %v\n", pe.Err)
				}
				return fmt.Errorf("%w: %w", errReported, err)
			case err != nil:
				if res != nil {
					renderReport(out, res.Report)
					renderNotices(out, res.Notices)
				}
				fmt.Fprintf(out, "\nAn error occurred while generating the summary: %v\n", err)
				return fmt.Errorf("%w: %w", errReported, err)
			}
			renderSummary(out, res, cfg.MaxPages)
			return nil
		},
	}
}

func newPageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "page <url>",
		Short:   "Extract readable text from one web page and report its price trends",
		Example: `  oiltrends page https://example.com/articles/palm-oil-weekly`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL, err := checkURL(args[0])
			if err != nil {
				return err
			}
			a, cfg, err := opts.newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var pa *app.PageAnalysis
			err = opts.withSpinner(cfg.Verbose, "Fetching page...", func() error {
				var perr error
				pa, perr = a.AnalyzePage(contextOf(cmd), pageURL)
				return perr
			})
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "An error occurred while fetching content from %s: %v\n", pageURL, err)
				return errReported
			}
			renderPage(out, pa)
			return nil
		},
	}
}

// checkURL requires an absolute http(s) URL.
func checkURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("please enter a valid URL: %q", raw)
	}
	return u.String(), nil
}
