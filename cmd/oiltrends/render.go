package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/oiltrends/internal/app"
	"github.com/hyperifyio/oiltrends/internal/paginate"
	"github.com/hyperifyio/oiltrends/internal/pipeline"
	"github.com/hyperifyio/oiltrends/internal/trend"
)

func renderKeywordLinks(w io.Writer, links []paginate.Link, maxPages int) {
	fmt.Fprintf(w, "Found %d matching links for keywords across %d pages:\n", len(links), maxPages)
	renderLinks(w, links)
}

// renderLinks prints each href as found, followed by its absolute form when
// the two differ.
func renderLinks(w io.Writer, links []paginate.Link) {
	for _, l := range links {
		abs, err := l.Resolve()
		if err != nil || abs == l.Href {
			fmt.Fprintf(w, "  %s\n", l.Href)
			continue
		}
		fmt.Fprintf(w, "  %s  (%s)\n", l.Href, abs)
	}
}

func renderSummary(w io.Writer, res *pipeline.Result, maxPages int) {
	fmt.Fprintf(w, "Found %d PDF links across %d pages.\n\n", len(res.Links), maxPages)
	if strings.TrimSpace(res.Summary) == "" {
		fmt.Fprintln(w, "No content generated.")
	} else {
		fmt.Fprintln(w, res.Summary)
	}
	fmt.Fprintln(w)
	renderReport(w, res.Report)
	renderNotices(w, res.Notices)
	fmt.Fprintln(w, "PDF links:")
	renderLinks(w, res.Links)
}

func renderReport(w io.Writer, rep trend.Report) {
	fmt.Fprintln(w, "Price trends:")
	for _, p := range rep.Products {
		lines := strings.Split(rep.Summary(p), "\n")
		fmt.Fprintf(w, "  %s:\n", p)
		for _, line := range lines {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintln(w)
}

func renderNotices(w io.Writer, notices []pipeline.Notice) {
	if len(notices) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped (%d):\n", len(notices))
	for _, n := range notices {
		fmt.Fprintf(w, "  %s\n", n)
	}
	fmt.Fprintln(w)
}

func renderPage(w io.Writer, pa *app.PageAnalysis) {
	if pa.Title != "" {
		fmt.Fprintf(w, "%s\n", pa.Title)
	}
	fmt.Fprintf(w, "%s (%d characters of text)\n\n", pa.URL, len(pa.Text))
	renderReport(w, pa.Report)
}
