// Package paginate walks a chain of "next page" links and collects the
// anchors that satisfy a predicate.
package paginate

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/oiltrends/internal/fetch"
)

// Fetcher retrieves a page body and the URL it was finally served from.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Matcher decides whether an anchor is collected, given its raw href and
// visible text.
type Matcher func(href, text string) bool

// Link is a collected anchor. Href is kept exactly as written in the page;
// Page is the URL of the page it was found on.
type Link struct {
	Href string
	Page string
}

// Resolve returns the absolute form of the link, using the page it was found
// on as the base for relative hrefs.
func (l Link) Resolve() (string, error) {
	href := strings.TrimSpace(l.Href)
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(l.Page)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", l.Page, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Hrefs returns the raw hrefs of links in order.
func Hrefs(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Href)
	}
	return out
}

// Collect fetches startURL and follows its "next" anchor until no next
// anchor exists or maxPages pages have been fetched. Matches are returned in
// page order, then document order, duplicates included.
//
// If a page cannot be fetched, Collect returns the links gathered from the
// earlier pages together with the error.
func Collect(ctx context.Context, f Fetcher, startURL string, match Matcher, maxPages int) ([]Link, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	logger := zerolog.Ctx(ctx)
	var links []Link
	current := startURL
	for page := 1; ; page++ {
		body, finalURL, err := f.Get(ctx, current)
		if err != nil {
			return links, fmt.Errorf("page %d: %w", page, err)
		}
		if finalURL == "" {
			finalURL = current
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fetch.DecodeHTML(body, "")))
		if err != nil {
			return links, fmt.Errorf("page %d: parse html: %w", page, err)
		}

		before := len(links)
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if match(href, s.Text()) {
				links = append(links, Link{Href: href, Page: finalURL})
			}
		})
		logger.Debug().Str("url", finalURL).Int("page", page).Int("matches", len(links)-before).Msg("page scanned")

		if page >= maxPages {
			break
		}
		next, ok := findNext(doc, finalURL)
		if !ok {
			break
		}
		current = next
	}
	return links, nil
}

// findNext returns the absolute URL of the first anchor whose text looks like
// a "next page" control.
func findNext(doc *goquery.Document, pageURL string) (string, bool) {
	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !IsNextAnchor(s.Text()) {
			return true
		}
		href, _ := s.Attr("href")
		resolved, err := Link{Href: href, Page: pageURL}.Resolve()
		if err != nil {
			return true
		}
		next = resolved
		return false
	})
	return next, next != ""
}

// IsNextAnchor reports whether anchor text reads as a pagination control:
// it contains "next" in any case or the "›" character.
func IsNextAnchor(text string) bool {
	return strings.Contains(strings.ToLower(text), "next") || strings.Contains(text, "›")
}
