// Package extract turns fetched HTML into plain readable text.
package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Extractor converts raw HTML bytes into a Document. Implementations are
// deterministic and free of side effects.
type Extractor interface {
	Extract(input []byte, pageURL string) Document
}

// ReadabilityExtractor runs the readability algorithm and falls back to the
// FromHTML when readability fails or finds less than MinChars of
// text.
type ReadabilityExtractor struct {
	MinChars int
}

func (e ReadabilityExtractor) Extract(input []byte, pageURL string) Document {
	fallback := func() Document { return FromHTML(input) }
	u, err := url.Parse(pageURL)
	if err != nil {
		return fallback()
	}
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(input), u)
	if err != nil {
		return fallback()
	}
	text := normalizeLines(article.TextContent)
	min := e.MinChars
	if min <= 0 {
		min = 200
	}
	if len(strings.TrimSpace(text)) < min {
		return fallback()
	}
	return Document{Title: strings.TrimSpace(article.Title), Text: text}
}
