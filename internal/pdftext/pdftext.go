// Package pdftext pulls plain text out of the leading pages of a PDF.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// DefaultPageLimit is the number of leading pages read when no limit is given.
const DefaultPageLimit = 2

// ExtractionError reports a PDF that could not be decoded.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "extract pdf text: " + e.Err.Error() }

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractFirstPages returns the text of the first min(pageLimit, pages)
// pages, concatenated without separators. A document with no pages yields an
// empty string. Text is NFKC-normalised so ligatures compare as plain letters.
func ExtractFirstPages(data []byte, pageLimit int) (text string, err error) {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	// The decoder panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	n := r.NumPage()
	if n > pageLimit {
		n = pageLimit
	}
	var b strings.Builder
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range p.Fonts() {
			f := p.Font(name)
			fonts[name] = &f
		}
		t, err := p.GetPlainText(fonts)
		if err != nil {
			return "", &ExtractionError{Err: fmt.Errorf("page %d: %w", i, err)}
		}
		b.WriteString(t)
	}
	return norm.NFKC.String(b.String()), nil
}
