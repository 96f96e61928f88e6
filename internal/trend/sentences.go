package trend

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter breaks text into ordered sentences.
type Splitter interface {
	Split(text string) []string
}

// SplitterFunc adapts a function to Splitter.
type SplitterFunc func(text string) []string

func (f SplitterFunc) Split(text string) []string { return f(text) }

// PunktSplitter is an abbreviation-aware English sentence splitter backed by
// the punkt model shipped with the sentences package.
type PunktSplitter struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the English punkt model.
func NewPunktSplitter() (*PunktSplitter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english tokenizer: %w", err)
	}
	return &PunktSplitter{tok: tok}, nil
}

// Split returns the trimmed, non-empty sentences of text.
func (p *PunktSplitter) Split(text string) []string {
	toks := p.tok.Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, s := range toks {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
