package trend

import "strings"

// Report is the per-product outcome of one aggregation pass.
type Report struct {
	// Products in the order they were requested.
	Products []string
	Records  map[string][]Record
	// Summaries holds each product's record descriptions joined by newlines,
	// or NoDataSentinel.
	Summaries map[string]string
	// Relevant concatenates every description, grouped by product in
	// Products order and then by sentence order.
	Relevant string
}

// Summary returns the display string for product.
func (r Report) Summary(product string) string {
	if s, ok := r.Summaries[product]; ok {
		return s
	}
	return NoDataSentinel
}

// Count returns the total number of records across products.
func (r Report) Count() int {
	n := 0
	for _, recs := range r.Records {
		n += len(recs)
	}
	return n
}

// Aggregate splits text into sentences and classifies each one against every
// product. A sentence naming two products yields a record for each.
func Aggregate(text string, products []string, splitter Splitter) Report {
	rep := Report{
		Products:  append([]string(nil), products...),
		Records:   make(map[string][]Record, len(products)),
		Summaries: make(map[string]string, len(products)),
	}
	if strings.TrimSpace(text) != "" {
		for _, sentence := range splitter.Split(text) {
			for _, p := range products {
				if rec, ok := Classify(sentence, p); ok {
					rep.Records[p] = append(rep.Records[p], rec)
				}
			}
		}
	}

	var relevant []string
	for _, p := range products {
		recs := rep.Records[p]
		if len(recs) == 0 {
			rep.Summaries[p] = NoDataSentinel
			continue
		}
		lines := make([]string, 0, len(recs))
		for _, rec := range recs {
			lines = append(lines, rec.Description)
		}
		rep.Summaries[p] = strings.Join(lines, "\n")
		relevant = append(relevant, lines...)
	}
	rep.Relevant = strings.Join(relevant, " ")
	return rep
}
