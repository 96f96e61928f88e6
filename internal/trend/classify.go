package trend

import "fmt"

// Directionality is the price movement a sentence implies.
type Directionality string

const (
	Up   Directionality = "up"
	Down Directionality = "down"
	None Directionality = "none"
)

// Record is one qualifying sentence for one product. Records are values and
// are not modified once built.
type Record struct {
	Product   string
	Direction Directionality
	// Number and Date are empty when the sentence has no such token.
	Number   string
	Date     string
	Drivers  []string
	Sentence string
	// Description is the human-readable line shown in reports.
	Description string
}

// Classify decides whether sentence is price relevant for product and, if
// so, what it says. It returns false when the product is not mentioned or no
// relevance keyword is present. A record is returned even when no direction
// can be read from the sentence.
func Classify(sentence, product string) (Record, bool) {
	if !Mentions(sentence, product) || !HasKeyword(sentence) {
		return Record{}, false
	}
	r := Record{
		Product:   product,
		Direction: Direction(sentence),
		Drivers:   Drivers(sentence),
		Sentence:  sentence,
	}
	r.Number, _ = MatchNumber(sentence)
	r.Date, _ = MatchDate(sentence)
	r.Description = describe(r)
	return r, true
}

func describe(r Record) string {
	trend := r.Direction != None && r.Number != ""
	switch {
	case trend && r.Date != "":
		return fmt.Sprintf("%s price is going %s: %s (%s). Source: %s", r.Product, r.Direction, r.Number, r.Date, r.Sentence)
	case trend:
		return fmt.Sprintf("%s price is going %s: %s. Source: %s", r.Product, r.Direction, r.Number, r.Sentence)
	case r.Date != "":
		return fmt.Sprintf("%s (%s), no clear trend: %s", r.Product, r.Date, r.Sentence)
	default:
		return fmt.Sprintf("%s, no clear trend: %s", r.Product, r.Sentence)
	}
}
