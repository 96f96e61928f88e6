// Package trend classifies commodity price-trend signals in free text.
//
// A sentence qualifies as soon as it names a tracked product and contains any
// relevance keyword. Direction, figure and date are then pulled out with plain
// substring and pattern tests.
package trend

// Tracked products. The set is fixed at build time.
const (
	PalmOil      = "Palm Oil"
	RapeseedOil  = "Rapeseed Oil"
	PFAD         = "PFAD"
	SunflowerOil = "Sunflower Oil"
)

// Products returns the tracked products in report order.
func Products() []string {
	return []string{PalmOil, RapeseedOil, PFAD, SunflowerOil}
}

// TrendKeywords mark a sentence as price relevant.
var TrendKeywords = []string{"price", "increase", "decrease", "rate", "cost", "change", "up", "down", "rise", "drop", "fall"}

// SupplyKeywords are the secondary supply/demand relevance signal.
var SupplyKeywords = []string{"supply", "demand", "shortage", "surplus", "production", "export", "import", "availability"}

// FactorKeywords name contextual drivers of a price movement.
var FactorKeywords = []string{"geopolitical", "war", "conflict", "sanctions", "climate", "weather", "tariffs", "embargo"}

var (
	upWords   = []string{"increase", "up", "rise"}
	downWords = []string{"decrease", "down", "fall", "drop"}
)

// NoDataSentinel is shown for a product without any qualifying sentence.
const NoDataSentinel = "No significant data"
