// Package scoring turns raw per-attribute ratings into category averages,
// paired profiles and strategic insights.
package scoring

import (
	"strconv"

	"github.com/rcliao/pair-assessment/internal/catalog"
)

// MissingScoreDefault is the value an unrated attribute counts as when
// averaging. An entirely unrated category therefore reports 1.0 ("No
// Struggle"), the same as one rated 1 throughout.
const MissingScoreDefault = 1

// CategoryScore is one point of a partner's profile.
type CategoryScore struct {
	Category string  `json:"category" yaml:"category"`
	Average  float64 `json:"average" yaml:"average"`
}

// PairedScore is one category compared across both partners.
type PairedScore struct {
	Category string  `json:"category" yaml:"category"`
	Partner1 float64 `json:"partner1" yaml:"partner1"`
	Partner2 float64 `json:"partner2" yaml:"partner2"`
	FullMark int     `json:"full_mark" yaml:"full_mark"`
}

// CategoryAverage returns the mean score of category, counting missing
// attributes as MissingScoreDefault, rounded to one decimal (see roundTenth).
// Unknown categories yield 0.
func CategoryAverage(scores map[string]int, cat *catalog.Catalog, category string) float64 {
	ids := cat.AttributeIDsOf(category)
	if len(ids) == 0 {
		return 0
	}
	sum := 0
	for _, id := range ids {
		v, ok := scores[id]
		if !ok {
			v = MissingScoreDefault
		}
		sum += v
	}
	return roundTenth(sum, len(ids))
}

// roundTenth rounds the float64 quotient sum/n to one decimal the way a
// JavaScript toFixed(1) would: the nearest tenth to the stored binary value,
// so 41/20 (stored just below 2.05) gives 2.0. The only exact halves a
// quotient can land on are quarters (x.25, x.75); those round up, where
// strconv alone would round them to even.
func roundTenth(sum, n int) float64 {
	if q := 4 * sum; q%n == 0 && (q/n)%2 == 1 {
		return float64((20*sum+n)/(2*n)) / 10
	}
	f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(sum)/float64(n), 'f', 1, 64), 64)
	return f
}

// FormatAverage renders an average with one decimal, e.g. "4.0".
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ProfileVector returns a partner's averages for every category in catalog order.
func ProfileVector(scores map[string]int, cat *catalog.Catalog) []CategoryScore {
	cats := cat.Categories()
	out := make([]CategoryScore, len(cats))
	for i, c := range cats {
		out[i] = CategoryScore{Category: c, Average: CategoryAverage(scores, cat, c)}
	}
	return out
}

// Compare pairs both partners' profiles category by category.
func Compare(p1, p2 map[string]int, cat *catalog.Catalog) []PairedScore {
	cats := cat.Categories()
	out := make([]PairedScore, len(cats))
	for i, c := range cats {
		out[i] = PairedScore{
			Category: c,
			Partner1: CategoryAverage(p1, cat, c),
			Partner2: CategoryAverage(p2, cat, c),
			FullMark: 5,
		}
	}
	return out
}
