package query

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/HerbHall/winegallery/pkg/models"
)

// SortKey selects the ordering of a result set.
type SortKey string

const (
	SortNone         SortKey = ""
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortHighestRated SortKey = "highest-rated"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
)

// SortOption pairs a key with its display label.
type SortOption struct {
	Key   SortKey `json:"key"`
	Label string  `json:"label"`
}

// SortOptions lists the supported orderings in menu order.
var SortOptions = []SortOption{
	{Key: SortNone, Label: "Default"},
	{Key: SortNameAsc, Label: "Name (A-Z)"},
	{Key: SortNameDesc, Label: "Name (Z-A)"},
	{Key: SortHighestRated, Label: "Highest Rated"},
	{Key: SortPriceLowHigh, Label: "Price (Low-High)"},
	{Key: SortPriceHighLow, Label: "Price (High-Low)"},
}

// ParseSortKey validates s. Unknown values report false.
func ParseSortKey(s string) (SortKey, bool) {
	for _, o := range SortOptions {
		if string(o.Key) == s {
			return o.Key, true
		}
	}
	return SortNone, false
}

// collator is not safe for concurrent use.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

func compareTitles(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// Sort returns a new slice ordered by key. Ties keep their input order.
// Records whose rating or price does not parse are placed after all
// parseable ones in both directions. SortNone and unknown keys return the
// input order.
func Sort(records []models.Wine, key SortKey) []models.Wine {
	out := slices.Clone(records)
	if out == nil {
		out = []models.Wine{}
	}

	var cmpFn func(a, b models.Wine) int
	switch key {
	case SortNameAsc:
		cmpFn = func(a, b models.Wine) int { return compareTitles(a.Title(), b.Title()) }
	case SortNameDesc:
		cmpFn = func(a, b models.Wine) int { return compareTitles(b.Title(), a.Title()) }
	case SortHighestRated:
		cmpFn = numeric(models.Wine.Points, true)
	case SortPriceLowHigh:
		cmpFn = numeric(models.Wine.Price, false)
	case SortPriceHighLow:
		cmpFn = numeric(models.Wine.Price, true)
	default:
		return out
	}

	slices.SortStableFunc(out, cmpFn)
	return out
}

// numeric builds a comparator over a parsed field. Unparseable values
// compare equal to each other and greater than any parseable value.
func numeric(field func(models.Wine) (float64, bool), desc bool) func(a, b models.Wine) int {
	return func(a, b models.Wine) int {
		va, okA := field(a)
		vb, okB := field(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		if desc {
			return cmp.Compare(vb, va)
		}
		return cmp.Compare(va, vb)
	}
}
