// Package query implements the faceted query pipeline over the wine catalog:
// facet filtering, sorting, pagination and the session reducer that owns a
// caller's filter, sort and page selection.
package query

import (
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HerbHall/winegallery/pkg/models"
)

// AllTypes is the wine type option meaning "no restriction".
const AllTypes = "All Types"

// Default price slider bounds.
const (
	DefaultPriceMin  = 0
	DefaultPriceMax  = 1500
	DefaultPriceStep = 10
)

// PriceRange is a closed interval. Max may be +Inf for an open-ended bracket.
type PriceRange struct {
	Min float64
	Max float64
}

// FullPriceRange returns the default slider bounds.
func FullPriceRange() PriceRange {
	return PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}
}

// Unbounded reports whether the range has no upper limit.
func (p PriceRange) Unbounded() bool {
	return math.IsInf(p.Max, 1)
}

// Contains reports whether v lies within [Min, Max].
func (p PriceRange) Contains(v float64) bool {
	return v >= p.Min && v <= p.Max
}

// MarshalJSON encodes the range as [min, max], writing null for an
// unbounded max.
func (p PriceRange) MarshalJSON() ([]byte, error) {
	pair := [2]*float64{&p.Min, &p.Max}
	if p.Unbounded() {
		pair[1] = nil
	}
	return json.Marshal(pair)
}

// UnmarshalJSON decodes [min, max]; a null max means unbounded.
func (p *PriceRange) UnmarshalJSON(data []byte) error {
	var pair [2]*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Min, p.Max = 0, math.Inf(1)
	if pair[0] != nil {
		p.Min = *pair[0]
	}
	if pair[1] != nil {
		p.Max = *pair[1]
	}
	return nil
}

// Filter is the full set of facet selections. An empty selection never
// excludes a record.
type Filter struct {
	Query      string     `json:"query"`
	Countries  []string   `json:"countries"`
	Types      []string   `json:"wine_types"`
	Years      []string   `json:"years"`
	Styles     []string   `json:"styles"`
	FlavorTags []string   `json:"flavor_tags"`
	Price      PriceRange `json:"price_range"`
}

// DefaultFilter returns a filter with no selections and the full price range.
func DefaultFilter() Filter {
	return Filter{Price: FullPriceRange()}
}

// Predicate is a single facet test over a record.
type Predicate func(models.Wine) bool

// MatchesAnyOrAll reports whether value passes a facet selection: an empty
// selection passes everything, otherwise value must be a member.
func MatchesAnyOrAll(selection []string, value string) bool {
	return anyOrAll(selection, func(s string) bool { return s == value })
}

// MatchesAnyOrAllFold is MatchesAnyOrAll with case-insensitive membership.
func MatchesAnyOrAllFold(selection []string, value string) bool {
	return anyOrAll(selection, func(s string) bool { return strings.EqualFold(s, value) })
}

func anyOrAll(selection []string, match func(string) bool) bool {
	if len(selection) == 0 {
		return true
	}
	for _, s := range selection {
		if match(s) {
			return true
		}
	}
	return false
}

// MatchesAllTags reports whether every selected tag is among tags.
func MatchesAllTags(selection, tags []string) bool {
	for _, want := range selection {
		found := false
		for _, t := range tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Predicates returns the filter's tests in evaluation order.
func (f Filter) Predicates() []Predicate {
	needle := strings.ToLower(f.Query)
	types := f.Types
	for _, t := range types {
		if t == AllTypes {
			types = nil
			break
		}
	}
	price := f.Price

	return []Predicate{
		func(w models.Wine) bool {
			if needle == "" {
				return true
			}
			haystack := strings.ToLower(w.Title() + " " + w.Country() + " " + w.Variety())
			return strings.Contains(haystack, needle)
		},
		func(w models.Wine) bool { return MatchesAnyOrAll(f.Countries, w.Country()) },
		func(w models.Wine) bool { return MatchesAnyOrAll(types, w.WineType()) },
		func(w models.Wine) bool { return MatchesAnyOrAll(f.Years, w.Year()) },
		func(w models.Wine) bool { return MatchesAnyOrAll(f.Styles, w.Style()) },
		func(w models.Wine) bool {
			p, ok := w.Price()
			return ok && price.Contains(p)
		},
		func(w models.Wine) bool { return MatchesAllTags(f.FlavorTags, w.FlavorTags()) },
	}
}

// Match reports whether w passes every predicate.
func (f Filter) Match(w models.Wine) bool {
	return matchAll(f.Predicates(), w)
}

// Apply returns the records passing f, in input order. The input is not
// modified.
func Apply(records []models.Wine, f Filter) []models.Wine {
	preds := f.Predicates()
	out := make([]models.Wine, 0, len(records))
	for _, w := range records {
		if matchAll(preds, w) {
			out = append(out, w)
		}
	}
	return out
}

func matchAll(preds []Predicate, w models.Wine) bool {
	for _, p := range preds {
		if !p(w) {
			return false
		}
	}
	return true
}
