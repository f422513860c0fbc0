// Package catalog holds the immutable wine record store and derives the
// facet vocabularies shown beside the gallery.
package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/HerbHall/winegallery/pkg/models"
)

// ErrNotFound is returned by detail lookups that match no record.
var ErrNotFound = errors.New("wine not found")

// Catalog is the loaded record store. It is never mutated after New and is
// safe for concurrent readers.
type Catalog struct {
	records []models.Wine
	byID    map[string]int
}

// Vocabulary lists the distinct non-blank values observed per facet.
type Vocabulary struct {
	Countries  []string   `json:"countries"`
	Types      []string   `json:"wine_types"`
	Styles     []string   `json:"styles"`
	Years      []string   `json:"years"`
	FlavorTags []string   `json:"flavor_tags"`
	Price      PriceBound `json:"price"`
}

// PriceBound is the smallest and largest parseable price in the store.
type PriceBound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// New creates a Catalog over a copy of records, preserving their order.
func New(records []models.Wine) *Catalog {
	c := &Catalog{
		records: make([]models.Wine, len(records)),
		byID:    make(map[string]int),
	}
	for i, r := range records {
		c.records[i] = r.Clone()
		if id := strings.TrimSpace(r.ID()); id != "" {
			if _, dup := c.byID[id]; !dup {
				c.byID[id] = i
			}
		}
	}
	return c
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns the records in load order. The slice is a copy; the
// records themselves are shared and must be treated as read-only.
func (c *Catalog) Records() []models.Wine {
	out := make([]models.Wine, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record at index.
func (c *Catalog) Get(index int) (models.Wine, error) {
	if index < 0 || index >= len(c.records) {
		return nil, ErrNotFound
	}
	return c.records[index], nil
}

// Lookup resolves a detail identifier as produced by KeyOf. An explicit id
// field wins; a decimal identifier otherwise names a store position, but
// only a record without an id of its own can be reached that way.
func (c *Catalog) Lookup(id string) (models.Wine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	if i, ok := c.byID[id]; ok {
		return c.records[i], nil
	}
	index, err := strconv.Atoi(id)
	if err != nil {
		return nil, ErrNotFound
	}
	w, err := c.Get(index)
	if err != nil || w.Has(models.FieldID) {
		return nil, ErrNotFound
	}
	return w, nil
}

// KeyOf returns the stable key of the record at index: its id field when
// set, otherwise the index itself.
func (c *Catalog) KeyOf(index int) string {
	if index >= 0 && index < len(c.records) {
		if id := strings.TrimSpace(c.records[index].ID()); id != "" {
			return id
		}
	}
	return strconv.Itoa(index)
}

// Keyed returns the records in load order with the id field filled in from
// KeyOf for records that lack one. Records that already carry an id are
// shared; filled records are copies.
func (c *Catalog) Keyed() []models.Wine {
	out := make([]models.Wine, len(c.records))
	for i, r := range c.records {
		if strings.TrimSpace(r.ID()) != "" {
			out[i] = r
			continue
		}
		w := r.Clone()
		w[models.FieldID] = strconv.Itoa(i)
		out[i] = w
	}
	return out
}

// Vocabulary derives the facet vocabularies from the current records.
func (c *Catalog) Vocabulary() Vocabulary {
	return BuildVocabulary(c.records)
}

// BuildVocabulary derives facet vocabularies from records. Countries and
// types keep first-seen order, styles and flavor tags are ascending, years
// are descending by numeric value.
func BuildVocabulary(records []models.Wine) Vocabulary {
	v := Vocabulary{
		Countries:  distinct(records, models.FieldCountry),
		Types:      distinct(records, models.FieldWineType),
		Styles:     []string{},
		Years:      distinct(records, models.FieldYear),
		FlavorTags: []string{},
	}

	for _, s := range distinct(records, models.FieldStyle) {
		if s != models.StyleUnclassified {
			v.Styles = append(v.Styles, s)
		}
	}
	sort.Strings(v.Styles)

	sortYearsDescending(v.Years)

	seenTag := make(map[string]struct{})
	first := true
	for _, r := range records {
		for _, t := range r.FlavorTags() {
			if _, ok := seenTag[t]; ok {
				continue
			}
			seenTag[t] = struct{}{}
			v.FlavorTags = append(v.FlavorTags, t)
		}
		if p, ok := r.Price(); ok {
			if first || p < v.Price.Min {
				v.Price.Min = p
			}
			if first || p > v.Price.Max {
				v.Price.Max = p
			}
			first = false
		}
	}
	sort.Strings(v.FlavorTags)

	return v
}

// distinct returns the non-blank values of field in first-seen order.
func distinct(records []models.Wine, field string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		val := r.Get(field)
		if strings.TrimSpace(val) == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

// sortYearsDescending orders numeric years newest first. Values that are not
// numbers go last, in descending lexical order.
func sortYearsDescending(years []string) {
	sort.SliceStable(years, func(a, b int) bool {
		ya, errA := strconv.ParseFloat(strings.TrimSpace(years[a]), 64)
		yb, errB := strconv.ParseFloat(strings.TrimSpace(years[b]), 64)
		switch {
		case errA == nil && errB == nil:
			return ya > yb
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return years[a] > years[b]
		}
	})
}
