package models

import (
	"math"
	"strconv"
	"strings"
)

// Field names as they appear in the wine dataset header.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldCountry     = "country"
	FieldVariety     = "variety"
	FieldYear        = "year"
	FieldPrice       = "price"
	FieldPoints      = "points"
	FieldWineType    = "wine_type"
	FieldStyle       = "style"
	FieldDescription = "description"
	FieldImageURL    = "img_url"
	FieldFlavorTags  = "flavor_tags"
	FieldWinery      = "winery"
	FieldTasterName  = "taster_name"
	FieldTasterTag   = "taster_twitter_handle"
	FieldSweetness   = "sweetness"
	FieldRegion      = "region"
	FieldSparkling   = "sparkling"
)

// StyleUnclassified marks records whose style was never assigned. It is
// excluded from the style vocabulary.
const StyleUnclassified = "Unclassified"

// Wine is a single catalog record: a flat mapping of field name to the raw
// string value delivered by the loader. Missing fields read as "".
type Wine map[string]string

// Get returns the raw value of a field, or "" when absent.
func (w Wine) Get(field string) string {
	if w == nil {
		return ""
	}
	return w[field]
}

// Has reports whether the field is present with a non-blank value.
func (w Wine) Has(field string) bool {
	return strings.TrimSpace(w.Get(field)) != ""
}

func (w Wine) ID() string       { return w.Get(FieldID) }
func (w Wine) Title() string    { return w.Get(FieldTitle) }
func (w Wine) Country() string  { return w.Get(FieldCountry) }
func (w Wine) Variety() string  { return w.Get(FieldVariety) }
func (w Wine) Year() string     { return w.Get(FieldYear) }
func (w Wine) WineType() string { return w.Get(FieldWineType) }
func (w Wine) Style() string    { return w.Get(FieldStyle) }

// Price parses the price field. ok is false when the value is blank or not
// a number.
func (w Wine) Price() (price float64, ok bool) {
	return parseNumber(w.Get(FieldPrice))
}

// Points parses the rating field.
func (w Wine) Points() (points float64, ok bool) {
	return parseNumber(w.Get(FieldPoints))
}

// FlavorTags splits the flavor tag field on ';' or ','. Blank entries are
// dropped; order is preserved.
func (w Wine) FlavorTags() []string {
	raw := w.Get(FieldFlavorTags)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasFlavorTag reports whether tag is one of the record's flavor tags.
func (w Wine) HasFlavorTag(tag string) bool {
	for _, t := range w.FlavorTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the record.
func (w Wine) Clone() Wine {
	if w == nil {
		return nil
	}
	out := make(Wine, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// parseNumber parses s as a float64, ignoring surrounding whitespace.
// NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
