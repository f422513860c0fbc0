package testutil

import (
	"strconv"

	"github.com/HerbHall/winegallery/pkg/models"
)

// NewWine returns a fully populated record suitable for test fixtures.
// Options run in order and may overwrite or blank any field.
func NewWine(opts ...func(models.Wine)) models.Wine {
	w := models.Wine{
		models.FieldTitle:       "Test Cellars Reserve",
		models.FieldCountry:     "France",
		models.FieldVariety:     "Merlot",
		models.FieldYear:        "2019",
		models.FieldPrice:       "40",
		models.FieldPoints:      "90",
		models.FieldWineType:    "Red",
		models.FieldStyle:       "Medium-bodied",
		models.FieldFlavorTags:  "Cherry;Oak",
		models.FieldWinery:      "Test Cellars",
		models.FieldSweetness:   "Dry",
		models.FieldRegion:      "Bordeaux",
		models.FieldSparkling:   "false",
		models.FieldDescription: "A test wine.",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWines returns n fixtures titled "Wine 0" .. "Wine n-1", each with opts
// applied.
func NewWines(n int, opts ...func(models.Wine)) []models.Wine {
	out := make([]models.Wine, n)
	for i := range out {
		out[i] = NewWine(append([]func(models.Wine){WithTitle("Wine " + strconv.Itoa(i))}, opts...)...)
	}
	return out
}

// WithField sets any field; an empty value removes it.
func WithField(field, value string) func(models.Wine) {
	return func(w models.Wine) {
		if value == "" {
			delete(w, field)
			return
		}
		w[field] = value
	}
}

// WithTitle sets the title.
func WithTitle(title string) func(models.Wine) { return WithField(models.FieldTitle, title) }

// WithCountry sets the country.
func WithCountry(country string) func(models.Wine) { return WithField(models.FieldCountry, country) }

// WithType sets the wine type.
func WithType(t string) func(models.Wine) { return WithField(models.FieldWineType, t) }

// WithPrice sets the raw price value.
func WithPrice(price string) func(models.Wine) { return WithField(models.FieldPrice, price) }

// WithTags sets the flavor tag field.
func WithTags(tags string) func(models.Wine) { return WithField(models.FieldFlavorTags, tags) }

// WithID sets an explicit id.
func WithID(id string) func(models.Wine) { return WithField(models.FieldID, id) }
