package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/HerbHall/winegallery/pkg/models"
)

func sampleRecords() []models.Wine {
	return []models.Wine{
		{"title": "A", "country": "Italy", "wine_type": "Red", "style": "Full-bodied", "year": "2015", "price": "40", "flavor_tags": "Cherry;Oak"},
		{"title": "B", "country": "France", "wine_type": "White", "style": "Unclassified", "year": "NV", "price": "12"},
		{"title": "C", "country": "Italy", "wine_type": "Red", "style": "Light-bodied", "year": "2021", "price": "n/a", "flavor_tags": "Apple"},
		{"title": "D", "country": "", "wine_type": "Rosé", "style": "", "year": "2009", "price": "300"},
		{"id": "x7", "title": "E", "country": "Spain", "wine_type": "White", "year": "2021"},
	}
}

func TestBuildVocabulary(t *testing.T) {
	v := BuildVocabulary(sampleRecords())

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"countries first-seen", v.Countries, []string{"Italy", "France", "Spain"}},
		{"types first-seen", v.Types, []string{"Red", "White", "Rosé"}},
		{"styles sorted without sentinel", v.Styles, []string{"Full-bodied", "Light-bodied"}},
		{"years descending", v.Years, []string{"2021", "2015", "2009", "NV"}},
		{"flavor tags sorted", v.FlavorTags, []string{"Apple", "Cherry", "Oak"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !reflect.DeepEqual(tc.got, tc.want) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if v.Price.Min != 12 || v.Price.Max != 300 {
		t.Errorf("Price = %+v, want {Min:12 Max:300}", v.Price)
	}
}

func TestBuildVocabulary_Empty(t *testing.T) {
	v := BuildVocabulary(nil)
	if v.Countries == nil || v.Styles == nil || v.FlavorTags == nil {
		t.Error("empty vocabulary should use empty slices, not nil")
	}
	if v.Price != (PriceBound{}) {
		t.Errorf("Price = %+v, want zero", v.Price)
	}
}

func TestCatalog_ImmutableCopy(t *testing.T) {
	records := sampleRecords()
	c := New(records)
	records[0]["title"] = "mutated"

	got, err := c.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if got.Title() != "A" {
		t.Errorf("Title = %q, want %q", got.Title(), "A")
	}

	out := c.Records()
	out[0] = nil
	if again, _ := c.Get(0); again == nil {
		t.Error("Records() exposed the internal slice")
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := New(sampleRecords())

	tests := []struct {
		id        string
		wantTitle string
		wantErr   error
	}{
		{id: "0", wantTitle: "A"},
		{id: "3", wantTitle: "D"},
		{id: "x7", wantTitle: "E"},
		{id: " 1 ", wantTitle: "B"},
		{id: "5", wantErr: ErrNotFound},
		{id: "4", wantErr: ErrNotFound}, // position of a record keyed "x7"
		{id: "-1", wantErr: ErrNotFound},
		{id: "nope", wantErr: ErrNotFound},
		{id: "", wantErr: ErrNotFound},
	}
	for _, tc := range tests {
		got, err := c.Lookup(tc.id)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("Lookup(%q) err = %v, want %v", tc.id, err, tc.wantErr)
			continue
		}
		if err == nil && got.Title() != tc.wantTitle {
			t.Errorf("Lookup(%q) title = %q, want %q", tc.id, got.Title(), tc.wantTitle)
		}
	}
}

func TestCatalog_LookupIDsDoNotFallBackToPosition(t *testing.T) {
	c := New([]models.Wine{
		{"id": "1", "title": "first"},
		{"id": "2", "title": "second"},
		{"id": "5", "title": "fifth"},
	})

	tests := []struct {
		id        string
		wantTitle string
		wantErr   error
	}{
		{id: "1", wantTitle: "first"},
		{id: "5", wantTitle: "fifth"},
		{id: "0", wantErr: ErrNotFound},
		{id: "3", wantErr: ErrNotFound},
	}
	for _, tc := range tests {
		got, err := c.Lookup(tc.id)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("Lookup(%q) err = %v, want %v", tc.id, err, tc.wantErr)
			continue
		}
		if err == nil && got.Title() != tc.wantTitle {
			t.Errorf("Lookup(%q) title = %q, want %q", tc.id, got.Title(), tc.wantTitle)
		}
	}
}

func TestCatalog_KeyOf(t *testing.T) {
	c := New(sampleRecords())
	if got := c.KeyOf(4); got != "x7" {
		t.Errorf("KeyOf(4) = %q, want x7", got)
	}
	if got := c.KeyOf(1); got != "1" {
		t.Errorf("KeyOf(1) = %q, want 1", got)
	}
}

func TestCatalog_DuplicateIDFirstWins(t *testing.T) {
	c := New([]models.Wine{
		{"id": "dup", "title": "first"},
		{"id": "dup", "title": "second"},
	})
	got, err := c.Lookup("dup")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Title() != "first" {
		t.Errorf("Title = %q, want first", got.Title())
	}
}

func TestCatalog_Keyed(t *testing.T) {
	c := New(sampleRecords())
	keyed := c.Keyed()
	if len(keyed) != c.Len() {
		t.Fatalf("len = %d, want %d", len(keyed), c.Len())
	}
	if got := keyed[2].ID(); got != "2" {
		t.Errorf("keyed[2].ID() = %q, want 2", got)
	}
	if got := keyed[4].ID(); got != "x7" {
		t.Errorf("keyed[4].ID() = %q, want x7", got)
	}
	if orig, _ := c.Get(2); orig.Has("id") {
		t.Error("Keyed() modified the stored record")
	}
	for i, w := range keyed {
		got, err := c.Lookup(w.ID())
		if err != nil {
			t.Errorf("Lookup(%q): %v", w.ID(), err)
			continue
		}
		if got.Title() != w.Title() {
			t.Errorf("Lookup(keyed[%d].ID()) = %q, want %q", i, got.Title(), w.Title())
		}
	}
}
