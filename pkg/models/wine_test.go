package models

import (
	"reflect"
	"testing"
)

func TestWine_Price(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{name: "integer", raw: "75", want: 75, wantOK: true},
		{name: "decimal", raw: "12.5", want: 12.5, wantOK: true},
		{name: "padded", raw: "  40 ", want: 40, wantOK: true},
		{name: "blank", raw: "", wantOK: false},
		{name: "currency symbol", raw: "$10", wantOK: false},
		{name: "nan", raw: "NaN", wantOK: false},
		{name: "infinity", raw: "Inf", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := Wine{FieldPrice: tc.raw}
			got, ok := w.Price()
			if ok != tc.wantOK {
				t.Fatalf("Price() ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("Price() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWine_FlavorTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "Cherry;Oak", want: []string{"Cherry", "Oak"}},
		{raw: "Cherry, Oak ,Vanilla", want: []string{"Cherry", "Oak", "Vanilla"}},
		{raw: ";;Cherry;", want: []string{"Cherry"}},
		{raw: "   ", want: nil},
		{raw: "", want: nil},
	}
	for _, tc := range tests {
		w := Wine{FieldFlavorTags: tc.raw}
		if got := w.FlavorTags(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("FlavorTags(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestWine_HasFlavorTag(t *testing.T) {
	w := Wine{FieldFlavorTags: "Cherry;Oak"}
	if !w.HasFlavorTag("Oak") {
		t.Error("HasFlavorTag(Oak) = false, want true")
	}
	if w.HasFlavorTag("oak") {
		t.Error("HasFlavorTag(oak) = true, want false (tags are case-sensitive)")
	}
}

func TestWine_NilSafe(t *testing.T) {
	var w Wine
	if got := w.Title(); got != "" {
		t.Errorf("Title() on nil = %q, want empty", got)
	}
	if w.Has(FieldCountry) {
		t.Error("Has() on nil = true, want false")
	}
	if _, ok := w.Points(); ok {
		t.Error("Points() on nil ok = true, want false")
	}
	if w.Clone() != nil {
		t.Error("Clone() on nil should be nil")
	}
}

func TestWine_CloneIsIndependent(t *testing.T) {
	w := Wine{FieldTitle: "Barolo"}
	c := w.Clone()
	c[FieldTitle] = "Barbaresco"
	if w.Title() != "Barolo" {
		t.Errorf("original Title = %q after mutating clone", w.Title())
	}
}
