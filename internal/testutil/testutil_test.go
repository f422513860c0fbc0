package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/winegallery/pkg/models"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_Start(t *testing.T) {
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	if got := NewClock(target).Now(); !got.Equal(target) {
		t.Errorf("NewClock(target).Now() = %v, want %v", got, target)
	}
}

func TestNewWine_Defaults(t *testing.T) {
	w := NewWine()
	if w.Title() != "Test Cellars Reserve" {
		t.Errorf("Title = %q, want Test Cellars Reserve", w.Title())
	}
	if p, ok := w.Price(); !ok || p != 40 {
		t.Errorf("Price = %v, %v; want 40, true", p, ok)
	}
}

func TestNewWine_WithOptions(t *testing.T) {
	w := NewWine(WithCountry("Italy"), WithPrice(""), WithID("w-1"))
	if w.Country() != "Italy" {
		t.Errorf("Country = %q, want Italy", w.Country())
	}
	if w.Has(models.FieldPrice) {
		t.Error("WithPrice(\"\") should remove the price")
	}
	if w.ID() != "w-1" {
		t.Errorf("ID = %q, want w-1", w.ID())
	}
}

func TestNewWines(t *testing.T) {
	ws := NewWines(3, WithType("White"))
	if len(ws) != 3 {
		t.Fatalf("len = %d, want 3", len(ws))
	}
	if ws[2].Title() != "Wine 2" || ws[2].WineType() != "White" {
		t.Errorf("ws[2] = %v", ws[2])
	}
	ws[0][models.FieldTitle] = "changed"
	if ws[1].Title() != "Wine 1" {
		t.Error("fixtures share state")
	}
}
