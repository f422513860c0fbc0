package catalog

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	"github.com/HerbHall/winegallery/internal/testutil"
	pkgcatalog "github.com/HerbHall/winegallery/pkg/catalog"
	"github.com/HerbHall/winegallery/pkg/models"
)

func defaultEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	cat, err := pkgcatalog.Default()
	require.NoError(t, err)
	return NewEngine(cat, testutil.Logger(), opts...)
}

func titlesOf(ws []models.Wine) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Title()
	}
	return out
}

func TestEngine_QueryDefaultState(t *testing.T) {
	e := defaultEngine(t)
	res := e.Query(e.NewState())

	// Two records have no parseable price and fall outside the price filter.
	assert.Equal(t, 28, res.Page.Total)
	assert.Equal(t, 2, res.Page.TotalPages)
	assert.Len(t, res.Page.Items, query.DefaultPageSize)
	assert.Equal(t, 1, res.Page.Number)
	require.NotEmpty(t, res.Window)
	assert.True(t, res.Window[0].Current)
}

func TestEngine_QueryFilterAndSort(t *testing.T) {
	e := defaultEngine(t)
	s := e.NewState()
	s = query.Reduce(s, query.ToggleCountry{Value: "Italy"})
	s = query.Reduce(s, query.ToggleType{Value: "Red"})
	s = query.Reduce(s, query.SetSort{Key: query.SortPriceHighLow})

	res := e.Query(s)
	assert.Equal(t, []string{
		"Sassicaia 2019",
		"Gaja Barbaresco 2018",
		"Antinori Tignanello 2019",
		"Barolo Bricco Boschis 2016",
		"Brachetto d'Acqui 2021",
	}, titlesOf(res.Page.Items))
	assert.Equal(t, query.SortPriceHighLow, res.State.Sort)
}

func TestEngine_QueryPastLastPage(t *testing.T) {
	e := defaultEngine(t)
	res := e.Query(query.Reduce(e.NewState(), query.SetPage{Page: 9}))
	assert.Empty(t, res.Page.Items)
	assert.Equal(t, 28, res.Page.Total)
}

func TestEngine_QueryRecordsCarryKeys(t *testing.T) {
	cat := pkgcatalog.New(testutil.NewWines(3))
	e := NewEngine(cat, nil)

	res := e.Query(e.NewState())
	require.Len(t, res.Page.Items, 3)
	for i, w := range res.Page.Items {
		assert.Equal(t, strconv.Itoa(i), w.ID())
	}
}

func TestEngine_Facets(t *testing.T) {
	e := defaultEngine(t)
	f := e.Facets()

	assert.Equal(t, query.AllTypes, f.TypeOptions[0])
	assert.Equal(t, append([]string{query.AllTypes}, f.Types...), f.TypeOptions)
	assert.Equal(t, "France", f.Countries[0])
	assert.Equal(t, "2022", f.Years[0])
	assert.NotContains(t, f.Styles, models.StyleUnclassified)
	assert.Equal(t, Slider{Min: 0, Max: 1500, Step: 10}, f.Slider)
	assert.Len(t, f.SortOptions, len(query.SortOptions))
	assert.Equal(t, 12.0, f.Price.Min)
	assert.Equal(t, 950.0, f.Price.Max)
}

func TestEngine_Lookup(t *testing.T) {
	e := defaultEngine(t)

	w, err := e.Lookup("3")
	require.NoError(t, err)
	assert.Equal(t, "Antinori Tignanello 2019", w.Title())

	_, err = e.Lookup("999")
	assert.True(t, errors.Is(err, pkgcatalog.ErrNotFound))

	_, err = e.Lookup("")
	assert.True(t, errors.Is(err, pkgcatalog.ErrNotFound))
}

func TestEngine_LookupByIndexFillsID(t *testing.T) {
	cat := pkgcatalog.New(testutil.NewWines(2))
	e := NewEngine(cat, nil)

	w, err := e.Lookup("1")
	require.NoError(t, err)
	assert.Equal(t, "Wine 1", w.Title())
	assert.Equal(t, "1", w.ID())

	// The stored record is not modified.
	raw, err := cat.Get(1)
	require.NoError(t, err)
	assert.False(t, raw.Has(models.FieldID))
}

func TestEngine_Recommend(t *testing.T) {
	e := defaultEngine(t)

	res, err := e.Recommend(quiz.Answers{1: "Red", 2: "0-50", 3: "Dry", 4: "USA", 5: "No"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bogle Old Vine Zinfandel 2020"}, titlesOf(res.Shortlist))
	assert.Equal(t, []string{"Red"}, res.Filter.Types)
	assert.Equal(t, []string{"USA"}, res.Filter.Countries)
	assert.Equal(t, query.PriceRange{Min: 0, Max: 50}, res.Filter.Price)
}

func TestEngine_RecommendShortlistCap(t *testing.T) {
	e := defaultEngine(t, WithShortlistSize(2))

	res, err := e.Recommend(quiz.Answers{1: "Both", 2: "0-50", 3: "Either", 4: "Other", 5: "No"})
	require.NoError(t, err)
	assert.Len(t, res.Shortlist, 2)
}

func TestEngine_RecommendErrors(t *testing.T) {
	e := defaultEngine(t)

	_, err := e.Recommend(quiz.Answers{1: "Red"})
	assert.ErrorIs(t, err, quiz.ErrNotReady)

	_, err = e.Recommend(quiz.Answers{1: "Purple", 2: "0-50", 3: "Dry", 4: "USA", 5: "No"})
	assert.ErrorIs(t, err, quiz.ErrInvalidOption)
}

func TestEngine_NewQuiz(t *testing.T) {
	e := defaultEngine(t)
	m := e.NewQuiz()
	for _, ans := range []string{"red", "100-200", "dry", "italy", "no"} {
		require.NoError(t, m.Answer(ans))
	}
	res, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"Antinori Tignanello 2019"}, titlesOf(res.Shortlist))
}

func TestEngine_WithPriceBounds(t *testing.T) {
	e := defaultEngine(t, WithPriceBounds(query.PriceRange{Min: 0, Max: 20}))
	assert.Equal(t, query.PriceRange{Min: 0, Max: 20}, e.PriceBounds())

	res := e.Query(e.NewState())
	for _, w := range res.Page.Items {
		p, ok := w.Price()
		require.True(t, ok)
		assert.LessOrEqual(t, p, 20.0)
	}
	assert.Equal(t, 3, res.Page.Total)
}
