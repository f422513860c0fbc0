// Package catalog provides the query engine that runs the gallery pipeline
// and the questionnaire over the loaded wine catalog, and the HTTP modules
// that expose it.
package catalog

import (
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/metrics"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	pkgcatalog "github.com/HerbHall/winegallery/pkg/catalog"
	"github.com/HerbHall/winegallery/pkg/models"
)

// Facets describes everything a client needs to render the filter panel.
type Facets struct {
	pkgcatalog.Vocabulary
	TypeOptions []string           `json:"type_options"`
	SortOptions []query.SortOption `json:"sort_options"`
	Slider      Slider             `json:"price_slider"`
}

// Slider holds the price slider bounds and step.
type Slider struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// QueryResult is a rendered gallery page together with the state that
// produced it.
type QueryResult struct {
	query.Result
	State query.State `json:"state"`
}

// Engine runs gallery queries and questionnaires against a catalog. It is
// safe for concurrent use; every call re-runs the full pipeline.
type Engine struct {
	cat       *pkgcatalog.Catalog
	records   []models.Wine
	vocab     pkgcatalog.Vocabulary
	logger    *zap.Logger
	shortlist int
	bounds    query.PriceRange
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithShortlistSize caps questionnaire results.
func WithShortlistSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.shortlist = n
		}
	}
}

// WithPriceBounds sets the default price range of new sessions.
func WithPriceBounds(r query.PriceRange) EngineOption {
	return func(e *Engine) { e.bounds = r }
}

// NewEngine creates a new engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cat:       cat,
		records:   cat.Keyed(),
		vocab:     cat.Vocabulary(),
		logger:    logger,
		shortlist: quiz.DefaultShortlistSize,
		bounds:    query.FullPriceRange(),
	}
	for _, opt := range opts {
		opt(e)
	}
	metrics.CatalogRecords.Set(float64(len(e.records)))
	return e
}

// Len returns the number of records in the catalog.
func (e *Engine) Len() int { return len(e.records) }

// NewState returns a fresh session state using the engine's defaults.
func (e *Engine) NewState(opts ...query.Option) query.State {
	return query.NewState(append([]query.Option{query.WithPriceBounds(e.bounds)}, opts...)...)
}

// PriceBounds returns the default price range of a session.
func (e *Engine) PriceBounds() query.PriceRange { return e.bounds }

// Query filters, sorts and paginates the catalog for s. Pages past the end
// return no items.
func (e *Engine) Query(s query.State) QueryResult {
	start := time.Now()

	filtered := query.Apply(e.records, s.Filter)
	ordered := query.Sort(filtered, s.Sort)
	page := query.Paginate(ordered, s.Page, s.PageSize)

	metrics.RecordMatches(len(filtered))
	metrics.RecordQuery("query", time.Since(start), nil)
	e.logger.Debug("gallery query",
		zap.String("query", s.Filter.Query),
		zap.String("sort", string(s.Sort)),
		zap.Int("page", page.Number),
		zap.Int("matches", len(filtered)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return QueryResult{
		Result: query.Result{Page: page, Window: query.Window(page.Number, page.TotalPages)},
		State:  s,
	}
}

// Facets returns the filter vocabularies and display options.
func (e *Engine) Facets() Facets {
	types := append([]string{query.AllTypes}, e.vocab.Types...)
	return Facets{
		Vocabulary:  e.vocab,
		TypeOptions: types,
		SortOptions: query.SortOptions,
		Slider: Slider{
			Min:  query.DefaultPriceMin,
			Max:  query.DefaultPriceMax,
			Step: query.DefaultPriceStep,
		},
	}
}

// Lookup returns the record with the given id or list index.
func (e *Engine) Lookup(id string) (models.Wine, error) {
	start := time.Now()
	w, err := e.cat.Lookup(id)
	metrics.RecordQuery("lookup", time.Since(start), err)
	if err != nil {
		e.logger.Debug("wine lookup missed", zap.String("id", id))
		return nil, err
	}
	keyed := w.Clone()
	if !keyed.Has(models.FieldID) {
		keyed[models.FieldID] = id
	}
	return keyed, nil
}

// NewQuiz starts an interactive questionnaire over the catalog.
func (e *Engine) NewQuiz() *quiz.Machine {
	return quiz.New(e.records, quiz.WithShortlistSize(e.shortlist))
}

// Recommend evaluates a complete answer set.
func (e *Engine) Recommend(answers quiz.Answers) (quiz.Result, error) {
	start := time.Now()
	res, err := quiz.Evaluate(e.records, answers, quiz.WithShortlistSize(e.shortlist))
	metrics.RecordQuery("recommend", time.Since(start), err)
	if err != nil {
		e.logger.Debug("quiz rejected", zap.Error(err))
		return quiz.Result{}, err
	}
	metrics.RecordQuizCompletion(len(res.Shortlist))
	e.logger.Debug("quiz completed",
		zap.Int("shortlist", len(res.Shortlist)),
		zap.Strings("types", res.Filter.Types),
		zap.Strings("countries", res.Filter.Countries),
	)
	return res, nil
}
