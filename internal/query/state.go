package query

import (
	"slices"

	"github.com/HerbHall/winegallery/pkg/models"
)

// State is one caller's complete browsing selection. Values are replaced
// whole by Reduce and never mutated in place.
type State struct {
	Filter   Filter  `json:"filter"`
	Sort     SortKey `json:"sort"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Option customizes NewState.
type Option func(*State)

// WithFlavorTag pre-selects a single flavor tag, as when a session opens
// from a tag link. A blank tag is ignored.
func WithFlavorTag(tag string) Option {
	return func(s *State) {
		if tag != "" {
			s.Filter.FlavorTags = []string{tag}
		}
	}
}

// WithPageSize overrides the page size. Values outside [1, MaxPageSize]
// are ignored.
func WithPageSize(n int) Option {
	return func(s *State) {
		if n >= 1 && n <= MaxPageSize {
			s.PageSize = n
		}
	}
}

// WithPriceBounds overrides the default price range used by the initial
// state and by Reset.
func WithPriceBounds(r PriceRange) Option {
	return func(s *State) {
		s.Filter.Price = r
	}
}

// NewState returns the default state with opts applied.
func NewState(opts ...Option) State {
	s := State{
		Filter:   DefaultFilter(),
		Page:     1,
		PageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Clamp returns s with Page moved into [1, max(1, totalPages)] for a result
// of total records.
func (s State) Clamp(total int) State {
	last := max(1, TotalPages(total, s.PageSize))
	s.Page = max(1, min(s.Page, last))
	return s
}

// Result is the outcome of running a State through the pipeline.
type Result struct {
	Page   Page       `json:"page"`
	Window []PageLink `json:"window"`
}

// Run filters, sorts and paginates records for s.
func Run(records []models.Wine, s State) Result {
	ordered := Sort(Apply(records, s.Filter), s.Sort)
	p := Paginate(ordered, s.Page, s.PageSize)
	return Result{Page: p, Window: Window(p.Number, p.TotalPages)}
}

// Action is a single user intent applied by Reduce.
type Action interface {
	apply(State) State
}

// Reduce returns the state that results from applying a to s. Any change to
// the filter or sort returns to page 1.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	s.Filter = s.Filter.clone()
	return a.apply(s)
}

type (
	// SetQuery replaces the free-text query.
	SetQuery struct{ Query string }
	// ToggleCountry adds or removes a country selection.
	ToggleCountry struct{ Value string }
	// ToggleType adds or removes a wine type selection.
	ToggleType struct{ Value string }
	// ToggleYear adds or removes a year selection.
	ToggleYear struct{ Value string }
	// ToggleStyle adds or removes a style selection.
	ToggleStyle struct{ Value string }
	// ToggleFlavorTag adds or removes a flavor tag selection.
	ToggleFlavorTag struct{ Value string }
	// SetPriceRange replaces the price interval. Min and Max are swapped
	// when given in reverse.
	SetPriceRange struct{ Range PriceRange }
	// SetSort replaces the sort key.
	SetSort struct{ Key SortKey }
	// SetPage jumps to a page. Values below 1 read as 1.
	SetPage struct{ Page int }
	// NextPage advances one page, stopping at TotalPages.
	NextPage struct{ TotalPages int }
	// PrevPage goes back one page, stopping at 1.
	PrevPage struct{}
	// Reset restores every selection to its default.
	Reset struct{ Defaults PriceRange }
	// ApplyFilter replaces the whole filter, as handed over by the quiz.
	ApplyFilter struct{ Filter Filter }
)

func (a SetQuery) apply(s State) State {
	s.Filter.Query = a.Query
	return firstPage(s)
}

func (a ToggleCountry) apply(s State) State {
	s.Filter.Countries = toggle(s.Filter.Countries, a.Value)
	return firstPage(s)
}

func (a ToggleType) apply(s State) State {
	s.Filter.Types = toggle(s.Filter.Types, a.Value)
	return firstPage(s)
}

func (a ToggleYear) apply(s State) State {
	s.Filter.Years = toggle(s.Filter.Years, a.Value)
	return firstPage(s)
}

func (a ToggleStyle) apply(s State) State {
	s.Filter.Styles = toggle(s.Filter.Styles, a.Value)
	return firstPage(s)
}

func (a ToggleFlavorTag) apply(s State) State {
	s.Filter.FlavorTags = toggle(s.Filter.FlavorTags, a.Value)
	return firstPage(s)
}

func (a SetPriceRange) apply(s State) State {
	r := a.Range
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	s.Filter.Price = r
	return firstPage(s)
}

func (a SetSort) apply(s State) State {
	s.Sort = a.Key
	return firstPage(s)
}

func (a SetPage) apply(s State) State {
	s.Page = max(1, a.Page)
	return s
}

func (a NextPage) apply(s State) State {
	if s.Page < a.TotalPages {
		s.Page++
	}
	return s
}

func (PrevPage) apply(s State) State {
	if s.Page > 1 {
		s.Page--
	}
	return s
}

func (a Reset) apply(s State) State {
	price := a.Defaults
	if price == (PriceRange{}) {
		price = FullPriceRange()
	}
	return State{
		Filter:   Filter{Price: price},
		Sort:     SortNone,
		Page:     1,
		PageSize: s.PageSize,
	}
}

func (a ApplyFilter) apply(s State) State {
	s.Filter = a.Filter.clone()
	return firstPage(s)
}

func firstPage(s State) State {
	s.Page = 1
	return s
}

// toggle returns a copy of set with value removed if present, appended
// otherwise.
func toggle(set []string, value string) []string {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), value)
}

func (f Filter) clone() Filter {
	f.Countries = slices.Clone(f.Countries)
	f.Types = slices.Clone(f.Types)
	f.Years = slices.Clone(f.Years)
	f.Styles = slices.Clone(f.Styles)
	f.FlavorTags = slices.Clone(f.FlavorTags)
	return f
}
