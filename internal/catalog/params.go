package catalog

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/HerbHall/winegallery/internal/query"
)

// ErrInvalidParams wraps every rejected search parameter.
var ErrInvalidParams = errors.New("invalid search parameters")

// SearchParams is a transport-neutral gallery request. Selections toggle
// on in order starting from the engine's default state.
type SearchParams struct {
	Query      string   `json:"query,omitempty" jsonschema:"case-insensitive text matched against title, country and variety"`
	Countries  []string `json:"countries,omitempty" jsonschema:"countries to include"`
	Types      []string `json:"wine_types,omitempty" jsonschema:"wine types to include; All Types disables the filter"`
	Years      []string `json:"years,omitempty" jsonschema:"vintages to include"`
	Styles     []string `json:"styles,omitempty" jsonschema:"styles to include"`
	FlavorTags []string `json:"flavor_tags,omitempty" jsonschema:"flavor tags that must all be present"`
	MinPrice   *float64 `json:"min_price,omitempty" jsonschema:"lowest price, inclusive"`
	MaxPrice   *float64 `json:"max_price,omitempty" jsonschema:"highest price, inclusive"`
	Sort       string   `json:"sort,omitempty" jsonschema:"one of name-asc, name-desc, highest-rated, price-low-high, price-high-low"`
	Page       int      `json:"page,omitempty" jsonschema:"1-based page number"`
	PageSize   int      `json:"page_size,omitempty" jsonschema:"records per page, at most 100"`
}

// ParamsFromQuery reads SearchParams from URL query values. Parameters
// q, country, type, year, style, tag, min_price, max_price, sort, page and
// page_size are recognised; the list parameters repeat.
func ParamsFromQuery(v url.Values) (SearchParams, error) {
	p := SearchParams{
		Query:      strings.TrimSpace(v.Get("q")),
		Countries:  v["country"],
		Types:      v["type"],
		Years:      v["year"],
		Styles:     v["style"],
		FlavorTags: v["tag"],
		Sort:       v.Get("sort"),
	}

	var err error
	if p.MinPrice, err = floatParam(v, "min_price"); err != nil {
		return SearchParams{}, err
	}
	if p.MaxPrice, err = floatParam(v, "max_price"); err != nil {
		return SearchParams{}, err
	}
	if p.Page, err = intParam(v, "page"); err != nil {
		return SearchParams{}, err
	}
	if p.PageSize, err = intParam(v, "page_size"); err != nil {
		return SearchParams{}, err
	}
	return p, nil
}

// State replays p through the session reducer. defaultPageSize applies when
// p.PageSize is zero.
func (e *Engine) State(p SearchParams, defaultPageSize int) (query.State, error) {
	size := defaultPageSize
	if p.PageSize != 0 {
		if p.PageSize < 1 || p.PageSize > query.MaxPageSize {
			return query.State{}, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidParams, query.MaxPageSize)
		}
		size = p.PageSize
	}
	if p.Page < 0 {
		return query.State{}, fmt.Errorf("%w: page must be positive", ErrInvalidParams)
	}
	s := e.NewState(query.WithPageSize(size))

	var actions []query.Action
	if q := strings.TrimSpace(p.Query); q != "" {
		actions = append(actions, query.SetQuery{Query: q})
	}
	for _, c := range distinctValues(p.Countries) {
		actions = append(actions, query.ToggleCountry{Value: c})
	}
	for _, t := range distinctValues(p.Types) {
		actions = append(actions, query.ToggleType{Value: t})
	}
	for _, y := range distinctValues(p.Years) {
		actions = append(actions, query.ToggleYear{Value: y})
	}
	for _, st := range distinctValues(p.Styles) {
		actions = append(actions, query.ToggleStyle{Value: st})
	}
	for _, tag := range distinctValues(p.FlavorTags) {
		actions = append(actions, query.ToggleFlavorTag{Value: tag})
	}

	if p.MinPrice != nil || p.MaxPrice != nil {
		r := s.Filter.Price
		if p.MinPrice != nil {
			if err := checkPrice("min_price", *p.MinPrice); err != nil {
				return query.State{}, err
			}
			r.Min = *p.MinPrice
		}
		if p.MaxPrice != nil {
			if err := checkPrice("max_price", *p.MaxPrice); err != nil {
				return query.State{}, err
			}
			r.Max = *p.MaxPrice
		}
		actions = append(actions, query.SetPriceRange{Range: r})
	}

	if p.Sort != "" {
		key, ok := query.ParseSortKey(p.Sort)
		if !ok {
			return query.State{}, fmt.Errorf("%w: unknown sort %q", ErrInvalidParams, p.Sort)
		}
		actions = append(actions, query.SetSort{Key: key})
	}

	// Page goes last: every filter change resets it.
	if p.Page > 0 {
		actions = append(actions, query.SetPage{Page: p.Page})
	}

	for _, a := range actions {
		s = query.Reduce(s, a)
	}
	return s, nil
}

func checkPrice(name string, f float64) error {
	if math.IsNaN(f) || f < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidParams, name)
	}
	return nil
}

func floatParam(v url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidParams, name)
	}
	if err := checkPrice(name, f); err != nil {
		return nil, err
	}
	return &f, nil
}

func intParam(v url.Values, name string) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidParams, name)
	}
	return n, nil
}

// distinctValues drops blank and repeated values so that each toggle is
// applied once.
func distinctValues(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
