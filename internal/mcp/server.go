// Package mcp exposes the wine gallery and questionnaire as Model Context
// Protocol tools so assistants can search the catalog and run the quiz.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/catalog"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	"github.com/HerbHall/winegallery/internal/version"
	"github.com/HerbHall/winegallery/pkg/models"
)

// Server wraps the MCP SDK server bound to one engine.
type Server struct {
	MCPServer *sdkmcp.Server

	engine   *catalog.Engine
	pageSize int
	logger   *zap.Logger
}

// NewServer creates an MCP server with every tool registered. pageSize is
// the default for search_wines when the caller gives none.
func NewServer(engine *catalog.Engine, pageSize int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize < 1 || pageSize > query.MaxPageSize {
		pageSize = query.DefaultPageSize
	}
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "winegallery", Version: version.Version}, nil),
		engine:    engine,
		pageSize:  pageSize,
		logger:    logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", zap.Int("records", s.engine.Len()))
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_wines",
		Description: "Filter, sort and paginate the wine catalog. Returns one page of records and the page window.",
	}, s.handleSearch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_wine",
		Description: "Fetch one wine by id or by its position in the catalog.",
	}, s.handleGetWine)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_facets",
		Description: "List the filter vocabularies: countries, wine types, styles, vintages, flavor tags, sort options and price bounds.",
	}, s.handleFacets)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "quiz_questions",
		Description: "List the five recommendation questions and their options, in order.",
	}, s.handleQuestions)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "recommend_wines",
		Description: "Answer all five quiz questions and get the derived filter and a short list of matching wines.",
	}, s.handleRecommend)
}

// --- Tool input/output types ---

type noInput struct{}

type pageLink struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

type searchOutput struct {
	Items      []models.Wine `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Window     []pageLink    `json:"window"`
}

type getWineInput struct {
	ID string `json:"id" jsonschema:"wine id, or zero-based catalog position"`
}

type getWineOutput struct {
	Wine models.Wine `json:"wine"`
}

type sortOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type facetsOutput struct {
	Countries   []string     `json:"countries"`
	WineTypes   []string     `json:"wine_types"`
	TypeOptions []string     `json:"type_options"`
	Styles      []string     `json:"styles"`
	Years       []string     `json:"years"`
	FlavorTags  []string     `json:"flavor_tags"`
	SortOptions []sortOption `json:"sort_options"`
	PriceMin    float64      `json:"price_min"`
	PriceMax    float64      `json:"price_max"`
	PriceStep   float64      `json:"price_step"`
}

type questionsOutput struct {
	Questions []quiz.Question `json:"questions"`
}

type recommendInput struct {
	Answers map[string]string `json:"answers" jsonschema:"answers keyed by question key (wine_type, price, sweetness, region, sparkling) or ordinal"`
}

type recommendOutput struct {
	WineTypes []string      `json:"wine_types,omitempty"`
	Countries []string      `json:"countries,omitempty"`
	PriceMin  float64       `json:"price_min"`
	PriceMax  *float64      `json:"price_max,omitempty"`
	Count     int           `json:"count"`
	Shortlist []models.Wine `json:"shortlist"`
}

// --- Tool handlers ---

func (s *Server) handleSearch(_ context.Context, _ *sdkmcp.CallToolRequest, in catalog.SearchParams) (*sdkmcp.CallToolResult, searchOutput, error) {
	state, err := s.engine.State(in, s.pageSize)
	if err != nil {
		return nil, searchOutput{}, err
	}
	res := s.engine.Query(state)

	out := searchOutput{
		Items:      res.Page.Items,
		Page:       res.Page.Number,
		PageSize:   res.Page.Size,
		Total:      res.Page.Total,
		TotalPages: res.Page.TotalPages,
		Window:     make([]pageLink, len(res.Window)),
	}
	if out.Items == nil {
		out.Items = []models.Wine{}
	}
	for i, l := range res.Window {
		out.Window[i] = pageLink(l)
	}
	return nil, out, nil
}

func (s *Server) handleGetWine(_ context.Context, _ *sdkmcp.CallToolRequest, in getWineInput) (*sdkmcp.CallToolResult, getWineOutput, error) {
	w, err := s.engine.Lookup(in.ID)
	if err != nil {
		return nil, getWineOutput{}, fmt.Errorf("get_wine %q: %w", in.ID, err)
	}
	return nil, getWineOutput{Wine: w}, nil
}

func (s *Server) handleFacets(_ context.Context, _ *sdkmcp.CallToolRequest, _ noInput) (*sdkmcp.CallToolResult, facetsOutput, error) {
	f := s.engine.Facets()
	out := facetsOutput{
		Countries:   f.Countries,
		WineTypes:   f.Types,
		TypeOptions: f.TypeOptions,
		Styles:      f.Styles,
		Years:       f.Years,
		FlavorTags:  f.FlavorTags,
		SortOptions: make([]sortOption, len(f.SortOptions)),
		PriceMin:    f.Slider.Min,
		PriceMax:    f.Slider.Max,
		PriceStep:   f.Slider.Step,
	}
	for i, o := range f.SortOptions {
		out.SortOptions[i] = sortOption{Key: string(o.Key), Label: o.Label}
	}
	return nil, out, nil
}

func (s *Server) handleQuestions(_ context.Context, _ *sdkmcp.CallToolRequest, _ noInput) (*sdkmcp.CallToolResult, questionsOutput, error) {
	return nil, questionsOutput{Questions: quiz.Questions()}, nil
}

func (s *Server) handleRecommend(_ context.Context, _ *sdkmcp.CallToolRequest, in recommendInput) (*sdkmcp.CallToolResult, recommendOutput, error) {
	res, err := s.engine.Recommend(quiz.AnswersByKey(in.Answers))
	if err != nil {
		return nil, recommendOutput{}, fmt.Errorf("recommend_wines: %w", err)
	}

	out := recommendOutput{
		WineTypes: res.Filter.Types,
		Countries: res.Filter.Countries,
		PriceMin:  res.Filter.Price.Min,
		Count:     len(res.Shortlist),
		Shortlist: res.Shortlist,
	}
	if !res.Filter.Price.Unbounded() {
		hi := res.Filter.Price.Max
		out.PriceMax = &hi
	}
	return nil, out, nil
}
