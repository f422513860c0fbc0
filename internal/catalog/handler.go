package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/plugin"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	"github.com/HerbHall/winegallery/internal/server"
	pkgcatalog "github.com/HerbHall/winegallery/pkg/catalog"
	"github.com/HerbHall/winegallery/pkg/models"
)

// RecommendationRequest is the body of POST /api/v1/quiz/recommendations.
// Answers may be keyed by question key ("wine_type") or ordinal ("1").
type RecommendationRequest struct {
	Answers map[string]string `json:"answers"`
}

// RecommendationResponse is the response for POST /api/v1/quiz/recommendations.
type RecommendationResponse struct {
	Filter    query.Filter  `json:"filter"`
	Count     int           `json:"count"`
	Shortlist []models.Wine `json:"shortlist"`
}

// Handler serves the gallery and questionnaire APIs.
type Handler struct {
	engine   *Engine
	logger   *zap.Logger
	pageSize int
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger, pageSize: query.DefaultPageSize}
}

// GalleryRoutes returns the routes mounted under /api/v1/gallery.
func (h *Handler) GalleryRoutes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/wines", Handler: h.handleListWines},
		{Method: http.MethodGet, Path: "/wines/{id}", Handler: h.handleGetWine},
		{Method: http.MethodGet, Path: "/facets", Handler: h.handleFacets},
	}
}

// QuizRoutes returns the routes mounted under /api/v1/quiz.
func (h *Handler) QuizRoutes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/questions", Handler: h.handleQuestions},
		{Method: http.MethodPost, Path: "/recommendations", Handler: h.handleRecommendations},
	}
}

// handleListWines returns one page of the filtered, sorted catalog. See
// ParamsFromQuery for the accepted parameters.
func (h *Handler) handleListWines(w http.ResponseWriter, r *http.Request) {
	params, err := ParamsFromQuery(r.URL.Query())
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	state, err := h.engine.State(params, h.pageSize)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Query(state))
}

// handleGetWine returns a single record by id or list index.
func (h *Handler) handleGetWine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	wine, err := h.engine.Lookup(id)
	if err != nil {
		if errors.Is(err, pkgcatalog.ErrNotFound) {
			server.NotFound(w, "Wine not found", r.URL.Path)
			return
		}
		h.logger.Error("failed to look up wine", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to look up wine", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, wine)
}

// handleFacets returns the filter vocabularies.
func (h *Handler) handleFacets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Facets())
}

// handleQuestions returns the questionnaire.
func (h *Handler) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, quiz.Questions())
}

// handleRecommendations evaluates a complete answer set.
func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}

	res, err := h.engine.Recommend(quiz.AnswersByKey(req.Answers))
	switch {
	case errors.Is(err, quiz.ErrInvalidOption):
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	case errors.Is(err, quiz.ErrNotReady):
		server.Unprocessable(w, fmt.Sprintf("all %d questions must be answered", quiz.NumQuestions), r.URL.Path)
		return
	case err != nil:
		h.logger.Error("failed to evaluate quiz", zap.Error(err))
		server.InternalError(w, "failed to evaluate quiz", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		Filter:    res.Filter,
		Count:     len(res.Shortlist),
		Shortlist: res.Shortlist,
	})
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
