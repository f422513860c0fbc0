package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/plugin"
	"github.com/HerbHall/winegallery/internal/query"
	pkgplugin "github.com/HerbHall/winegallery/pkg/plugin"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin           = (*GalleryModule)(nil)
	_ plugin.Plugin           = (*QuizModule)(nil)
	_ pkgplugin.Validator     = (*GalleryModule)(nil)
	_ pkgplugin.HealthChecker = (*GalleryModule)(nil)
)

// GalleryModule mounts the browsing API under /api/v1/gallery.
type GalleryModule struct {
	handler  *Handler
	logger   *zap.Logger
	pageSize int
}

// NewGalleryModule creates the gallery module over h.
func NewGalleryModule(h *Handler) *GalleryModule {
	return &GalleryModule{handler: h, logger: zap.NewNop(), pageSize: query.DefaultPageSize}
}

func (m *GalleryModule) Name() string        { return "gallery" }
func (m *GalleryModule) Version() string     { return "1.0.0" }
func (m *GalleryModule) Description() string { return "Faceted wine search, sorting and pagination" }

// Init reads page_size. Price bounds are applied to the engine at
// construction.
func (m *GalleryModule) Init(config *viper.Viper, logger *zap.Logger) error {
	m.logger = logger
	if config.IsSet("page_size") {
		m.pageSize = config.GetInt("page_size")
	}
	m.handler.pageSize = m.pageSize
	m.logger.Info("gallery module initialized",
		zap.Int("records", m.handler.engine.Len()),
		zap.Int("page_size", m.pageSize),
	)
	return nil
}

// ValidateConfig implements pkg/plugin.Validator.
func (m *GalleryModule) ValidateConfig() error {
	if m.pageSize < 1 || m.pageSize > query.MaxPageSize {
		return fmt.Errorf("page_size %d out of range [1, %d]", m.pageSize, query.MaxPageSize)
	}
	return nil
}

// Health implements pkg/plugin.HealthChecker. An empty catalog is degraded.
func (m *GalleryModule) Health(context.Context) pkgplugin.HealthStatus {
	n := m.handler.engine.Len()
	status := pkgplugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"records": fmt.Sprint(n)},
	}
	if n == 0 {
		status.Status = "degraded"
		status.Message = "catalog is empty"
	}
	return status
}

func (m *GalleryModule) Start(context.Context) error {
	m.logger.Info("gallery module started")
	return nil
}

func (m *GalleryModule) Stop() error {
	m.logger.Info("gallery module stopped")
	return nil
}

func (m *GalleryModule) Routes() []plugin.Route { return m.handler.GalleryRoutes() }

// QuizModule mounts the questionnaire API under /api/v1/quiz.
type QuizModule struct {
	handler *Handler
	logger  *zap.Logger
}

// NewQuizModule creates the questionnaire module over h.
func NewQuizModule(h *Handler) *QuizModule {
	return &QuizModule{handler: h, logger: zap.NewNop()}
}

func (m *QuizModule) Name() string        { return "quiz" }
func (m *QuizModule) Version() string     { return "1.0.0" }
func (m *QuizModule) Description() string { return "Five-question wine recommendation quiz" }

func (m *QuizModule) Init(_ *viper.Viper, logger *zap.Logger) error {
	m.logger = logger
	m.logger.Info("quiz module initialized", zap.Int("shortlist_size", m.handler.engine.shortlist))
	return nil
}

func (m *QuizModule) Start(context.Context) error {
	m.logger.Info("quiz module started")
	return nil
}

func (m *QuizModule) Stop() error {
	m.logger.Info("quiz module stopped")
	return nil
}

func (m *QuizModule) Routes() []plugin.Route { return m.handler.QuizRoutes() }
