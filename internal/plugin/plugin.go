package plugin

import (
	"context"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Route represents an HTTP route exposed by a module. Path is relative to
// the module's mount point /api/v1/{name}.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Plugin defines the interface that all WineGallery modules must implement.
type Plugin interface {
	// Name returns the module's unique identifier (e.g., "gallery", "quiz").
	Name() string

	// Version returns the module's semantic version.
	Version() string

	// Description returns a one-line summary for the modules listing.
	Description() string

	// Init initializes the module with its configuration subtree and logger.
	Init(config *viper.Viper, logger *zap.Logger) error

	// Start begins the module's background operations.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the module.
	Stop() error

	// Routes returns the HTTP routes this module exposes.
	Routes() []Route
}
