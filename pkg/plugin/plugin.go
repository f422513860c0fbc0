// Package plugin defines the contracts shared between the server core and
// its modules: persistence, migrations and optional capabilities.
package plugin

import (
	"context"
	"database/sql"
)

// Migration is one forward-only schema change owned by a module.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Store is the database handle given to modules.
type Store interface {
	// DB returns the underlying connection pool.
	DB() *sql.DB

	// Tx runs fn in a transaction, committing when fn returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Migrate applies the module's pending migrations in order.
	Migrate(ctx context.Context, module string, migrations []Migration) error
}

// HealthStatus is a module's self-reported health.
type HealthStatus struct {
	Status  string            `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Healthy reports whether the status is "healthy".
func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }
