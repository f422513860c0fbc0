package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	pkgplugin "github.com/HerbHall/winegallery/pkg/plugin"
)

// ErrDuplicate is returned by Register when a module name is already taken.
var ErrDuplicate = errors.New("module already registered")

// ModuleInfo describes one registered module for the modules listing.
type ModuleInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

type entry struct {
	module  Plugin
	enabled bool
}

// Registry owns the gallery and quiz modules and drives their lifecycle in
// registration order. A module only receives Start, Stop and route mounting
// after InitAll has enabled it.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	byName  map[string]*entry
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{byName: make(map[string]*entry), logger: logger}
}

func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	e := &entry{module: p}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	r.logger.Debug("module registered", zap.String("module", name), zap.String("version", p.Version()))
	return nil
}

// InitAll hands each module its plugins.<name> subtree. Modules whose
// enabled key is false stay registered but inert. Modules implementing
// pkg/plugin.Validator are checked right after Init.
func (r *Registry) InitAll(config *viper.Viper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if config == nil {
		config = viper.New()
	}

	for _, e := range r.entries {
		name := e.module.Name()
		key := "plugins." + name
		e.enabled = false

		if !config.GetBool(key + ".enabled") {
			r.logger.Info("module disabled", zap.String("module", name))
			continue
		}

		sub := config.Sub(key)
		if sub == nil {
			sub = viper.New()
		}
		if err := e.module.Init(sub, r.logger.Named(name)); err != nil {
			return fmt.Errorf("init module %q: %w", name, err)
		}
		if v, ok := e.module.(pkgplugin.Validator); ok {
			if err := v.ValidateConfig(); err != nil {
				return fmt.Errorf("module %q config: %w", name, err)
			}
		}
		e.enabled = true
		r.logger.Info("module initialized", zap.String("module", name))
	}
	return nil
}

// StartAll starts enabled modules, stopping at the first failure.
func (r *Registry) StartAll(ctx context.Context) error {
	for _, e := range r.active() {
		if err := e.module.Start(ctx); err != nil {
			return fmt.Errorf("start module %q: %w", e.module.Name(), err)
		}
	}
	return nil
}

// StopAll stops enabled modules in reverse order. Stop errors are logged.
func (r *Registry) StopAll() {
	active := r.active()
	for i := len(active) - 1; i >= 0; i-- {
		m := active[i].module
		if err := m.Stop(); err != nil {
			r.logger.Error("module stop failed", zap.String("module", m.Name()), zap.Error(err))
		}
	}
}

func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.module, true
}

// Enabled reports whether the named module passed InitAll.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return ok && e.enabled
}

// All returns every registered module in registration order.
func (r *Registry) All() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.module)
	}
	return out
}

// Modules lists every registered module with its enabled flag.
func (r *Registry) Modules() []ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ModuleInfo, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, ModuleInfo{
			Name:        e.module.Name(),
			Version:     e.module.Version(),
			Description: e.module.Description(),
			Enabled:     e.enabled,
		})
	}
	return out
}

// Health collects the status of enabled modules that report one. ok is
// false when any of them is not healthy.
func (r *Registry) Health(ctx context.Context) (statuses map[string]pkgplugin.HealthStatus, ok bool) {
	statuses = make(map[string]pkgplugin.HealthStatus)
	ok = true
	for _, e := range r.active() {
		hc, has := e.module.(pkgplugin.HealthChecker)
		if !has {
			continue
		}
		h := hc.Health(ctx)
		statuses[e.module.Name()] = h
		if !h.Healthy() {
			ok = false
		}
	}
	return statuses, ok
}

// AllRoutes returns the routes of every enabled module, keyed by name.
func (r *Registry) AllRoutes() map[string][]Route {
	routes := make(map[string][]Route)
	for _, e := range r.active() {
		if rs := e.module.Routes(); len(rs) > 0 {
			routes[e.module.Name()] = rs
		}
	}
	return routes
}

func (r *Registry) active() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.enabled {
			out = append(out, e)
		}
	}
	return out
}
