package plugin

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	pkgplugin "github.com/HerbHall/winegallery/pkg/plugin"
)

type fakePlugin struct {
	name        string
	initErr     error
	validateErr error
	initCalls   int
	started     bool
	stopped     bool
	cfg         *viper.Viper
	stopLog     *[]string
}

func (f *fakePlugin) Name() string        { return f.name }
func (f *fakePlugin) Version() string     { return "1.0.0" }
func (f *fakePlugin) Description() string { return "fake " + f.name }

func (f *fakePlugin) Init(cfg *viper.Viper, _ *zap.Logger) error {
	f.initCalls++
	f.cfg = cfg
	return f.initErr
}

func (f *fakePlugin) Start(context.Context) error { f.started = true; return nil }

func (f *fakePlugin) Stop() error {
	f.stopped = true
	if f.stopLog != nil {
		*f.stopLog = append(*f.stopLog, f.name)
	}
	return nil
}

func (f *fakePlugin) Routes() []Route {
	return []Route{{Method: http.MethodGet, Path: "/ping", Handler: func(http.ResponseWriter, *http.Request) {}}}
}

func (f *fakePlugin) ValidateConfig() error { return f.validateErr }

type healthyPlugin struct {
	fakePlugin
	status string
}

func (h *healthyPlugin) Health(context.Context) pkgplugin.HealthStatus {
	return pkgplugin.HealthStatus{Status: h.status}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	if err := r.Register(&fakePlugin{name: "gallery"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakePlugin{name: "gallery"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Register duplicate err = %v, want ErrDuplicate", err)
	}
}

func TestRegistry_InitAllSkipsDisabled(t *testing.T) {
	var stops []string
	gallery := &fakePlugin{name: "gallery", stopLog: &stops}
	quiz := &fakePlugin{name: "quiz", stopLog: &stops}
	extra := &fakePlugin{name: "extra", stopLog: &stops}

	r := NewRegistry(zap.NewNop())
	for _, p := range []*fakePlugin{gallery, quiz, extra} {
		if err := r.Register(p); err != nil {
			t.Fatal(err)
		}
	}

	v := viper.New()
	v.Set("plugins.gallery.enabled", true)
	v.Set("plugins.gallery.page_size", 12)
	v.Set("plugins.quiz.enabled", false)
	v.Set("plugins.extra.enabled", true)

	if err := r.InitAll(v); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if quiz.initCalls != 0 {
		t.Error("disabled plugin was initialized")
	}
	if got := gallery.cfg.GetInt("page_size"); got != 12 {
		t.Errorf("gallery page_size = %d, want 12", got)
	}
	if r.Enabled("quiz") || !r.Enabled("gallery") {
		t.Errorf("Enabled: gallery=%v quiz=%v", r.Enabled("gallery"), r.Enabled("quiz"))
	}

	routes := r.AllRoutes()
	if _, ok := routes["quiz"]; ok {
		t.Error("disabled plugin routes were returned")
	}
	if len(routes) != 2 {
		t.Errorf("AllRoutes len = %d, want 2", len(routes))
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if quiz.started {
		t.Error("disabled plugin was started")
	}

	r.StopAll()
	if len(stops) != 2 || stops[0] != "extra" || stops[1] != "gallery" {
		t.Errorf("stop order = %v, want [extra gallery]", stops)
	}
}

func TestRegistry_InitAllErrors(t *testing.T) {
	initErr := errors.New("boom")
	tests := []struct {
		name string
		p    *fakePlugin
		want error
	}{
		{name: "init", p: &fakePlugin{name: "a", initErr: initErr}, want: initErr},
		{name: "validate", p: &fakePlugin{name: "b", validateErr: initErr}, want: initErr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry(zap.NewNop())
			if err := r.Register(tc.p); err != nil {
				t.Fatal(err)
			}
			v := viper.New()
			v.Set("plugins."+tc.p.name+".enabled", true)
			if err := r.InitAll(v); !errors.Is(err, tc.want) {
				t.Errorf("InitAll err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRegistry_ModulesAndHealth(t *testing.T) {
	r := NewRegistry(nil)
	gallery := &healthyPlugin{fakePlugin: fakePlugin{name: "gallery"}, status: "healthy"}
	quiz := &healthyPlugin{fakePlugin: fakePlugin{name: "quiz"}, status: "unhealthy"}
	for _, p := range []Plugin{gallery, quiz} {
		if err := r.Register(p); err != nil {
			t.Fatal(err)
		}
	}

	v := viper.New()
	v.Set("plugins.gallery.enabled", true)
	v.Set("plugins.quiz.enabled", false)
	if err := r.InitAll(v); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	mods := r.Modules()
	if len(mods) != 2 {
		t.Fatalf("Modules len = %d, want 2", len(mods))
	}
	if mods[0].Name != "gallery" || !mods[0].Enabled {
		t.Errorf("Modules[0] = %+v, want enabled gallery", mods[0])
	}
	if mods[1].Name != "quiz" || mods[1].Enabled {
		t.Errorf("Modules[1] = %+v, want disabled quiz", mods[1])
	}

	statuses, ok := r.Health(context.Background())
	if !ok {
		t.Error("Health ok = false, want true with the unhealthy module disabled")
	}
	if _, has := statuses["quiz"]; has {
		t.Error("disabled module reported health")
	}

	v.Set("plugins.quiz.enabled", true)
	if err := r.InitAll(v); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if _, ok := r.Health(context.Background()); ok {
		t.Error("Health ok = true, want false with an unhealthy module enabled")
	}
}
