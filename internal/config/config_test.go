package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestViperConfigGetString(t *testing.T) {
	v := viper.New()
	v.Set("name", "test")
	cfg := New(v)

	if got := cfg.GetString("name"); got != "test" {
		t.Errorf("GetString('name') = %q, want %q", got, "test")
	}
}

func TestViperConfigGetInt(t *testing.T) {
	v := viper.New()
	v.Set("port", 8080)
	cfg := New(v)

	if got := cfg.GetInt("port"); got != 8080 {
		t.Errorf("GetInt('port') = %d, want %d", got, 8080)
	}
}

func TestViperConfigGetBool(t *testing.T) {
	v := viper.New()
	v.Set("enabled", true)
	cfg := New(v)

	if got := cfg.GetBool("enabled"); !got {
		t.Error("GetBool('enabled') = false, want true")
	}
}

func TestViperConfigGetDuration(t *testing.T) {
	v := viper.New()
	v.Set("timeout", "5s")
	cfg := New(v)

	want := 5 * time.Second
	if got := cfg.GetDuration("timeout"); got != want {
		t.Errorf("GetDuration('timeout') = %v, want %v", got, want)
	}
}

func TestViperConfigIsSet(t *testing.T) {
	v := viper.New()
	v.Set("exists", true)
	cfg := New(v)

	if !cfg.IsSet("exists") {
		t.Error("IsSet('exists') = false, want true")
	}
	if cfg.IsSet("missing") {
		t.Error("IsSet('missing') = true, want false")
	}
}

func TestViperConfigSub(t *testing.T) {
	v := viper.New()
	v.Set("plugins.quiz.enabled", true)
	v.Set("plugins.quiz.shortlist_size", 30)
	cfg := New(v)

	sub := cfg.Sub("plugins.quiz")
	if sub == nil {
		t.Fatal("Sub('plugins.quiz') = nil")
	}
	if got := sub.GetBool("enabled"); !got {
		t.Error("sub.GetBool('enabled') = false, want true")
	}
	if got := sub.GetInt("shortlist_size"); got != 30 {
		t.Errorf("sub.GetInt('shortlist_size') = %d, want %d", got, 30)
	}
}

func TestViperConfigSubMissing(t *testing.T) {
	v := viper.New()
	cfg := New(v)

	sub := cfg.Sub("nonexistent")
	if sub == nil {
		t.Fatal("Sub('nonexistent') should return empty Config, not nil")
	}
	// Should return zero values without panic.
	if got := cfg.GetString("anything"); got != "" {
		t.Errorf("empty config GetString() = %q, want empty", got)
	}
	_ = sub
}

func TestViperConfigUnmarshal(t *testing.T) {
	v := viper.New()
	v.Set("host", "localhost")
	v.Set("port", 9090)
	cfg := New(v)

	var target struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}
	if err := cfg.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if target.Host != "localhost" {
		t.Errorf("Host = %q, want %q", target.Host, "localhost")
	}
	if target.Port != 9090 {
		t.Errorf("Port = %d, want %d", target.Port, 9090)
	}
}

func TestNilViper(t *testing.T) {
	cfg := New(nil)
	// Should not panic and return zero values.
	if got := cfg.GetString("key"); got != "" {
		t.Errorf("nil viper GetString() = %q, want empty", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := Load("")
	require.NoError(t, err)

	s, err := LoadSettings(New(v))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", s.Server.Addr())
	assert.Equal(t, 20, s.Plugins.Gallery.PageSize)
	assert.Equal(t, 1500.0, s.Plugins.Gallery.PriceMax)
	assert.Equal(t, 5, s.Plugins.Quiz.ShortlistSize)
	assert.True(t, s.Plugins.Gallery.Enabled)
	assert.True(t, s.Catalog.Header)
	assert.Equal(t, 10*time.Second, s.Server.ShutdownTimeout)
	assert.Equal(t, zapcore.InfoLevel, s.Log.ZapLevel())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "winegallery.yaml")
	body := []byte("server:\n  port: 9191\nplugins:\n  gallery:\n    page_size: 12\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("WINEGALLERY_PLUGINS_QUIZ_SHORTLIST_SIZE", "3")

	v, err := Load(path)
	require.NoError(t, err)

	s, err := LoadSettings(New(v))
	require.NoError(t, err)
	assert.Equal(t, 9191, s.Server.Port)
	assert.Equal(t, 12, s.Plugins.Gallery.PageSize)
	assert.Equal(t, 3, s.Plugins.Quiz.ShortlistSize)
	assert.Equal(t, zapcore.DebugLevel, s.Log.ZapLevel())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"port out of range", "server.port", 70000, "Port"},
		{"page size zero", "plugins.gallery.page_size", 0, "PageSize"},
		{"inverted price bounds", "plugins.gallery.price_max", -1.0, "PriceMax"},
		{"unknown log level", "log.level", "chatty", "Level"},
		{"empty shortlist", "plugins.quiz.shortlist_size", 0, "ShortlistSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := LoadSettings(New(v))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
