// Package config loads WineGallery configuration from defaults, an optional
// YAML file and WINEGALLERY_* environment variables, and exposes it both as a
// nil-safe key/value view and as a validated Settings snapshot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// WINEGALLERY_SERVER_PORT.
const EnvPrefix = "WINEGALLERY"

// Config is a read-only view over a viper instance. The zero value and a
// Config built from a nil viper return zero values for every key.
type Config struct {
	v *viper.Viper
}

// New wraps v.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Viper returns the wrapped instance, creating an empty one when nil.
func (c *Config) Viper() *viper.Viper {
	if c == nil || c.v == nil {
		return viper.New()
	}
	return c.v
}

func (c *Config) GetString(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

func (c *Config) GetFloat64(key string) float64 {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetFloat64(key)
}

func (c *Config) GetDuration(key string) time.Duration {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

func (c *Config) IsSet(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the subtree at key. It never returns nil; a missing subtree
// yields an empty Config.
func (c *Config) Sub(key string) *Config {
	if c == nil || c.v == nil {
		return New(nil)
	}
	return New(c.v.Sub(key))
}

// Unmarshal decodes the whole configuration into target using mapstructure
// tags.
func (c *Config) Unmarshal(target any) error {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("catalog.source", "")
	v.SetDefault("catalog.header", true)

	v.SetDefault("database.path", "winegallery.db")

	v.SetDefault("log.level", "info")

	v.SetDefault("plugins.gallery.enabled", true)
	v.SetDefault("plugins.gallery.page_size", 20)
	v.SetDefault("plugins.gallery.price_min", 0.0)
	v.SetDefault("plugins.gallery.price_max", 1500.0)

	v.SetDefault("plugins.quiz.enabled", true)
	v.SetDefault("plugins.quiz.shortlist_size", 5)
}

// Load builds a viper instance from defaults, the config file and the
// environment. An empty path searches for winegallery.yaml in the working
// directory and $HOME/.config/winegallery; a missing file is not an error
// unless path was given explicitly.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName("winegallery")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/winegallery")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Settings is the typed, validated configuration snapshot.
type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Catalog  CatalogSettings  `mapstructure:"catalog"`
	Database DatabaseSettings `mapstructure:"database"`
	Log      LogSettings      `mapstructure:"log"`
	Plugins  PluginSettings   `mapstructure:"plugins"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimit       float64       `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst       int           `mapstructure:"rate_burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogSettings selects where records come from: "" for the embedded
// dataset, "sqlite" for the latest imported snapshot, or a file path.
type CatalogSettings struct {
	Source string `mapstructure:"source"`
	Header bool   `mapstructure:"header"`
}

// SourceSQLite selects the snapshot database as the catalog source.
const SourceSQLite = "sqlite"

type DatabaseSettings struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogSettings struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// ZapLevel converts Level to a zap level.
func (l LogSettings) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

type PluginSettings struct {
	Gallery GallerySettings `mapstructure:"gallery"`
	Quiz    QuizSettings    `mapstructure:"quiz"`
}

type GallerySettings struct {
	Enabled  bool    `mapstructure:"enabled"`
	PageSize int     `mapstructure:"page_size" validate:"min=1,max=100"`
	PriceMin float64 `mapstructure:"price_min" validate:"gte=0"`
	PriceMax float64 `mapstructure:"price_max" validate:"gtfield=PriceMin"`
}

type QuizSettings struct {
	Enabled       bool `mapstructure:"enabled"`
	ShortlistSize int  `mapstructure:"shortlist_size" validate:"min=1,max=50"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSettings decodes and validates the configuration in c.
func LoadSettings(c *Config) (Settings, error) {
	var s Settings
	if err := c.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := validate.Struct(s); err != nil {
		return Settings{}, describeValidation(err)
	}
	return s, nil
}

// describeValidation flattens validator errors into one message naming
// each failing key.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate settings: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}
