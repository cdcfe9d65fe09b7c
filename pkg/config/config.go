package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VIDEOSERVER_VIDEO_COUNT=20.
const EnvPrefix = "VIDEOSERVER"

// Config holds the application configuration. It is loaded once at startup
// and passed by value afterwards.
type Config struct {
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	FSPath             string `mapstructure:"fs_path" validate:"required"`
	URIPath            string `mapstructure:"uri_path"`
	InstanceName       string `mapstructure:"instance_name" validate:"required"`
	VideoCount         int    `mapstructure:"video_count" validate:"gt=0"`
	SortDescending     bool   `mapstructure:"sort_descending"`
	ParseTimestamps    bool   `mapstructure:"parse_timestamps"`
	DisableStaticCache bool   `mapstructure:"disable_static_cache"`

	StaticDir       string        `mapstructure:"static_dir" validate:"required"`
	Timezone        string        `mapstructure:"timezone" validate:"required"`
	StatsInterval   time.Duration `mapstructure:"stats_interval" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

var validate = validator.New()

// requiredKeys must be present in the file or environment. Zero values are
// legal for some of them, so presence is checked separately from validation.
var requiredKeys = []string{
	"port",
	"fs_path",
	"uri_path",
	"instance_name",
	"video_count",
}

var envKeys = append([]string{
	"sort_descending",
	"parse_timestamps",
	"disable_static_cache",
	"static_dir",
	"timezone",
	"stats_interval",
	"shutdown_timeout",
	"logging.level",
	"logging.format",
	"metrics.enabled",
	"metrics.path",
}, requiredKeys...)

func setDefaults(v *viper.Viper) {
	v.SetDefault("sort_descending", false)
	v.SetDefault("parse_timestamps", false)
	v.SetDefault("disable_static_cache", false)
	v.SetDefault("static_dir", "./static")
	v.SetDefault("timezone", "Local")
	v.SetDefault("stats_interval", 30*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads the configuration file at path (TOML, or YAML/JSON by
// extension), applies VIDEOSERVER_* environment overrides and validates the
// result. Any error is fatal for the caller.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("no config file specified")
	}

	v := viper.New()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		v.SetConfigType("toml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys only present in the environment are invisible to Unmarshal
	// unless bound explicitly.
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config: %w", err)
	}

	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return Config{}, fmt.Errorf("error parsing config: missing field `%s`", key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.URIPath = strings.TrimRight(c.URIPath, "/")
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// Validate checks field constraints and that the timezone can be resolved.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid config: %s failed on '%s' (value: %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.URIPath != "" && !strings.HasPrefix(c.URIPath, "/") {
		return fmt.Errorf("invalid config: uri_path %q must start with '/'", c.URIPath)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone used for timestamp labels.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StaticCacheControl returns the Cache-Control value for static assets.
func (c Config) StaticCacheControl() string {
	if c.DisableStaticCache {
		return "no-cache"
	}
	return "max-age=14400"
}
