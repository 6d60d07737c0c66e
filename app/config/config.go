package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blogfront/app/services"
	"blogfront/app/upstream"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BLOGFRONT_SERVER_ADDR.
const EnvPrefix = "BLOGFRONT"

// Config is the resolved application configuration.
type Config struct {
	Server   Server
	Upstream Upstream
	Feed     Feed
	Session  Session
	Logger   Logger
	Brand    Brand
}

// Server configures the web front end.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Upstream points at the posts API.
type Upstream struct {
	BaseURL string
	Timeout time.Duration
}

// Feed configures the post list.
type Feed struct {
	PageSize   int
	MinLoading time.Duration
}

// Session configures web sessions.
type Session struct {
	TTL        time.Duration
	CookieName string
	Secret     string
}

// Logger configures logrus.
type Logger struct {
	Level  string
	Format string
	Output string
}

// Brand configures the header.
type Brand struct {
	Title string
}

// ListOptions converts the feed settings for the post list.
func (f Feed) ListOptions() services.ListOptions {
	return services.ListOptions{PageSize: f.PageSize, MinLoading: f.MinLoading}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("upstream.base_url", upstream.DefaultBaseURL)
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("feed.page_size", services.DefaultPageSize)
	v.SetDefault("feed.min_loading", services.DefaultMinLoading.String())
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cookie_name", "blogfront_session")
	v.SetDefault("session.secret", "")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("brand.title", services.DefaultBrandTitle)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configPath (if any) into v and resolves the configuration.
// Without a path, config.yaml is looked up in the working directory and
// $HOME/.blogfront; a missing file is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.blogfront")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v), nil
}

// FromViper resolves a Config from v without touching the filesystem.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Upstream: Upstream{
			BaseURL: v.GetString("upstream.base_url"),
			Timeout: v.GetDuration("upstream.timeout"),
		},
		Feed: Feed{
			PageSize:   v.GetInt("feed.page_size"),
			MinLoading: v.GetDuration("feed.min_loading"),
		},
		Session: Session{
			TTL:        v.GetDuration("session.ttl"),
			CookieName: v.GetString("session.cookie_name"),
			Secret:     v.GetString("session.secret"),
		},
		Logger: Logger{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
			Output: v.GetString("logger.output"),
		},
		Brand: Brand{
			Title: v.GetString("brand.title"),
		},
	}

	if cfg.Feed.PageSize < 1 {
		cfg.Feed.PageSize = services.DefaultPageSize
	}
	if cfg.Feed.MinLoading < 0 {
		cfg.Feed.MinLoading = 0
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	return cfg
}
