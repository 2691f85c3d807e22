// Package config loads carevo settings from file, environment and flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid marks a setting with an unusable value.
var ErrInvalid = errors.New("invalid configuration")

const (
	EnvPrefix = "CAREVO"
	FileName  = "config"
	FileType  = "yaml"
)

type API struct {
	BaseURL string
	Timeout time.Duration
	UserID  string
}

type Server struct {
	Addr     string
	Backend  string
	DataPath string
}

type Log struct {
	Level  string
	Format string
	File   string
}

type UI struct {
	AltScreen bool
	Page      string
}

// Config is the resolved configuration.
type Config struct {
	API    API
	Server Server
	Log    Log
	UI     UI
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.user_id", "user123")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.backend", "json")
	v.SetDefault("server.data_path", "notes.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.page", "notes")
}

// New returns a viper instance with defaults, env binding and search paths set. An
// explicit file overrides the search paths.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v
	}
	v.SetConfigName(FileName)
	v.SetConfigType(FileType)
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "carevo"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "carevo"))
	}
	v.AddConfigPath(".")
	return v
}

// Read loads the config file when one exists. A missing file is not an error unless it
// was named explicitly.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		API: API{
			BaseURL: strings.TrimSpace(v.GetString("api.base_url")),
			Timeout: v.GetDuration("api.timeout"),
			UserID:  strings.TrimSpace(v.GetString("api.user_id")),
		},
		Server: Server{
			Addr:     v.GetString("server.addr"),
			Backend:  strings.ToLower(strings.TrimSpace(v.GetString("server.backend"))),
			DataPath: v.GetString("server.data_path"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		UI: UI{
			AltScreen: v.GetBool("ui.alt_screen"),
			Page:      strings.ToLower(strings.TrimSpace(v.GetString("ui.page"))),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and required values.
func (c Config) Validate() error {
	switch c.Server.Backend {
	case "json", "bbolt":
	default:
		return fmt.Errorf("%w: server.backend must be json or bbolt, got %q", ErrInvalid, c.Server.Backend)
	}
	switch c.UI.Page {
	case "notes", "lectures":
	default:
		return fmt.Errorf("%w: ui.page must be notes or lectures, got %q", ErrInvalid, c.UI.Page)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalid)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalid)
	}
	if c.API.UserID == "" {
		return fmt.Errorf("%w: api.user_id is required", ErrInvalid)
	}
	return nil
}
