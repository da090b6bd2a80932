package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the engagement checker
type Config struct {
	// HTTP API surface
	Server ServerConfig `yaml:"server" json:"server"`

	// Instagram fetch settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Engagement calculation settings
	Engagement EngagementConfig `yaml:"engagement" json:"engagement"`

	// Asset server for the web front-end
	Web WebConfig `yaml:"web" json:"web"`

	// Launcher settings
	Launcher LauncherConfig `yaml:"launcher" json:"launcher"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP API server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host" env:"IGENGAGE_SERVER_HOST"`
	Port            int           `yaml:"port" json:"port" env:"IGENGAGE_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" env:"IGENGAGE_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" env:"IGENGAGE_SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout" env:"IGENGAGE_SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"IGENGAGE_SERVER_SHUTDOWN_TIMEOUT"`
	MetricsEnabled  bool          `yaml:"metrics_enabled" json:"metrics_enabled" env:"IGENGAGE_METRICS_ENABLED"`
}

// Address returns the listen address of the API server
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url" env:"IGENGAGE_INSTAGRAM_BASE_URL"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" env:"IGENGAGE_USER_AGENT"`
	AppID        string        `yaml:"app_id" json:"app_id" env:"IGENGAGE_INSTAGRAM_APP_ID"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" env:"IGENGAGE_FETCH_TIMEOUT"`
	PostLimit    int           `yaml:"post_limit" json:"post_limit" env:"IGENGAGE_POST_LIMIT"`
	HTMLFallback bool          `yaml:"html_fallback" json:"html_fallback" env:"IGENGAGE_HTML_FALLBACK"`
}

// EngagementConfig holds engagement calculation settings
type EngagementConfig struct {
	// Precision is the number of decimal places the engagement rate is rounded to
	Precision int `yaml:"precision" json:"precision" env:"IGENGAGE_PRECISION"`
}

// WebConfig holds the asset server configuration
type WebConfig struct {
	Host string `yaml:"host" json:"host" env:"IGENGAGE_WEB_HOST"`
	Port int    `yaml:"port" json:"port" env:"IGENGAGE_WEB_PORT"`
	// Dir serves a front-end build from disk instead of the embedded page
	Dir string `yaml:"dir" json:"dir" env:"IGENGAGE_WEB_DIR"`
	// APIURL is the base URL the front-end posts checks to
	APIURL string `yaml:"api_url" json:"api_url" env:"IGENGAGE_API_URL"`
}

// Address returns the listen address of the asset server
func (w WebConfig) Address() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// LauncherConfig holds launcher settings
type LauncherConfig struct {
	Warmup time.Duration `yaml:"warmup" json:"warmup" env:"IGENGAGE_LAUNCH_WARMUP"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"IGENGAGE_LOG_LEVEL"`
	File   string `yaml:"file" json:"file" env:"IGENGAGE_LOG_FILE"`
	Format string `yaml:"format" json:"format" env:"IGENGAGE_LOG_FORMAT"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MetricsEnabled:  true,
		},
		Instagram: InstagramConfig{
			BaseURL:      "https://www.instagram.com",
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			AppID:        "936619743392459",
			FetchTimeout: 15 * time.Second,
			PostLimit:    12,
			HTMLFallback: true,
		},
		Engagement: EngagementConfig{
			Precision: 2,
		},
		Web: WebConfig{
			Host:   "0.0.0.0",
			Port:   5173,
			Dir:    "",
			APIURL: "http://localhost:5000",
		},
		Launcher: LauncherConfig{
			Warmup: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "console",
		},
	}
}

// LoadFromEnv overlays IGENGAGE_* environment variables onto the configuration
func (c *Config) LoadFromEnv() error {
	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igengage.yaml",
		".igengage.yml",
		filepath.Join(home, ".config", "igengage", "config.yaml"),
		filepath.Join(home, ".config", "igengage", "config.yml"),
		filepath.Join(home, ".igengage.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server port must be between 1 and 65535"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server shutdown timeout must be positive"))
	}

	if _, err := url.ParseRequestURI(c.Instagram.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid instagram base url: %w", err))
	}
	if c.Instagram.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.Instagram.PostLimit <= 0 {
		errs = append(errs, errors.New("post limit must be positive"))
	}
	if c.Instagram.PostLimit > 50 {
		errs = append(errs, errors.New("post limit should not exceed 50"))
	}

	if c.Engagement.Precision < 0 || c.Engagement.Precision > 6 {
		errs = append(errs, errors.New("engagement precision must be between 0 and 6"))
	}

	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		errs = append(errs, errors.New("web port must be between 1 and 65535"))
	}
	if c.Web.Dir != "" {
		if info, err := os.Stat(c.Web.Dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("web directory %q is not accessible", c.Web.Dir))
		}
	}

	if c.Launcher.Warmup < 0 {
		errs = append(errs, errors.New("launcher warmup cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if host, ok := flags["host"].(string); ok && host != "" {
		c.Server.Host = host
	}
	if port, ok := flags["port"].(int); ok && port > 0 {
		c.Server.Port = port
	}
	if webPort, ok := flags["web-port"].(int); ok && webPort > 0 {
		c.Web.Port = webPort
	}
	if webDir, ok := flags["web-dir"].(string); ok && webDir != "" {
		c.Web.Dir = webDir
	}
	if apiURL, ok := flags["api-url"].(string); ok && apiURL != "" {
		c.Web.APIURL = apiURL
	}
	if precision, ok := flags["precision"].(int); ok && precision >= 0 {
		c.Engagement.Precision = precision
	}
	if timeout, ok := flags["fetch-timeout"].(time.Duration); ok && timeout > 0 {
		c.Instagram.FetchTimeout = timeout
	}
	if limit, ok := flags["post-limit"].(int); ok && limit > 0 {
		c.Instagram.PostLimit = limit
	}
	if warmup, ok := flags["warmup"].(time.Duration); ok && warmup >= 0 {
		c.Launcher.Warmup = warmup
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat, ok := flags["log-format"].(string); ok && logFormat != "" {
		c.Logging.Format = logFormat
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igengage.env"))

	config, err := loadLayers(configPath)
	if err != nil {
		return nil, err
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadLayers applies defaults, the config file and the environment in order
func loadLayers(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return config, nil
}
