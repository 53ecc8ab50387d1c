package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

type Config struct {
	// Backend
	BaseURL    string `yaml:"base_url"`
	SocketPath string `yaml:"socket_path"`
	StreamPath string `yaml:"stream_path"`
	Transport  string `yaml:"transport"`

	// Connection
	BackoffFloorMS   int `yaml:"backoff_floor_ms"`
	BackoffCeilingMS int `yaml:"backoff_ceiling_ms"`
	DialTimeoutMS    int `yaml:"dial_timeout_ms"`

	// UI Settings
	HighlightMS int    `yaml:"highlight_ms"`
	ColorTheme  string `yaml:"color_theme"`
	DateFormat  string `yaml:"date_format"`
	DefaultSort string `yaml:"default_sort"`
	ReverseSort bool   `yaml:"reverse_sort"`

	// Logging
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// Hot reload
	WatchConfig     bool `yaml:"watch_config"`
	WatchDebounceMS int  `yaml:"watch_debounce_ms"`
}

const (
	defaultBaseURL     = "http://localhost:8000"
	defaultSocketPath  = "/ws"
	defaultStreamPath  = "/api/assets/stream"
	defaultTransport   = "websocket"
	defaultFloorMS     = 3000
	defaultCeilingMS   = 30000
	defaultDialMS      = 10000
	defaultHighlightMS = 3000
	defaultTheme       = "auto"
	defaultDateFormat  = "2006-01-02 15:04:05"
	defaultLogLevel    = "info"
	defaultDebounceMS  = 500
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          defaultBaseURL,
		SocketPath:       defaultSocketPath,
		StreamPath:       defaultStreamPath,
		Transport:        defaultTransport,
		BackoffFloorMS:   defaultFloorMS,
		BackoffCeilingMS: defaultCeilingMS,
		DialTimeoutMS:    defaultDialMS,
		HighlightMS:      defaultHighlightMS,
		ColorTheme:       defaultTheme,
		DateFormat:       defaultDateFormat,
		DefaultSort:      "",
		ReverseSort:      false,
		LogFile:          "",
		LogLevel:         defaultLogLevel,
		WatchConfig:      true,
		WatchDebounceMS:  defaultDebounceMS,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in essential values left empty in the file
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.SocketPath == "" {
		c.SocketPath = defaultSocketPath
	}
	if c.StreamPath == "" {
		c.StreamPath = defaultStreamPath
	}
	if c.Transport == "" {
		c.Transport = defaultTransport
	}
	if c.BackoffFloorMS <= 0 {
		c.BackoffFloorMS = defaultFloorMS
	}
	if c.BackoffCeilingMS <= 0 {
		c.BackoffCeilingMS = defaultCeilingMS
	}
	if c.DialTimeoutMS <= 0 {
		c.DialTimeoutMS = defaultDialMS
	}
	if c.HighlightMS <= 0 {
		c.HighlightMS = defaultHighlightMS
	}
	if c.ColorTheme == "" {
		c.ColorTheme = defaultTheme
	}
	if c.DateFormat == "" {
		c.DateFormat = defaultDateFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = defaultDebounceMS
	}
}

// Validate checks the enumerated and ordered settings
func (c *Config) Validate() error {
	if _, err := domain.ParseTransportKind(c.Transport); err != nil {
		return err
	}
	if c.BackoffCeilingMS < c.BackoffFloorMS {
		return fmt.Errorf("backoff_ceiling_ms (%d) is below backoff_floor_ms (%d)", c.BackoffCeilingMS, c.BackoffFloorMS)
	}
	if !contains(validThemes, c.ColorTheme) {
		return fmt.Errorf("unknown color_theme %q (want one of %s)", c.ColorTheme, strings.Join(validThemes, ", "))
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("unknown log_level %q (want one of %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if c.DefaultSort != "" && !contains(validSorts, c.DefaultSort) {
		return fmt.Errorf("unknown default_sort %q (want one of %s)", c.DefaultSort, strings.Join(validSorts, ", "))
	}
	return nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TransportKind returns the configured transport
func (c *Config) TransportKind() domain.TransportKind {
	kind, err := domain.ParseTransportKind(c.Transport)
	if err != nil {
		return domain.TransportWebSocket
	}
	return kind
}

func (c *Config) BackoffFloor() time.Duration {
	return time.Duration(c.BackoffFloorMS) * time.Millisecond
}

func (c *Config) BackoffCeiling() time.Duration {
	return time.Duration(c.BackoffCeilingMS) * time.Millisecond
}

func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMS) * time.Millisecond
}

func (c *Config) HighlightWindow() time.Duration {
	return time.Duration(c.HighlightMS) * time.Millisecond
}

func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validSorts     = []string{"name", "modified", "type", "id"}
)

// field binds a yaml key to its accessor pair
type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"base_url":           stringField(func(c *Config) *string { return &c.BaseURL }),
	"socket_path":        stringField(func(c *Config) *string { return &c.SocketPath }),
	"stream_path":        stringField(func(c *Config) *string { return &c.StreamPath }),
	"transport":          stringField(func(c *Config) *string { return &c.Transport }),
	"backoff_floor_ms":   intField(func(c *Config) *int { return &c.BackoffFloorMS }),
	"backoff_ceiling_ms": intField(func(c *Config) *int { return &c.BackoffCeilingMS }),
	"dial_timeout_ms":    intField(func(c *Config) *int { return &c.DialTimeoutMS }),
	"highlight_ms":       intField(func(c *Config) *int { return &c.HighlightMS }),
	"color_theme":        stringField(func(c *Config) *string { return &c.ColorTheme }),
	"date_format":        stringField(func(c *Config) *string { return &c.DateFormat }),
	"default_sort":       stringField(func(c *Config) *string { return &c.DefaultSort }),
	"reverse_sort":       boolField(func(c *Config) *bool { return &c.ReverseSort }),
	"log_file":           stringField(func(c *Config) *string { return &c.LogFile }),
	"log_level":          stringField(func(c *Config) *string { return &c.LogLevel }),
	"watch_config":       boolField(func(c *Config) *bool { return &c.WatchConfig }),
	"watch_debounce_ms":  intField(func(c *Config) *int { return &c.WatchDebounceMS }),
}

// Keys returns every settable key, sorted
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as a string
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return f.get(c), nil
}

// Set parses value into key and validates the result. On error c is left
// unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	next.applyDefaults()
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func intField(ptr func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			if n <= 0 {
				return fmt.Errorf("must be positive, got %d", n)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(ptr func(*Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			*ptr(c) = b
			return nil
		},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
