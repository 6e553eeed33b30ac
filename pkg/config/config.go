// Package config loads the optional livehooks configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the widget runtime.
type Config struct {
	Hooks  HookConfig   `yaml:"hooks" toml:"hooks"`
	Charts ChartsConfig `yaml:"charts" toml:"charts"`
	Audio  AudioConfig  `yaml:"audio" toml:"audio"`
	Nav    NavConfig    `yaml:"nav" toml:"nav"`
}

// HookConfig controls how hook nodes are discovered.
type HookConfig struct {
	// Attribute names the attribute carrying the hook name.
	Attribute string `yaml:"attribute,omitempty" toml:"attribute,omitempty"`
}

// ChartsConfig contains chart rendering defaults.
type ChartsConfig struct {
	Width  int `yaml:"width,omitempty" toml:"width,omitempty"`
	Height int `yaml:"height,omitempty" toml:"height,omitempty"`

	// EmptyText is shown by charts that render a placeholder for no data.
	EmptyText string `yaml:"empty_text,omitempty" toml:"empty_text,omitempty"`
	// CloudEmptyText is the word cloud placeholder.
	CloudEmptyText string `yaml:"cloud_empty_text,omitempty" toml:"cloud_empty_text,omitempty"`
	// CloudLimit caps the number of words laid out.
	CloudLimit int `yaml:"cloud_limit,omitempty" toml:"cloud_limit,omitempty"`
	// CloudMinFont and CloudFontSpan map frequency to font size:
	// size = min + freq/max*span.
	CloudMinFont  float64 `yaml:"cloud_min_font,omitempty" toml:"cloud_min_font,omitempty"`
	CloudFontSpan float64 `yaml:"cloud_font_span,omitempty" toml:"cloud_font_span,omitempty"`
}

// AudioConfig contains audio capture settings.
type AudioConfig struct {
	MimeType string `yaml:"mime_type,omitempty" toml:"mime_type,omitempty"`
	// MaxBuffer is a human-readable byte size, e.g. "25MB".
	MaxBuffer string `yaml:"max_buffer,omitempty" toml:"max_buffer,omitempty"`
	// DeniedMessage is shown when microphone access fails.
	DeniedMessage string `yaml:"denied_message,omitempty" toml:"denied_message,omitempty"`

	maxBufferBytes uint64
}

// NavConfig contains overlay navigation settings.
type NavConfig struct {
	// CloseTransition is the CSS close transition duration, e.g. "300ms".
	CloseTransition string `yaml:"close_transition,omitempty" toml:"close_transition,omitempty"`

	closeTransition time.Duration
}

// Defaults.
const (
	DefaultAttribute       = "phx-hook"
	DefaultWidth           = 640
	DefaultHeight          = 400
	DefaultEmptyText       = "Немає даних для відображення"
	DefaultCloudEmptyText  = "Недостатньо даних для word cloud"
	DefaultCloudLimit      = 50
	DefaultCloudMinFont    = 10
	DefaultCloudFontSpan   = 50
	DefaultMimeType        = "audio/webm;codecs=opus"
	DefaultMaxBuffer       = "25MB"
	DefaultDeniedMessage   = "Не вдалося отримати доступ до мікрофона. Переконайтеся що ви дозволили доступ."
	DefaultCloseTransition = "300ms"
)

// Default returns a fully resolved default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.resolve(); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a .yaml, .yml or .toml file and resolves defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional reads livehooks.yaml or livehooks.toml from dir if present,
// otherwise returns defaults.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range []string{"livehooks.yaml", "livehooks.yml", "livehooks.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		return Load(path)
	}
	return Default(), nil
}

func (c *Config) resolve() error {
	if strings.TrimSpace(c.Hooks.Attribute) == "" {
		c.Hooks.Attribute = DefaultAttribute
	}

	if c.Charts.Width == 0 {
		c.Charts.Width = DefaultWidth
	}
	if c.Charts.Height == 0 {
		c.Charts.Height = DefaultHeight
	}
	if c.Charts.EmptyText == "" {
		c.Charts.EmptyText = DefaultEmptyText
	}
	if c.Charts.CloudEmptyText == "" {
		c.Charts.CloudEmptyText = DefaultCloudEmptyText
	}
	if c.Charts.CloudLimit == 0 {
		c.Charts.CloudLimit = DefaultCloudLimit
	}
	if c.Charts.CloudMinFont == 0 {
		c.Charts.CloudMinFont = DefaultCloudMinFont
	}
	if c.Charts.CloudFontSpan == 0 {
		c.Charts.CloudFontSpan = DefaultCloudFontSpan
	}

	if c.Audio.MimeType == "" {
		c.Audio.MimeType = DefaultMimeType
	}
	if c.Audio.MaxBuffer == "" {
		c.Audio.MaxBuffer = DefaultMaxBuffer
	}
	if c.Audio.DeniedMessage == "" {
		c.Audio.DeniedMessage = DefaultDeniedMessage
	}
	if c.Nav.CloseTransition == "" {
		c.Nav.CloseTransition = DefaultCloseTransition
	}

	return c.Validate()
}

// Validate checks ranges and parses the size and duration fields.
func (c *Config) Validate() error {
	if c.Charts.Width < 0 || c.Charts.Height < 0 {
		return fmt.Errorf("charts: width and height must not be negative")
	}
	if c.Charts.CloudLimit < 0 {
		return fmt.Errorf("charts: cloud_limit must not be negative")
	}
	if c.Charts.CloudMinFont < 0 || c.Charts.CloudFontSpan < 0 {
		return fmt.Errorf("charts: cloud font sizes must not be negative")
	}

	size, err := humanize.ParseBytes(c.Audio.MaxBuffer)
	if err != nil {
		return fmt.Errorf("audio: invalid max_buffer %q: %w", c.Audio.MaxBuffer, err)
	}
	if size == 0 {
		return fmt.Errorf("audio: max_buffer must be positive")
	}
	c.Audio.maxBufferBytes = size

	d, err := time.ParseDuration(c.Nav.CloseTransition)
	if err != nil {
		return fmt.Errorf("nav: invalid close_transition %q: %w", c.Nav.CloseTransition, err)
	}
	if d < 0 {
		return fmt.Errorf("nav: close_transition must not be negative")
	}
	c.Nav.closeTransition = d
	return nil
}

// MaxBufferBytes returns the parsed audio buffer cap. A config that was
// never resolved parses MaxBuffer on the fly and falls back to
// DefaultMaxBuffer, so the cap is never zero.
func (a AudioConfig) MaxBufferBytes() uint64 {
	if a.maxBufferBytes > 0 {
		return a.maxBufferBytes
	}
	if size, err := humanize.ParseBytes(a.MaxBuffer); err == nil && size > 0 {
		return size
	}
	size, _ := humanize.ParseBytes(DefaultMaxBuffer)
	return size
}

// CloseTransitionDuration returns the parsed close transition. An
// unresolved config parses CloseTransition on the fly and falls back to
// DefaultCloseTransition.
func (n NavConfig) CloseTransitionDuration() time.Duration {
	if n.closeTransition > 0 {
		return n.closeTransition
	}
	raw := n.CloseTransition
	if raw == "" {
		raw = DefaultCloseTransition
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		d, _ = time.ParseDuration(DefaultCloseTransition)
	}
	return d
}
