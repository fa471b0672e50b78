package internal

import (
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// colorPattern accepts hex colors ("#7d56f4") and ANSI-256 indexes ("205").
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|[0-9]{1,3})$`)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Notes NotesConfig       `yaml:"notes"`
	UI    UIConfig          `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return c.UI.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// NotesConfig points the store somewhere other than the default
// per-user data directory. An empty Dir keeps the default.
type NotesConfig struct {
	Dir string `yaml:"dir"`
}

// UIConfig holds terminal presentation configuration.
type UIConfig struct {
	Theme ThemeConfig `yaml:"theme"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return c.Theme.Validate()
}

// ThemeConfig is a set of plain color values consumed by the terminal
// layer. It carries no behavior; unset fields keep the defaults.
type ThemeConfig struct {
	Accent string `yaml:"accent"`
	Muted  string `yaml:"muted"`
	Error  string `yaml:"error"`
	Border string `yaml:"border"`
}

// Validate validates the theme configuration.
func (c *ThemeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Accent, validation.Match(colorPattern)),
		validation.Field(&c.Muted, validation.Match(colorPattern)),
		validation.Field(&c.Error, validation.Match(colorPattern)),
		validation.Field(&c.Border, validation.Match(colorPattern)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		UI: UIConfig{
			Theme: ThemeConfig{
				Accent: "205",
				Muted:  "243",
				Error:  "196",
				Border: "240",
			},
		},
	}
}
