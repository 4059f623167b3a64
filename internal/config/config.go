// Package config loads the ralog.yaml build configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/ralog/internal/aggregate"
	ferrors "git.home.luguber.info/inful/ralog/internal/foundation/errors"
	"git.home.luguber.info/inful/ralog/internal/markdown"
	"git.home.luguber.info/inful/ralog/internal/render"
)

// DefaultPath is the config file read when none is named explicitly.
const DefaultPath = "ralog.yaml"

// Default directories, relative to the working directory.
const (
	DefaultSource = "source"
	DefaultOutput = "build"
)

// Environment variables that override file values.
const (
	EnvSource   = "RALOG_SOURCE"
	EnvOutput   = "RALOG_OUTPUT"
	EnvLogLevel = "RALOG_LOG_LEVEL"
)

// Config is the complete build configuration.
type Config struct {
	Source   string         `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Site     SiteConfig     `yaml:"site"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Index    IndexConfig    `yaml:"index"`
	Render   RenderConfig   `yaml:"render"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// OutputConfig controls where and how pages are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	// Atomic builds into a sibling staging directory and swaps it in on success.
	Atomic bool `yaml:"atomic"`
}

// SiteConfig holds the presentation settings shared by every page.
type SiteConfig struct {
	Lang           string        `yaml:"lang"`
	Title          string        `yaml:"title"`
	TitleSeparator *string       `yaml:"title_separator"`
	Stylesheets    []string      `yaml:"stylesheets"`
	Logo           string        `yaml:"logo"`
	Links          []render.Link `yaml:"links"`
}

// MarkdownConfig selects goldmark extensions.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	UnsafeHTML *bool    `yaml:"unsafe_html"`
}

type IndexConfig struct {
	Order string `yaml:"order"`
}

type RenderConfig struct {
	// Workers bounds concurrent document processing; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

type ReportConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MetricsConfig struct {
	// Textfile is the node-exporter textfile path; empty disables export.
	Textfile string `yaml:"textfile"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. A missing file yields defaults unless
// explicit is set, in which case it is a config error. Variables from .env
// and .env.local are loaded first and ${VAR} references are expanded.
func Load(path string, explicit bool) (*Config, error) {
	LoadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
				Fatal().
				WithContext("path", path).
				Build()
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvSource); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output.Directory = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutput
	}
	cfg.Output.Directory = filepath.Clean(cfg.Output.Directory)

	defaults := render.DefaultSite()
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = defaults.Lang
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaults.Title
	}
	if cfg.Site.TitleSeparator == nil {
		sep := defaults.TitleSeparator
		cfg.Site.TitleSeparator = &sep
	}
	if cfg.Site.Stylesheets == nil {
		cfg.Site.Stylesheets = slices.Clone(defaults.Stylesheets)
	}
	if cfg.Site.Logo == "" {
		cfg.Site.Logo = defaults.Logo
	}

	if cfg.Markdown.UnsafeHTML == nil {
		unsafe := true
		cfg.Markdown.UnsafeHTML = &unsafe
	}
	if cfg.Index.Order == "" {
		cfg.Index.Order = string(aggregate.OrderCollated)
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	invalid := func(field string, value any, cause error) error {
		b := ferrors.ConfigError("invalid configuration").
			WithContext("field", field).
			WithContext("value", value)
		if cause != nil {
			b = b.WithCause(cause)
		}
		return b.Build()
	}

	if filepath.Clean(c.Source) == filepath.Clean(c.Output.Directory) {
		return invalid("output.directory", c.Output.Directory, errors.New("output directory must differ from source"))
	}
	if _, err := language.Parse(c.Site.Lang); err != nil {
		return invalid("site.lang", c.Site.Lang, err)
	}
	for _, ext := range c.Markdown.Extensions {
		if !slices.Contains(markdown.KnownExtensions(), strings.ToLower(strings.TrimSpace(ext))) {
			return invalid("markdown.extensions", ext, fmt.Errorf("known extensions: %v", markdown.KnownExtensions()))
		}
	}
	if _, err := aggregate.ParseOrder(c.Index.Order); err != nil {
		return invalid("index.order", c.Index.Order, err)
	}
	if c.Render.Workers < 0 {
		return invalid("render.workers", c.Render.Workers, errors.New("must not be negative"))
	}
	return nil
}

// SiteSettings converts the site section into renderer settings.
func (c *Config) SiteSettings() render.Site {
	site := render.DefaultSite()
	site.Lang = c.Site.Lang
	site.Title = c.Site.Title
	site.LogoAlt = c.Site.Title
	if c.Site.TitleSeparator != nil {
		site.TitleSeparator = *c.Site.TitleSeparator
	}
	site.Stylesheets = slices.Clone(c.Site.Stylesheets)
	site.Links = slices.Clone(c.Site.Links)
	site.Logo = c.Site.Logo
	return site
}

// MarkdownOptions converts the markdown section into converter options.
func (c *Config) MarkdownOptions() markdown.Options {
	return markdown.Options{
		Extensions: slices.Clone(c.Markdown.Extensions),
		UnsafeHTML: c.Markdown.UnsafeHTML == nil || *c.Markdown.UnsafeHTML,
	}
}

// IndexOrder returns the validated group order.
func (c *Config) IndexOrder() aggregate.Order {
	order, err := aggregate.ParseOrder(c.Index.Order)
	if err != nil {
		return aggregate.OrderCollated
	}
	return order
}

// Language returns the site language tag, falling back to the default.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Site.Lang)
	if err != nil {
		return render.DefaultLang
	}
	return tag
}

// Workers returns the document worker pool size.
func (c *Config) Workers() int {
	if c.Render.Workers > 0 {
		return c.Render.Workers
	}
	return runtime.NumCPU()
}
