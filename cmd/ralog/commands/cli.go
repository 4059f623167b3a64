// Package commands defines the ralog command line.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ralog/internal/config"
	"git.home.luguber.info/inful/ralog/internal/logfields"
	"git.home.luguber.info/inful/ralog/internal/site"
)

// CLI is the root command. ralog has no subcommands: running it builds the site.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file (optional, defaults to ${default_config})" placeholder:"PATH"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Source      string `help:"Source directory (overrides config)" placeholder:"DIR"`
	Output      string `short:"o" help:"Output directory (overrides config)" placeholder:"DIR"`
	Atomic      bool   `help:"Build into a staging directory and swap it in on success"`
	Report      bool   `help:"Write build-report.json and build-report.txt into the output directory"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile" placeholder:"PATH"`

	Horn bool `help:"Accepted for compatibility; has no effect" hidden:""`
}

// Vars are the interpolation variables the CLI help expects.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version":        version,
		"default_config": config.DefaultPath,
	}
}

// AfterApply runs after flag parsing; setup logging once. The env files are
// loaded first so a level set there takes effect.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	config.LoadEnvFiles()

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	level = config.LogLevelFromEnv(level)
	if c.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// Run loads the configuration, applies flag overrides and builds the site.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	b, err := site.NewBuilder(cfg, site.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	report, err := b.Build(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Build summary", slog.String("summary", report.Summary()), logfields.BuildID(report.BuildID))
	return nil
}

// loadConfig resolves settings with precedence flags > environment > file > defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	path, explicit := c.Config, true
	if path == "" {
		path, explicit = config.DefaultPath, false
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.Output != "" {
		cfg.Output.Directory = c.Output
	}
	if c.Atomic {
		cfg.Output.Atomic = true
	}
	if c.Report {
		cfg.Report.Enabled = true
	}
	if c.MetricsFile != "" {
		cfg.Metrics.Textfile = c.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", logfields.Path(path), slog.Bool("explicit", explicit))
	return cfg, nil
}
