// Package config builds the immutable run configuration from command-line
// flags, MERAKISYNC_* environment variables and the persisted settings file,
// in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/merakisync/merakisync/pkg/dashboard"
	"github.com/merakisync/merakisync/pkg/settings"
	"github.com/merakisync/merakisync/pkg/sheet"
	"github.com/merakisync/merakisync/pkg/util"
)

// EnvPrefix is prepended to every key to form its environment variable.
const EnvPrefix = "MERAKISYNC"

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"key":          "api_key",
	"base-url":     "base_url",
	"rate-limit":   "rate_limit",
	"timeout":      "timeout",
	"org":          "organization",
	"network":      "network",
	"audit-log":    "audit_log",
	"no-audit":     "no_audit",
	"metrics-file": "metrics_file",
	"verbose":      "verbose",
	"log-json":     "log_json",
	"file":         "file",
	"multinetwork": "multinetwork",
	"get":          "get",
	"output":       "output",
	"format":       "format",
	"concurrency":  "concurrency",
	"dry-run":      "dry_run",
}

// Mode is the operation a root invocation performs.
type Mode int

const (
	ModeUpdate Mode = iota
	ModeMultiUpdate
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeMultiUpdate:
		return "multi-network update"
	case ModeExport:
		return "export"
	}
	return "update"
}

// Config is built once per invocation and never mutated afterwards.
type Config struct {
	APIKey       string
	BaseURL      string
	RateLimit    float64
	Timeout      time.Duration
	Organization string
	Network      string

	AuditLog    string
	NoAudit     bool
	MetricsFile string
	Verbose     bool
	LogJSON     bool

	File         string
	MultiNetwork bool
	Export       bool
	Output       string
	Format       sheet.Format
	Concurrency  int
	DryRun       bool
}

// Load layers flags over environment over settings over defaults. Only
// flags present in fs are bound, so subcommands with a reduced flag set
// still resolve the shared keys.
func Load(fs *pflag.FlagSet, s *settings.Settings) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", dashboard.DefaultBaseURL)
	v.SetDefault("rate_limit", dashboard.DefaultRateLimit)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("audit_log", settings.DefaultAuditPath())
	v.SetDefault("format", string(sheet.FormatCSV))
	v.SetDefault("concurrency", 1)

	if s != nil {
		if err := v.MergeConfigMap(s.Values()); err != nil {
			return nil, fmt.Errorf("applying settings: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	format, err := sheet.ParseFormat(v.GetString("format"))
	if err != nil {
		return nil, util.NewUsageError("%v", err)
	}

	cfg := &Config{
		APIKey:       strings.TrimSpace(v.GetString("api_key")),
		BaseURL:      v.GetString("base_url"),
		RateLimit:    v.GetFloat64("rate_limit"),
		Timeout:      v.GetDuration("timeout"),
		Organization: v.GetString("organization"),
		Network:      v.GetString("network"),
		AuditLog:     util.ExpandHome(v.GetString("audit_log")),
		NoAudit:      v.GetBool("no_audit"),
		MetricsFile:  util.ExpandHome(v.GetString("metrics_file")),
		Verbose:      v.GetBool("verbose"),
		LogJSON:      v.GetBool("log_json"),
		File:         util.ExpandHome(v.GetString("file")),
		MultiNetwork: v.GetBool("multinetwork"),
		Export:       v.GetBool("get"),
		Output:       util.ExpandHome(v.GetString("output")),
		Format:       format,
		Concurrency:  v.GetInt("concurrency"),
		DryRun:       v.GetBool("dry_run"),
	}

	if cfg.RateLimit < 0 {
		return nil, util.NewUsageError("--rate-limit must not be negative")
	}
	if cfg.Concurrency < 1 {
		return nil, util.NewUsageError("--concurrency must be at least 1")
	}

	return cfg, nil
}

// RequireKey fails when no API key was supplied by any source.
func (c *Config) RequireKey() error {
	if c.APIKey == "" {
		return util.NewUsageError("API key not provided (use -k or %s_API_KEY)", EnvPrefix)
	}
	return nil
}

// Mode validates the root flag combination and reports which operation it
// selects. All problems are usage errors and are detected before any
// request is made.
func (c *Config) Mode() (Mode, error) {
	if err := c.RequireKey(); err != nil {
		return 0, err
	}

	if c.Export {
		if c.MultiNetwork {
			return 0, util.NewUsageError("-m applies to updates only, not to -g")
		}
		if c.File != "" {
			return 0, util.NewUsageError("-f and -g are mutually exclusive")
		}
		if c.Output == "" {
			return 0, util.NewUsageError("output file not specified (use -o with -g)")
		}
		dir := filepath.Dir(c.Output)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return 0, util.NewUsageError("output directory %s does not exist", dir)
		}
		return ModeExport, nil
	}

	if c.File == "" {
		return 0, util.NewUsageError("nothing to do: pass -f FILE to update or -g -o FILE to export")
	}
	info, err := os.Stat(c.File)
	if err != nil {
		return 0, util.NewUsageError("file not found: %s", c.File)
	}
	if info.IsDir() {
		return 0, util.NewUsageError("%s is a directory", c.File)
	}

	if c.MultiNetwork {
		return ModeMultiUpdate, nil
	}
	return ModeUpdate, nil
}

// ClientConfig returns the dashboard client configuration.
func (c *Config) ClientConfig() dashboard.Config {
	return dashboard.Config{
		BaseURL:   c.BaseURL,
		APIKey:    c.APIKey,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
	}
}
