// Package settings manages persistent user defaults for the merakisync CLI.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds persistent user preferences. Every field is optional; an
// unset field leaves the built-in default or the flag value in effect.
type Settings struct {
	// Organization preselects the organization by id or name
	Organization string `yaml:"organization,omitempty"`

	// Network preselects the network by id or name
	Network string `yaml:"network,omitempty"`

	// BaseURL overrides the dashboard API endpoint
	BaseURL string `yaml:"base_url,omitempty"`

	// RateLimit caps requests per second; nil means use the default
	RateLimit *float64 `yaml:"rate_limit,omitempty"`

	// AuditLog overrides the audit log path
	AuditLog string `yaml:"audit_log,omitempty"`
}

// Keys lists the setting names accepted by Set, Get and Unset.
var Keys = []string{"organization", "network", "base_url", "rate_limit", "audit_log"}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".merakisync"
	}
	return filepath.Join(home, ".merakisync")
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(Dir(), "settings.yaml")
}

// DefaultAuditPath returns the audit log path used when none is configured.
func DefaultAuditPath() string {
	return filepath.Join(Dir(), "audit.log")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path. A missing file yields empty
// settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Set assigns a setting by name.
func (s *Settings) Set(key, value string) error {
	switch normalizeKey(key) {
	case "organization":
		s.Organization = value
	case "network":
		s.Network = value
	case "base_url":
		s.BaseURL = value
	case "rate_limit":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("rate_limit must be a non-negative number, got %q", value)
		}
		s.RateLimit = &v
	case "audit_log":
		s.AuditLog = value
	default:
		return fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Unset clears a single setting.
func (s *Settings) Unset(key string) error {
	switch normalizeKey(key) {
	case "organization":
		s.Organization = ""
	case "network":
		s.Network = ""
	case "base_url":
		s.BaseURL = ""
	case "rate_limit":
		s.RateLimit = nil
	case "audit_log":
		s.AuditLog = ""
	default:
		return fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns a setting as text, empty when unset.
func (s *Settings) Get(key string) (string, error) {
	switch normalizeKey(key) {
	case "organization":
		return s.Organization, nil
	case "network":
		return s.Network, nil
	case "base_url":
		return s.BaseURL, nil
	case "rate_limit":
		if s.RateLimit == nil {
			return "", nil
		}
		return strconv.FormatFloat(*s.RateLimit, 'f', -1, 64), nil
	case "audit_log":
		return s.AuditLog, nil
	}
	return "", fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// Values returns the set settings keyed by name, for layering under flags.
func (s *Settings) Values() map[string]interface{} {
	out := make(map[string]interface{})
	for _, k := range Keys {
		v, _ := s.Get(k)
		if v == "" {
			continue
		}
		if k == "rate_limit" {
			out[k] = *s.RateLimit
			continue
		}
		out[k] = v
	}
	return out
}

// SetKeys returns the names of settings that have a value, sorted.
func (s *Settings) SetKeys() []string {
	var keys []string
	for k := range s.Values() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}

// normalizeKey accepts a few spellings: "org", "base-url".
func normalizeKey(key string) string {
	k := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	switch k {
	case "org":
		return "organization"
	case "net":
		return "network"
	}
	return k
}
