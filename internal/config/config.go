package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samsaffron/term-llm/internal/prettifier"
	"github.com/spf13/viper"
)

// Config is the on-disk configuration surface for the prettify command.
// Everything else the original host application configured (providers,
// chat, sessions, agents, ...) has no SPEC_FULL.md component to serve, so
// only the prettifier's own section and the ambient diagnostics/debug-log
// directories survive here.
type Config struct {
	Diagnostics DiagnosticsConfig           `mapstructure:"diagnostics"`
	DebugLogs   DebugLogsConfig             `mapstructure:"debug_logs"`
	Prettifier  prettifier.PrettifierConfig `mapstructure:"prettifier"`
}

// DiagnosticsConfig controls whether diagnostic traces are written to disk.
type DiagnosticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugLogsConfig controls whether verbose debug logs are written to disk.
type DebugLogsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads config.yaml (if present) from the XDG config directory,
// falling back to built-in defaults for any unset section.
func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	for key, value := range GetDefaults() {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A zero-value prettifier section means the user's config has none;
	// fall back to the built-in defaults rather than leaving the pipeline
	// disabled with a zero confidence threshold.
	if cfg.Prettifier.RenderCacheCapacity == 0 && cfg.Prettifier.DetectionScope == "" {
		cfg.Prettifier = prettifier.DefaultPrettifierConfig()
	}

	return &cfg, nil
}

// GetDefaults returns the default config values, keyed the way viper
// expects ("section.field"), single source of truth for Load's defaults.
func GetDefaults() map[string]any {
	d := prettifier.DefaultPrettifierConfig()
	return map[string]any{
		"diagnostics.enabled":                 false,
		"debug_logs.enabled":                  false,
		"prettifier.enabled":                  d.Enabled,
		"prettifier.respect_alternate_screen": d.RespectAlternateScreen,
		"prettifier.confidence_threshold":     d.ConfidenceThreshold,
		"prettifier.max_scan_lines":           d.MaxScanLines,
		"prettifier.debounce_ms":              d.DebounceMs,
		"prettifier.blank_line_threshold":     d.BlankLineThreshold,
		"prettifier.detection_scope":          d.DetectionScope,
		"prettifier.render_cache_capacity":    d.RenderCacheCapacity,
		"prettifier.prettify_throttle_ms":     d.PrettifyThrottleMs,
		"prettifier.force_agent_session":      d.ForceAgentSession,
	}
}

// GetConfigDir returns the XDG config directory for term-llm.
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "term-llm"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "term-llm"), nil
}

// GetConfigPath returns the path where the config file should be located.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDiagnosticsDir returns the XDG data directory for term-llm diagnostics.
func GetDiagnosticsDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "term-llm", "diagnostics")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "term-llm-diagnostics")
	}
	return filepath.Join(homeDir, ".local", "share", "term-llm", "diagnostics")
}

// GetDebugLogsDir returns the XDG data directory for term-llm debug logs.
func GetDebugLogsDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "term-llm", "debug")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "term-llm-debug")
	}
	return filepath.Join(homeDir, ".local", "share", "term-llm", "debug")
}

// Exists reports whether a config file is present on disk.
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// NeedsSetup returns true if no config file exists yet.
func NeedsSetup() bool {
	return !Exists()
}

// Save writes cfg's prettifier section to disk as YAML.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	p := cfg.Prettifier
	content := fmt.Sprintf(`diagnostics:
  enabled: %t

debug_logs:
  enabled: %t

prettifier:
  enabled: %t
  respect_alternate_screen: %t
  confidence_threshold: %v
  max_scan_lines: %d
  debounce_ms: %d
  blank_line_threshold: %d
  detection_scope: %s
  render_cache_capacity: %d
  prettify_throttle_ms: %d
  force_agent_session: %t
`,
		cfg.Diagnostics.Enabled,
		cfg.DebugLogs.Enabled,
		p.Enabled, p.RespectAlternateScreen, p.ConfidenceThreshold, p.MaxScanLines,
		p.DebounceMs, p.BlankLineThreshold, p.DetectionScope, p.RenderCacheCapacity,
		p.PrettifyThrottleMs, p.ForceAgentSession,
	)

	return os.WriteFile(path, []byte(content), 0600)
}
