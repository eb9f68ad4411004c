// Package config loads the optional YAML defaults file that seeds
// unset CLI flags (SPEC_FULL.md §B): the engine itself never reads
// config directly — internal/cli resolves flags against it before
// building a kosmo.TransferRequest.
package config

import "github.com/kosmokopy/kosmokopy/pkg/kosmo"

// Config represents the application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
	Exclude  []string       `yaml:"exclude"`
}

// DefaultsConfig holds the fallback values for flags the user omits.
type DefaultsConfig struct {
	Method      string `yaml:"method"`       // "standard" or "rsync"
	Conflict    string `yaml:"conflict"`     // "skip", "overwrite", or "rename"
	Mode        string `yaml:"mode"`         // "files" or "folders"
	StripSpaces bool   `yaml:"strip_spaces"`
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "error"
	File    string `yaml:"file"`   // Log file path (empty = disabled)
}

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Method:      "standard",
			Conflict:    "skip",
			Mode:        "folders",
			StripSpaces: false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
		Exclude: nil,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validMethods := map[string]bool{"standard": true, "rsync": true}
	if !validMethods[c.Defaults.Method] {
		return &ValidationError{Field: "defaults.method", Message: "must be 'standard' or 'rsync'"}
	}

	validConflicts := map[string]bool{"skip": true, "overwrite": true, "rename": true}
	if !validConflicts[c.Defaults.Conflict] {
		return &ValidationError{Field: "defaults.conflict", Message: "must be 'skip', 'overwrite', or 'rename'"}
	}

	validModes := map[string]bool{"files": true, "folders": true}
	if !validModes[c.Defaults.Mode] {
		return &ValidationError{Field: "defaults.mode", Message: "must be 'files' or 'folders'"}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &ValidationError{Field: "logging.format", Message: "must be 'json' or 'text'"}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &ValidationError{Field: "logging.level", Message: "must be 'debug', 'info', or 'error'"}
	}

	return nil
}

// Method returns the configured default transport method as a kosmo.Method.
func (c *Config) Method() kosmo.Method {
	if c.Defaults.Method == "rsync" {
		return kosmo.Rsync
	}
	return kosmo.Standard
}

// Conflict returns the configured default collision policy.
func (c *Config) Conflict() kosmo.CollisionPolicy {
	switch c.Defaults.Conflict {
	case "overwrite":
		return kosmo.Overwrite
	case "rename":
		return kosmo.Rename
	default:
		return kosmo.Skip
	}
}

// Mode returns the configured default layout.
func (c *Config) Mode() kosmo.Layout {
	if c.Defaults.Mode == "files" {
		return kosmo.FilesOnly
	}
	return kosmo.PreserveFolders
}
