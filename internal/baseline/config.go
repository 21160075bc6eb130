package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConflictingModes rejects a run asking for both single-control modes.
var ErrConflictingModes = errors.New("--http-only and --logging-only are mutually exclusive")

// RunConfig is the effective configuration of one run, flags resolved.
type RunConfig struct {
	// DryRun computes and reports without mutating anything.
	DryRun bool
	// Bucket restricts the run to one explicitly named bucket.
	// Explicit targeting bypasses the exclude set.
	Bucket string
	// Exclude filters the enumerate-all path. Always contains the
	// central log bucket; built once, never mutated during a run.
	Exclude map[string]bool
	// HTTPOnly applies only the transport-deny control.
	HTTPOnly bool
	// LoggingOnly applies only the access-logging control.
	LoggingOnly bool
	ShowPolicy  bool
	ShowLogging bool
}

// Validate rejects conflicting modes before any bucket is touched.
func (c RunConfig) Validate() error {
	if c.HTTPOnly && c.LoggingOnly {
		return ErrConflictingModes
	}
	return nil
}

// ExcludeSet builds the immutable exclusion set for a run. The central
// log bucket is always a member, user-specified or not.
func ExcludeSet(names []string, logBucket string) map[string]bool {
	set := make(map[string]bool, len(names)+1)
	for _, n := range names {
		set[n] = true
	}
	set[logBucket] = true
	return set
}

// FileConfig holds the optional YAML run defaults. Flags override it.
type FileConfig struct {
	Exclude     []string `yaml:"exclude"`
	Region      string   `yaml:"region"`
	ShowPolicy  bool     `yaml:"show_policy"`
	ShowLogging bool     `yaml:"show_logging"`
	AuditLog    string   `yaml:"audit_log"`
}

// DefaultFileConfig returns the built-in defaults.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{}
}

// LoadFileConfig loads run defaults from a YAML file. Empty path falls
// back to ~/.s3warden/config.yaml. Missing file returns defaults.
// Invalid YAML returns an error.
func LoadFileConfig(path string) (*FileConfig, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultFileConfig(), nil
		}
		path = filepath.Join(home, ".s3warden", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultFileConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
