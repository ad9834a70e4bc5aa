// Package config loads the optional project-level defaults file that
// spares a build script from repeating --registries and --profile on
// every invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	axerrors "github.com/sunholo/axiscore/internal/errors"
)

// Config holds project-level defaults. Every field mirrors a CLI flag and
// is overridden by that flag whenever both are present.
type Config struct {
	DefaultRegistries []string `yaml:"registries"`
	Profile           string   `yaml:"profile"`
	OutDir            string   `yaml:"out_dir"`
}

// Error wraps a config load failure as an IO003 diagnostic.
type Error struct {
	axerrors.Diagnostic
}

func (e *Error) Error() string { return e.Diagnostic.String() }

// Load reads and parses path. A missing file is not an error: it returns
// a zero-value Config, since the project file is always optional.
func Load(path string) (*Config, *Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, &Error{axerrors.Diagnostic{
			Code: axerrors.IO003, File: path, Line: 0, Column: 0,
			Message: fmt.Sprintf("cannot read config file: %v", err),
		}}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{axerrors.Diagnostic{
			Code: axerrors.IO003, File: path, Line: 0, Column: 0,
			Message: fmt.Sprintf("malformed config file: %v", err),
		}}
	}
	return &cfg, nil
}

// Merge layers CLI-supplied values over the config's defaults. A flag
// value is considered "set" by the caller passing a non-zero value for
// it; empty/nil CLI values fall back to the config.
func Merge(cfg *Config, cliRegistries []string, cliProfile, cliOutDir string) (registries []string, profile string, outDir string) {
	registries = cliRegistries
	if len(registries) == 0 {
		registries = cfg.DefaultRegistries
	}

	profile = cliProfile
	if profile == "" {
		profile = cfg.Profile
	}
	if profile == "" {
		profile = "default"
	}

	outDir = cliOutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}

	return registries, profile, outDir
}
