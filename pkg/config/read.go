// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package config

import (
	"fmt"
	"github.com/go-playground/validator"
	"github.com/hchauvin/smoke/pkg/templates"
	"github.com/pelletier/go-toml"
	"github.com/spf13/afero"
	"os"
	"path/filepath"
)

const (
	defaultOutputRoot     = ".smoke"
	defaultHost           = "localhost"
	defaultTimeoutMillis  = 5000
	defaultBodyLimitBytes = 64 * 1024
)

// Read reads the project-wide configuration.
func Read(path string) (*Config, error) {
	return ReadFs(afero.NewOsFs(), path)
}

// ReadFs does the same as Read but on an arbitrary afero file system.
// A missing file gives the default configuration, rooted at the
// folder the file would be in.
func ReadFs(fs afero.Fs, path string) (*Config, error) {
	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	b, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read config file '%s': %v", path, err)
	}
	if err == nil {
		expanded, err := templates.Expand("config", string(b), map[string]interface{}{
			"Root": root,
		})
		if err != nil {
			return nil, err
		}

		if err := toml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %v", err)
		}

		if err := validator.New().Struct(cfg); err != nil {
			return nil, fmt.Errorf("invalid config: %v", err)
		}
	}

	if cfg.OutputRoot == "" {
		cfg.OutputRoot = defaultOutputRoot
	}
	if cfg.Defaults.Host == "" {
		cfg.Defaults.Host = defaultHost
	}
	if cfg.Defaults.TimeoutMillis == 0 {
		cfg.Defaults.TimeoutMillis = defaultTimeoutMillis
	}
	if cfg.Defaults.BodyLimitBytes == 0 {
		cfg.Defaults.BodyLimitBytes = defaultBodyLimitBytes
	}

	cfg.WorkspaceDir = root

	return cfg, nil
}
