// config provides TOML-based configuration for smoke (.smokerc.toml).  Used
// to set defaults for the checks, amongst other things.
//
// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package config

import (
	"github.com/hchauvin/smoke/pkg/log"
	"path/filepath"
	"sync"
)

// DefaultFileName is the name of the project-wide configuration file.
const DefaultFileName = ".smokerc.toml"

// Config is the project-wide configuration for smoke.
type Config struct {
	// OutputRoot is the path to a folder, given relative to
	// the parent folder of the Config file, where all the
	// expanded checks and verdicts are put.  This folder is
	// within the workspace to allow for easy inspection
	// during debugging.
	OutputRoot string

	// Defaults apply to all the checks that do not override them.
	Defaults Defaults

	// Telemetry configures usage telemetry.
	Telemetry Telemetry

	// WorkspaceDir is the workspace directory.
	WorkspaceDir string `toml:"-"`

	loggerOnce sync.Once   `toml:"-"`
	logger     *log.Logger `toml:"-"`
}

// Defaults are the check defaults.
type Defaults struct {
	// Host is the default target host.  Defaults to "localhost".
	Host string

	// TimeoutMillis is the default probe timeout, in milliseconds.
	// Defaults to 5000.
	TimeoutMillis int `validate:"gte=0"`

	// BodyLimitBytes is the default number of body bytes that are
	// captured.  Defaults to 64 KiB.
	BodyLimitBytes int64 `validate:"gte=0"`
}

// Telemetry configures usage telemetry.
type Telemetry struct {
	// ConnectionString is the telemetry backend connection string,
	// e.g. "mongo://uri=mongodb://localhost:27017".  The mongo backend
	// writes to the "telemetry" collection of the "smoke" database unless
	// the "database" and "collection" options say otherwise.  Telemetry
	// is disabled when it is empty.
	ConnectionString string
}

// Path resolves a path relative to the workspace dir.
func (cfg *Config) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.WorkspaceDir, path)
}

// Logger gives the logger associated with this configuration.
func (cfg *Config) Logger() *log.Logger {
	cfg.loggerOnce.Do(func() {
		if cfg.logger == nil {
			cfg.logger = &log.Logger{}
		}
	})
	return cfg.logger
}

// SetLogger sets the logger associated with this configuration.  It must
// be called before the first call to Logger.
func (cfg *Config) SetLogger(logger *log.Logger) {
	cfg.logger = logger
}
