// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package checks

import (
	"errors"
	"fmt"
	"github.com/hchauvin/smoke/pkg/config"
	"github.com/hchauvin/smoke/pkg/templates"
	"github.com/imdario/mergo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
	"path/filepath"
)

// Read reads a check from a file on the local file system.  The path
// is given relative to the workspace root (see config.Config.WorkspaceDir).
// When the path is a folder, the check is read from the "check.yml" file
// in this folder.
//
// Check files are gotemplates: they are expanded with the sprig functions
// before being parsed, so that "{{ env "LIBERTY_TEST_PORT" }}" gives the
// value of an environment variable.
//
// The resulting check is expanded: all the base checks that are
// referenced in the check are merged, and the project defaults
// are applied.
func Read(cfg *config.Config, path string) (*Check, error) {
	return ReadFs(cfg, path, afero.NewOsFs())
}

// ReadFs does the same as Read but on an arbitrary afero file system.
func ReadFs(cfg *config.Config, path string, fs afero.Fs) (*Check, error) {
	check, err := read(cfg, path, fs, make(map[string]struct{}))
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg, check)

	if err := validate.Struct(check); err != nil {
		return nil, fmt.Errorf("%s: invalid check: %v", path, err)
	}

	return check, nil
}

func read(
	cfg *config.Config,
	path string,
	fs afero.Fs,
	visitedPaths map[string]struct{},
) (*Check, error) {
	if _, ok := visitedPaths[path]; ok {
		return nil, errors.New("check bases: cycle detected")
	}

	fullPath := cfg.Path(path)
	if isDir, err := afero.IsDir(fs, fullPath); isDir && err == nil {
		fullPath = filepath.Join(fullPath, DefaultFileName)
	}

	tpl, err := afero.ReadFile(fs, fullPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read check file %s: %v", path, err)
	}

	yamlCheck, err := templates.Expand(path, string(tpl), map[string]interface{}{
		"Root": cfg.WorkspaceDir,
	})
	if err != nil {
		return nil, fmt.Errorf("check %s: %v", path, err)
	}

	check := &Check{}
	if err := yaml.UnmarshalStrict(yamlCheck, check); err != nil {
		return nil, fmt.Errorf("check %s: %v", path, err)
	}

	if len(check.Bases) > 0 {
		nextVisitedPaths := make(map[string]struct{})
		for p := range visitedPaths {
			nextVisitedPaths[p] = struct{}{}
		}
		nextVisitedPaths[path] = struct{}{}

		mergedCheck := &Check{}
		for _, base := range check.Bases {
			baseCheck, err := read(cfg, base, fs, nextVisitedPaths)
			if err != nil {
				return nil, err
			}
			if err := mergeChecks(mergedCheck, baseCheck); err != nil {
				return nil, fmt.Errorf("could not merge check '%s' with base '%s': %v", path, base, err)
			}
		}

		if err := mergeChecks(mergedCheck, check); err != nil {
			return nil, fmt.Errorf("could not merge check '%s' with its bases: %v", path, err)
		}

		check = mergedCheck
	}

	check.Path = fullPath

	return check, nil
}

// mergeChecks merges patch into dest.  Non-empty fields in patch win,
// slices included.
func mergeChecks(dest, patch *Check) error {
	return mergo.Merge(dest, patch, mergo.WithOverride)
}

func applyDefaults(cfg *config.Config, check *Check) {
	check.Bases = nil
	if check.Target.Host == "" {
		check.Target.Host = cfg.Defaults.Host
	}
	if check.TimeoutMillis == 0 {
		check.TimeoutMillis = cfg.Defaults.TimeoutMillis
	}
	if check.BodyLimitBytes == 0 {
		check.BodyLimitBytes = cfg.Defaults.BodyLimitBytes
	}
}
