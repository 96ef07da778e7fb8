// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package checks

import (
	"github.com/hchauvin/smoke/pkg/config"
	"github.com/hchauvin/smoke/pkg/verify"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
	"path/filepath"
)

const logDomain = "checks"

// OutputDir gives the folder where the artifacts of the check are written.
func (check *Check) OutputDir(cfg *config.Config) string {
	return cfg.Path(filepath.Join(cfg.OutputRoot, "checks", check.Name))
}

// Expand writes the check, merged with its bases and with the defaults
// applied, in a YAML file in the output folder.
func (check *Check) Expand(cfg *config.Config) error {
	return check.ExpandFs(cfg, afero.NewOsFs())
}

// ExpandFs does the same as Expand but on an arbitrary afero file system.
func (check *Check) ExpandFs(cfg *config.Config, fs afero.Fs) error {
	checkPath, err := writeYaml(fs, check.OutputDir(cfg), "expanded_check.yml", check)
	if err != nil {
		return err
	}
	cfg.Logger().Info(logDomain, "check expanded to '%s'", checkPath)
	return nil
}

// Report is the persisted outcome of a check.
type Report struct {
	Check         string         `yaml:"check"`
	URL           string         `yaml:"url"`
	StatusCode    int            `yaml:"statusCode,omitempty"`
	Truncated     bool           `yaml:"truncated,omitempty"`
	ElapsedMillis int64          `yaml:"elapsedMillis"`
	Verdict       verify.Verdict `yaml:"verdict"`
}

// WriteReport writes the report of the check in the output folder.
func (check *Check) WriteReport(cfg *config.Config, report *Report) error {
	return check.WriteReportFs(cfg, afero.NewOsFs(), report)
}

// WriteReportFs does the same as WriteReport but on an arbitrary afero
// file system.
func (check *Check) WriteReportFs(cfg *config.Config, fs afero.Fs, report *Report) error {
	reportPath, err := writeYaml(fs, check.OutputDir(cfg), "verdict.yml", report)
	if err != nil {
		return err
	}
	cfg.Logger().Info(logDomain, "verdict written to '%s'", reportPath)
	return nil
}

func writeYaml(fs afero.Fs, dir, name string, v interface{}) (string, error) {
	if err := fs.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, b, 0666); err != nil {
		return "", err
	}
	return path, nil
}
