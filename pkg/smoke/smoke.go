// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package smoke implements the entry points of the command-line
// interface: a check resolves its target, probes it once, and
// verifies the response.
package smoke

import (
	"context"
	"fmt"
	"github.com/hchauvin/smoke/pkg/checks"
	"github.com/hchauvin/smoke/pkg/config"
	"github.com/hchauvin/smoke/pkg/log"
	"github.com/hchauvin/smoke/pkg/log/interactive"
	"github.com/hchauvin/smoke/pkg/probe"
	"github.com/hchauvin/smoke/pkg/target"
	"github.com/hchauvin/smoke/pkg/telemetry"
	"github.com/hchauvin/smoke/pkg/verify"
	"path/filepath"
	"time"
)

const logDomain = "smoke"

// CheckCfg gives the configuration for the Check function.
type CheckCfg struct {
	WorkingDir string
	ConfigPath string
	CheckPath  string

	// Logger overrides the logger of the project configuration.
	Logger *log.Logger

	// Events, when set, receives interactive.SetStateEvent events
	// as the check progresses.
	Events chan<- interface{}

	// Telemetry, when set, receives a telemetry.CheckCompletion
	// payload with the outcome of the check.
	Telemetry    telemetry.Client
	InvocationID string
}

// Outcome is the outcome of a check.
type Outcome struct {
	Check    *checks.Check
	URL      string
	Response *probe.Response
	Verdict  verify.Verdict
}

// Check runs a check.  A failed verdict is not an error: it is given
// in the outcome, and Outcome.Verdict.Err() converts it to an error.
// An error is returned when the check cannot be run at all, e.g.
// because the target configuration is invalid (see
// target.IsConfigurationError).
func Check(ctx context.Context, checkCfg *CheckCfg) (*Outcome, error) {
	cfg, err := readConfig(checkCfg.WorkingDir, checkCfg.ConfigPath, checkCfg.Logger)
	if err != nil {
		return nil, err
	}

	check, err := checks.Read(cfg, checkCfg.CheckPath)
	if err != nil {
		return nil, err
	}

	emit := func(state interactive.State, stage interactive.Stage) {
		if checkCfg.Events != nil {
			checkCfg.Events <- interactive.SetStateEvent{Name: check.Name, State: state, Stage: stage}
		}
	}

	emit(interactive.Started, interactive.Resolving)
	url, err := target.Resolve(check.Target)
	if err != nil {
		emit(interactive.Failed, "")
		cfg.Logger().Error(logDomain, "check '%s': %v", check.Name, err)
		return nil, fmt.Errorf("check '%s': %w", check.Name, err)
	}
	cfg.Logger().Info(logDomain, "check '%s': target resolved to %s", check.Name, url)

	if err := check.Expand(cfg); err != nil {
		emit(interactive.Failed, "")
		return nil, err
	}

	emit(interactive.Started, interactive.Fetching)
	resp, err := probe.New(check.ProbeOptions()).Fetch(ctx, url)
	if err != nil {
		emit(interactive.Failed, "")
		return nil, fmt.Errorf("check '%s': %v", check.Name, err)
	}

	emit(interactive.Started, interactive.Verifying)
	verdict := verify.Verify(resp, check.Expect)

	outcome := &Outcome{
		Check:    check,
		URL:      url,
		Response: resp,
		Verdict:  verdict,
	}

	if verdict.Passed {
		cfg.Logger().Info(
			logDomain,
			"check '%s' passed: status %d in %s",
			check.Name, resp.StatusCode, resp.Elapsed.Round(time.Millisecond))
	} else {
		cfg.Logger().Error(logDomain, "check '%s' failed: %s", check.Name, verdict.Message)
	}
	if resp.Truncated {
		cfg.Logger().Warning(
			logDomain,
			"check '%s': body truncated to %d bytes",
			check.Name, check.BodyLimitBytes)
	}

	if err := check.WriteReport(cfg, outcome.report()); err != nil {
		emit(interactive.Failed, "")
		return nil, err
	}

	if checkCfg.Telemetry != nil {
		checkCfg.Telemetry.Send(outcome.completion(checkCfg.InvocationID))
	}

	if verdict.Passed {
		emit(interactive.Passed, "")
	} else {
		emit(interactive.Failed, "")
	}

	return outcome, nil
}

func (outcome *Outcome) report() *checks.Report {
	return &checks.Report{
		Check:         outcome.Check.Name,
		URL:           outcome.URL,
		StatusCode:    outcome.Response.StatusCode,
		Truncated:     outcome.Response.Truncated,
		ElapsedMillis: outcome.Response.Elapsed.Milliseconds(),
		Verdict:       outcome.Verdict,
	}
}

func (outcome *Outcome) completion(invocationID string) telemetry.CheckCompletion {
	return telemetry.CheckCompletion{
		InvocationID:  invocationID,
		Check:         outcome.Check.Name,
		URL:           outcome.URL,
		Passed:        outcome.Verdict.Passed,
		Kind:          string(outcome.Verdict.Kind),
		StatusCode:    outcome.Response.StatusCode,
		ElapsedMillis: outcome.Response.Elapsed.Milliseconds(),
		Completed:     time.Now(),
	}
}

// ResolveCfg gives the configuration for the Resolve function.
type ResolveCfg struct {
	WorkingDir string
	ConfigPath string
	CheckPath  string
	Logger     *log.Logger
}

// Resolve resolves the URL a check targets, without probing it.
func Resolve(resolveCfg *ResolveCfg) (string, error) {
	cfg, err := readConfig(resolveCfg.WorkingDir, resolveCfg.ConfigPath, resolveCfg.Logger)
	if err != nil {
		return "", err
	}

	check, err := checks.Read(cfg, resolveCfg.CheckPath)
	if err != nil {
		return "", err
	}

	url, err := target.Resolve(check.Target)
	if err != nil {
		return "", fmt.Errorf("check '%s': %w", check.Name, err)
	}
	return url, nil
}

// LintCfg gives the configuration for the Lint function.
type LintCfg struct {
	WorkingDir string
	ConfigPath string
	CheckPaths []string
	Logger     *log.Logger
}

// Lint reads the checks, with their bases, and resolves their targets.
// Nothing is sent on the network.  All the checks are linted, and the
// first error is returned.
func Lint(lintCfg *LintCfg) error {
	cfg, err := readConfig(lintCfg.WorkingDir, lintCfg.ConfigPath, lintCfg.Logger)
	if err != nil {
		return err
	}

	var firstErr error
	for _, checkPath := range lintCfg.CheckPaths {
		if err := lintOne(cfg, checkPath); err != nil {
			cfg.Logger().Error(logDomain, "%s: %v", checkPath, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func lintOne(cfg *config.Config, checkPath string) error {
	check, err := checks.Read(cfg, checkPath)
	if err != nil {
		return err
	}

	url, err := target.Resolve(check.Target)
	if err != nil {
		return fmt.Errorf("check '%s': %w", check.Name, err)
	}

	cfg.Logger().Info(logDomain, "check '%s' is valid: GET %s", check.Name, url)
	return nil
}

func readConfig(workingDir, configPath string, logger *log.Logger) (*config.Config, error) {
	fullPath := filepath.Join(workingDir, configPath)
	cfg, err := config.Read(fullPath)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		cfg.SetLogger(logger)
	}
	return cfg, nil
}
