// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package main

import (
	"github.com/hchauvin/smoke/pkg/config"
	"github.com/hchauvin/smoke/pkg/log"
	"github.com/hchauvin/smoke/pkg/telemetry"
	_ "github.com/hchauvin/smoke/pkg/telemetry/mongo"
	"github.com/urfave/cli"
	"os"
	"path/filepath"
	"time"
)

type commandTelemetry struct {
	client     telemetry.Client
	invocation telemetry.CLIInvocation
}

func commandInvoked(c *cli.Context) *commandTelemetry {
	invocation := telemetry.NewCLIInvocation(telemetry.CLIVersion{
		Version: version,
		Commit:  commit,
		Date:    date,
	}, os.Args)

	logger := &log.Logger{Writer: c.App.Writer}
	cfg, err := readConfig(c.GlobalString("cwd"), c.GlobalString("config"), logger)
	if err != nil {
		return &commandTelemetry{telemetry.Discard, invocation}
	}

	if cfg.Telemetry.ConnectionString == "" {
		return &commandTelemetry{telemetry.Discard, invocation}
	}

	client, err := telemetry.NewClient(cfg.Telemetry.ConnectionString)
	if err != nil {
		cfg.Logger().Error("telemetry", "could not create telemetry client: %v", err)
		return &commandTelemetry{telemetry.Discard, invocation}
	}

	client.Send(invocation)

	return &commandTelemetry{
		client,
		invocation,
	}
}

// completed sends the completion of the command, then waits for all
// the telemetry to be sent.
func (cmdtel *commandTelemetry) completed(err error) {
	var errStr *string
	if err != nil {
		errS := err.Error()
		errStr = &errS
	}
	cmdtel.client.Send(telemetry.CLICompletion{
		CLIInvocation: cmdtel.invocation,
		Completed:     time.Now(),
		Err:           errStr,
	})
	cmdtel.client.Close()
}

func readConfig(workingDir, configPath string, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Read(filepath.Join(workingDir, configPath))
	if err != nil {
		return nil, err
	}
	cfg.SetLogger(logger)
	return cfg, nil
}
