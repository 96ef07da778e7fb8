// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package main

import (
	"context"
	"errors"
	"github.com/hchauvin/smoke/pkg/log"
	"github.com/hchauvin/smoke/pkg/log/interactive"
	"github.com/hchauvin/smoke/pkg/smoke"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
	"os"
	"os/signal"
)

func runCheck(c *cli.Context, t *commandTelemetry) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one check file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt)
	defer signal.Stop(signalc)
	go func() {
		select {
		case <-signalc:
			cancel()
		case <-ctx.Done():
		}
	}()

	logger := &log.Logger{Writer: c.App.Writer}
	checkCfg := &smoke.CheckCfg{
		WorkingDir:   c.GlobalString("cwd"),
		ConfigPath:   c.GlobalString("config"),
		CheckPath:    c.Args().First(),
		Logger:       logger,
		Telemetry:    t.client,
		InvocationID: t.invocation.ID,
	}

	interactiveMode := c.Bool("interactive")
	if interactiveMode && !interactive.IsTerminal(c.App.Writer) {
		logger.Warning(logDomain, "%v: interactive mode is disabled", interactive.ErrNotTerminal)
		interactiveMode = false
	}

	var outcome *smoke.Outcome
	var err error
	if interactiveMode {
		outcome, err = checkInteractively(ctx, checkCfg, func(eventc <-chan interface{}, done <-chan struct{}) error {
			return interactive.Report(logger, c.App.Writer, eventc, done)
		})
	} else {
		outcome, err = smoke.Check(ctx, checkCfg)
	}
	if err != nil {
		return err
	}

	if err := outcome.Verdict.Err(); err != nil {
		if c.Bool("advisory") {
			logger.Warning(logDomain, "advisory mode: ignoring failed verdict")
			return nil
		}
		return err
	}
	return nil
}

type reportFunc func(eventc <-chan interface{}, done <-chan struct{}) error

// checkInteractively runs the check while report renders its events.  A
// failing report is logged, and the check goes on without it.
func checkInteractively(ctx context.Context, checkCfg *smoke.CheckCfg, report reportFunc) (*smoke.Outcome, error) {
	eventc := make(chan interface{})
	done := make(chan struct{})
	cfg := *checkCfg
	cfg.Events = eventc

	var outcome *smoke.Outcome
	var g errgroup.Group
	g.Go(func() error {
		if err := report(eventc, done); err != nil {
			cfg.Logger.Warning(logDomain, "interactive output failed: %v", err)
		}
		for {
			select {
			case <-eventc:
			case <-done:
				return nil
			}
		}
	})
	g.Go(func() error {
		defer close(done)
		var err error
		outcome, err = smoke.Check(ctx, &cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcome, nil
}
