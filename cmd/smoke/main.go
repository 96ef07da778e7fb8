// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package main

import (
	"fmt"
	"github.com/hchauvin/smoke/pkg/log"
	"github.com/hchauvin/smoke/pkg/smoke"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
	"os"
	"path/filepath"
)

var (
	version = "dev"
	commit  = "<none>"
	date    = "<unknown>"
)

const logDomain = "main"

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		if _, err := fmt.Fprintf(os.Stderr, "%v\n", err); err != nil {
			panic(err.Error())
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = fmt.Sprintf("%s (commit: %s; date: %s)", version, commit, date)
	app.Name = "smoke"
	app.Usage = "Smoke-tests an HTTP endpoint"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML project-wide config file.  The parent path of the config file is used as the workspace root.  All the file paths are given relative to the workspace root.",
			Value: ".smokerc.toml",
		},
		cli.StringFlag{
			Name:  "cwd",
			Usage: "Working directory",
			Value: ".",
		},
		cli.StringFlag{
			Name:  "env_file",
			Usage: "Dotenv file, relative to the working directory, that is loaded before the checks are read.  Variables already set in the environment win.",
			Value: ".env",
		},
	}
	app.Before = func(c *cli.Context) error {
		return loadEnvFile(filepath.Join(c.GlobalString("cwd"), c.GlobalString("env_file")))
	}
	app.Commands = []cli.Command{
		{
			Name:        "check",
			Usage:       "Runs a check",
			ArgsUsage:   "<check file>",
			Description: "Sends a single GET request to the target of a check, then verifies the status code and the body of the response.  The check file is either directly the YAML definition, or a folder that contains a 'check.yml' file.  The path is given relative to the workspace root (parent folder of the global TOML config).",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "interactive",
					Usage: "Shows the progress of the check on the terminal",
				},
				cli.BoolFlag{
					Name:  "advisory",
					Usage: "Do not fail on a failed verdict: the result (pass/fail) is advisory only.  Configuration errors still fail.",
				},
			},
			Action: func(c *cli.Context) (err error) {
				t := commandInvoked(c)
				defer func() { t.completed(err) }()
				err = runCheck(c, t)
				return
			},
		},
		{
			Name:        "resolve",
			Usage:       "Resolves the URL a check targets",
			ArgsUsage:   "<check file>",
			Description: "Prints the URL a check targets, without sending any request.",
			Action: func(c *cli.Context) (err error) {
				t := commandInvoked(c)
				defer func() { t.completed(err) }()
				url, err := smoke.Resolve(&smoke.ResolveCfg{
					WorkingDir: c.GlobalString("cwd"),
					ConfigPath: c.GlobalString("config"),
					CheckPath:  c.Args().First(),
					Logger:     &log.Logger{Writer: c.App.Writer},
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.App.Writer, url)
				return err
			},
		},
		{
			Name:        "lint",
			Usage:       "Lints checks",
			ArgsUsage:   "<check file> [check files...]",
			Description: "Reads the checks, merges their bases, and resolves their targets, without sending any request.",
			Action: func(c *cli.Context) (err error) {
				t := commandInvoked(c)
				defer func() { t.completed(err) }()
				err = smoke.Lint(&smoke.LintCfg{
					WorkingDir: c.GlobalString("cwd"),
					ConfigPath: c.GlobalString("config"),
					CheckPaths: c.Args(),
					Logger:     &log.Logger{Writer: c.App.Writer},
				})
				return
			},
		},
	}

	return app
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cannot load env file '%s': %v", path, err)
	}
	return nil
}
