// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package interactive reports the progress of checks on the terminal.
package interactive

import (
	"errors"
	"fmt"
	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/hchauvin/smoke/pkg/log"
	"io"
	"os"
	"sort"
	"time"
)

// ErrNotTerminal is returned by Report when its output is not a terminal.
var ErrNotTerminal = errors.New("output is not a terminal")

// Report reports a stream of events in an interactive way, using
// an array of fixed terminal lines written to w.  It returns when done
// is closed, or on the first error.  Callers should keep draining
// eventc after an error.
func Report(l *log.Logger, w io.Writer, eventc <-chan interface{}, done <-chan struct{}) error {
	if !IsTerminal(w) {
		return ErrNotTerminal
	}
	ticker := time.NewTicker(refreshDuration)
	defer ticker.Stop()
	r := &terminalReporter{fixed: newFixedTerminalLines(w.(*os.File))}
	return report(l, eventc, done, clock.New(), ticker.C, r)
}

// refreshDuration is the duration between two refreshes of the interactive output.
const refreshDuration = 50 * time.Millisecond

// checkPersistenceDuration is the duration a check is kept in the
// interactive output after its verdict.
const checkPersistenceDuration = 500 * time.Millisecond

type checkProgress struct {
	state     State
	stage     Stage
	started   *time.Time
	completed *time.Time
}

type summary struct {
	passed        int
	failed        int
	totalDuration time.Duration
}

type reporter interface {
	replace(lines []string) error
	summarize(s summary) error
}

func report(
	l *log.Logger,
	eventc <-chan interface{},
	done <-chan struct{},
	clk clock.Clock,
	tickerc <-chan time.Time,
	r reporter,
) error {
	start := clk.Now()

	l.SetInteractive(true)
	defer l.SetInteractive(false)

	progress := make(map[string]checkProgress)

	for {
		select {
		case <-done:
			if err := r.replace(nil); err != nil {
				return err
			}
			return r.summarize(summarize(progress, clk.Now().Sub(start)))
		case e := <-eventc:
			if et, ok := e.(SetStateEvent); ok {
				p := progress[et.Name]
				now := clk.Now()
				switch {
				case et.State == Started:
					if p.started == nil {
						p.started = &now
					}
				case et.State.done():
					if p.started == nil {
						p.started = &now
					}
					p.completed = &now
				}
				p.state = et.State
				p.stage = et.Stage
				progress[et.Name] = p
			}
			continue
		case <-tickerc:
		}

		if err := r.replace(render(progress, clk, start)); err != nil {
			return err
		}
	}
}

func render(progress map[string]checkProgress, clk clock.Clock, start time.Time) []string {
	now := clk.Now()

	sortedNames := make([]string, 0, len(progress))
	for name := range progress {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)

	bold := color.New(color.Bold).SprintFunc()
	lines := make([]string, 0, len(progress)+1)
	doneCount := 0
	for _, name := range sortedNames {
		p := progress[name]

		if p.state.done() {
			doneCount++
		}

		var line string
		if p.completed != nil {
			if clk.Since(*p.completed) < checkPersistenceDuration {
				duration := p.completed.Sub(*p.started).Seconds()
				line = fmt.Sprintf(bold("=> [%4.1fs]")+" %s "+bold("%s"), duration, name, p.state)
			}
		} else if p.started != nil {
			duration := now.Sub(*p.started).Seconds()
			line = fmt.Sprintf(bold("=> [%4.1fs]")+" %s %s", duration, name, p.stage)
		}

		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	header := fmt.Sprintf(
		"Checking [%d/%d, %3.1fs]:",
		doneCount,
		len(progress),
		now.Sub(start).Seconds())
	return append([]string{header}, lines...)
}

func summarize(progress map[string]checkProgress, totalDuration time.Duration) summary {
	s := summary{totalDuration: totalDuration.Round(time.Millisecond)}
	for _, p := range progress {
		switch p.state {
		case Passed:
			s.passed++
		case Failed:
			s.failed++
		}
	}
	return s
}
