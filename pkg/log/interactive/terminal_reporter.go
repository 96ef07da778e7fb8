// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package interactive

import (
	"fmt"
)

type terminalReporter struct {
	fixed *fixedTerminalLines
}

func (r *terminalReporter) replace(lines []string) error {
	return r.fixed.replace(lines)
}

func (r *terminalReporter) summarize(s summary) error {
	fmt.Fprintf(r.fixed.out, "----------------------------\n")
	fmt.Fprintf(r.fixed.out, "Checks: %d passed, %d failed\n", s.passed, s.failed)
	fmt.Fprintf(r.fixed.out, "Total duration: %s\n", s.totalDuration)
	return nil
}
