// log implements logging.
//
// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package log

import (
	"bytes"
	"fmt"
	"github.com/fatih/color"
	"io"
	"os"
	"sync"
)

// Logger logs messages prefixed with a log domain.  The zero value
// writes to stdout.
type Logger struct {
	// Writer receives the log lines.  Defaults to os.Stdout.
	Writer io.Writer

	mut         sync.Mutex
	interactive bool
	held        bytes.Buffer
}

var formatPrefix = color.New(color.Bold).SprintFunc()
var formatWarningPrefix = color.New(color.FgMagenta).SprintFunc()
var formatErrorPrefix = color.New(color.FgRed).SprintFunc()

// Info logs an info message for the given log domain.
func (l *Logger) Info(domain string, message string, args ...interface{}) {
	l.write(formatPrefix(domain+": ") + fmt.Sprintf(message, args...) + "\n")
}

// Warning logs a warning message for the given log domain.
func (l *Logger) Warning(domain string, message string, args ...interface{}) {
	l.write(formatPrefix(domain+":") + formatWarningPrefix("WARNING: ") + fmt.Sprintf(message, args...) + "\n")
}

// Error logs an error message for the given log domain.
func (l *Logger) Error(domain string, message string, args ...interface{}) {
	l.write(formatPrefix(domain+":") + formatErrorPrefix("ERROR: ") + fmt.Sprintf(message, args...) + "\n")
}

// SetInteractive toggles interactive mode.  In interactive mode, some other
// component owns the terminal: the messages are held back, then flushed
// when interactive mode is turned off.
func (l *Logger) SetInteractive(interactive bool) {
	l.mut.Lock()
	defer l.mut.Unlock()
	l.interactive = interactive
	if !interactive && l.held.Len() > 0 {
		l.writer().Write(l.held.Bytes())
		l.held.Reset()
	}
}

func (l *Logger) write(line string) {
	l.mut.Lock()
	defer l.mut.Unlock()
	if l.interactive {
		l.held.WriteString(line)
		return
	}
	io.WriteString(l.writer(), line)
}

func (l *Logger) writer() io.Writer {
	if l.Writer == nil {
		return os.Stdout
	}
	return l.Writer
}
