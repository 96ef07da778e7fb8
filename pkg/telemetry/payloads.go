// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin
package telemetry

import (
	"github.com/google/uuid"
	"os"
	"time"
)

type CLIVersion struct {
	Version string `bson:"version"`
	Commit  string `bson:"commit"`
	Date    string `bson:"date"`
}

// CLIInvocation is sent when a command is invoked.  ID correlates the
// invocation with the payloads sent afterwards.
type CLIInvocation struct {
	ID         string `bson:"id"`
	CLIVersion `bson:",inline"`
	User       string    `bson:"user"`
	Started    time.Time `bson:"started"`
	Args       []string  `bson:"args"`
}

// NewCLIInvocation creates an invocation payload with a fresh ID.
func NewCLIInvocation(version CLIVersion, args []string) CLIInvocation {
	return CLIInvocation{
		ID:         uuid.New().String(),
		CLIVersion: version,
		User:       os.Getenv("USER"),
		Started:    time.Now(),
		Args:       args,
	}
}

type CLICompletion struct {
	CLIInvocation `bson:",inline"`
	Completed     time.Time `bson:"completed"`
	Err           *string   `bson:"err,omitempty"`
}

// CheckCompletion is sent when a check has been verified.
type CheckCompletion struct {
	InvocationID  string    `bson:"invocationId"`
	Check         string    `bson:"check"`
	URL           string    `bson:"url"`
	Passed        bool      `bson:"passed"`
	Kind          string    `bson:"kind,omitempty"`
	StatusCode    int       `bson:"statusCode,omitempty"`
	ElapsedMillis int64     `bson:"elapsedMillis"`
	Completed     time.Time `bson:"completed"`
}
