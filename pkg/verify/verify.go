// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package verify evaluates a probed response against expectations.
package verify

import (
	"fmt"
	"github.com/hchauvin/smoke/pkg/probe"
	"net/http"
	"strings"
)

// Expectation is what a response must satisfy.
type Expectation struct {
	// Status is the expected HTTP status code.  Zero means 200.
	Status int `yaml:"status,omitempty" validate:"omitempty,min=100,max=599"`

	// BodyContains is a literal fragment that the body must contain.
	// An empty fragment is contained in every body.
	BodyContains string `yaml:"bodyContains,omitempty"`
}

// ExpectedStatus gives the expected HTTP status code, with the default
// applied.
func (expect Expectation) ExpectedStatus() int {
	if expect.Status == 0 {
		return http.StatusOK
	}
	return expect.Status
}

// Kind is the kind of a failed verdict.
type Kind string

const (
	// Pass is the kind of a passed verdict.
	Pass Kind = ""

	// TransportFailure means that no response could be received.
	TransportFailure Kind = "transport"

	// StatusMismatch means that a response was received with an unexpected
	// status code.
	StatusMismatch Kind = "status"

	// BodyMismatch means that the body did not contain the expected
	// fragment.
	BodyMismatch Kind = "body"
)

// Verdict is the outcome of a verification.
type Verdict struct {
	Passed  bool   `yaml:"passed"`
	Kind    Kind   `yaml:"kind,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Err converts the verdict into an error.  It returns nil when the verdict
// passed, and a *Failure otherwise.
func (v Verdict) Err() error {
	if v.Passed {
		return nil
	}
	return &Failure{Kind: v.Kind, Message: v.Message}
}

// Failure is the error counterpart of a failed verdict.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// IsAssertion tells whether a response was received but did not match.
func (f *Failure) IsAssertion() bool {
	return f.Kind == StatusMismatch || f.Kind == BodyMismatch
}

// Verify checks a response against an expectation.  The transport error
// is checked first, then the status code, then the body.  Only the first
// failure is reported.
func Verify(resp *probe.Response, expect Expectation) Verdict {
	if resp == nil {
		return fail(TransportFailure, "HTTP GET failed: no response")
	}

	if resp.TransportErr != nil {
		return fail(TransportFailure, fmt.Sprintf("HTTP GET failed: %v", resp.TransportErr))
	}

	if expected := expect.ExpectedStatus(); resp.StatusCode != expected {
		return fail(
			StatusMismatch,
			fmt.Sprintf("GET %s: expected status %d, got %d", resp.URL, expected, resp.StatusCode))
	}

	if !strings.Contains(resp.Body, expect.BodyContains) {
		observed := "full body"
		if resp.Truncated {
			observed = fmt.Sprintf("first %d bytes of the body", len(resp.Body))
		}
		return fail(
			BodyMismatch,
			fmt.Sprintf(
				"GET %s: expected body to contain '%s', %s was:\n%s",
				resp.URL, expect.BodyContains, observed, resp.Body))
	}

	return Verdict{Passed: true}
}

func fail(kind Kind, message string) Verdict {
	return Verdict{Kind: kind, Message: message}
}
