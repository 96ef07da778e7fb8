// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package checks defines the check API.  A check describes a single
// endpoint to probe and what its response must look like.
package checks

import (
	"github.com/hchauvin/smoke/pkg/probe"
	"github.com/hchauvin/smoke/pkg/target"
	"github.com/hchauvin/smoke/pkg/verify"
	"time"
)

// DefaultFileName is the name of the check file that is read when a
// folder is given instead of a file.
const DefaultFileName = "check.yml"

// Check defines a smoke check.
type Check struct {
	// Name identifies the check.  It is used to name the output folder.
	Name string `yaml:"name" validate:"required,name"`

	// Bases contains base files to merge into this check.  The file names
	// must be relative to the root given in the .smokerc.toml
	// configuration.
	//
	// Loops in the inheritance chain are forbidden and explicitly
	// controlled for.
	Bases []string `yaml:"bases,omitempty"`

	// Target is the endpoint to probe.  It is validated when it is
	// resolved, see target.Resolve.
	Target target.Config `yaml:"target" validate:"-"`

	// Expect is what the response must satisfy.
	Expect verify.Expectation `yaml:"expect"`

	// TimeoutMillis is the probe timeout, in milliseconds.
	TimeoutMillis int `yaml:"timeoutMillis,omitempty" validate:"gte=0"`

	// BodyLimitBytes is the number of body bytes that are captured.
	BodyLimitBytes int64 `yaml:"bodyLimitBytes,omitempty" validate:"gte=0"`

	// HTTPHeaders are custom headers to set in the request.
	HTTPHeaders []probe.Header `yaml:"httpHeaders,omitempty" validate:"dive"`

	// Path is the absolute path to the check definition.  It is
	// resolved by Read.
	Path string `yaml:"-"`
}

// ProbeOptions gives the options to create a prober for this check.
func (check *Check) ProbeOptions() probe.Options {
	return probe.Options{
		Timeout:   time.Duration(check.TimeoutMillis) * time.Millisecond,
		BodyLimit: check.BodyLimitBytes,
		Headers:   check.HTTPHeaders,
	}
}
