// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package interactive

// SetStateEvent reports the setting of the state of a check.
type SetStateEvent struct {
	// Name is the name of the check.
	Name string
	// State is the next state of the check.
	State State
	// Stage further qualifies the state.
	Stage Stage
}

// State is the state of a check.
type State string

const (
	// Initial is the state a check is initially in.
	Initial State = "initial"
	// Started is the state a check is in after the target
	// has started being resolved.
	Started State = "started"
	// Passed is the state a check is in after a passed verdict.
	Passed State = "passed"
	// Failed is the state a check is in after a failed verdict or
	// an error.
	Failed State = "failed"
)

func (state State) done() bool {
	return state == Passed || state == Failed
}

// Stage is the stage a started check is in.
type Stage string

const (
	Resolving Stage = "resolving"
	Fetching  Stage = "fetching"
	Verifying Stage = "verifying"
)
