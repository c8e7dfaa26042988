// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for the
// course workflows: commands that read their input from a shared Context,
// write their output back to it, and chains that run commands in order.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe the output of one
// command into the input of the next.
const (
	// CtxIn is the default key for the primary input of a command.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the state shared by the commands of one workflow execution. It
// carries data, the errors recorded by commands, and the Go context used for
// cancellation and tracing.
type Context interface {
	// SetContext sets the Go context used by the next command.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores value under key and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error, keyed by the name of the command that failed.
	AddError(key string, err error)

	// GetErrors returns every recorded error keyed by command name.
	GetErrors() map[string]error

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes key.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool
}

// Executable is anything with execution logic driven by a Context.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, instrumented unit of work.
type Command interface {
	Executable

	// GetName returns the name used for logs, spans and metrics.
	GetName() string

	// GetInputParam returns the key of the command's primary input.
	GetInputParam() string

	// GetOutputParam returns the key of the command's primary output.
	GetOutputParam() string

	// IsExecutable reports whether the Context holds what the command needs.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command so
// chains can be nested.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps running commands after
	// one of them recorded an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends command to the sequence.
	AddCommand(command Command) Chain
}
