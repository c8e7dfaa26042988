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

package cor

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// BaseContext is the default Context implementation. It is not safe for
// concurrent use; each workflow execution owns its own instance.
type BaseContext struct {
	data    map[string]interface{}
	errors  map[string]error
	context context.Context
}

// NewBaseContext returns an empty context. Callers must set the Go context with
// SetContext before executing a command.
func NewBaseContext() Context {
	return &BaseContext{
		data:   make(map[string]interface{}),
		errors: make(map[string]error),
	}
}

// NewContextFor returns an empty context bound to ctx.
func NewContextFor(ctx context.Context) Context {
	out := NewBaseContext()
	out.SetContext(ctx)
	return out
}

func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

func (c *BaseContext) AddError(key string, err error) {
	c.errors[key] = err
}

func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}

// JoinErrors combines the errors recorded in c into a single error, ordered by
// command name. It returns nil when no error was recorded.
func JoinErrors(c Context) error {
	recorded := c.GetErrors()
	if len(recorded) == 0 {
		return nil
	}
	keys := make([]string, 0, len(recorded))
	for k := range recorded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, fmt.Errorf("%s: %w", k, recorded[k]))
	}
	return errors.Join(errs...)
}
