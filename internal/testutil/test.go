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

// Package test provides helpers and fixtures shared by the package tests: a
// cached test configuration, caption payloads, and in-memory fakes for the
// video platform, the caption fetcher and the oracle.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
)

// StateManager caches the test configuration across tests.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test configuration files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig returns the test configuration, loading it on first use. Tests run
// from the package directory, where no configs directory exists, so the
// defaults of cloud.NewConfig apply unless a test writes its own files.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// GetTestCourseRequestMessageText is the body of a course request message as
// published to the course request topic.
func GetTestCourseRequestMessageText() string {
	return `{
  "subject": "Python Programming",
  "difficulty": "beginner"
}`
}
