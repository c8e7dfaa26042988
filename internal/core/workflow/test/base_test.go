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

// Package workflow_test runs the course workflows end to end against in-memory
// fakes of the oracle, the video platform and the caption host.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/telemetry"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	ctx    context.Context
	config *cloud.Config
)

const tName = "cloud.google.com/course-builder/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())

	config = test.GetConfig()

	closeLog, err := telemetry.SetupLogging(os.Stderr, config.Logging)
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")
	exitCode := m.Run()

	_ = closeLog()
	cancel()
	os.Exit(exitCode)
}
