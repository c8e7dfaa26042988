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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
)

const testSubject = "Go Concurrency"

func fakeFactory(oracle *test.FakeOracle, topics ...string) builderFactory {
	return func(_ context.Context, config *cloud.Config) (*workflow.CourseBuilderWorkflow, error) {
		platform := test.NewFakePlatform()
		payloads := make(map[string]string)
		for i, topic := range topics {
			url := fmt.Sprintf("https://captions/%d.vtt", i)
			track, _ := model.NewCaptionTrack("en", "vtt", url)
			captions := model.CaptionSet{Automatic: map[string][]model.CaptionTrack{"en": {track}}}
			record := test.NewVideoRecord(fmt.Sprintf("cli%08d", i+1), topic+" explained", captions)
			platform.AddVideo(commands.SearchPhrase(testSubject, topic), record)
			payloads[url] = test.GetTestVTTPayload()
		}
		return workflow.NewCourseBuilderWorkflow(oracle, platform, test.NewFakePayloadFetcher(payloads), config.PromptTemplates)
	}
}

func workingOracle() *test.FakeOracle {
	return &test.FakeOracle{
		TopicReply: "1. Goroutines\n2. Channels",
		Select: func(string) (string, error) {
			return test.SelectionReply(1, 30000, 240000), nil
		},
	}
}

func run(t *testing.T, factory builderFactory, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(factory)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config-dir", t.TempDir(), "--runtime", "test", "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateRendersTable(t *testing.T) {
	out, err := run(t, fakeFactory(workingOracle(), "Goroutines", "Channels"), "generate", "--subject", testSubject)
	require.NoError(t, err)

	assert.Contains(t, out, "GENERATED COURSE PATH")
	assert.Contains(t, out, "Title: Go Concurrency Learning Path")
	assert.Contains(t, out, "Total Topics: 2")
	assert.Contains(t, out, "Goroutines")
	assert.Contains(t, out, "Channels")
	assert.Contains(t, out, "30s-240s")
	assert.NotContains(t, out, ansiBlue)
}

func TestGenerateDetails(t *testing.T) {
	out, err := run(t, fakeFactory(workingOracle(), "Goroutines", "Channels"),
		"generate", "--subject", testSubject, "--difficulty", "intermediate", "--details")
	require.NoError(t, err)

	assert.Contains(t, out, "Target Level: intermediate")
	assert.Contains(t, out, "TOPIC 1: Goroutines")
	assert.Contains(t, out, "TOPIC 2: Channels")
	assert.Contains(t, out, "Start Time: 30 seconds")
	assert.Contains(t, out, "Prerequisites: ")
}

func TestGenerateJSONAndSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, fakeFactory(workingOracle(), "Goroutines", "Channels"),
		"generate", "--subject", testSubject, "--json", "--save", "--output", dir)
	require.NoError(t, err)

	var printed model.CourseResult
	require.NoError(t, json.Unmarshal([]byte(out), &printed))
	assert.True(t, printed.Success)
	assert.Len(t, printed.Data.Topics, 2)

	body, err := os.ReadFile(filepath.Join(dir, "course_go_concurrency_beginner.json"))
	require.NoError(t, err)
	var saved model.CourseResult
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.Equal(t, printed.Data.CoursePath.ID, saved.Data.CoursePath.ID)
}

func TestGenerateReportsSkippedTopics(t *testing.T) {
	oracle := workingOracle()
	out, err := run(t, fakeFactory(oracle, "Goroutines"), "generate", "--subject", testSubject)
	require.NoError(t, err)

	assert.Contains(t, out, "Total Topics: 1")
	assert.Contains(t, out, "Skipped 1 of 2 topics:")
	assert.Contains(t, out, "  - Channels: ")
}

func TestGenerateFailure(t *testing.T) {
	oracle := workingOracle()
	oracle.TopicErr = errors.New("quota exceeded")

	_, err := run(t, fakeFactory(oracle), "generate", "--subject", testSubject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateValidatesInput(t *testing.T) {
	_, err := run(t, fakeFactory(workingOracle()), "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject")

	_, err = run(t, fakeFactory(workingOracle()), "generate", "--subject", testSubject, "--difficulty", "expert")
	require.ErrorIs(t, err, model.ErrInvalidDifficulty)
}

func TestTopicsCommand(t *testing.T) {
	out, err := run(t, fakeFactory(workingOracle()), "topics", "--subject", testSubject)
	require.NoError(t, err)
	assert.Equal(t, "1. Goroutines\n2. Channels\n", out)
}
