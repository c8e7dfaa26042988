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

package workflow_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

const subject = "Python Programming"

// newPlatform registers one captioned video for every topic.
func newPlatform(topics ...string) (*test.FakePlatform, *test.FakePayloadFetcher) {
	platform := test.NewFakePlatform()
	payloads := make(map[string]string)
	for i, topic := range topics {
		url := fmt.Sprintf("https://captions/%d.vtt", i)
		track, _ := model.NewCaptionTrack("en", "vtt", url)
		captions := model.CaptionSet{Automatic: map[string][]model.CaptionTrack{"en": {track}}}
		record := test.NewVideoRecord(fmt.Sprintf("vid%08d", i+1), topic+" tutorial", captions)
		platform.AddVideo(commands.SearchPhrase(subject, topic), record)
		payloads[url] = test.GetTestVTTPayload()
	}
	return platform, test.NewFakePayloadFetcher(payloads)
}

func newBuilder(t *testing.T, oracle *test.FakeOracle, platform *test.FakePlatform, captions *test.FakePayloadFetcher) *workflow.CourseBuilderWorkflow {
	builder, err := workflow.NewCourseBuilderWorkflow(oracle, platform, captions, config.PromptTemplates)
	require.NoError(t, err)
	return builder
}

func beginnerRequest(t *testing.T) *model.CourseRequest {
	request, err := model.NewCourseRequest(subject, "beginner")
	require.NoError(t, err)
	return request
}

func TestCourseBuilderEndToEnd(t *testing.T) {
	traceCtx, span := tracer.Start(ctx, "course-builder-test")
	defer span.End()

	platform, captions := newPlatform("Variables", "Loops")
	oracle := &test.FakeOracle{
		TopicReply: "1. Variables\n2. Loops",
		Select: func(string) (string, error) {
			return test.SelectionReply(1, 0, 120000), nil
		},
	}

	result := newBuilder(t, oracle, platform, captions).Build(traceCtx, beginnerRequest(t))
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
	}
	require.True(t, result.Success, result.Error)

	data := result.Data
	assert.Equal(t, "Python Programming Learning Path", data.CoursePath.Title)
	assert.Equal(t, model.Beginner, data.CoursePath.TargetLevel)
	require.Len(t, data.Topics, 2)

	first, second := data.Topics[0], data.Topics[1]
	assert.Equal(t, "Variables", first.Name)
	assert.Empty(t, first.Prerequisites)
	assert.Equal(t, []string{first.ID}, second.Prerequisites)
	assert.NotEqual(t, first.ID, second.ID)
	for _, node := range data.Topics {
		assert.Equal(t, int64(0), node.VideoInfo.StartTime)
		assert.Equal(t, int64(120), node.VideoInfo.EndTime)
		assert.Equal(t, model.QualityHigh, node.QualityMetrics.ContentQuality)
	}
	assert.Equal(t, model.WatchURL("vid00000002"), second.VideoInfo.YoutubeURL)

	assert.Equal(t, 2, data.Summary.TopicsGenerated)
	assert.Equal(t, 2, data.Summary.TopicsResolved)
	assert.Empty(t, data.Summary.SkippedTopics)

	// Topic prompts come first, then one selection prompt per topic, in order.
	prompts := oracle.Prompts()
	require.Len(t, prompts, 3)
	assert.True(t, test.IsTopicPrompt(prompts[0]))
	assert.Equal(t, "Variables", test.PromptTopic(prompts[1]))
	assert.Equal(t, "Loops", test.PromptTopic(prompts[2]))
	assert.Contains(t, prompts[1], "A variable stores a value.")

	assert.Equal(t, []string{"Python Programming: Variables", "Python Programming: Loops"}, platform.Searches())
	span.SetStatus(codes.Ok, "passed - course builder test")
	logger.Info("built course", "id", data.CoursePath.ID)
}

func TestCourseBuilderSkipsUnresolvedTopic(t *testing.T) {
	platform, captions := newPlatform("Variables", "Loops")
	oracle := &test.FakeOracle{
		TopicReply: "1. Variables\n2. Loops",
		Select: func(prompt string) (string, error) {
			if test.PromptTopic(prompt) == "Loops" {
				return "I would pick the second one.", nil
			}
			return test.SelectionReply(1, 0, 120000), nil
		},
	}

	result := newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))

	require.True(t, result.Success)
	require.Len(t, result.Data.Topics, 1)
	assert.Equal(t, "Variables", result.Data.Topics[0].Name)
	assert.Equal(t, 2, result.Data.Summary.TopicsGenerated)
	assert.Equal(t, 1, result.Data.Summary.TopicsResolved)
	require.Len(t, result.Data.Summary.SkippedTopics, 1)
	assert.Equal(t, "Loops", result.Data.Summary.SkippedTopics[0].Name)
	assert.Contains(t, result.Data.Summary.SkippedTopics[0].Reason, "select-video")
}

func TestCourseBuilderSkipsOutOfRangeVerdicts(t *testing.T) {
	platform, captions := newPlatform("Variables", "Loops", "Functions")
	replies := map[string]string{
		"Variables": `{"selectedVideo":{"videoNumber":1e300,"startTimeMs":0,"endTimeMs":1000}}`,
		"Loops":     `{"selectedVideo":{"videoNumber":2,"startTimeMs":0,"endTimeMs":1000}}`,
		"Functions": `{"selectedVideo":{"videoNumber":1,"startTimeMs":0,"endTimeMs":1e300}}`,
	}
	oracle := &test.FakeOracle{
		TopicReply: "1. Variables\n2. Loops\n3. Functions",
		Select: func(prompt string) (string, error) {
			return replies[test.PromptTopic(prompt)], nil
		},
	}

	var result *model.CourseResult
	require.NotPanics(t, func() {
		result = newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))
	})

	require.True(t, result.Success, result.Error)
	assert.Empty(t, result.Data.Topics)
	assert.Equal(t, 3, result.Data.Summary.TopicsGenerated)
	require.Len(t, result.Data.Summary.SkippedTopics, 3)
	for _, skipped := range result.Data.Summary.SkippedTopics {
		assert.Contains(t, skipped.Reason, "select-video")
	}
}

func TestCourseBuilderPrerequisiteFollowsLastResolvedTopic(t *testing.T) {
	// "Functions" has no videos, so "Classes" follows "Variables".
	platform, captions := newPlatform("Variables", "Classes")
	oracle := &test.FakeOracle{
		TopicReply: "1. Variables\n2. Functions\n3. Classes",
		Select: func(string) (string, error) {
			return test.SelectionReply(1, 1500, 9999), nil
		},
	}

	result := newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))

	require.True(t, result.Success)
	require.Len(t, result.Data.Topics, 2)
	assert.Equal(t, []string{result.Data.Topics[0].ID}, result.Data.Topics[1].Prerequisites)
	assert.Equal(t, int64(1), result.Data.Topics[1].VideoInfo.StartTime)
	assert.Equal(t, int64(9), result.Data.Topics[1].VideoInfo.EndTime)
	require.Len(t, result.Data.Summary.SkippedTopics, 1)
	assert.Contains(t, result.Data.Summary.SkippedTopics[0].Reason, model.ErrNoCandidates.Error())

	// No selection prompt is sent for a topic without candidates.
	assert.Len(t, oracle.SelectionPrompts(), 2)
}

func TestCourseBuilderFirstTopicSkipped(t *testing.T) {
	platform, captions := newPlatform("Loops")
	oracle := &test.FakeOracle{
		TopicReply: "1. Variables\n2. Loops",
		Select: func(string) (string, error) {
			return test.SelectionReply(1, 0, 60000), nil
		},
	}

	result := newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))

	require.True(t, result.Success)
	require.Len(t, result.Data.Topics, 1)
	assert.Empty(t, result.Data.Topics[0].Prerequisites)
}

func TestCourseBuilderTopicGenerationFailure(t *testing.T) {
	platform, captions := newPlatform()
	oracle := &test.FakeOracle{TopicErr: errors.New("permission denied")}

	result := newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Contains(t, result.Error, "permission denied")
	assert.Empty(t, platform.Searches())
}

func TestCourseBuilderEmptyTopicList(t *testing.T) {
	platform, captions := newPlatform()
	oracle := &test.FakeOracle{TopicReply: "No topics today."}

	result := newBuilder(t, oracle, platform, captions).Build(ctx, beginnerRequest(t))

	require.True(t, result.Success)
	assert.Empty(t, result.Data.Topics)
	assert.Equal(t, 0, result.Data.Summary.TopicsGenerated)
}

func TestCourseBuilderRejectsBadTemplate(t *testing.T) {
	prompts := config.PromptTemplates
	prompts.SelectionPrompt = "{{.TOPIC"
	_, err := workflow.NewCourseBuilderWorkflow(&test.FakeOracle{}, test.NewFakePlatform(), test.NewFakePayloadFetcher(nil), prompts)
	assert.Error(t, err)
}
