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

package commands_test

import (
	"context"
	"errors"
	"testing"
	"text/template"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicTemplate() *template.Template {
	return template.Must(template.New("topics").Parse(cloud.DefaultTopicPrompt))
}

func TestCourseRequestReader(t *testing.T) {
	reader := commands.NewCourseRequestReader("reader")

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, test.GetTestCourseRequestMessageText())
	require.True(t, reader.IsExecutable(chainCtx))
	reader.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	request := chainCtx.Get(commands.CourseRequestParam).(*model.CourseRequest)
	assert.Equal(t, "Python Programming", request.Subject)
	assert.Equal(t, model.Beginner, request.Difficulty)
	assert.Same(t, request, chainCtx.Get(cor.CtxOut))
}

func TestCourseRequestReaderRejectsBadInput(t *testing.T) {
	cases := map[string]interface{}{
		"not json":   "{subject",
		"difficulty": `{"subject":"Go","difficulty":"expert"}`,
		"missing":    `{"subject":"Go"}`,
		"subject":    `{"subject":"  ","difficulty":"beginner"}`,
		"not string": 42,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			reader := commands.NewCourseRequestReader("reader")
			chainCtx := cor.NewContextFor(context.Background())
			chainCtx.Add(cor.CtxIn, in)
			reader.Execute(chainCtx)

			assert.True(t, chainCtx.HasErrors())
			assert.Nil(t, chainCtx.Get(commands.CourseRequestParam))
		})
	}
}

func TestTopicListGenerator(t *testing.T) {
	oracle := &test.FakeOracle{TopicReply: "Here you go:\n1. Variables\n2. Loops\n\n3 Functions\n- not a topic"}
	generator := commands.NewTopicListGenerator("topics", oracle, topicTemplate())
	request, err := model.NewCourseRequest("Python Programming", "beginner")
	require.NoError(t, err)

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, request)
	generator.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"Variables", "Loops", "3 Functions"}, chainCtx.Get(cor.CtxOut))

	prompts := oracle.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "learning Python Programming at the beginner level")
	assert.Contains(t, prompts[0], "Keep number of topics under 15")
	assert.Contains(t, prompts[0], "Difficulty Level: Beginner")
}

func TestTopicListGeneratorIsRepeatable(t *testing.T) {
	oracle := &test.FakeOracle{TopicReply: "1. Variables\n2. Loops"}
	generator := commands.NewTopicListGenerator("topics", oracle, topicTemplate())
	request, _ := model.NewCourseRequest("Go", "advanced")

	first, err := generator.Generate(context.Background(), request)
	require.NoError(t, err)
	second, err := generator.Generate(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	prompts := oracle.Prompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, prompts[0], prompts[1])
	assert.Contains(t, prompts[0], "Keep number of topics under 50")
}

func TestTopicListGeneratorOracleFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	generator := commands.NewTopicListGenerator("topics", &test.FakeOracle{TopicErr: boom}, topicTemplate())
	request, _ := model.NewCourseRequest("Go", "intermediate")

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, request)
	generator.Execute(chainCtx)

	require.True(t, chainCtx.HasErrors())
	assert.ErrorIs(t, chainCtx.GetErrors()["topics"], boom)
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
}

func TestTopicListGeneratorEmptyReply(t *testing.T) {
	generator := commands.NewTopicListGenerator("topics", &test.FakeOracle{TopicReply: "Sorry, I cannot help."}, topicTemplate())
	request, _ := model.NewCourseRequest("Go", "beginner")

	topics, err := generator.Generate(context.Background(), request)
	assert.NoError(t, err)
	assert.Empty(t, topics)
}
