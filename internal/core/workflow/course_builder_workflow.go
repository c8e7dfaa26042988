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

// Package workflow wires commands into the pipelines run by the server, the
// Pub/Sub listener and the CLI. This file holds the course builder: it asks the
// oracle for a topic list and then resolves each topic, in order, to a video
// segment.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/transcript"
	"github.com/jaycherian/gcp-go-course-builder/internal/youtube"
)

// CourseBuilderWorkflow turns a *model.CourseRequest into a *model.Course.
//
// Topics are resolved sequentially by a fetch, select and assemble chain that
// gets a fresh context per topic. A topic that fails anywhere in that chain is
// recorded in the run summary and left out of the course; only a failure to
// generate the topic list fails the workflow.
type CourseBuilderWorkflow struct {
	cor.BaseCommand
	topics     *commands.TopicListGenerator
	topicChain cor.Chain
}

// NewCourseBuilderWorkflow builds the workflow from its collaborators. The
// prompt templates are parsed here so a bad template fails at startup.
func NewCourseBuilderWorkflow(
	oracle cloud.Oracle,
	platform youtube.Platform,
	captions transcript.PayloadFetcher,
	prompts cloud.PromptTemplates) (*CourseBuilderWorkflow, error) {

	topicTemplate, err := template.New("topic-template").Parse(prompts.TopicPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse topic prompt: %w", err)
	}
	selectionTemplate, err := template.New("selection-template").Parse(prompts.SelectionPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse selection prompt: %w", err)
	}

	out := &CourseBuilderWorkflow{
		BaseCommand: *cor.NewBaseCommand("course-builder"),
		topics:      commands.NewTopicListGenerator("generate-topics", oracle, topicTemplate),
	}

	chain := cor.NewBaseChain("resolve-topic")
	chain.AddCommand(commands.NewVideoCandidateFetcher("fetch-candidates", platform, transcript.NewResolver(captions)))
	chain.AddCommand(commands.NewVideoSelector("select-video", oracle, selectionTemplate))
	assembler := commands.NewTopicAssembler("assemble-topic")
	assembler.OutputParamName = commands.TopicNodeParam
	chain.AddCommand(assembler)
	out.topicChain = chain

	return out, nil
}

// GenerateTopics runs only the topic list step.
func (w *CourseBuilderWorkflow) GenerateTopics(ctx context.Context, request *model.CourseRequest) ([]string, error) {
	return w.topics.Generate(ctx, request)
}

// Execute reads the *model.CourseRequest at the input parameter and writes the
// *model.Course to the output parameter and the *model.RunSummary to
// commands.RunSummaryParam.
func (w *CourseBuilderWorkflow) Execute(context cor.Context) {
	ctx := context.GetContext()
	request := context.Get(w.GetInputParam()).(*model.CourseRequest)

	names, err := w.topics.Generate(ctx, request)
	if err != nil {
		w.GetErrorCounter().Add(ctx, 1)
		context.AddError(w.GetName(), fmt.Errorf("topic generation failed: %w", err))
		return
	}

	course := model.NewCourse(request)
	summary := &model.RunSummary{TopicsGenerated: len(names), SkippedTopics: make([]model.SkippedTopic, 0)}

	for i, name := range names {
		topic := &model.TopicRequest{
			Subject:         request.Subject,
			Difficulty:      request.Difficulty,
			Name:            name,
			Index:           i + 1,
			PreviousTopicID: course.LastTopicID(),
		}
		node, err := w.resolveTopic(ctx, topic)
		if err != nil {
			slog.WarnContext(ctx, "skipping topic", "topic", name, "index", topic.Index, "error", err)
			summary.SkippedTopics = append(summary.SkippedTopics, model.SkippedTopic{Name: name, Reason: err.Error()})
			continue
		}
		course.Topics = append(course.Topics, node)
	}
	summary.TopicsResolved = len(course.Topics)

	slog.InfoContext(ctx, "course built",
		"course", course.ID,
		"generated", summary.TopicsGenerated,
		"resolved", summary.TopicsResolved)

	w.GetSuccessCounter().Add(ctx, 1)
	context.Add(commands.CourseParam, course)
	context.Add(commands.RunSummaryParam, summary)
	context.Add(w.GetOutputParam(), course)
}

func (w *CourseBuilderWorkflow) resolveTopic(ctx context.Context, topic *model.TopicRequest) (*model.TopicNode, error) {
	spanCtx, span := w.GetTracer().Start(ctx, "resolve-topic",
		trace.WithAttributes(attribute.String("topic", topic.Name), attribute.Int("index", topic.Index)))
	defer span.End()

	topicCtx := cor.NewContextFor(spanCtx)
	topicCtx.Add(cor.CtxIn, topic)
	topicCtx.Add(commands.TopicRequestParam, topic)
	w.topicChain.Execute(topicCtx)

	if err := cor.JoinErrors(topicCtx); err != nil {
		span.SetStatus(codes.Error, "topic skipped")
		return nil, err
	}
	node, ok := topicCtx.Get(commands.TopicNodeParam).(*model.TopicNode)
	if !ok {
		span.SetStatus(codes.Error, "topic skipped")
		return nil, fmt.Errorf("no topic node assembled for %q", topic.Name)
	}
	span.SetStatus(codes.Ok, "topic resolved")
	return node, nil
}

// Build runs the workflow for request and wraps the outcome in the result
// envelope returned by the API and the CLI.
func (w *CourseBuilderWorkflow) Build(ctx context.Context, request *model.CourseRequest) *model.CourseResult {
	chainCtx := cor.NewContextFor(ctx)
	chainCtx.Add(w.GetInputParam(), request)
	w.Execute(chainCtx)

	if err := cor.JoinErrors(chainCtx); err != nil {
		return model.NewFailureResult(err)
	}
	return model.NewSuccessResult(
		chainCtx.Get(commands.CourseParam).(*model.Course),
		chainCtx.Get(commands.RunSummaryParam).(*model.RunSummary))
}
