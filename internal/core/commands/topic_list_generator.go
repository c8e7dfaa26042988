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

package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// TopicListGenerator asks the oracle for the ordered topic list of a course.
type TopicListGenerator struct {
	cor.BaseCommand
	oracle                   cloud.Oracle
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

// NewTopicListGenerator creates the generator. The template receives SUBJECT,
// LEVEL, LEVEL_TITLE and TOPIC_CEILING.
func NewTopicListGenerator(name string, oracle cloud.Oracle, template *template.Template) *TopicListGenerator {
	out := &TopicListGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		oracle:      oracle,
		template:    template,
	}
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	return out
}

// GenerateParams returns the template values for request.
func (t *TopicListGenerator) GenerateParams(request *model.CourseRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["SUBJECT"] = request.Subject
	params["LEVEL"] = request.Difficulty.String()
	params["LEVEL_TITLE"] = request.Difficulty.Title()
	params["TOPIC_CEILING"] = request.Difficulty.TopicCeiling()
	return params
}

// Generate renders the prompt, calls the oracle once and parses the reply.
// Oracle errors are returned unchanged; an unparseable reply is an empty list.
func (t *TopicListGenerator) Generate(ctx context.Context, request *model.CourseRequest) ([]string, error) {
	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(request)); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	reply, err := cloud.GenerateTextResponse(ctx, t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.oracle, buffer.String())
	if err != nil {
		return nil, err
	}

	topics := model.ParseTopicList(reply)
	slog.InfoContext(ctx, "generated topics", "subject", request.Subject, "level", request.Difficulty, "count", len(topics))
	return topics, nil
}

// Execute reads the *model.CourseRequest at the input parameter and writes the
// []string topic list to the output parameter.
func (t *TopicListGenerator) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.CourseRequest)

	topics, err := t.Generate(context.GetContext(), request)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("topic generation failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), topics)
}
