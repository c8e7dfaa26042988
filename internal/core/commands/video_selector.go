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
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// VideoSelector asks the oracle to pick the best candidate for a topic and the
// segment of it worth watching.
type VideoSelector struct {
	cor.BaseCommand
	oracle                   cloud.Oracle
	template                 *template.Template
	printer                  *message.Printer
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

// NewVideoSelector creates the selector. The template receives TOPIC, SUBJECT,
// LEVEL, VIDEO_COUNT, VIDEOS and EXAMPLE_JSON.
func NewVideoSelector(name string, oracle cloud.Oracle, template *template.Template) *VideoSelector {
	out := &VideoSelector{
		BaseCommand: *cor.NewBaseCommand(name),
		oracle:      oracle,
		template:    template,
		printer:     message.NewPrinter(language.English),
	}
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	return out
}

// RenderCandidates formats the candidates as numbered blocks, starting at 1.
func (v *VideoSelector) RenderCandidates(candidates []*model.CandidateVideo) string {
	var sb strings.Builder
	for i, c := range candidates {
		v.printer.Fprintf(&sb, "\nVideo %d:\n", i+1)
		v.printer.Fprintf(&sb, "Title: %s\n", c.Title)
		v.printer.Fprintf(&sb, "URL: %s\n", c.URL)
		v.printer.Fprintf(&sb, "Description: %s\n", c.Description)
		v.printer.Fprintf(&sb, "Transcript: %s\n", c.Transcript)
		v.printer.Fprintf(&sb, "Views: %d\n", c.ViewCount)
		v.printer.Fprintf(&sb, "Likes: %d\n", c.LikeCount)
		v.printer.Fprintf(&sb, "Duration: %d seconds\n", c.DurationSeconds)
		v.printer.Fprintf(&sb, "Channel: %s\n", c.Channel)
	}
	return sb.String()
}

// GenerateParams returns the template values for one selection prompt.
func (v *VideoSelector) GenerateParams(topic *model.TopicRequest, candidates []*model.CandidateVideo) map[string]interface{} {
	params := make(map[string]interface{})
	params["TOPIC"] = topic.Name
	params["SUBJECT"] = topic.Subject
	params["LEVEL"] = topic.Difficulty.String()
	params["VIDEO_COUNT"] = len(candidates)
	params["VIDEOS"] = v.RenderCandidates(candidates)
	params["EXAMPLE_JSON"] = model.GetExampleVerdictJSON()
	return params
}

// Select returns the verdict for topic. Every failure, including an oracle
// error, means the topic has no verdict.
func (v *VideoSelector) Select(ctx context.Context, topic *model.TopicRequest, candidates []*model.CandidateVideo) (*model.SelectionVerdict, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", model.ErrNoVerdict)
	}

	var buffer bytes.Buffer
	if err := v.template.Execute(&buffer, v.GenerateParams(topic, candidates)); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	reply, err := cloud.GenerateTextResponse(ctx, v.geminiInputTokenCounter, v.geminiOutputTokenCounter, v.oracle, buffer.String())
	if err != nil {
		return nil, fmt.Errorf("%w: oracle request failed: %v", model.ErrNoVerdict, err)
	}

	verdict, err := model.ParseSelectionVerdict(reply)
	if err != nil {
		slog.DebugContext(ctx, "unusable selection reply", "topic", topic.Name, "reply", truncate(reply, 200))
		return nil, err
	}
	if err := verdict.BindCandidates(candidates); err != nil {
		return nil, err
	}
	return verdict, nil
}

// IsExecutable also requires the topic request.
func (v *VideoSelector) IsExecutable(context cor.Context) bool {
	return v.BaseCommand.IsExecutable(context) && context.Get(TopicRequestParam) != nil
}

// Execute reads the []*model.CandidateVideo at the input parameter and the
// *model.TopicRequest at TopicRequestParam, and writes the
// *model.SelectionVerdict to the output parameter.
func (v *VideoSelector) Execute(context cor.Context) {
	candidates := context.Get(v.GetInputParam()).([]*model.CandidateVideo)
	topic := context.Get(TopicRequestParam).(*model.TopicRequest)

	verdict, err := v.Select(context.GetContext(), topic, candidates)
	if err != nil {
		v.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(v.GetName(), fmt.Errorf("selection for %q failed: %w", topic.Name, err))
		return
	}

	v.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(v.GetOutputParam(), verdict)
}

func truncate(in string, max int) string {
	r := []rune(in)
	if len(r) <= max {
		return in
	}
	return string(r[:max]) + "..."
}
