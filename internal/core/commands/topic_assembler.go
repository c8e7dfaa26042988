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
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// TopicAssembler turns a verdict into the topic node added to the course.
type TopicAssembler struct {
	cor.BaseCommand
}

func NewTopicAssembler(name string) *TopicAssembler {
	return &TopicAssembler{BaseCommand: *cor.NewBaseCommand(name)}
}

func (a *TopicAssembler) IsExecutable(context cor.Context) bool {
	return a.BaseCommand.IsExecutable(context) && context.Get(TopicRequestParam) != nil
}

// Execute reads the *model.SelectionVerdict at the input parameter and writes
// the *model.TopicNode to the output parameter.
func (a *TopicAssembler) Execute(context cor.Context) {
	verdict := context.Get(a.GetInputParam()).(*model.SelectionVerdict)
	topic := context.Get(TopicRequestParam).(*model.TopicRequest)

	a.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(a.GetOutputParam(), model.NewTopicNode(topic, verdict))
}
