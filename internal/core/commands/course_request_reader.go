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
	"encoding/json"
	"fmt"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// CourseRequestMessage is the JSON body of a course request published to
// Pub/Sub or posted to the API.
type CourseRequestMessage struct {
	Subject         string `json:"subject" binding:"required"`
	DifficultyLevel string `json:"difficulty" binding:"required"`
}

// CourseRequestReader parses a raw course request message and validates it.
type CourseRequestReader struct {
	cor.BaseCommand
}

func NewCourseRequestReader(name string) *CourseRequestReader {
	return &CourseRequestReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute reads the message string at the input parameter and publishes the
// validated *model.CourseRequest under CourseRequestParam and the output
// parameter. An invalid difficulty or an empty subject is an error.
func (c *CourseRequestReader) Execute(context cor.Context) {
	in, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("expected a string message, got %T", context.Get(c.GetInputParam())))
		return
	}

	var msg CourseRequestMessage
	if err := json.Unmarshal([]byte(in), &msg); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal course request: %w", err))
		return
	}
	request, err := model.NewCourseRequest(msg.Subject, msg.DifficultyLevel)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CourseRequestParam, request)
	context.Add(c.GetOutputParam(), request)
}
