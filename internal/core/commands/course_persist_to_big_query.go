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
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// CoursePersistToBigQuery archives a finished course as one row of the course
// table. The course itself is passed through unchanged.
type CoursePersistToBigQuery struct {
	cor.BaseCommand
	inserter cloud.RowInserter
}

// NewCoursePersistToBigQuery creates the command. Use cloud.NewBigQueryInserter
// to target a real table.
func NewCoursePersistToBigQuery(name string, inserter cloud.RowInserter) *CoursePersistToBigQuery {
	return &CoursePersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), inserter: inserter}
}

// Execute reads the *model.Course at the input parameter.
func (s *CoursePersistToBigQuery) Execute(context cor.Context) {
	course := context.Get(s.GetInputParam()).(*model.Course)

	record, err := model.NewCourseRecord(course)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), err)
		return
	}

	if err := s.inserter.Put(context.GetContext(), record); err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("bigquery insert failed for course %s: %w", course.ID, err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), course)
	slog.InfoContext(context.GetContext(), "persisted course", "id", course.ID, "topics", record.TopicCount)
}
