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
	"log/slog"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

const jsonContentType = "application/json"

// CourseExportToGCS writes the course document, in the same shape the HTTP
// API returns, to a bucket. The written object is published under
// cloud.GetGCSObjectName().
type CourseExportToGCS struct {
	cor.BaseCommand
	writer cloud.ObjectWriter
	bucket string
	prefix string
}

func NewCourseExportToGCS(name string, writer cloud.ObjectWriter, bucket string, prefix string) *CourseExportToGCS {
	return &CourseExportToGCS{BaseCommand: *cor.NewBaseCommand(name), writer: writer, bucket: bucket, prefix: prefix}
}

// IsExecutable also requires the run summary and a configured bucket.
func (c *CourseExportToGCS) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) && context.Get(RunSummaryParam) != nil && c.bucket != ""
}

// Execute reads the *model.Course at the input parameter and the
// *model.RunSummary at RunSummaryParam.
func (c *CourseExportToGCS) Execute(context cor.Context) {
	course := context.Get(c.GetInputParam()).(*model.Course)
	summary := context.Get(RunSummaryParam).(*model.RunSummary)

	body, err := json.MarshalIndent(model.NewSuccessResult(course, summary), "", "  ")
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to marshal course %s: %w", course.ID, err))
		return
	}

	object := &cloud.GCSObject{
		Bucket:   c.bucket,
		Name:     cloud.ExportObjectName(c.prefix, model.CourseFileName(course.Subject, course.TargetLevel)),
		MIMEType: jsonContentType,
	}

	w := c.writer(context.GetContext(), object.Bucket, object.Name, object.MIMEType)
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to write %s: %w", object.URI(), err))
		return
	}
	// Close commits the object; a failure here means nothing was stored.
	if err := w.Close(); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to commit %s: %w", object.URI(), err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cloud.GetGCSObjectName(), object)
	context.Add(c.GetOutputParam(), course)
	slog.InfoContext(context.GetContext(), "exported course", "uri", object.URI())
}
