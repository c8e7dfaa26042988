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

package workflow

import (
	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
)

// CourseRequestWorkflow handles an asynchronous course request: it parses the
// message, builds the course, archives it in BigQuery and exports the JSON
// document to Cloud Storage.
type CourseRequestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func (w *CourseRequestWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// IsExecutable requires the raw message at the input parameter.
func (w *CourseRequestWorkflow) IsExecutable(context cor.Context) bool {
	return w.chain.IsExecutable(context) && context.Get(w.GetInputParam()) != nil
}

// NewCourseRequestWorkflow chains the request reader and the builder with the
// persistence steps. A nil inserter skips the BigQuery step and a nil writer
// or an empty export bucket skips the export.
func NewCourseRequestWorkflow(
	builder *CourseBuilderWorkflow,
	inserter cloud.RowInserter,
	writer cloud.ObjectWriter,
	storage cloud.Storage) *CourseRequestWorkflow {

	chain := cor.NewBaseChain("course-request-pipeline")
	chain.AddCommand(commands.NewCourseRequestReader("read-course-request"))
	chain.AddCommand(builder)
	if inserter != nil {
		chain.AddCommand(commands.NewCoursePersistToBigQuery("write-to-bigquery", inserter))
	}
	if writer != nil && storage.CourseExportBucket != "" {
		chain.AddCommand(commands.NewCourseExportToGCS("export-to-gcs", writer, storage.CourseExportBucket, storage.ExportPrefix))
	}

	return &CourseRequestWorkflow{
		BaseCommand: *cor.NewBaseCommand("course-request-workflow"),
		chain:       chain,
	}
}

// NewCourseRequestPipeline builds the workflow from the shared service
// clients, using the configured BigQuery table and export bucket.
func NewCourseRequestPipeline(config *cloud.Config, clients *cloud.ServiceClients, builder *CourseBuilderWorkflow) *CourseRequestWorkflow {
	var inserter cloud.RowInserter
	if clients.BigQueryClient != nil {
		inserter = cloud.NewBigQueryInserter(clients.BigQueryClient,
			config.BigQueryDataSource.DatasetName,
			config.BigQueryDataSource.CourseTable)
	}
	var writer cloud.ObjectWriter
	if clients.StorageClient != nil {
		writer = cloud.NewGCSObjectWriter(clients.StorageClient)
	}
	return NewCourseRequestWorkflow(builder, inserter, writer, config.Storage)
}
