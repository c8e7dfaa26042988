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

// Package commands holds the cor.Command implementations that make up the
// course workflows: reading requests, generating topics, fetching and ranking
// candidate videos, assembling topic nodes, and archiving finished courses.
package commands

// Context keys shared by the course commands.
const (
	// CourseRequestParam holds the *model.CourseRequest of the run.
	CourseRequestParam = "__COURSE_REQUEST__"
	// TopicRequestParam holds the *model.TopicRequest being resolved.
	TopicRequestParam = "__TOPIC_REQUEST__"
	// TopicNodeParam receives the *model.TopicNode built for a topic.
	TopicNodeParam = "__TOPIC_NODE__"
	// CourseParam holds the finished *model.Course.
	CourseParam = "__COURSE__"
	// RunSummaryParam holds the *model.RunSummary of the run.
	RunSummaryParam = "__RUN_SUMMARY__"
)
