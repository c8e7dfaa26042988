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

package main

import (
	"context"
	"log/slog"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/workflow"
)

// CourseRequestListener is the logical name of the subscription carrying
// course requests in [topic_subscriptions].
const CourseRequestListener = "CourseRequests"

// SetupListeners attaches the course request workflow to its subscription and
// starts listening. A missing subscription only disables asynchronous
// requests.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, builder *workflow.CourseBuilderWorkflow, ctx context.Context) {
	listener, ok := cloudClients.PubSubListeners[CourseRequestListener]
	if !ok {
		slog.Warn("no subscription configured, asynchronous course requests disabled", "listener", CourseRequestListener)
		return
	}
	listener.SetCommand(workflow.NewCourseRequestPipeline(config, cloudClients, builder))
	listener.Listen(ctx)
}
