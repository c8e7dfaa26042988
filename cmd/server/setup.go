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
	"log"
	"os"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/services"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/workflow"
	"github.com/jaycherian/gcp-go-course-builder/internal/youtube"
)

// StateManager holds the dependencies shared by the HTTP handlers and the
// Pub/Sub listeners.
type StateManager struct {
	config        *cloud.Config
	cloud         *cloud.ServiceClients
	builder       *workflow.CourseBuilderWorkflow
	courseService *services.CourseService
}

var state = &StateManager{}

// SetupOS points the configuration loader at ./configs. GCP_RUNTIME selects
// the environment file and defaults to "local".
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os for configuration: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		cloud.ApplyEnvironment(config)
		state.config = config
	}
	return state.config
}

// InitState creates the service clients, the course builder and the course
// service, and starts the Pub/Sub listeners.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	oracle, err := cloudClients.Oracle(config)
	if err != nil {
		panic(err)
	}
	platform, err := youtube.NewPlatform(ctx, config)
	if err != nil {
		panic(err)
	}
	builder, err := workflow.NewCourseBuilderWorkflow(oracle, platform, youtube.NewCaptionFetcher(), config.PromptTemplates)
	if err != nil {
		panic(err)
	}
	state.builder = builder

	state.courseService = services.NewCourseService(config, cloudClients)

	SetupListeners(config, cloudClients, builder, ctx)
}
