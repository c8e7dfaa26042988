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

package services_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/services"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"github.com/zeebo/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, services.ClampLimit(0), services.DefaultListLimit)
	assert.Equal(t, services.ClampLimit(-3), services.DefaultListLimit)
	assert.Equal(t, services.ClampLimit(7), 7)
	assert.Equal(t, services.ClampLimit(1000), services.MaxListLimit)
}

func TestExportObject(t *testing.T) {
	config := *test.GetConfig()
	config.Storage.CourseExportBucket = "course-exports"

	service := services.NewCourseService(&config, &cloud.ServiceClients{})
	request, err := model.NewCourseRequest("Data Structures/Algorithms", "ADVANCED")
	assert.NoError(t, err)

	object := service.ExportObject(model.NewCourse(request))
	assert.Equal(t, object.URI(), "gs://course-exports/courses/course_data_structures_algorithms_advanced.json")
	assert.Equal(t, object.MIMEType, "application/json")
}

func TestSignedURLNeedsBucket(t *testing.T) {
	service := &services.CourseService{}
	_, err := service.GenerateSignedURL(context.Background(), &cloud.GCSObject{Name: "x.json"}, 0)
	assert.Error(t, err)
}
