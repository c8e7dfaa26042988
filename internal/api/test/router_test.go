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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-course-builder/internal/api"
	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/services"
)

type stubBuilder struct {
	requests []*model.CourseRequest
	err      error
}

func (s *stubBuilder) Build(_ context.Context, request *model.CourseRequest) *model.CourseResult {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return model.NewFailureResult(s.err)
	}
	return model.NewSuccessResult(model.NewCourse(request), &model.RunSummary{SkippedTopics: []model.SkippedTopic{}})
}

type stubStore struct {
	courses map[string]*model.Course
	signErr error
}

func (s *stubStore) Get(_ context.Context, id string) (*model.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", services.ErrCourseNotFound, id)
}

func (s *stubStore) List(ctx context.Context, limit int) ([]*services.CourseSummary, error) {
	return s.Search(ctx, "", limit)
}

func (s *stubStore) Search(_ context.Context, phrase string, limit int) ([]*services.CourseSummary, error) {
	out := make([]*services.CourseSummary, 0)
	for id, c := range s.courses {
		if !strings.Contains(strings.ToLower(c.Subject), strings.ToLower(phrase)) {
			continue
		}
		out = append(out, &services.CourseSummary{ID: id, Subject: c.Subject, Title: c.Title})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubStore) ExportObject(course *model.Course) *cloud.GCSObject {
	return &cloud.GCSObject{Bucket: "exports", Name: model.CourseFileName(course.Subject, course.TargetLevel)}
}

func (s *stubStore) GenerateSignedURL(_ context.Context, object *cloud.GCSObject, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://signed.test/" + object.Name, nil
}

func newRouter(builder api.CourseBuilder, store api.CourseStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.Root(r)
	v1 := r.Group("/api/v1")
	api.Health(v1)
	api.GenerateCoursePath(v1, builder)
	api.CourseRouter(v1, store)
	return r
}

func do(r http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndRoot(t *testing.T) {
	r := newRouter(&stubBuilder{}, &stubStore{})

	w := do(r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"course-generator"}`, w.Body.String())

	w = do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestGenerateCoursePath(t *testing.T) {
	builder := &stubBuilder{}
	r := newRouter(builder, &stubStore{})

	w := do(r, http.MethodPost, "/api/v1/generate-course-path", `{"subject":"fast api","difficulty":"Beginner"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CourseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, api.MsgGenerated, resp.Message)
	assert.Equal(t, "fast api Learning Path", resp.Data.CoursePath.Title)
	require.Len(t, builder.requests, 1)
	assert.Equal(t, model.Beginner, builder.requests[0].Difficulty)
}

func TestGenerateCoursePathFailures(t *testing.T) {
	builder := &stubBuilder{err: errors.New("topic generation failed")}
	r := newRouter(builder, &stubStore{})

	w := do(r, http.MethodPost, "/api/v1/generate-course-path", `{"subject":"Go","difficulty":"beginner"}`)
	var resp api.CourseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, api.MsgFailed, resp.Message)
	assert.Equal(t, "topic generation failed", resp.Error)

	w = do(r, http.MethodPost, "/api/v1/generate-course-path", `{"subject":"Go","difficulty":"expert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, api.MsgError, resp.Message)
	assert.Contains(t, resp.Error, "invalid difficulty")

	w = do(r, http.MethodPost, "/api/v1/generate-course-path", `{"subject":"Go"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Only the first request reached the builder.
	assert.Len(t, builder.requests, 1)
}

func TestCourseRoutes(t *testing.T) {
	request, _ := model.NewCourseRequest("Go", "advanced")
	course := model.NewCourse(request)
	store := &stubStore{courses: map[string]*model.Course{course.ID: course}}
	r := newRouter(&stubBuilder{}, store)

	w := do(r, http.MethodGet, "/api/v1/courses/"+course.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, course.ID, got.ID)

	w = do(r, http.MethodGet, "/api/v1/courses/course-missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/courses/"+course.ID+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed.test/course_go_advanced.json")

	w = do(r, http.MethodGet, "/api/v1/courses?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), course.ID)

	w = do(r, http.MethodGet, "/api/v1/courses?subject=go", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), course.ID)

	w = do(r, http.MethodGet, "/api/v1/courses?subject=rust", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/courses?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	store.signErr = errors.New("permission denied")
	w = do(r, http.MethodGet, "/api/v1/courses/"+course.ID+"/export", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
