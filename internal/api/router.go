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

// Package api defines the HTTP routes of the course builder server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/services"
)

const (
	ServiceName = "course-generator"

	MsgGenerated   = "Course generated successfully"
	MsgFailed      = "Course generation failed"
	MsgError       = "Error occurred during course generation"
	ExportLinkTTL  = 15 * time.Minute
	defaultListMax = services.DefaultListLimit
)

// CourseBuilder builds a course synchronously.
type CourseBuilder interface {
	Build(ctx context.Context, request *model.CourseRequest) *model.CourseResult
}

// CourseStore reads archived courses. *services.CourseService satisfies it.
type CourseStore interface {
	Get(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, limit int) ([]*services.CourseSummary, error)
	Search(ctx context.Context, phrase string, limit int) ([]*services.CourseSummary, error)
	ExportObject(course *model.Course) *cloud.GCSObject
	GenerateSignedURL(ctx context.Context, object *cloud.GCSObject, expires time.Duration) (string, error)
}

// CourseResponse is the envelope of POST /generate-course-path.
type CourseResponse struct {
	Success bool              `json:"success"`
	Data    *model.CourseData `json:"data"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Root registers the service banner at GET /.
func Root(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Course Builder API", "status": "running"})
	})
}

// Health registers GET /health.
func Health(r *gin.RouterGroup) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
	})
}

// GenerateCoursePath registers POST /generate-course-path. Generation
// outcomes are reported in the envelope with status 200; only a body that
// cannot be bound is a 400.
func GenerateCoursePath(r *gin.RouterGroup, builder CourseBuilder) {
	r.POST("/generate-course-path", func(c *gin.Context) {
		var msg commands.CourseRequestMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, CourseResponse{Error: err.Error(), Message: MsgError})
			return
		}

		request, err := model.NewCourseRequest(msg.Subject, msg.DifficultyLevel)
		if err != nil {
			c.JSON(http.StatusOK, CourseResponse{Error: err.Error(), Message: MsgError})
			return
		}

		slog.InfoContext(c.Request.Context(), "generating course", "subject", request.Subject, "level", request.Difficulty)
		result := builder.Build(c.Request.Context(), request)
		if !result.Success {
			c.JSON(http.StatusOK, CourseResponse{Error: result.Error, Message: MsgFailed})
			return
		}
		c.JSON(http.StatusOK, CourseResponse{Success: true, Data: result.Data, Message: MsgGenerated})
	})
}

// CourseRouter registers the archive routes under /courses.
func CourseRouter(r *gin.RouterGroup, store CourseStore) {
	courses := r.Group("/courses")
	{
		courses.GET("", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListMax)))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
				return
			}
			out, err := store.Search(c.Request.Context(), c.Query("subject"), limit)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "failed to list courses", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		courses.GET("/:id", func(c *gin.Context) {
			course, ok := getCourse(c, store)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, course)
		})

		courses.GET("/:id/export", func(c *gin.Context) {
			course, ok := getCourse(c, store)
			if !ok {
				return
			}
			object := store.ExportObject(course)
			url, err := store.GenerateSignedURL(c.Request.Context(), object, ExportLinkTTL)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "failed to sign export url", "object", object.URI(), "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate export URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": url, "object": object.URI()})
		})
	}
}

func getCourse(c *gin.Context, store CourseStore) (*model.Course, bool) {
	id := c.Param("id")
	course, err := store.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return nil, false
	case err != nil:
		slog.ErrorContext(c.Request.Context(), "failed to load course", "id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}
	return course, true
}
