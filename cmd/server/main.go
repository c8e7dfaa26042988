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

// Package main is the entry point for the course builder server.
//
// The server exposes the synchronous course generation endpoint and the
// archive routes over HTTP, and runs the Pub/Sub listener that builds,
// archives and exports courses requested asynchronously.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/gcp-go-course-builder/internal/api"
	"github.com/jaycherian/gcp-go-course-builder/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	closeLog, err := telemetry.SetupLogging(os.Stdout, config.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = closeLog() }()
	slog.Info("logging initialized", "level", config.Logging.Level)

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("tracing initialized")

	InitState(ctx)
	defer state.cloud.Close()
	slog.Info("initialized state")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Application.Name))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:    []string{"*"},
		MaxAge:          12 * time.Hour,
	}))

	api.Root(r)
	apiV1 := r.Group("/api/v1")
	{
		api.Health(apiV1)
		api.GenerateCoursePath(apiV1, state.builder)
		api.CourseRouter(apiV1, state.courseService)
	}

	// A course build makes one oracle call per topic and can run for minutes.
	srv := &http.Server{
		Addr:         config.Application.ListenAddress,
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 15 * time.Minute,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("server ready", "address", config.Application.ListenAddress)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown failed", "error", err)
	}
	slog.Info("server exiting")
}
