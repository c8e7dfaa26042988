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

// Package services reads archived courses back from BigQuery and hands out
// signed links to the exported course documents in Cloud Storage.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

const (
	// DefaultListLimit caps List when the caller passes a non-positive limit.
	DefaultListLimit = 20
	// MaxListLimit is the largest page List returns.
	MaxListLimit = 100
)

// ErrCourseNotFound is returned when no archived course has the requested id.
var ErrCourseNotFound = errors.New("course not found")

// CourseSummary is the listing view of an archived course.
type CourseSummary struct {
	ID          string    `json:"id" bigquery:"id"`
	Subject     string    `json:"subject" bigquery:"subject"`
	TargetLevel string    `json:"targetLevel" bigquery:"target_level"`
	Title       string    `json:"title" bigquery:"title"`
	TopicCount  int       `json:"topicCount" bigquery:"topic_count"`
	CreateDate  time.Time `json:"createDate" bigquery:"create_date"`
}

// CourseService is the data access layer for archived courses.
type CourseService struct {
	BigqueryClient *bigquery.Client                  // Client for the course archive.
	StorageClient  *storage.Client                   // Client for the export bucket.
	IAMClient      *credentials.IamCredentialsClient // Signs export URLs on behalf of SignerEmail.
	SignerEmail    string                            // Service account used to sign URLs.
	DatasetName    string
	CourseTable    string
	ExportBucket   string
	ExportPrefix   string
}

// NewCourseService builds the service from the shared clients and config.
func NewCourseService(config *cloud.Config, clients *cloud.ServiceClients) *CourseService {
	return &CourseService{
		BigqueryClient: clients.BigQueryClient,
		StorageClient:  clients.StorageClient,
		IAMClient:      clients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		CourseTable:    config.BigQueryDataSource.CourseTable,
		ExportBucket:   config.Storage.CourseExportBucket,
		ExportPrefix:   config.Storage.ExportPrefix,
	}
}

// GetFQN returns the dotted, query-ready name of the course table.
func (s *CourseService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.CourseTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Get loads the archived course with the given id.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindCourseById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	record := &model.CourseRecord{}
	err = itr.Next(record)
	if errors.Is(err, iterator.Done) {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return record.Course()
}

// List returns the most recent courses, newest first.
func (s *CourseService) List(ctx context.Context, limit int) ([]*CourseSummary, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListCourses, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: ClampLimit(limit)}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	return collectSummaries(itr)
}

// ClampLimit maps a requested page size into [1, MaxListLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// ExportObject returns the location the export step writes course to.
func (s *CourseService) ExportObject(course *model.Course) *cloud.GCSObject {
	return &cloud.GCSObject{
		Bucket:   s.ExportBucket,
		Name:     cloud.ExportObjectName(s.ExportPrefix, model.CourseFileName(course.Subject, course.TargetLevel)),
		MIMEType: "application/json",
	}
}

// GenerateSignedURL creates a V4 GET URL for object that expires after
// expires. The signature is produced by the IAM Credentials API for
// SignerEmail, so no private key has to be present locally.
func (s *CourseService) GenerateSignedURL(ctx context.Context, object *cloud.GCSObject, expires time.Duration) (string, error) {
	if object.Bucket == "" {
		return "", errors.New("no export bucket configured")
	}
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expires),
		GoogleAccessID: s.SignerEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			req := &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b,
			}
			resp, err := s.IAMClient.SignBlob(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
			}
			return resp.SignedBlob, nil
		},
	}

	u, err := s.StorageClient.Bucket(object.Bucket).SignedURL(object.Name, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).SignedURL(%q): %w", object.Bucket, object.Name, err)
	}
	return u, nil
}
