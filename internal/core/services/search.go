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

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// Search finds archived courses whose subject contains phrase, ignoring case.
// A blank phrase behaves like List.
func (s *CourseService) Search(ctx context.Context, phrase string, limit int) ([]*CourseSummary, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return s.List(ctx, limit)
	}

	q := s.BigqueryClient.Query(fmt.Sprintf(QrySearchCourses, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "phrase", Value: phrase},
		{Name: "limit", Value: ClampLimit(limit)},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}
	return collectSummaries(itr)
}

func collectSummaries(itr *bigquery.RowIterator) ([]*CourseSummary, error) {
	out := make([]*CourseSummary, 0)
	for {
		row := &CourseSummary{}
		err := itr.Next(row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to iterate results: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}
