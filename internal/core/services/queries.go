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

// BigQuery statements used by CourseService. The %s placeholder is the fully
// qualified course table; values are bound as named query parameters.
const (
	// QryFindCourseById loads one archived course row.
	QryFindCourseById = "SELECT * FROM `%s` WHERE id = @id LIMIT 1"

	// QryListCourses lists course rows without their payload, newest first.
	QryListCourses = "SELECT id, subject, target_level, title, topic_count, create_date FROM `%s` ORDER BY create_date DESC LIMIT @limit"

	// QrySearchCourses lists course rows whose subject contains @phrase.
	QrySearchCourses = "SELECT id, subject, target_level, title, topic_count, create_date FROM `%s` WHERE LOWER(subject) LIKE CONCAT('%%', LOWER(@phrase), '%%') ORDER BY create_date DESC LIMIT @limit"
)
