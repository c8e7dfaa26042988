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

// This file defines the course graph produced by the pipeline: the request
// that starts a build, the per-topic work item, the topic nodes, the course
// itself and the JSON envelope returned to callers.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	topicIDPrefix  = "topic-"
	courseIDPrefix = "course-"

	defaultReason = "Educational content"
)

// CourseRequest is a validated request to build a course.
type CourseRequest struct {
	Subject    string     `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
}

// NewCourseRequest trims the subject and normalizes the difficulty.
func NewCourseRequest(subject string, difficulty string) (*CourseRequest, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	return &CourseRequest{Subject: subject, Difficulty: d}, nil
}

// TopicRequest is the work item for resolving one topic.
type TopicRequest struct {
	Subject         string
	Difficulty      Difficulty
	Name            string
	Index           int    // 1-based position in the generated topic list.
	PreviousTopicID string // Id of the last topic added to the course, empty for the first.
}

// VideoSegment locates the chosen portion of a video in whole seconds.
type VideoSegment struct {
	YoutubeURL string `json:"youtubeUrl"`
	Title      string `json:"title"`
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
}

// QualityMetrics carries the oracle's assessment of the chosen segment.
type QualityMetrics struct {
	ContentQuality ContentQuality `json:"contentQuality"`
	RelevanceScore int            `json:"relevanceScore"`
}

// TopicNode is one resolved topic of a course. Nodes are never mutated after
// creation.
type TopicNode struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	VideoInfo      VideoSegment   `json:"videoInfo"`
	Prerequisites  []string       `json:"prerequisites"`
	Tags           []string       `json:"tags"`
	QualityMetrics QualityMetrics `json:"qualityMetrics"`
}

// NewTopicNode folds a verdict into a topic node. The prerequisite list holds
// exactly the previous topic's id when the topic is not the first one.
func NewTopicNode(topic *TopicRequest, verdict *SelectionVerdict) *TopicNode {
	reason := verdict.Reason
	if reason == "" {
		reason = defaultReason
	}
	quality := verdict.ContentQuality
	if quality == "" {
		quality = QualityMedium
	}

	prerequisites := make([]string, 0, 1)
	if topic.Index > 1 && topic.PreviousTopicID != "" {
		prerequisites = append(prerequisites, topic.PreviousTopicID)
	}

	return &TopicNode{
		ID:          topicIDPrefix + uuid.NewString(),
		Name:        topic.Name,
		Description: fmt.Sprintf("Learn about %s - %s", strings.ToLower(topic.Name), reason),
		VideoInfo: VideoSegment{
			YoutubeURL: verdict.YoutubeURL,
			Title:      verdict.Title,
			StartTime:  MillisToSeconds(verdict.StartTimeMs),
			EndTime:    MillisToSeconds(verdict.EndTimeMs),
		},
		Prerequisites: prerequisites,
		Tags:          DeriveTags(topic.Name),
		QualityMetrics: QualityMetrics{
			ContentQuality: quality,
			RelevanceScore: verdict.RelevanceScore,
		},
	}
}

// MillisToSeconds truncates a millisecond offset to whole seconds.
func MillisToSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return ms / 1000
}

// Course is the ordered result of a build. Topics that failed to resolve are
// omitted.
type Course struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	TargetLevel Difficulty   `json:"targetLevel"`
	Topics      []*TopicNode `json:"topics"`
}

// NewCourse creates an empty course for the request.
func NewCourse(request *CourseRequest) *Course {
	return &Course{
		ID:          courseIDPrefix + uuid.NewString(),
		Subject:     request.Subject,
		Title:       fmt.Sprintf("%s Learning Path", request.Subject),
		Description: fmt.Sprintf("A step-by-step learning path for mastering %s at %s level.", request.Subject, request.Difficulty),
		TargetLevel: request.Difficulty,
		Topics:      make([]*TopicNode, 0),
	}
}

// LastTopicID returns the id of the most recently added topic, or "".
func (c *Course) LastTopicID() string {
	if len(c.Topics) == 0 {
		return ""
	}
	return c.Topics[len(c.Topics)-1].ID
}

// SkippedTopic records a topic that was dropped from the course.
type SkippedTopic struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RunSummary reports how many generated topics made it into the course.
type RunSummary struct {
	TopicsGenerated int            `json:"topicsGenerated"`
	TopicsResolved  int            `json:"topicsResolved"`
	SkippedTopics   []SkippedTopic `json:"skippedTopics"`
}

// CoursePath is the course header of the response envelope.
type CoursePath struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetLevel Difficulty `json:"targetLevel"`
}

// CourseData is the payload of a successful result.
type CourseData struct {
	CoursePath CoursePath   `json:"coursePath"`
	Topics     []*TopicNode `json:"topics"`
	Summary    *RunSummary  `json:"summary,omitempty"`
}

// CourseResult is the structured outcome of a build: either a course or an
// error message, never both.
type CourseResult struct {
	Success bool        `json:"success"`
	Data    *CourseData `json:"data"`
	Error   string      `json:"error,omitempty"`
}

// NewSuccessResult wraps a finished course.
func NewSuccessResult(course *Course, summary *RunSummary) *CourseResult {
	return &CourseResult{
		Success: true,
		Data: &CourseData{
			CoursePath: CoursePath{
				ID:          course.ID,
				Title:       course.Title,
				Description: course.Description,
				TargetLevel: course.TargetLevel,
			},
			Topics:  course.Topics,
			Summary: summary,
		},
	}
}

// NewFailureResult wraps a fatal error.
func NewFailureResult(err error) *CourseResult {
	return &CourseResult{Success: false, Error: err.Error()}
}

// CourseFileName is the export file name for a course, e.g.
// "course_python_programming_beginner.json".
func CourseFileName(subject string, difficulty Difficulty) string {
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(strings.ToLower(strings.TrimSpace(subject)))
	return fmt.Sprintf("course_%s_%s.json", safe, difficulty)
}

// CourseRecord is the archived form of a course stored in BigQuery. The full
// course is kept as a JSON payload next to a few queryable columns.
type CourseRecord struct {
	ID          string    `json:"id" bigquery:"id"`
	Subject     string    `json:"subject" bigquery:"subject"`
	TargetLevel string    `json:"target_level" bigquery:"target_level"`
	Title       string    `json:"title" bigquery:"title"`
	TopicCount  int       `json:"topic_count" bigquery:"topic_count"`
	Payload     string    `json:"payload" bigquery:"payload"`
	CreateDate  time.Time `json:"create_date" bigquery:"create_date"`
}

// NewCourseRecord serializes a course for archiving.
func NewCourseRecord(course *Course) (*CourseRecord, error) {
	payload, err := json.Marshal(course)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal course %s: %w", course.ID, err)
	}
	return &CourseRecord{
		ID:          course.ID,
		Subject:     course.Subject,
		TargetLevel: string(course.TargetLevel),
		Title:       course.Title,
		TopicCount:  len(course.Topics),
		Payload:     string(payload),
		CreateDate:  time.Now(),
	}, nil
}

// Course restores the archived course.
func (r *CourseRecord) Course() (*Course, error) {
	out := &Course{}
	if err := json.Unmarshal([]byte(r.Payload), out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course %s: %w", r.ID, err)
	}
	return out, nil
}
