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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

const (
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func heading(title string, width int, colorize bool) string {
	rule := strings.Repeat("=", width)
	if colorize {
		return fmt.Sprintf("%s%s\n%s\n%s%s\n", ansiBlue, rule, title, rule, ansiReset)
	}
	return fmt.Sprintf("%s\n%s\n%s\n", rule, title, rule)
}

// renderCourse prints the course header followed by either a topic table or
// one block per topic.
func renderCourse(w io.Writer, result *model.CourseResult, details bool, colorize bool) error {
	data := result.Data
	var sb strings.Builder
	sb.WriteString(heading("GENERATED COURSE PATH", 80, colorize))
	fmt.Fprintf(&sb, "Course ID: %s\n", data.CoursePath.ID)
	fmt.Fprintf(&sb, "Title: %s\n", data.CoursePath.Title)
	fmt.Fprintf(&sb, "Description: %s\n", data.CoursePath.Description)
	fmt.Fprintf(&sb, "Target Level: %s\n", data.CoursePath.TargetLevel)
	fmt.Fprintf(&sb, "Total Topics: %d\n", len(data.Topics))

	if details {
		for i, topic := range data.Topics {
			writeTopicBlock(&sb, i+1, topic)
		}
	} else if len(data.Topics) > 0 {
		sb.WriteString("\n")
		sb.WriteString(topicTable(data.Topics))
		sb.WriteString("\n")
	}

	if s := data.Summary; s != nil && len(s.SkippedTopics) > 0 {
		fmt.Fprintf(&sb, "\nSkipped %d of %d topics:\n", len(s.SkippedTopics), s.TopicsGenerated)
		for _, skipped := range s.SkippedTopics {
			fmt.Fprintf(&sb, "  - %s: %s\n", skipped.Name, skipped.Reason)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTopicBlock(sb *strings.Builder, n int, topic *model.TopicNode) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(sb, "\n%s\nTOPIC %d: %s\n%s\n", rule, n, topic.Name, rule)
	fmt.Fprintf(sb, "ID: %s\n", topic.ID)
	fmt.Fprintf(sb, "Description: %s\n", topic.Description)
	fmt.Fprintf(sb, "Video URL: %s\n", topic.VideoInfo.YoutubeURL)
	fmt.Fprintf(sb, "Video Title: %s\n", topic.VideoInfo.Title)
	fmt.Fprintf(sb, "Start Time: %d seconds\n", topic.VideoInfo.StartTime)
	fmt.Fprintf(sb, "End Time: %d seconds\n", topic.VideoInfo.EndTime)
	fmt.Fprintf(sb, "Content Quality: %s\n", topic.QualityMetrics.ContentQuality)
	fmt.Fprintf(sb, "Relevance Score: %d\n", topic.QualityMetrics.RelevanceScore)
	if len(topic.Prerequisites) > 0 {
		fmt.Fprintf(sb, "Prerequisites: %s\n", strings.Join(topic.Prerequisites, ", "))
	}
	if len(topic.Tags) > 0 {
		fmt.Fprintf(sb, "Tags: %s\n", strings.Join(topic.Tags, ", "))
	}
}

func topicTable(topics []*model.TopicNode) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Topic", "Video", "Segment", "Quality", "Score"})
	for i, topic := range topics {
		tw.AppendRow(table.Row{
			i + 1,
			topic.Name,
			topic.VideoInfo.YoutubeURL,
			fmt.Sprintf("%ds-%ds", topic.VideoInfo.StartTime, topic.VideoInfo.EndTime),
			topic.QualityMetrics.ContentQuality,
			topic.QualityMetrics.RelevanceScore,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 40},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
