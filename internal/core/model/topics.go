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

package model

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseTopicList extracts topic names from a numbered-list reply. Only lines
// starting with a digit are kept; the text after the first period is the
// topic name, and a line without a period is kept verbatim. Order and
// duplicates are preserved.
func ParseTopicList(reply string) []string {
	topics := make([]string, 0)
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(line); !unicode.IsDigit(r) {
			continue
		}
		topic := line
		if _, after, found := strings.Cut(line, "."); found {
			topic = strings.TrimSpace(after)
		}
		topics = append(topics, topic)
	}
	return topics
}

const (
	// MaxTags bounds the number of tags derived for a topic.
	MaxTags = 5
	// minTagLength is the shortest token kept as a tag.
	minTagLength = 3
)

var (
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	stopWords = map[string]struct{}{
		"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {}, "on": {},
		"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	}
)

// DeriveTags tokenizes a topic name into at most MaxTags lowercase tags,
// dropping stop-words and tokens of two characters or fewer.
func DeriveTags(topic string) []string {
	tags := make([]string, 0, MaxTags)
	for _, word := range wordPattern.FindAllString(strings.ToLower(topic), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if utf8.RuneCountInString(word) < minTagLength {
			continue
		}
		tags = append(tags, word)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
