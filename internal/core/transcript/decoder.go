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

// Package transcript turns a video's caption tracks into a single plain-text
// transcript. Decode handles one payload; Resolver picks which payload to
// fetch and decode.
package transcript

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

var (
	timeRangePattern  = regexp.MustCompile(`\d{2}:\d{2}:\d{2}[.,]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[.,]\d{3}`)
	sequenceLine      = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	markupTagPattern  = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cueHeaderPrefixes are the cue-text lines that carry no spoken content.
var cueHeaderPrefixes = []string{"WEBVTT", "NOTE", "STYLE", "REGION", "Kind:", "Language:"}

// segmentDocument is the events/segs caption encoding.
type segmentDocument struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Decode converts a raw caption payload into plain text with no markup, no
// timing lines and no sequence numbers. It never fails: a payload that cannot
// be parsed in its declared format is cleaned as plain text instead.
func Decode(payload []byte, format model.CaptionFormat) string {
	raw := strings.ToValidUTF8(string(payload), "")
	switch format {
	case model.FormatCueText:
		return decodeCueText(raw)
	case model.FormatSegmentJSON:
		if text, ok := decodeSegmentJSON(raw); ok {
			return text
		}
		return cleanText(raw)
	default:
		return cleanText(raw)
	}
}

func decodeCueText(raw string) string {
	kept := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" || isCueMetadata(line) || strings.Contains(line, "-->") || isDigits(line) {
			continue
		}
		line = strings.TrimSpace(markupTagPattern.ReplaceAllString(line, ""))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return collapse(strings.Join(kept, " "))
}

func decodeSegmentJSON(raw string) (string, bool) {
	var doc segmentDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", false
	}
	parts := make([]string, 0)
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			if seg.UTF8 != "" {
				parts = append(parts, seg.UTF8)
			}
		}
	}
	return collapse(strings.Join(parts, " ")), true
}

// cleanText is the best-effort policy for encodings without a dedicated parser.
func cleanText(raw string) string {
	out := timeRangePattern.ReplaceAllString(raw, "")
	out = sequenceLine.ReplaceAllString(out, "")
	out = markupTagPattern.ReplaceAllString(out, "")
	return collapse(out)
}

func collapse(in string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(in, " "))
}

func isCueMetadata(line string) bool {
	for _, prefix := range cueHeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func isDigits(line string) bool {
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
