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
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ContentQuality is the oracle's coarse quality tier for a selected video.
type ContentQuality string

const (
	QualityHigh   ContentQuality = "high"
	QualityMedium ContentQuality = "medium"
	QualityLow    ContentQuality = "low"
)

const (
	// MaxReasonLength bounds the free-text justification kept from a verdict.
	MaxReasonLength = 200
	// MaxRelevanceScore is the upper bound of the relevance scale.
	MaxRelevanceScore = 100
	// MaxOffsetMs bounds segment offsets so that later arithmetic cannot overflow.
	MaxOffsetMs = math.MaxInt64 / 2
)

// SelectionVerdict is the validated decision of the selection oracle.
type SelectionVerdict struct {
	VideoNumber    int            `json:"videoNumber"`    // 1-based position in the candidate list.
	YoutubeURL     string         `json:"youtubeUrl"`     // Canonical URL of the chosen video.
	Title          string         `json:"title"`          // Title of the chosen video.
	Reason         string         `json:"reason"`         // Justification, at most MaxReasonLength runes.
	StartTimeMs    int64          `json:"startTimeMs"`    // Segment start, milliseconds.
	EndTimeMs      int64          `json:"endTimeMs"`      // Segment end, milliseconds, >= StartTimeMs.
	ContentQuality ContentQuality `json:"contentQuality"` // high, medium or low.
	RelevanceScore int            `json:"relevanceScore"` // 0..100.
}

// verdictEnvelope mirrors the reply shape requested in the selection prompt.
// Pointer fields distinguish an absent value from a zero value.
type verdictEnvelope struct {
	SelectedVideo *struct {
		VideoNumber    *float64 `json:"videoNumber"`
		YoutubeURL     string   `json:"youtubeUrl"`
		Title          string   `json:"title"`
		Reason         string   `json:"reason"`
		StartTimeMs    *float64 `json:"startTimeMs"`
		EndTimeMs      *float64 `json:"endTimeMs"`
		ContentQuality string   `json:"contentQuality"`
		RelevanceScore *float64 `json:"relevanceScore"`
	} `json:"selectedVideo"`
}

// StripCodeFence removes a leading "```json" or "```" marker and the matching
// trailing "```" from an oracle reply.
func StripCodeFence(in string) string {
	out := strings.TrimSpace(in)
	switch {
	case strings.HasPrefix(out, "```json"):
		out = strings.TrimPrefix(out, "```json")
	case strings.HasPrefix(out, "```"):
		out = strings.TrimPrefix(out, "```")
	default:
		return out
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// ParseSelectionVerdict decodes and validates a selection reply. Any problem
// yields a nil verdict and an error wrapping ErrNoVerdict; callers treat the
// topic as unresolved.
func ParseSelectionVerdict(raw string) (*SelectionVerdict, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrNoVerdict)
	}

	var env verdictEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", ErrNoVerdict, err)
	}
	sv := env.SelectedVideo
	if sv == nil {
		return nil, fmt.Errorf("%w: missing selectedVideo", ErrNoVerdict)
	}
	if sv.VideoNumber == nil {
		return nil, fmt.Errorf("%w: missing videoNumber", ErrNoVerdict)
	}
	number, err := integralField("videoNumber", *sv.VideoNumber, 1, CandidateCount)
	if err != nil {
		return nil, err
	}

	out := &SelectionVerdict{
		VideoNumber: int(number),
		YoutubeURL:  strings.TrimSpace(sv.YoutubeURL),
		Title:       strings.TrimSpace(sv.Title),
		Reason:      truncateRunes(strings.TrimSpace(sv.Reason), MaxReasonLength),
	}
	if sv.StartTimeMs != nil {
		if out.StartTimeMs, err = integralField("startTimeMs", *sv.StartTimeMs, 0, MaxOffsetMs); err != nil {
			return nil, err
		}
	}
	if sv.EndTimeMs != nil {
		if out.EndTimeMs, err = integralField("endTimeMs", *sv.EndTimeMs, 0, MaxOffsetMs); err != nil {
			return nil, err
		}
	}
	if out.EndTimeMs < out.StartTimeMs {
		return nil, fmt.Errorf("%w: invalid segment [%d, %d]", ErrNoVerdict, out.StartTimeMs, out.EndTimeMs)
	}

	quality, err := parseQuality(sv.ContentQuality)
	if err != nil {
		return nil, err
	}
	out.ContentQuality = quality

	if sv.RelevanceScore != nil {
		score, err := integralField("relevanceScore", *sv.RelevanceScore, 0, MaxRelevanceScore)
		if err != nil {
			return nil, err
		}
		out.RelevanceScore = int(score)
	}
	return out, nil
}

// BindCandidates checks the verdict against the candidate list it was
// produced for and fills a missing URL or title from the chosen candidate.
func (v *SelectionVerdict) BindCandidates(candidates []*CandidateVideo) error {
	if v.VideoNumber < 1 || v.VideoNumber > len(candidates) {
		return fmt.Errorf("%w: videoNumber %d outside 1..%d", ErrNoVerdict, v.VideoNumber, len(candidates))
	}
	chosen := candidates[v.VideoNumber-1]
	if v.YoutubeURL == "" {
		v.YoutubeURL = chosen.URL
	}
	if v.Title == "" {
		v.Title = chosen.Title
	}
	if v.YoutubeURL == "" {
		return fmt.Errorf("%w: no url for video %d", ErrNoVerdict, v.VideoNumber)
	}
	return nil
}

// integralField converts a decoded JSON number to int64 after checking that it
// is a whole number within [min, max].
func integralField(name string, value float64, min int64, max int64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, fmt.Errorf("%w: %s %v is not an integer", ErrNoVerdict, name, value)
	}
	if value < float64(min) || value > float64(max) {
		return 0, fmt.Errorf("%w: %s %v outside %d..%d", ErrNoVerdict, name, value, min, max)
	}
	return int64(value), nil
}

// parseQuality accepts the three tiers case-insensitively; an empty value
// defaults to medium.
func parseQuality(in string) (ContentQuality, error) {
	switch q := ContentQuality(strings.ToLower(strings.TrimSpace(in))); q {
	case "":
		return QualityMedium, nil
	case QualityHigh, QualityMedium, QualityLow:
		return q, nil
	default:
		return "", fmt.Errorf("%w: unknown contentQuality %q", ErrNoVerdict, in)
	}
}

func truncateRunes(in string, max int) string {
	if utf8.RuneCountInString(in) <= max {
		return in
	}
	return string([]rune(in)[:max])
}
