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

// Package model defines the data structures shared by the course pipeline.
// This file holds the video-side types: caption tracks as exposed by the
// video platform, the raw video records it returns, and the immutable
// candidates handed to the selection oracle.
package model

import "strings"

const (
	// CandidateCount is the fixed number of search results requested per topic.
	CandidateCount = 5

	// TranscriptUnavailable is the transcript value of a candidate for which no
	// caption track could be fetched and decoded. It is valid data and is shown
	// to the oracle as-is.
	TranscriptUnavailable = "no transcript available"
)

// CaptionFormat is the decoding family of a caption payload.
type CaptionFormat string

const (
	FormatCueText     CaptionFormat = "cue-text"     // WebVTT style cues ("vtt").
	FormatSegmentJSON CaptionFormat = "segment-json" // events/segs JSON ("json3").
	FormatOther       CaptionFormat = "other"        // any other text encoding (srv3, ttml).
)

// formatPreference orders formats from most to least preferred.
var formatPreference = []CaptionFormat{FormatCueText, FormatSegmentJSON, FormatOther}

// knownExtensions maps the platform's extension tags to a decoding family.
// Extensions not listed here are never fetched.
var knownExtensions = map[string]CaptionFormat{
	"vtt":   FormatCueText,
	"json3": FormatSegmentJSON,
	"srv3":  FormatOther,
	"ttml":  FormatOther,
}

// FormatForExtension resolves a platform extension tag (e.g. "vtt") to its
// caption format. The boolean is false for unsupported extensions.
func FormatForExtension(ext string) (CaptionFormat, bool) {
	f, ok := knownExtensions[strings.ToLower(strings.TrimSpace(ext))]
	return f, ok
}

// Rank returns the preference position of the format, lower is better.
func (f CaptionFormat) Rank() int {
	for i, p := range formatPreference {
		if p == f {
			return i
		}
	}
	return len(formatPreference)
}

// CaptionTrack is a single fetchable caption payload for one language.
type CaptionTrack struct {
	Language  string        `json:"language"`  // Language tag, e.g. "en-GB".
	Format    CaptionFormat `json:"format"`    // Decoding family derived from Extension.
	Extension string        `json:"extension"` // Platform extension tag, e.g. "vtt".
	URL       string        `json:"url"`       // Reference used to fetch the payload.
}

// NewCaptionTrack builds a track from the platform's extension tag. The
// boolean is false when the extension is not a supported caption encoding.
func NewCaptionTrack(language string, ext string, url string) (CaptionTrack, bool) {
	format, ok := FormatForExtension(ext)
	if !ok || url == "" {
		return CaptionTrack{}, false
	}
	return CaptionTrack{Language: language, Format: format, Extension: strings.ToLower(ext), URL: url}, true
}

// CaptionSet groups a video's caption tracks by origin and language.
type CaptionSet struct {
	Manual    map[string][]CaptionTrack `json:"manual,omitempty"`    // Uploader provided tracks keyed by language.
	Automatic map[string][]CaptionTrack `json:"automatic,omitempty"` // Speech recognition tracks keyed by language.
}

// VideoRecord is a video as reported by the platform, either from a search
// listing (basic fields only) or from an extended metadata lookup.
type VideoRecord struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Description     string     `json:"description"`
	ViewCount       int64      `json:"view_count"`
	LikeCount       int64      `json:"like_count"`
	DurationSeconds int64      `json:"duration"`
	UploadDate      string     `json:"upload_date"`
	Uploader        string     `json:"uploader"`
	Channel         string     `json:"channel"`
	Captions        CaptionSet `json:"captions"`
}

// CandidateVideo is a search result enriched with its resolved transcript.
// Candidates are built once by the fetcher and never modified afterwards.
type CandidateVideo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Description     string `json:"description"`
	ViewCount       int64  `json:"view_count"`
	LikeCount       int64  `json:"like_count"`
	DurationSeconds int64  `json:"duration"`
	Channel         string `json:"channel"`
	Transcript      string `json:"transcript"`
}

// NewCandidateVideo copies the listing fields of a record and attaches the
// transcript. Negative counters reported by the platform are clamped to zero.
func NewCandidateVideo(record *VideoRecord, transcript string) *CandidateVideo {
	if transcript == "" {
		transcript = TranscriptUnavailable
	}
	channel := record.Channel
	if channel == "" {
		channel = record.Uploader
	}
	return &CandidateVideo{
		ID:              record.ID,
		Title:           record.Title,
		URL:             record.URL,
		Description:     record.Description,
		ViewCount:       nonNegative(record.ViewCount),
		LikeCount:       nonNegative(record.LikeCount),
		DurationSeconds: nonNegative(record.DurationSeconds),
		Channel:         channel,
		Transcript:      transcript,
	}
}

// HasTranscript reports whether a real transcript was resolved.
func (c *CandidateVideo) HasTranscript() bool {
	return c.Transcript != TranscriptUnavailable
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// WatchURL is the canonical watch page for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
