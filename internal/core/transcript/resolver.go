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

package transcript

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// PreferredLanguages is the language order used to pick a caption track.
var PreferredLanguages = []string{"en", "en-US", "en-GB"}

// PayloadFetcher retrieves a caption payload by reference. Any error marks the
// track as unusable.
type PayloadFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Resolver selects the best caption track of a video and decodes it.
type Resolver struct {
	fetcher PayloadFetcher
}

// NewResolver creates a resolver that downloads payloads through fetcher.
func NewResolver(fetcher PayloadFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve returns the decoded transcript of the best available track, or
// model.TranscriptUnavailable when no track qualifies or every attempt fails.
//
// Manual tracks win over automatic ones when they offer a preferred language.
// Within the first preferred language found, tracks are tried in format order
// cue-text, segment-json, other until one yields non-empty text. Other
// languages are not consulted once a preferred language was found.
func (r *Resolver) Resolve(ctx context.Context, captions model.CaptionSet) string {
	language, tracks := SelectTracks(captions)
	if len(tracks) == 0 {
		return model.TranscriptUnavailable
	}

	for _, track := range tracks {
		payload, err := r.fetcher.Fetch(ctx, track.URL)
		if err != nil {
			slog.DebugContext(ctx, "caption track unusable", "language", language, "format", track.Extension, "error", err)
			continue
		}
		if text := Decode(payload, track.Format); text != "" {
			return text
		}
		slog.DebugContext(ctx, "caption track decoded to empty text", "language", language, "format", track.Extension)
	}
	return model.TranscriptUnavailable
}

// SelectTracks applies the source and language policy and returns the chosen
// language with its supported tracks in preferred format order.
func SelectTracks(captions model.CaptionSet) (string, []model.CaptionTrack) {
	source := captions.Automatic
	if hasPreferredLanguage(captions.Manual) {
		source = captions.Manual
	}

	for _, language := range PreferredLanguages {
		entries, ok := source[language]
		if !ok {
			continue
		}
		tracks := make([]model.CaptionTrack, 0, len(entries))
		for _, track := range entries {
			if _, known := model.FormatForExtension(track.Extension); known && track.URL != "" {
				tracks = append(tracks, track)
			}
		}
		sort.SliceStable(tracks, func(i, j int) bool {
			return tracks[i].Format.Rank() < tracks[j].Format.Rank()
		})
		return language, tracks
	}
	return "", nil
}

func hasPreferredLanguage(tracks map[string][]model.CaptionTrack) bool {
	for _, language := range PreferredLanguages {
		if _, ok := tracks[language]; ok {
			return true
		}
	}
	return false
}
