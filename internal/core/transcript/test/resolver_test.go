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

package transcript_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/transcript"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func track(lang, ext, url string) model.CaptionTrack {
	out, _ := model.NewCaptionTrack(lang, ext, url)
	return out
}

func TestResolveAutomaticOnly(t *testing.T) {
	fetcher := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/auto-gb.vtt": test.GetTestVTTPayload(),
	})
	resolver := transcript.NewResolver(fetcher)

	captions := model.CaptionSet{
		Automatic: map[string][]model.CaptionTrack{
			"en-GB": {track("en-GB", "vtt", "https://captions/auto-gb.vtt")},
		},
	}

	language, tracks := transcript.SelectTracks(captions)
	assert.Equal(t, "en-GB", language)
	assert.Len(t, tracks, 1)

	out := resolver.Resolve(context.Background(), captions)
	assert.Contains(t, out, "A variable stores a value.")
	assert.Equal(t, []string{"https://captions/auto-gb.vtt"}, fetcher.Requested())
}

func TestResolvePrefersManualAndLanguageOrder(t *testing.T) {
	fetcher := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/manual-us.json3": test.GetTestJSON3Payload(),
		"https://captions/manual-gb.vtt":   test.GetTestVTTPayload(),
		"https://captions/auto-en.vtt":     test.GetTestVTTPayload(),
	})
	resolver := transcript.NewResolver(fetcher)

	captions := model.CaptionSet{
		Manual: map[string][]model.CaptionTrack{
			"en-GB": {track("en-GB", "vtt", "https://captions/manual-gb.vtt")},
			"en-US": {track("en-US", "json3", "https://captions/manual-us.json3")},
		},
		Automatic: map[string][]model.CaptionTrack{
			"en": {track("en", "vtt", "https://captions/auto-en.vtt")},
		},
	}

	out := resolver.Resolve(context.Background(), captions)
	assert.Equal(t, "Loops repeat work. A for loop iterates a range. while loops check a condition.", out)
	assert.Equal(t, []string{"https://captions/manual-us.json3"}, fetcher.Requested())
}

func TestResolveManualWithoutPreferredLanguageUsesAutomatic(t *testing.T) {
	fetcher := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/auto-en.json3": test.GetTestJSON3Payload(),
	})
	captions := model.CaptionSet{
		Manual: map[string][]model.CaptionTrack{
			"fr": {track("fr", "vtt", "https://captions/manual-fr.vtt")},
		},
		Automatic: map[string][]model.CaptionTrack{
			"en": {track("en", "json3", "https://captions/auto-en.json3")},
		},
	}
	out := transcript.NewResolver(fetcher).Resolve(context.Background(), captions)
	assert.Contains(t, out, "Loops repeat work.")
}

func TestResolveFormatOrderAndFallback(t *testing.T) {
	// The cue-text track fails to download, so the segment-json track is used.
	fetcher := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/en.srv3":  "<timedtext><p t=\"0\">raw srv3 text</p></timedtext>",
		"https://captions/en.json3": test.GetTestJSON3Payload(),
	})
	captions := model.CaptionSet{
		Manual: map[string][]model.CaptionTrack{
			"en": {
				track("en", "srv3", "https://captions/en.srv3"),
				track("en", "json3", "https://captions/en.json3"),
				track("en", "vtt", "https://captions/en.vtt"),
			},
		},
	}

	_, tracks := transcript.SelectTracks(captions)
	assert.Equal(t, model.FormatCueText, tracks[0].Format)
	assert.Equal(t, model.FormatSegmentJSON, tracks[1].Format)
	assert.Equal(t, model.FormatOther, tracks[2].Format)

	out := transcript.NewResolver(fetcher).Resolve(context.Background(), captions)
	assert.Contains(t, out, "Loops repeat work.")
	assert.Equal(t, []string{"https://captions/en.vtt", "https://captions/en.json3"}, fetcher.Requested())
}

func TestResolveUnavailable(t *testing.T) {
	fetcher := test.NewFakePayloadFetcher(map[string]string{})
	resolver := transcript.NewResolver(fetcher)

	// No tracks at all.
	assert.Equal(t, model.TranscriptUnavailable, resolver.Resolve(context.Background(), model.CaptionSet{}))

	// Only non-preferred languages.
	assert.Equal(t, model.TranscriptUnavailable, resolver.Resolve(context.Background(), model.CaptionSet{
		Automatic: map[string][]model.CaptionTrack{"de": {track("de", "vtt", "https://captions/de.vtt")}},
	}))

	// Every fetch fails; later languages are not consulted.
	assert.Equal(t, model.TranscriptUnavailable, resolver.Resolve(context.Background(), model.CaptionSet{
		Manual: map[string][]model.CaptionTrack{
			"en":    {track("en", "vtt", "https://captions/missing.vtt")},
			"en-US": {track("en-US", "vtt", "https://captions/other.vtt")},
		},
	}))
	assert.Equal(t, []string{"https://captions/missing.vtt"}, fetcher.Requested())
}

func TestResolveSkipsEmptyDecodes(t *testing.T) {
	fetcher := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/empty.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n\n",
		"https://captions/ok.ttml":   "<tt><p>usable text</p></tt>",
	})
	captions := model.CaptionSet{
		Automatic: map[string][]model.CaptionTrack{
			"en": {
				track("en", "ttml", "https://captions/ok.ttml"),
				track("en", "vtt", "https://captions/empty.vtt"),
			},
		},
	}
	out := transcript.NewResolver(fetcher).Resolve(context.Background(), captions)
	assert.Equal(t, "usable text", out)
}
