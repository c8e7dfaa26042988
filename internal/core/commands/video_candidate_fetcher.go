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

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/transcript"
	"github.com/jaycherian/gcp-go-course-builder/internal/youtube"
)

// VideoCandidateFetcher searches the video platform for a topic and builds up
// to model.CandidateCount candidates with their transcripts.
type VideoCandidateFetcher struct {
	cor.BaseCommand
	platform youtube.Platform
	resolver *transcript.Resolver
}

func NewVideoCandidateFetcher(name string, platform youtube.Platform, resolver *transcript.Resolver) *VideoCandidateFetcher {
	return &VideoCandidateFetcher{
		BaseCommand: *cor.NewBaseCommand(name),
		platform:    platform,
		resolver:    resolver,
	}
}

// SearchPhrase is "subject: topic", or the topic alone when subject is empty.
func SearchPhrase(subject string, topic string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return topic
	}
	return fmt.Sprintf("%s: %s", subject, topic)
}

// Fetch returns the candidates for topic in search order. A failed search
// yields no candidates. A result whose details cannot be read is kept with
// its search fields and no transcript.
func (v *VideoCandidateFetcher) Fetch(ctx context.Context, subject string, topic string) []*model.CandidateVideo {
	phrase := SearchPhrase(subject, topic)
	results, err := v.platform.Search(ctx, phrase, model.CandidateCount)
	if err != nil {
		slog.WarnContext(ctx, "video search failed", "phrase", phrase, "error", err)
		return []*model.CandidateVideo{}
	}
	if len(results) > model.CandidateCount {
		results = results[:model.CandidateCount]
	}

	out := make([]*model.CandidateVideo, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		basic := *result
		if basic.URL == "" && basic.ID != "" {
			basic.URL = model.WatchURL(basic.ID)
		}

		details, err := v.platform.Details(ctx, basic.ID)
		if err == nil && details == nil {
			err = errors.New("no detail record returned")
		}
		if err != nil {
			slog.WarnContext(ctx, "using search fields only", "video", basic.ID, "error", err)
			out = append(out, model.NewCandidateVideo(&basic, model.TranscriptUnavailable))
			continue
		}
		if details.URL == "" {
			details.URL = basic.URL
		}
		if details.Title == "" {
			details.Title = basic.Title
		}
		out = append(out, model.NewCandidateVideo(details, v.resolver.Resolve(ctx, details.Captions)))
	}
	return out
}

// Execute reads the *model.TopicRequest at the input parameter and writes the
// []*model.CandidateVideo to the output parameter. No candidates is an error
// wrapping model.ErrNoCandidates.
func (v *VideoCandidateFetcher) Execute(context cor.Context) {
	topic := context.Get(v.GetInputParam()).(*model.TopicRequest)

	candidates := v.Fetch(context.GetContext(), topic.Subject, topic.Name)
	if len(candidates) == 0 {
		v.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(v.GetName(), fmt.Errorf("%w for %q", model.ErrNoCandidates, topic.Name))
		return
	}

	v.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(v.GetOutputParam(), candidates)
}
