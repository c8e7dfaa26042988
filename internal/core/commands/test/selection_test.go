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

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"text/template"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/commands"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/cor"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/transcript"
	test "github.com/jaycherian/gcp-go-course-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phrase = "Python Programming: Variables"

func selectionTemplate() *template.Template {
	return template.Must(template.New("selection").Parse(cloud.DefaultSelectionPrompt))
}

func variablesTopic() *model.TopicRequest {
	return &model.TopicRequest{Subject: "Python Programming", Difficulty: model.Beginner, Name: "Variables", Index: 1}
}

func captioned(url string) model.CaptionSet {
	track, _ := model.NewCaptionTrack("en", "vtt", url)
	return model.CaptionSet{Manual: map[string][]model.CaptionTrack{"en": {track}}}
}

func TestVideoCandidateFetcherCapsAtFive(t *testing.T) {
	platform := test.NewFakePlatform()
	for i := 1; i <= 7; i++ {
		platform.AddVideo(phrase, test.NewVideoRecord(fmt.Sprintf("vid%08d", i), fmt.Sprintf("Video %d", i), model.CaptionSet{}))
	}
	fetcher := commands.NewVideoCandidateFetcher("fetch", platform, transcript.NewResolver(test.NewFakePayloadFetcher(nil)))

	candidates := fetcher.Fetch(context.Background(), "Python Programming", "Variables")

	assert.Len(t, candidates, model.CandidateCount)
	assert.Equal(t, []string{phrase}, platform.Searches())
	assert.Equal(t, []int{model.CandidateCount}, platform.Limits())
	assert.Len(t, platform.DetailLookups(), model.CandidateCount)
	for i, c := range candidates {
		assert.Equal(t, fmt.Sprintf("Video %d", i+1), c.Title)
		assert.Equal(t, model.TranscriptUnavailable, c.Transcript)
	}
}

func TestVideoCandidateFetcherResolvesTranscripts(t *testing.T) {
	platform := test.NewFakePlatform()
	platform.AddVideo(phrase, test.NewVideoRecord("vid00000001", "Variables explained", captioned("https://captions/one.vtt")))
	platform.AddVideo(phrase, test.NewVideoRecord("vid00000002", "Variables again", captioned("https://captions/two.vtt")))
	platform.DetailErrors["vid00000002"] = errors.New("rate limited")

	payloads := test.NewFakePayloadFetcher(map[string]string{
		"https://captions/one.vtt": test.GetTestVTTPayload(),
		"https://captions/two.vtt": test.GetTestVTTPayload(),
	})
	fetcher := commands.NewVideoCandidateFetcher("fetch", platform, transcript.NewResolver(payloads))

	candidates := fetcher.Fetch(context.Background(), "Python Programming", "Variables")
	require.Len(t, candidates, 2)

	assert.True(t, candidates[0].HasTranscript())
	assert.Contains(t, candidates[0].Transcript, "A variable stores a value.")
	assert.Equal(t, model.WatchURL("vid00000001"), candidates[0].URL)

	// Details failed, so only the search fields are known.
	assert.Equal(t, "Variables again", candidates[1].Title)
	assert.Equal(t, model.TranscriptUnavailable, candidates[1].Transcript)
	assert.Equal(t, []string{"https://captions/one.vtt"}, payloads.Requested())
}

// emptyDetails answers every detail lookup with neither a record nor an error.
type emptyDetails struct {
	*test.FakePlatform
}

func (emptyDetails) Details(context.Context, string) (*model.VideoRecord, error) {
	return nil, nil
}

func TestVideoCandidateFetcherNilDetails(t *testing.T) {
	platform := test.NewFakePlatform()
	platform.AddVideo(phrase, test.NewVideoRecord("vid00000001", "Variables explained", captioned("https://captions/one.vtt")))
	payloads := test.NewFakePayloadFetcher(map[string]string{"https://captions/one.vtt": test.GetTestVTTPayload()})
	fetcher := commands.NewVideoCandidateFetcher("fetch", emptyDetails{platform}, transcript.NewResolver(payloads))

	var candidates []*model.CandidateVideo
	require.NotPanics(t, func() {
		candidates = fetcher.Fetch(context.Background(), "Python Programming", "Variables")
	})
	require.Len(t, candidates, 1)
	assert.Equal(t, "Variables explained", candidates[0].Title)
	assert.Equal(t, model.TranscriptUnavailable, candidates[0].Transcript)
	assert.Empty(t, payloads.Requested())
}

func TestVideoCandidateFetcherNoResults(t *testing.T) {
	platform := test.NewFakePlatform()
	fetcher := commands.NewVideoCandidateFetcher("fetch", platform, transcript.NewResolver(test.NewFakePayloadFetcher(nil)))

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, variablesTopic())
	fetcher.Execute(chainCtx)

	require.True(t, chainCtx.HasErrors())
	assert.ErrorIs(t, chainCtx.GetErrors()["fetch"], model.ErrNoCandidates)

	platform.SearchErr = errors.New("network down")
	assert.Empty(t, fetcher.Fetch(context.Background(), "Python Programming", "Variables"))
}

func TestSearchPhrase(t *testing.T) {
	assert.Equal(t, "Go: Channels", commands.SearchPhrase("Go", "Channels"))
	assert.Equal(t, "Channels", commands.SearchPhrase("  ", "Channels"))
}

func candidates() []*model.CandidateVideo {
	first := test.NewVideoRecord("vid00000001", "Variables explained", model.CaptionSet{})
	first.ViewCount = 1234567
	first.LikeCount = 8900
	second := test.NewVideoRecord("vid00000002", "Python basics", model.CaptionSet{})
	return []*model.CandidateVideo{
		model.NewCandidateVideo(first, "a variable is a name bound to a value"),
		model.NewCandidateVideo(second, ""),
	}
}

func TestVideoSelectorRendersCandidates(t *testing.T) {
	selector := commands.NewVideoSelector("select", &test.FakeOracle{}, selectionTemplate())
	out := selector.RenderCandidates(candidates())

	assert.Contains(t, out, "Video 1:\nTitle: Variables explained\n")
	assert.Contains(t, out, "Views: 1,234,567\n")
	assert.Contains(t, out, "Likes: 8,900\n")
	assert.Contains(t, out, "Duration: 600 seconds\n")
	assert.Contains(t, out, "Video 2:\n")
	assert.Contains(t, out, "Transcript: "+model.TranscriptUnavailable)
}

func TestVideoSelectorExecute(t *testing.T) {
	oracle := &test.FakeOracle{Select: func(string) (string, error) {
		return test.SelectionReply(2, 30000, 150000), nil
	}}
	selector := commands.NewVideoSelector("select", oracle, selectionTemplate())

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, candidates())
	assert.False(t, selector.IsExecutable(chainCtx))
	chainCtx.Add(commands.TopicRequestParam, variablesTopic())
	require.True(t, selector.IsExecutable(chainCtx))

	selector.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	verdict := chainCtx.Get(cor.CtxOut).(*model.SelectionVerdict)
	assert.Equal(t, 2, verdict.VideoNumber)
	assert.Equal(t, model.WatchURL("vid00000002"), verdict.YoutubeURL)
	assert.Equal(t, "Python basics", verdict.Title)
	assert.Equal(t, int64(30000), verdict.StartTimeMs)

	prompts := oracle.SelectionPrompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "Variables", test.PromptTopic(prompts[0]))
	assert.Contains(t, prompts[0], "Analyze these 2 YouTube videos")
	assert.Contains(t, prompts[0], `"selectedVideo"`)
}

func TestVideoSelectorRejectsBadVerdicts(t *testing.T) {
	replies := map[string]func(string) (string, error){
		"out of range": func(string) (string, error) { return test.SelectionReply(3, 0, 1000), nil },
		"bad segment":  func(string) (string, error) { return test.SelectionReply(1, 5000, 1000), nil },
		"not json":     func(string) (string, error) { return "I like video one", nil },
		"oracle error": func(string) (string, error) { return "", errors.New("deadline exceeded") },
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			selector := commands.NewVideoSelector("select", &test.FakeOracle{Select: reply}, selectionTemplate())
			verdict, err := selector.Select(context.Background(), variablesTopic(), candidates())
			assert.Nil(t, verdict)
			assert.ErrorIs(t, err, model.ErrNoVerdict)
		})
	}
}

func TestTopicAssembler(t *testing.T) {
	assembler := commands.NewTopicAssembler("assemble")
	topic := variablesTopic()
	topic.Index = 2
	topic.PreviousTopicID = "topic-previous"

	verdict, err := model.ParseSelectionVerdict(test.SelectionReply(1, 0, 120000))
	require.NoError(t, err)
	require.NoError(t, verdict.BindCandidates(candidates()))

	chainCtx := cor.NewContextFor(context.Background())
	chainCtx.Add(cor.CtxIn, verdict)
	chainCtx.Add(commands.TopicRequestParam, topic)
	assembler.Execute(chainCtx)

	node := chainCtx.Get(cor.CtxOut).(*model.TopicNode)
	assert.Equal(t, "Variables", node.Name)
	assert.Equal(t, []string{"topic-previous"}, node.Prerequisites)
	assert.Equal(t, int64(0), node.VideoInfo.StartTime)
	assert.Equal(t, int64(120), node.VideoInfo.EndTime)
	assert.Equal(t, model.WatchURL("vid00000001"), node.VideoInfo.YoutubeURL)
	assert.Equal(t, []string{"variables"}, node.Tags)
}
