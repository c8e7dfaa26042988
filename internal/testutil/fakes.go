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

package test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"github.com/jaycherian/gcp-go-course-builder/internal/youtube"
)

var promptTopicPattern = regexp.MustCompile(`for the topic "([^"]*)"`)

// FakePayloadFetcher serves caption payloads from memory and records every
// requested URL. Unknown URLs fail.
type FakePayloadFetcher struct {
	mu        sync.Mutex
	payloads  map[string]string
	requested []string
}

func NewFakePayloadFetcher(payloads map[string]string) *FakePayloadFetcher {
	return &FakePayloadFetcher{payloads: payloads}
}

func (f *FakePayloadFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, url)
	payload, ok := f.payloads[url]
	if !ok {
		return nil, fmt.Errorf("no payload for %s", url)
	}
	return []byte(payload), nil
}

// Requested returns the URLs fetched so far, in order.
func (f *FakePayloadFetcher) Requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

// FakePlatform is an in-memory youtube.Platform.
//
// Search returns Results[phrase] unchanged, ignoring the limit, so callers can
// verify their own truncation. Details returns DetailErrors[id] if set, then
// Records[id], then youtube.ErrVideoNotFound.
type FakePlatform struct {
	mu           sync.Mutex
	Results      map[string][]*model.VideoRecord
	Records      map[string]*model.VideoRecord
	DetailErrors map[string]error
	SearchErr    error
	searches     []string
	limits       []int
	details      []string
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		Results:      make(map[string][]*model.VideoRecord),
		Records:      make(map[string]*model.VideoRecord),
		DetailErrors: make(map[string]error),
	}
}

// AddVideo registers record as a search hit for phrase and as a detail record.
func (f *FakePlatform) AddVideo(phrase string, record *model.VideoRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	basic := *record
	basic.Captions = model.CaptionSet{}
	f.Results[phrase] = append(f.Results[phrase], &basic)
	f.Records[record.ID] = record
}

func (f *FakePlatform) Search(_ context.Context, phrase string, limit int) ([]*model.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, phrase)
	f.limits = append(f.limits, limit)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]*model.VideoRecord(nil), f.Results[phrase]...), nil
}

func (f *FakePlatform) Details(_ context.Context, id string) (*model.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = append(f.details, id)
	if err, ok := f.DetailErrors[id]; ok {
		return nil, err
	}
	if record, ok := f.Records[id]; ok {
		out := *record
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %s", youtube.ErrVideoNotFound, id)
}

// Searches returns the phrases searched so far.
func (f *FakePlatform) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

// Limits returns the limit passed to each search.
func (f *FakePlatform) Limits() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.limits...)
}

// DetailLookups returns the ids passed to Details so far.
func (f *FakePlatform) DetailLookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.details...)
}

// NewVideoRecord builds a record with a watch URL and optional captions.
func NewVideoRecord(id string, title string, captions model.CaptionSet) *model.VideoRecord {
	return &model.VideoRecord{
		ID:              id,
		Title:           title,
		URL:             model.WatchURL(id),
		Description:     "About " + title,
		ViewCount:       1000,
		LikeCount:       50,
		DurationSeconds: 600,
		Channel:         "Test Channel",
		Captions:        captions,
	}
}

// FakeOracle answers topic prompts with TopicReply and selection prompts with
// Select. Every prompt is recorded.
type FakeOracle struct {
	mu         sync.Mutex
	TopicReply string
	TopicErr   error
	Select     func(prompt string) (string, error)
	prompts    []string
}

var _ cloud.Oracle = (*FakeOracle)(nil)

func (f *FakeOracle) Generate(_ context.Context, prompt string) (*cloud.OracleResponse, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if IsTopicPrompt(prompt) {
		if f.TopicErr != nil {
			return nil, f.TopicErr
		}
		return &cloud.OracleResponse{Text: f.TopicReply, InputTokens: 10, OutputTokens: 20}, nil
	}
	if f.Select == nil {
		return nil, fmt.Errorf("no selection reply configured")
	}
	text, err := f.Select(prompt)
	if err != nil {
		return nil, err
	}
	return &cloud.OracleResponse{Text: text, InputTokens: 100, OutputTokens: 40}, nil
}

// Prompts returns every prompt received so far.
func (f *FakeOracle) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// SelectionPrompts returns the recorded prompts that are not topic prompts.
func (f *FakeOracle) SelectionPrompts() []string {
	out := make([]string, 0)
	for _, p := range f.Prompts() {
		if !IsTopicPrompt(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsTopicPrompt reports whether prompt was rendered from the topic template.
func IsTopicPrompt(prompt string) bool {
	return strings.HasSuffix(strings.TrimSpace(prompt), "Topics:")
}

// PromptTopic extracts the topic name from a rendered selection prompt.
func PromptTopic(prompt string) string {
	m := promptTopicPattern.FindStringSubmatch(prompt)
	if m == nil {
		return ""
	}
	return m[1]
}

// SelectionReply renders an oracle verdict picking videoNumber with the given
// segment, wrapped in a json code fence the way models often reply.
func SelectionReply(videoNumber int, startMs int64, endMs int64) string {
	return fmt.Sprintf("```json\n"+`{
  "selectedVideo": {
    "videoNumber": %d,
    "startTimeMs": %d,
    "endTimeMs": %d,
    "reason": "Clear explanation with worked examples",
    "contentQuality": "high",
    "relevanceScore": 90
  }
}`+"\n```", videoNumber, startMs, endMs)
}

// FakeInserter records every row put into it, or fails with Err.
type FakeInserter struct {
	mu   sync.Mutex
	Err  error
	rows []interface{}
}

func (f *FakeInserter) Put(_ context.Context, src interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.rows = append(f.rows, src)
	return nil
}

// Rows returns the rows inserted so far.
func (f *FakeInserter) Rows() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}(nil), f.rows...)
}

// MemoryObject is an object written to a MemoryBucket.
type MemoryObject struct {
	bytes.Buffer
	ContentType string
	Closed      bool
	closeErr    error
}

func (m *MemoryObject) Close() error {
	m.Closed = true
	return m.closeErr
}

// MemoryBucket stores objects in memory, keyed by "bucket/object". Writers
// fail on Close with CloseErr when it is set.
type MemoryBucket struct {
	mu       sync.Mutex
	Objects  map[string]*MemoryObject
	CloseErr error
}

func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{Objects: make(map[string]*MemoryObject)}
}

// Writer satisfies cloud.ObjectWriter.
func (b *MemoryBucket) Writer(_ context.Context, bucket string, object string, contentType string) io.WriteCloser {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := &MemoryObject{ContentType: contentType, closeErr: b.CloseErr}
	b.Objects[bucket+"/"+object] = out
	return out
}
