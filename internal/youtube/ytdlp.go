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

package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// Runner executes an external program and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the program with os/exec. Standard error is included in the
// returned error when the program fails.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("error running %s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// YtDlpClient implements Platform with the yt-dlp command line tool.
type YtDlpClient struct {
	commandPath string
	run         Runner
}

// NewYtDlpClient creates a client invoking the executable at commandPath.
func NewYtDlpClient(commandPath string) *YtDlpClient {
	return NewYtDlpClientWithRunner(commandPath, ExecRunner)
}

// NewYtDlpClientWithRunner creates a client that starts yt-dlp through run.
func NewYtDlpClientWithRunner(commandPath string, run Runner) *YtDlpClient {
	if commandPath == "" {
		commandPath = "yt-dlp"
	}
	return &YtDlpClient{commandPath: commandPath, run: run}
}

// SearchArgs are the yt-dlp arguments for a flat keyword search.
func SearchArgs(phrase string, limit int) []string {
	return []string{"--dump-single-json", "--flat-playlist", "--no-warnings", fmt.Sprintf("ytsearch%d:%s", limit, phrase)}
}

// DetailArgs are the yt-dlp arguments for a full metadata extraction.
func DetailArgs(id string) []string {
	return []string{"--dump-single-json", "--skip-download", "--no-warnings", model.WatchURL(id)}
}

func (y *YtDlpClient) Search(ctx context.Context, phrase string, limit int) ([]*model.VideoRecord, error) {
	out, err := y.run(ctx, y.commandPath, SearchArgs(phrase, limit)...)
	if err != nil {
		return nil, err
	}
	records, err := ParseSearchResult(out)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (y *YtDlpClient) Details(ctx context.Context, id string) (*model.VideoRecord, error) {
	out, err := y.run(ctx, y.commandPath, DetailArgs(id)...)
	if err != nil {
		return nil, err
	}
	return ParseVideoInfo(out)
}

type ytDlpTrack struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

type ytDlpInfo struct {
	ID                string                  `json:"id"`
	Title             string                  `json:"title"`
	URL               string                  `json:"url"`
	WebpageURL        string                  `json:"webpage_url"`
	Description       string                  `json:"description"`
	ViewCount         *float64                `json:"view_count"`
	LikeCount         *float64                `json:"like_count"`
	Duration          *float64                `json:"duration"`
	UploadDate        string                  `json:"upload_date"`
	Uploader          string                  `json:"uploader"`
	Channel           string                  `json:"channel"`
	Subtitles         map[string][]ytDlpTrack `json:"subtitles"`
	AutomaticCaptions map[string][]ytDlpTrack `json:"automatic_captions"`
}

type ytDlpPlaylist struct {
	Entries []*ytDlpInfo `json:"entries"`
}

// ParseSearchResult reads the playlist document printed for a ytsearch query.
// Entries without an id are dropped.
func ParseSearchResult(data []byte) ([]*model.VideoRecord, error) {
	var playlist ytDlpPlaylist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp search result: %w", err)
	}
	out := make([]*model.VideoRecord, 0, len(playlist.Entries))
	for _, entry := range playlist.Entries {
		if entry == nil || entry.ID == "" {
			continue
		}
		out = append(out, entry.toRecord())
	}
	return out, nil
}

// ParseVideoInfo reads the document printed for a single video.
func ParseVideoInfo(data []byte) (*model.VideoRecord, error) {
	var info ytDlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp video info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("%w: yt-dlp returned no id", ErrVideoNotFound)
	}
	return info.toRecord(), nil
}

func (i *ytDlpInfo) toRecord() *model.VideoRecord {
	url := i.WebpageURL
	if !strings.HasPrefix(url, "http") {
		url = i.URL
	}
	if !strings.HasPrefix(url, "http") {
		url = model.WatchURL(i.ID)
	}
	return &model.VideoRecord{
		ID:              i.ID,
		Title:           i.Title,
		URL:             url,
		Description:     i.Description,
		ViewCount:       toInt(i.ViewCount),
		LikeCount:       toInt(i.LikeCount),
		DurationSeconds: toInt(i.Duration),
		UploadDate:      i.UploadDate,
		Uploader:        i.Uploader,
		Channel:         i.Channel,
		Captions: model.CaptionSet{
			Manual:    toTracks(i.Subtitles),
			Automatic: toTracks(i.AutomaticCaptions),
		},
	}
}

func toTracks(in map[string][]ytDlpTrack) map[string][]model.CaptionTrack {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]model.CaptionTrack, len(in))
	for language, entries := range in {
		tracks := make([]model.CaptionTrack, 0, len(entries))
		for _, e := range entries {
			if track, ok := model.NewCaptionTrack(language, e.Ext, e.URL); ok {
				tracks = append(tracks, track)
			}
		}
		// A language stays present even without supported tracks; the
		// resolver treats it as found and reports no transcript.
		out[language] = tracks
	}
	return out
}

func toInt(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(*v)
}
