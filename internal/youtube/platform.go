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

// Package youtube provides the video platform used to find candidate videos
// for a topic. Two backends exist: the yt-dlp command line tool and the
// YouTube Data API v3. Caption payloads are downloaded over plain HTTP by
// CaptionTransport.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

// ErrVideoNotFound is returned by a DetailFetcher that has no record for an id.
var ErrVideoNotFound = errors.New("video not found")

// Searcher runs a keyword search and returns at most limit basic records.
type Searcher interface {
	Search(ctx context.Context, phrase string, limit int) ([]*model.VideoRecord, error)
}

// DetailFetcher returns the full record of a video, including its caption tracks.
type DetailFetcher interface {
	Details(ctx context.Context, id string) (*model.VideoRecord, error)
}

// Platform is a complete video platform backend.
type Platform interface {
	Searcher
	DetailFetcher
}

// composite joins a searcher with an ordered list of detail fetchers.
type composite struct {
	searcher Searcher
	details  []DetailFetcher
}

// Compose returns a Platform that searches with searcher and asks each detail
// fetcher in turn until one succeeds.
func Compose(searcher Searcher, details ...DetailFetcher) Platform {
	return &composite{searcher: searcher, details: details}
}

func (c *composite) Search(ctx context.Context, phrase string, limit int) ([]*model.VideoRecord, error) {
	return c.searcher.Search(ctx, phrase, limit)
}

func (c *composite) Details(ctx context.Context, id string) (*model.VideoRecord, error) {
	var errs []error
	for _, d := range c.details {
		out, err := d.Details(ctx, id)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no detail backend for %s", ErrVideoNotFound, id)
	}
	return nil, errors.Join(errs...)
}

// NewPlatform builds the backend selected by config.VideoPlatform.
//
// The "ytdlp" backend uses yt-dlp for both search and details. The "data_api"
// backend searches with the Data API and reads details with yt-dlp first,
// since only yt-dlp exposes caption tracks, falling back to the Data API
// metadata when yt-dlp fails.
func NewPlatform(ctx context.Context, config *cloud.Config) (Platform, error) {
	ytdlp := NewYtDlpClient(config.VideoPlatform.YtDlpPath)
	switch config.VideoPlatform.SearchBackend {
	case "", cloud.SearchBackendYtDlp:
		return Compose(ytdlp, ytdlp), nil
	case cloud.SearchBackendDataAPI:
		if config.VideoPlatform.YouTubeAPIKey == "" {
			return nil, fmt.Errorf("search backend %q requires a youtube api key", cloud.SearchBackendDataAPI)
		}
		api, err := NewDataAPIClient(ctx, config.VideoPlatform.YouTubeAPIKey)
		if err != nil {
			return nil, err
		}
		return Compose(api, ytdlp, api), nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", config.VideoPlatform.SearchBackend)
	}
}

// NewCaptionFetcher returns the payload fetcher used for caption tracks.
func NewCaptionFetcher() *CaptionTransport {
	return NewCaptionTransport(http.DefaultClient)
}
