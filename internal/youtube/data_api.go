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
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// DataAPIClient implements Platform with the YouTube Data API v3. The API does
// not expose caption payloads to API key callers, so its records carry no
// caption tracks.
type DataAPIClient struct {
	service *ytapi.Service
}

// NewDataAPIClient creates a client authenticated with apiKey. Extra options
// are applied after the key, e.g. option.WithEndpoint in tests.
func NewDataAPIClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*DataAPIClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &DataAPIClient{service: service}, nil
}

func (d *DataAPIClient) Search(ctx context.Context, phrase string, limit int) ([]*model.VideoRecord, error) {
	resp, err := d.service.Search.List([]string{"snippet"}).
		Q(phrase).
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}
	out := make([]*model.VideoRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		record := &model.VideoRecord{ID: item.Id.VideoId, URL: model.WatchURL(item.Id.VideoId)}
		if item.Snippet != nil {
			record.Title = item.Snippet.Title
			record.Description = item.Snippet.Description
			record.Channel = item.Snippet.ChannelTitle
		}
		out = append(out, record)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *DataAPIClient) Details(ctx context.Context, id string) (*model.VideoRecord, error) {
	resp, err := d.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	v := resp.Items[0]
	record := &model.VideoRecord{ID: v.Id, URL: model.WatchURL(v.Id)}
	if v.Snippet != nil {
		record.Title = v.Snippet.Title
		record.Description = v.Snippet.Description
		record.Channel = v.Snippet.ChannelTitle
		record.Uploader = v.Snippet.ChannelTitle
		if published, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			record.UploadDate = published.Format("20060102")
		}
	}
	if v.Statistics != nil {
		record.ViewCount = int64(v.Statistics.ViewCount)
		record.LikeCount = int64(v.Statistics.LikeCount)
	}
	if v.ContentDetails != nil {
		record.DurationSeconds = ParseISODuration(v.ContentDetails.Duration)
	}
	return record, nil
}

// ParseISODuration converts an ISO 8601 duration such as "PT1H2M3S" to
// seconds. Unparseable input yields zero.
func ParseISODuration(in string) int64 {
	m := isoDurationPattern.FindStringSubmatch(in)
	if m == nil {
		return 0
	}
	var total int64
	for i, unit := range []int64{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}
