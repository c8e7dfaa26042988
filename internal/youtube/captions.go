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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/h2non/filetype"
)

// MaxCaptionBytes bounds the size of a caption payload.
const MaxCaptionBytes = 8 << 20

var (
	ErrEmptyPayload    = errors.New("empty caption payload")
	ErrBinaryPayload   = errors.New("caption payload is binary")
	ErrOversizePayload = errors.New("caption payload exceeds size limit")
)

// CaptionTransport downloads caption payloads. It satisfies
// transcript.PayloadFetcher.
type CaptionTransport struct {
	client *http.Client
}

// NewCaptionTransport creates a transport using client, or http.DefaultClient
// when client is nil.
func NewCaptionTransport(client *http.Client) *CaptionTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &CaptionTransport{client: client}
}

// Fetch downloads url. Non-2xx statuses, empty bodies, bodies larger than
// MaxCaptionBytes and bodies recognised as a binary file type are errors.
func (c *CaptionTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("caption download returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxCaptionBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read caption payload: %w", err)
	}
	if len(body) > MaxCaptionBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOversizePayload, MaxCaptionBytes)
	}
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}
	if kind, _ := filetype.Match(body); kind != filetype.Unknown {
		return nil, fmt.Errorf("%w: %s", ErrBinaryPayload, kind.MIME.Value)
	}
	return body, nil
}
