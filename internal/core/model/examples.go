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

// This file provides example objects that are rendered into the prompt
// templates so the oracle sees the exact shape it must reply with.
package model

import "encoding/json"

// GetExampleVerdict returns a populated verdict used as the reply example in
// the selection prompt.
func GetExampleVerdict() *SelectionVerdict {
	return &SelectionVerdict{
		VideoNumber:    1,
		YoutubeURL:     "https://www.youtube.com/watch?v=...",
		Title:          "Video Title",
		Reason:         "Why this video was selected (max 200 chars)",
		StartTimeMs:    0,
		EndTimeMs:      300000,
		ContentQuality: QualityHigh,
		RelevanceScore: 95,
	}
}

// GetExampleVerdictJSON renders the example verdict wrapped in the
// "selectedVideo" envelope the parser expects.
func GetExampleVerdictJSON() string {
	out, _ := json.MarshalIndent(map[string]*SelectionVerdict{"selectedVideo": GetExampleVerdict()}, "", "  ")
	return string(out)
}
