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

package model

import "errors"

var (
	// ErrInvalidDifficulty is returned for a level outside beginner, intermediate and advanced.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")
	// ErrEmptySubject is returned when a course request has no subject.
	ErrEmptySubject = errors.New("subject must not be empty")
	// ErrNoCandidates marks a topic for which the search produced no videos.
	ErrNoCandidates = errors.New("no candidate videos found")
	// ErrNoVerdict marks a topic whose selection reply could not be used.
	ErrNoVerdict = errors.New("no usable selection verdict")
)
