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

import (
	"fmt"
	"strings"
)

// Difficulty is the target level of a generated course.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// topicCeilings is the fixed upper bound on the number of topics requested
// from the oracle for each difficulty.
var topicCeilings = map[Difficulty]int{
	Beginner:     15,
	Intermediate: 25,
	Advanced:     50,
}

// Difficulties lists the accepted levels in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// ParseDifficulty normalizes a user supplied level. Matching is case-insensitive.
func ParseDifficulty(in string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(in)))
	if _, ok := topicCeilings[d]; !ok {
		return "", fmt.Errorf("%w: %q (expected one of beginner, intermediate, advanced)", ErrInvalidDifficulty, in)
	}
	return d, nil
}

// TopicCeiling returns the maximum topic count for the level, or 0 for an
// unknown level.
func (d Difficulty) TopicCeiling() int {
	return topicCeilings[d]
}

// Title returns the level with its first letter upper-cased, e.g. "Beginner".
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d Difficulty) String() string {
	return string(d)
}
