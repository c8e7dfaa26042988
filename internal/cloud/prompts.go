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

package cloud

// DefaultTopicPrompt asks for a bare numbered list of topics.
//
// Parameters: SUBJECT, LEVEL, LEVEL_TITLE, TOPIC_CEILING.
const DefaultTopicPrompt = `You are an expert curriculum designer. Generate a comprehensive list of topics for learning {{.SUBJECT}} at the {{.LEVEL}} level.

Instructions:
- Provide ONLY a numbered list of topics
- Each topic should be specific and actionable
- Topics should be ordered from foundational to more complex within the {{.LEVEL}} level
- For {{.LEVEL}} level, ensure topics are appropriate for someone at this skill level
- Do not include any explanations, introductions, or additional text
- Each line should contain only: "1. Topic Name" format
- Keep number of topics under {{.TOPIC_CEILING}}

Subject: {{.SUBJECT}}
Difficulty Level: {{.LEVEL_TITLE}}

Topics:`

// DefaultSelectionPrompt asks the oracle to pick one candidate and a segment.
//
// Parameters: TOPIC, SUBJECT, LEVEL, VIDEO_COUNT, VIDEOS, EXAMPLE_JSON.
const DefaultSelectionPrompt = `You are an expert educational content curator. Analyze these {{.VIDEO_COUNT}} YouTube videos for the topic "{{.TOPIC}}" in the subject "{{.SUBJECT}}" at {{.LEVEL}} level.

TASK: Select the BEST video and provide specific start/end times for the most relevant content.

ANALYSIS CRITERIA (in priority order):
1. PRIMARY: Content quality based on transcripts - analyze if the spoken content matches the topic and difficulty level
2. SECONDARY: Video metrics (views, likes) as supporting indicators
3. Look for timestamp information in descriptions to identify relevant segments
4. Ensure content is appropriate for {{.LEVEL}} learners

VIDEOS TO ANALYZE:
{{.VIDEOS}}

INSTRUCTIONS:
- Analyze the transcript content to determine which video has the highest quality explanation for "{{.TOPIC}}"
- Look for timestamps in descriptions that indicate relevant sections
- If no specific timestamps are mentioned, analyze the entire video duration
- Consider the {{.LEVEL}} level - content should not be too basic or too advanced
- Focus on educational value over popularity metrics

REQUIRED OUTPUT FORMAT (JSON only, no other text, contentQuality is one of high|medium|low, relevanceScore is 0-100):
{{.EXAMPLE_JSON}}

Respond with ONLY the JSON object, no additional text.`
