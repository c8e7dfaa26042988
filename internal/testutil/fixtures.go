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

// GetTestVTTPayload returns a cue-text caption payload with headers, a note,
// sequence numbers, cue settings and inline markup.
func GetTestVTTPayload() string {
	return "WEBVTT\n" +
		"Kind: captions\n" +
		"Language: en\n" +
		"\n" +
		"NOTE This file was generated for tests\n" +
		"\n" +
		"1\n" +
		"00:00:00.000 --> 00:00:02.500\n" +
		"Welcome to this lesson on <b>variables</b>.\n" +
		"\n" +
		"2\n" +
		"00:00:02.500 --> 00:00:05.000 align:start position:0%\n" +
		"<v Speaker>A variable stores a value.</v>\n" +
		"\n" +
		"3\n" +
		"00:00:05.000 --> 00:00:07.000\n" +
		"You can change it <i>later</i>.\n"
}

// GetTestJSON3Payload returns a segment-json caption payload, including an
// append event whose only segment is a newline.
func GetTestJSON3Payload() string {
	return `{"wireMagic":"pb3","events":[` +
		`{"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":"Loops repeat work."}]},` +
		`{"tStartMs":2000,"segs":[{"utf8":"A for loop"},{"utf8":" iterates a range."}]},` +
		`{"tStartMs":4000,"aAppend":1,"segs":[{"utf8":"\n"}]},` +
		`{"tStartMs":4100,"segs":[{"utf8":"while loops check a condition."}]}]}`
}

// GetTestYtDlpSearchResult is a flat playlist document for a ytsearch query.
func GetTestYtDlpSearchResult() string {
	return `{
  "_type": "playlist",
  "id": "python variables",
  "title": "python variables",
  "entries": [
    {"_type": "url", "ie_key": "Youtube", "id": "vid00000001", "url": "https://www.youtube.com/watch?v=vid00000001", "title": "Python Variables Explained", "description": null, "duration": 612.0, "channel": "Code Academy", "view_count": 120500},
    {"_type": "url", "ie_key": "Youtube", "id": "vid00000002", "url": "https://www.youtube.com/watch?v=vid00000002", "title": "Variables in 5 Minutes", "duration": 300.0, "channel": "Quick Tips", "view_count": null},
    {"_type": "url", "ie_key": "Youtube", "id": "", "url": "https://www.youtube.com/channel/abc", "title": "A channel"}
  ]
}`
}

// GetTestYtDlpVideoInfo is a full metadata document for one video, with
// manual and automatic captions.
func GetTestYtDlpVideoInfo() string {
	return `{
  "id": "vid00000001",
  "title": "Python Variables Explained",
  "webpage_url": "https://www.youtube.com/watch?v=vid00000001",
  "description": "00:00 intro\n01:30 assigning values",
  "view_count": 120500,
  "like_count": 4300,
  "duration": 612,
  "upload_date": "20240105",
  "uploader": "Code Academy",
  "channel": "Code Academy",
  "subtitles": {
    "en-US": [
      {"ext": "json3", "url": "https://captions.test/manual-us.json3"},
      {"ext": "vtt", "url": "https://captions.test/manual-us.vtt"},
      {"ext": "srt", "url": "https://captions.test/manual-us.srt"}
    ]
  },
  "automatic_captions": {
    "en": [
      {"ext": "vtt", "url": "https://captions.test/auto-en.vtt"}
    ],
    "fr": [
      {"ext": "vtt", "url": "https://captions.test/auto-fr.vtt"}
    ]
  }
}`
}
