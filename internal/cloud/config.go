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

// Package cloud holds the configuration model and the clients for the
// external services used by the course builder: the Gemini oracle, Cloud
// Storage, Pub/Sub, BigQuery and IAM.
//
// The structs in this file map one-to-one onto the TOML configuration files
// loaded by LoadConfig. NewConfig seeds every value the pipeline needs to run
// locally, so a deployment only has to override what differs.
package cloud

import "google.golang.org/genai"

const (
	// DefaultAgentModel is the logical name of the model used by the pipeline.
	DefaultAgentModel = "course-flash"

	SearchBackendYtDlp   = "ytdlp"
	SearchBackendDataAPI = "data_api"
)

// DefaultSafetySettings turns off blocking for every harm category.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Logging configures the slog handler installed by telemetry.SetupLogging.
type Logging struct {
	Level string `toml:"level"` // debug, info, warn or error.
	File  string `toml:"file"`  // Optional file receiving a copy of stdout logs.
}

// BigQueryDataSource names the dataset and table used to archive courses.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`
	CourseTable string `toml:"course_table"`
}

// PromptTemplates holds the text/template sources for the two oracle prompts.
type PromptTemplates struct {
	TopicPrompt     string `toml:"topics"`    // Curriculum prompt producing a numbered topic list.
	SelectionPrompt string `toml:"selection"` // Candidate ranking prompt producing a JSON verdict.
}

// VertexAiLLMModel describes a generative model and its sampling parameters.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Gemini model.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the LLM output.
	OutputFormat       string  `toml:"output_format"`       // The desired response MIME type, empty for plain text.
}

// TopicSubscription binds a logical listener name to a Pub/Sub subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The name of the dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The timeout for the subscription in seconds.
}

// Storage configures where exported course documents are written.
type Storage struct {
	CourseExportBucket string `toml:"course_export_bucket"`
	ExportPrefix       string `toml:"export_prefix"`
}

// VideoPlatform selects how candidate videos are searched and described.
type VideoPlatform struct {
	SearchBackend string `toml:"search_backend"`  // "ytdlp" or "data_api".
	YtDlpPath     string `toml:"ytdlp_path"`      // Path of the yt-dlp executable.
	YouTubeAPIKey string `toml:"youtube_api_key"` // Key for the YouTube Data API backend.
}

type Config struct {
	Application struct {
		Name                      string `toml:"name"`
		GoogleProjectId           string `toml:"google_project_id"`
		GoogleLocation            string `toml:"location"`
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // Service account used to sign export URLs.
		GeminiAPIKey              string `toml:"gemini_api_key"`               // Selects the Gemini API backend when set.
		ListenAddress             string `toml:"listen_address"`
		AgentModel                string `toml:"agent_model"` // Key into AgentModels used by the pipeline.
	} `toml:"application"`
	Logging            Logging                      `toml:"logging"`
	Storage            Storage                      `toml:"storage"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	VideoPlatform      VideoPlatform                `toml:"video_platform"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"` // Keyed by listener name, e.g. "CourseRequests".
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`        // Keyed by logical name, e.g. "course-flash".
}

// NewConfig returns a configuration populated with working defaults.
func NewConfig() *Config {
	c := &Config{
		Logging:            Logging{Level: "info"},
		Storage:            Storage{ExportPrefix: "courses"},
		BigQueryDataSource: BigQueryDataSource{DatasetName: "course_ds", CourseTable: "courses"},
		PromptTemplates:    PromptTemplates{TopicPrompt: DefaultTopicPrompt, SelectionPrompt: DefaultSelectionPrompt},
		VideoPlatform:      VideoPlatform{SearchBackend: SearchBackendYtDlp, YtDlpPath: "yt-dlp"},
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
	c.Application.Name = "course-builder"
	c.Application.GoogleLocation = "us-central1"
	c.Application.ListenAddress = ":8080"
	c.Application.AgentModel = DefaultAgentModel
	c.AgentModels[DefaultAgentModel] = VertexAiLLMModel{
		Model:              "gemini-2.0-flash-exp",
		SystemInstructions: "You are an expert curriculum designer and educational content curator.",
		Temperature:        0.4,
		MaxTokens:          8192,
	}
	return c
}

// AgentModel returns the model configuration the pipeline should use.
func (c *Config) AgentModel() (VertexAiLLMModel, bool) {
	m, ok := c.AgentModels[c.Application.AgentModel]
	return m, ok
}
