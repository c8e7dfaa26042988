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

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
)

// Cloud Constants define key strings used for configuration loading.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").

	EnvGeminiAPIKey  = "GEMINI_API_KEY"  // Overrides Application.GeminiAPIKey.
	EnvYouTubeAPIKey = "YOUTUBE_API_KEY" // Overrides VideoPlatform.YouTubeAPIKey.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It first loads a
// base configuration file and then overwrites its values with an environment-specific
// configuration file. The directory and environment are read from GCP_CONFIG_PREFIX
// and GCP_RUNTIME; the runtime defaults to "test".
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	slog.Debug("loading configuration", "base", baseConfigFileName, "environment", envConfigFileName)

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the environment file overwrite the base file.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// ApplyEnvironment copies API keys from the process environment into config.
// Keys present in the environment win over the TOML files.
func ApplyEnvironment(config *Config) {
	if v, ok := os.LookupEnv(EnvGeminiAPIKey); ok && v != "" {
		config.Application.GeminiAPIKey = v
	}
	if v, ok := os.LookupEnv(EnvYouTubeAPIKey); ok && v != "" {
		config.VideoPlatform.YouTubeAPIKey = v
	}
}

// GenerateTextResponse sends a single text prompt to the oracle and records the
// token usage reported by the model.
//
// Inputs:
//   - ctx: The context for the request, which controls cancellation and tracing.
//   - inputTokenCounter: An OpenTelemetry counter for prompt tokens used.
//   - outputTokenCounter: An OpenTelemetry counter for response tokens generated.
//   - oracle: The model answering the prompt.
//   - prompt: The fully rendered prompt text.
//
// Outputs:
//   - string: The text of the model's reply.
//   - error: The oracle error, unchanged, when the call fails or the reply is empty.
func GenerateTextResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	oracle Oracle,
	prompt string) (string, error) {
	resp, err := oracle.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("oracle returned no response")
	}
	inputTokenCounter.Add(ctx, resp.InputTokens)
	outputTokenCounter.Add(ctx, resp.OutputTokens)
	return resp.Text, nil
}
