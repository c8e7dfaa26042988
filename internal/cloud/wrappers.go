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
	"strings"

	"google.golang.org/genai"
)

// Oracle is a text-in, text-out language model. Implementations must be safe
// for concurrent use.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (*OracleResponse, error)
}

// OracleResponse is the reply text together with the token usage of the call.
type OracleResponse struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (*OracleResponse, error)

// Generate calls f(ctx, prompt).
func (f OracleFunc) Generate(ctx context.Context, prompt string) (*OracleResponse, error) {
	return f(ctx, prompt)
}

// GenerativeAIModel binds a model name and its generation settings to a genai
// client, and implements Oracle on top of it.
type GenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
}

// NewGenerativeAIModel builds the generation config for values and binds it to models.
// Sampling parameters left at zero are not sent so the service default applies.
func NewGenerativeAIModel(values VertexAiLLMModel, models *genai.Models) *GenerativeAIModel {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  values.MaxTokens,
		SafetySettings:   DefaultSafetySettings,
		ResponseMIMEType: values.OutputFormat,
	}
	if values.Temperature > 0 {
		config.Temperature = genai.Ptr[float32](values.Temperature)
	}
	if values.TopP > 0 {
		config.TopP = genai.Ptr[float32](values.TopP)
	}
	if values.TopK > 0 {
		config.TopK = genai.Ptr[float32](values.TopK)
	}
	if values.SystemInstructions != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
	}
	return &GenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               values.Model,
		ModelHandle:             models,
	}
}

// GenerateContent forwards the request to the bound model with its configuration.
func (q *GenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}

// Generate sends prompt as a single user turn and concatenates the text parts
// of every candidate in the reply.
func (q *GenerativeAIModel) Generate(ctx context.Context, prompt string) (*OracleResponse, error) {
	resp, err := q.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, errors.New("model returned an empty reply")
	}
	out := &OracleResponse{Text: sb.String()}
	if resp.UsageMetadata != nil {
		out.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
