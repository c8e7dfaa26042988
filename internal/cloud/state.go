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
	"log/slog"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"google.golang.org/genai"
)

// ErrMissingCredentials is returned when neither a Gemini API key nor a Google
// project is configured.
var ErrMissingCredentials = errors.New("no gemini api key or google project configured")

// ServiceClients is a central container for the clients that talk to Google
// Cloud. It is created once at startup and shared by the API handlers, the
// Pub/Sub listeners and the workflows.
type ServiceClients struct {
	StorageClient   *storage.Client                   // Client for Google Cloud Storage (GCS).
	PubsubClient    *pubsub.Client                    // Client for Google Cloud Pub/Sub.
	GenAIClient     *genai.Client                     // Client for Gemini, either Vertex AI or the Gemini API.
	BigQueryClient  *bigquery.Client                  // Client for Google Cloud BigQuery.
	IAMClient       *credentials.IamCredentialsClient // Client for IAM to sign export URLs.
	PubSubListeners map[string]*PubSubListener        // Active listeners, keyed by a logical name from the config.
	AgentModels     map[string]*GenerativeAIModel     // Configured models, keyed by a logical name.
}

// Close releases the client connections.
func (c *ServiceClients) Close() {
	_ = c.StorageClient.Close()
	_ = c.PubsubClient.Close()
	_ = c.BigQueryClient.Close()
	_ = c.IAMClient.Close()
}

// Oracle returns the agent model selected by the configuration.
func (c *ServiceClients) Oracle(config *Config) (*GenerativeAIModel, error) {
	m, ok := c.AgentModels[config.Application.AgentModel]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", config.Application.AgentModel)
	}
	return m, nil
}

// NewGenAIClient creates a Gemini client. An API key selects the Gemini API
// backend; otherwise the Vertex AI backend of the configured project is used.
func NewGenAIClient(ctx context.Context, config *Config) (*genai.Client, error) {
	switch {
	case config.Application.GeminiAPIKey != "":
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  config.Application.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	case config.Application.GoogleProjectId != "":
		return genai.NewClient(ctx, &genai.ClientConfig{
			Project:  config.Application.GoogleProjectId,
			Location: config.Application.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		})
	default:
		return nil, ErrMissingCredentials
	}
}

// NewOracle creates only the model client, for callers such as the command
// line tool that need no other Google Cloud service.
func NewOracle(ctx context.Context, config *Config) (Oracle, error) {
	values, ok := config.AgentModel()
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", config.Application.AgentModel)
	}
	gc, err := NewGenAIClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewGenerativeAIModel(values, gc.Models), nil
}

// NewCloudServiceClients initializes every Google Cloud client the server
// needs from config.
//
// Inputs:
//   - ctx: The root context.Context for the application, used to manage the lifecycle of the clients.
//   - config: A pointer to the loaded application configuration (`Config`).
//
// Outputs:
//   - *ServiceClients: A pointer to the fully initialized ServiceClients struct.
//   - error: An error if any of the clients fail to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	sc, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	pc, err := pubsub.NewClient(ctx, config.Application.GoogleProjectId)
	if err != nil {
		return nil, err
	}

	slog.Info("creating genai client", "project", config.Application.GoogleProjectId, "location", config.Application.GoogleLocation)
	gc, err := NewGenAIClient(ctx, config)
	if err != nil {
		slog.Error("error creating genai client", "error", err)
		return nil, err
	}

	bc, err := bigquery.NewClient(ctx, config.Application.GoogleProjectId)
	if err != nil {
		return nil, err
	}

	ic, err := credentials.NewIamCredentialsClient(ctx)
	if err != nil {
		return nil, err
	}

	// Commands are attached later, once the workflows are built.
	subscriptions := make(map[string]*PubSubListener)
	for subKey := range config.TopicSubscriptions {
		values := config.TopicSubscriptions[subKey]
		actual, err := NewPubSubListener(pc, values.Name, nil)
		if err != nil {
			return nil, err
		}
		subscriptions[subKey] = actual
	}

	agentModels := make(map[string]*GenerativeAIModel)
	for amKey, values := range config.AgentModels {
		slog.Debug("configuring agent model", "key", amKey, "model", values.Model)
		agentModels[amKey] = NewGenerativeAIModel(values, gc.Models)
	}

	cloud = &ServiceClients{
		StorageClient:   sc,
		PubsubClient:    pc,
		GenAIClient:     gc,
		BigQueryClient:  bc,
		IAMClient:       ic,
		PubSubListeners: subscriptions,
		AgentModels:     agentModels,
	}
	return cloud, nil
}
