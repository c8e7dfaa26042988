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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-course-builder/internal/cloud"
	"github.com/jaycherian/gcp-go-course-builder/internal/core/workflow"
	"github.com/jaycherian/gcp-go-course-builder/internal/telemetry"
	"github.com/jaycherian/gcp-go-course-builder/internal/youtube"
)

// builderFactory creates the course builder once the configuration is known.
type builderFactory func(ctx context.Context, config *cloud.Config) (*workflow.CourseBuilderWorkflow, error)

// newBuilder wires the Gemini oracle and the configured video platform.
func newBuilder(ctx context.Context, config *cloud.Config) (*workflow.CourseBuilderWorkflow, error) {
	oracle, err := cloud.NewOracle(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}
	platform, err := youtube.NewPlatform(ctx, config)
	if err != nil {
		return nil, err
	}
	return workflow.NewCourseBuilderWorkflow(oracle, platform, youtube.NewCaptionFetcher(), config.PromptTemplates)
}

// cliContext carries what every subcommand needs after PersistentPreRunE.
type cliContext struct {
	configDir string
	runtime   string
	logLevel  string
	factory   builderFactory
	config    *cloud.Config
	closeLog  func() error
}

// loadConfig reads <configDir>/.env.toml and <configDir>/.env.<runtime>.toml
// on top of the defaults, then applies API keys from the environment.
func (c *cliContext) loadConfig() error {
	if err := os.Setenv(cloud.EnvConfigFilePrefix, c.configDir); err != nil {
		return err
	}
	if err := os.Setenv(cloud.EnvConfigRuntime, c.runtime); err != nil {
		return err
	}
	config := cloud.NewConfig()
	cloud.LoadConfig(config)
	cloud.ApplyEnvironment(config)
	if c.logLevel != "" {
		config.Logging.Level = c.logLevel
	}
	c.config = config

	closeLog, err := telemetry.SetupLogging(os.Stderr, config.Logging)
	if err != nil {
		return err
	}
	c.closeLog = closeLog
	return nil
}

func newRootCommand(factory builderFactory) *cobra.Command {
	cli := &cliContext{factory: factory}

	rootCmd := &cobra.Command{
		Use:           "coursegen",
		Short:         "Generate video course paths with Gemini and YouTube",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cli.closeLog != nil {
				return cli.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cli.configDir, "config-dir", "configs", "Directory holding the .env TOML files")
	rootCmd.PersistentFlags().StringVar(&cli.runtime, "runtime", "local", "Runtime environment selecting .env.<runtime>.toml")
	rootCmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newGenerateCommand(cli))
	rootCmd.AddCommand(newTopicsCommand(cli))
	return rootCmd
}
