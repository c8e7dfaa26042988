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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

type generateOptions struct {
	subject    string
	difficulty string
	save       bool
	outputDir  string
	asJSON     bool
	details    bool
}

func newGenerateCommand(cli *cliContext) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a course path for a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := model.NewCourseRequest(opts.subject, opts.difficulty)
			if err != nil {
				return err
			}
			builder, err := cli.factory(cmd.Context(), cli.config)
			if err != nil {
				return err
			}

			result := builder.Build(cmd.Context(), request)
			if !result.Success {
				return errors.New(result.Error)
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				err = writeJSON(out, result)
			} else {
				err = renderCourse(out, result, opts.details, shouldColorize(out))
			}
			if err != nil {
				return err
			}

			if opts.save {
				path, err := saveResult(opts.outputDir, request, result)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Course path saved to: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.subject, "subject", "s", "", "Subject to build a course for")
	cmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", string(model.Beginner), "beginner, intermediate or advanced")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Write the course JSON to the output directory")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", ".", "Directory for --save")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result envelope as JSON")
	cmd.Flags().BoolVar(&opts.details, "details", false, "Print a block per topic instead of a table")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// saveResult writes the envelope to course_<subject>_<level>.json in dir.
func saveResult(dir string, request *model.CourseRequest, result *model.CourseResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, model.CourseFileName(request.Subject, request.Difficulty))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
