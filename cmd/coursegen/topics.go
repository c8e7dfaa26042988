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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-course-builder/internal/core/model"
)

func newTopicsCommand(cli *cliContext) *cobra.Command {
	var subject, difficulty string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Print the topic list the oracle proposes for a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := model.NewCourseRequest(subject, difficulty)
			if err != nil {
				return err
			}
			builder, err := cli.factory(cmd.Context(), cli.config)
			if err != nil {
				return err
			}
			topics, err := builder.GenerateTopics(cmd.Context(), request)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, topic := range topics {
				fmt.Fprintf(out, "%d. %s\n", i+1, topic)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject to list topics for")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(model.Beginner), "beginner, intermediate or advanced")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
