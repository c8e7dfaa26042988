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

	"cloud.google.com/go/bigquery"
)

// RowInserter streams rows into a table. *bigquery.Inserter satisfies it.
type RowInserter interface {
	Put(ctx context.Context, src interface{}) error
}

// NewBigQueryInserter returns the streaming inserter for dataset.table.
func NewBigQueryInserter(client *bigquery.Client, dataset string, table string) RowInserter {
	return client.Dataset(dataset).Table(table).Inserter()
}
