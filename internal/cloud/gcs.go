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
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
)

// GetGCSObjectName returns the chain context key under which a command
// publishes the GCSObject it wrote.
func GetGCSObjectName() string {
	return "__GCS__OBJ__"
}

// GCSObject identifies an object written to Cloud Storage.
type GCSObject struct {
	Bucket   string // The name of the GCS bucket.
	Name     string // The name of the object.
	MIMEType string // The MIME type of the object (e.g., "application/json").
}

// URI returns the gs:// form of the object location.
func (o *GCSObject) URI() string {
	return fmt.Sprintf("gs://%s/%s", o.Bucket, o.Name)
}

// ExportObjectName places fileName under prefix, or at the bucket root when
// prefix is empty.
func ExportObjectName(prefix string, fileName string) string {
	if prefix == "" {
		return fileName
	}
	return path.Join(prefix, fileName)
}

// ObjectWriter opens a writer for a new object. The object is committed when
// the writer is closed without error.
type ObjectWriter func(ctx context.Context, bucket string, object string, contentType string) io.WriteCloser

// NewGCSObjectWriter returns an ObjectWriter backed by Cloud Storage.
func NewGCSObjectWriter(client *storage.Client) ObjectWriter {
	return func(ctx context.Context, bucket string, object string, contentType string) io.WriteCloser {
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
}
