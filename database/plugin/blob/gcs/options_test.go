// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOptions(t *testing.T) {
	b := &BlobStoreGCS{}
	registry := prometheus.NewRegistry()

	WithBucket("test-bucket")(b)
	WithPrefix("journal/")(b)
	WithCredentialsFile("/tmp/creds.json")(b)
	WithTimeout(5 * time.Second)(b)
	WithPromRegistry(registry)(b)
	WithLogger(nil)(b)

	if b.bucketName != "test-bucket" {
		t.Errorf(
			"Expected bucketName to be 'test-bucket', got '%s'",
			b.bucketName,
		)
	}
	if b.prefix != "journal/" {
		t.Errorf("Expected prefix to be 'journal/', got '%s'", b.prefix)
	}
	if b.credentialsFile != "/tmp/creds.json" {
		t.Errorf(
			"Expected credentialsFile to be '/tmp/creds.json', got '%s'",
			b.credentialsFile,
		)
	}
	if b.timeout != 5*time.Second {
		t.Errorf("Expected timeout to be 5s, got %s", b.timeout)
	}
	if b.promRegistry != registry {
		t.Errorf("Expected promRegistry to be set correctly")
	}
	if b.logger == nil {
		t.Errorf("Expected a fallback logger for nil input")
	}
}

func TestNewParsesDataDir(t *testing.T) {
	tests := []struct {
		dataDir     string
		bucket      string
		prefix      string
		expectError bool
	}{
		{dataDir: "gcs://my-bucket", bucket: "my-bucket"},
		{
			dataDir: "gcs://my-bucket/some/prefix",
			bucket:  "my-bucket",
			prefix:  "some/prefix/",
		},
		{
			dataDir: "gcs://my-bucket/some/prefix/",
			bucket:  "my-bucket",
			prefix:  "some/prefix/",
		},
		{dataDir: "gcs://", expectError: true},
		{dataDir: "s3://my-bucket", expectError: true},
		{dataDir: "", expectError: true},
	}
	for _, tt := range tests {
		store, err := New(tt.dataDir, nil, nil)
		if tt.expectError {
			if err == nil {
				t.Errorf("expected error for dataDir %q, got nil", tt.dataDir)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for dataDir %q: %v", tt.dataDir, err)
			continue
		}
		if store.bucketName != tt.bucket {
			t.Errorf(
				"expected bucket %q for dataDir %q, got %q",
				tt.bucket,
				tt.dataDir,
				store.bucketName,
			)
		}
		if store.prefix != tt.prefix {
			t.Errorf(
				"expected prefix %q for dataDir %q, got %q",
				tt.prefix,
				tt.dataDir,
				store.prefix,
			)
		}
	}
}
