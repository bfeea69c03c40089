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

package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultRequestTimeout = 60 * time.Second

// BlobStoreS3 stores journal records as objects in an AWS S3 bucket.
// Individual object writes are atomic but transactions are not, they only
// satisfy the transaction interface used by the database layer.
type BlobStoreS3 struct {
	promRegistry prometheus.Registerer
	logger       *S3Logger
	client       *s3.Client
	metrics      blobMetrics
	bucket       string
	prefix       string
	region       string
	endpoint     string
	timeout      time.Duration
}

// New opens an S3 backed store from a dataDir of the form
// s3://<bucket>[/prefix]
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*BlobStoreS3, error) {
	const prefix = "s3://"
	path, ok := strings.CutPrefix(dataDir, prefix)
	if !ok || path == "" {
		return nil, errors.New(
			"s3 blob: dataDir must look like s3://<bucket>[/prefix]",
		)
	}

	bucket, keyPrefix, _ := strings.Cut(path, "/")
	if bucket == "" {
		return nil, errors.New("s3 blob: bucket name missing from dataDir")
	}
	if keyPrefix != "" {
		keyPrefix = strings.TrimSuffix(keyPrefix, "/") + "/"
	}

	return NewWithOptions(
		WithBucket(bucket),
		WithPrefix(keyPrefix),
		WithLogger(logger),
		WithPromRegistry(promRegistry),
	)
}

// NewWithOptions builds an S3 backed store from explicit options.
func NewWithOptions(opts ...Option) (*BlobStoreS3, error) {
	db := &BlobStoreS3{}

	// Apply options
	for _, opt := range opts {
		opt(db)
	}

	// Set defaults
	if db.logger == nil {
		db.logger = NewS3Logger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	}

	// The AWS config is loaded in Start so construction never touches
	// the network
	return db, nil
}

// requestContext bounds a single S3 request by the configured timeout.
func (d *BlobStoreS3) requestContext() (context.Context, context.CancelFunc) {
	timeout := d.timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (d *BlobStoreS3) init() error {
	// Configure metrics
	if d.promRegistry != nil {
		d.registerBlobMetrics()
	}
	return nil
}

// Start implements the plugin.Plugin interface.
func (d *BlobStoreS3) Start() error {
	if d.bucket == "" {
		return errors.New("s3 blob: no bucket configured")
	}

	ctx, cancel := d.requestContext()
	defer cancel()

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3 blob: load default AWS config: %w", err)
	}
	if d.region != "" {
		awsCfg.Region = d.region
	}

	d.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if d.endpoint != "" {
			// Custom endpoints are generally fake S3 implementations that
			// want path-style access
			o.BaseEndpoint = aws.String(d.endpoint)
			o.UsePathStyle = true
		}
	})

	return d.init()
}

// Stop implements the plugin.Plugin interface.
func (d *BlobStoreS3) Stop() error {
	// S3 client doesn't need explicit closing
	return nil
}

// Close implements the BlobStore interface.
func (d *BlobStoreS3) Close() error {
	return d.Stop()
}

// Returns the S3 client.
func (d *BlobStoreS3) Client() *s3.Client {
	return d.client
}

// Returns the bucket name.
func (d *BlobStoreS3) Bucket() string {
	return d.bucket
}

// objectKey maps a store key to its S3 object key under our prefix.
func (d *BlobStoreS3) objectKey(key string) string {
	return d.prefix + key
}

// Get returns the value stored at key. Missing keys report
// types.ErrBlobKeyNotFound.
func (d *BlobStoreS3) Get(txn types.Txn, key []byte) ([]byte, error) {
	if _, err := d.activeTxn(txn); err != nil {
		return nil, err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	return d.readObject(ctx, string(key))
}

// Set stores a key-value pair. The transaction must be read-write.
func (d *BlobStoreS3) Set(txn types.Txn, key, val []byte) error {
	if _, err := d.writableTxn(txn); err != nil {
		return err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	return d.writeObject(ctx, string(key), val)
}

// Delete removes a key. Deleting a missing key reports
// types.ErrBlobKeyNotFound.
func (d *BlobStoreS3) Delete(txn types.Txn, key []byte) error {
	if _, err := d.writableTxn(txn); err != nil {
		return err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.objectKey(string(key))),
	})
	if err != nil {
		if isNotFound(err) {
			return types.ErrBlobKeyNotFound
		}
		d.logger.Errorf("s3 DeleteObject %q: %v", string(key), err)
		return err
	}
	d.recordOp(0)
	return nil
}

// NewIterator creates an iterator over the keys visible at creation time.
//
// Items returned by the iterator's Item() must only be accessed while the
// transaction used to create the iterator is still active.
func (d *BlobStoreS3) NewIterator(
	txn types.Txn,
	opts types.BlobIteratorOptions,
) types.BlobIterator {
	if _, err := d.activeTxn(txn); err != nil {
		return &errorIterator{err: err}
	}
	it := &objectIterator{store: d, txn: txn, reverse: opts.Reverse}
	it.keys, it.err = d.listKeys(opts)
	if it.err != nil {
		d.logger.Errorf("s3 ListObjectsV2: %v", it.err)
	}
	return it
}

// listKeys lists every object key under the iterator prefix, sorted in the
// requested direction with the store prefix stripped.
func (d *BlobStoreS3) listKeys(
	opts types.BlobIteratorOptions,
) ([]string, error) {
	ctx, cancel := d.requestContext()
	defer cancel()
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
	}
	if prefix := d.objectKey(string(opts.Prefix)); prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(
				keys,
				strings.TrimPrefix(aws.ToString(obj.Key), d.prefix),
			)
		}
	}
	slices.Sort(keys)
	if opts.Reverse {
		slices.Reverse(keys)
	}
	return keys, nil
}

// isNotFound reports whether err is the S3 missing-object error.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}

// readObject fetches the object at key, mapping missing objects to
// types.ErrBlobKeyNotFound.
func (d *BlobStoreS3) readObject(
	ctx context.Context,
	key string,
) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrBlobKeyNotFound
		}
		d.logger.Errorf("s3 GetObject %q: %v", key, err)
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		d.logger.Errorf("s3 object body read %q: %v", key, err)
		return nil, err
	}
	d.recordOp(len(data))
	return data, nil
}

// writeObject stores value at key.
func (d *BlobStoreS3) writeObject(
	ctx context.Context,
	key string,
	value []byte,
) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.objectKey(key)),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		d.logger.Errorf("s3 PutObject %q: %v", key, err)
		return err
	}
	d.recordOp(len(value))
	return nil
}
