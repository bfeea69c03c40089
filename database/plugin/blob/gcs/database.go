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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	defaultRequestTimeout = 60 * time.Second
	clientSetupTimeout    = 30 * time.Second
)

// BlobStoreGCS stores journal records as objects in a Google Cloud Storage
// bucket. Individual object writes are atomic but transactions are not, they
// only satisfy the transaction interface used by the database layer.
type BlobStoreGCS struct {
	promRegistry    prometheus.Registerer
	logger          *GcsLogger
	client          *storage.Client
	bucket          *storage.BucketHandle
	metrics         blobMetrics
	bucketName      string
	prefix          string
	credentialsFile string
	timeout         time.Duration
}

// New opens a GCS backed store from a dataDir of the form
// gcs://<bucket>[/prefix]
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*BlobStoreGCS, error) {
	const prefix = "gcs://"
	path, ok := strings.CutPrefix(dataDir, prefix)
	if !ok || path == "" {
		return nil, errors.New(
			"gcs blob: dataDir must look like gcs://<bucket>[/prefix]",
		)
	}

	bucketName, keyPrefix, _ := strings.Cut(path, "/")
	if bucketName == "" {
		return nil, errors.New("gcs blob: bucket name missing from dataDir")
	}
	if keyPrefix != "" {
		keyPrefix = strings.TrimSuffix(keyPrefix, "/") + "/"
	}

	return NewWithOptions(
		WithBucket(bucketName),
		WithPrefix(keyPrefix),
		WithLogger(logger),
		WithPromRegistry(promRegistry),
	)
}

// NewWithOptions builds a GCS backed store from explicit options.
func NewWithOptions(opts ...Option) (*BlobStoreGCS, error) {
	db := &BlobStoreGCS{}

	// Apply options
	for _, opt := range opts {
		opt(db)
	}

	// Set defaults
	if db.logger == nil {
		db.logger = NewGcsLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	}

	// The storage client is created in Start so construction never
	// touches the network
	return db, nil
}

// requestContext bounds a single GCS request by the configured timeout.
func (d *BlobStoreGCS) requestContext() (context.Context, context.CancelFunc) {
	timeout := d.timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (d *BlobStoreGCS) init() error {
	// Configure metrics
	if d.promRegistry != nil {
		d.registerBlobMetrics()
	}
	return nil
}

// Start implements the plugin.Plugin interface.
func (d *BlobStoreGCS) Start() error {
	if d.bucketName == "" {
		return errors.New("gcs blob: no bucket configured")
	}
	if d.credentialsFile != "" {
		if err := ValidateCredentials(d.credentialsFile); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(
		context.Background(),
		clientSetupTimeout,
	)
	defer cancel()

	clientOpts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if d.credentialsFile != "" {
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(d.credentialsFile),
		)
	}

	client, err := storage.NewGRPCClient(ctx, clientOpts...)
	if err != nil {
		return fmt.Errorf(
			"gcs blob: create storage client: %w",
			err,
		)
	}
	d.client = client
	d.bucket = client.Bucket(d.bucketName)

	if err := d.init(); err != nil {
		// Clean up resources on init failure
		d.Close()
		return err
	}
	return nil
}

// Stop implements the plugin.Plugin interface.
func (d *BlobStoreGCS) Stop() error {
	return d.Close()
}

// Close closes the GCS client.
func (d *BlobStoreGCS) Close() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// Returns the GCS client.
func (d *BlobStoreGCS) Client() *storage.Client {
	return d.client
}

// Returns the bucket handle.
func (d *BlobStoreGCS) Bucket() *storage.BucketHandle {
	return d.bucket
}

// objectKey maps a store key to its GCS object name under our prefix.
func (d *BlobStoreGCS) objectKey(key string) string {
	return d.prefix + key
}

// Get returns the value stored at key. Missing keys report
// types.ErrBlobKeyNotFound.
func (d *BlobStoreGCS) Get(txn types.Txn, key []byte) ([]byte, error) {
	if _, err := d.activeTxn(txn); err != nil {
		return nil, err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	return d.readObject(ctx, string(key))
}

// Set stores a key-value pair. The transaction must be read-write.
func (d *BlobStoreGCS) Set(txn types.Txn, key, val []byte) error {
	if _, err := d.writableTxn(txn); err != nil {
		return err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	return d.writeObject(ctx, string(key), val)
}

// Delete removes a key. Deleting a missing key reports
// types.ErrBlobKeyNotFound.
func (d *BlobStoreGCS) Delete(txn types.Txn, key []byte) error {
	if _, err := d.writableTxn(txn); err != nil {
		return err
	}
	ctx, cancel := d.requestContext()
	defer cancel()
	err := d.bucket.Object(d.objectKey(string(key))).Delete(ctx)
	if err != nil {
		if isNotFound(err) {
			return types.ErrBlobKeyNotFound
		}
		d.logger.Errorf("gcs object delete %q: %v", string(key), err)
		return err
	}
	d.recordOp(0)
	return nil
}

// NewIterator creates an iterator over the object names visible at creation
// time.
//
// Items returned by the iterator's Item() must only be accessed while the
// transaction used to create the iterator is still active.
func (d *BlobStoreGCS) NewIterator(
	txn types.Txn,
	opts types.BlobIteratorOptions,
) types.BlobIterator {
	if _, err := d.activeTxn(txn); err != nil {
		return &errorIterator{err: err}
	}
	it := &objectIterator{store: d, txn: txn, reverse: opts.Reverse}
	it.keys, it.err = d.listKeys(opts)
	if it.err != nil {
		d.logger.Errorf("gcs object list: %v", it.err)
	}
	return it
}

// listKeys lists every object name under the iterator prefix, sorted in the
// requested direction with the store prefix stripped.
func (d *BlobStoreGCS) listKeys(
	opts types.BlobIteratorOptions,
) ([]string, error) {
	ctx, cancel := d.requestContext()
	defer cancel()
	query := &storage.Query{}
	if prefix := d.objectKey(string(opts.Prefix)); prefix != "" {
		query.Prefix = prefix
	}
	var keys []string
	objIter := d.bucket.Objects(ctx, query)
	for {
		attrs, err := objIter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, d.prefix))
	}
	slices.Sort(keys)
	if opts.Reverse {
		slices.Reverse(keys)
	}
	return keys, nil
}

// isNotFound reports whether err is the GCS missing-object error.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrObjectNotExist)
}

// readObject fetches the object at key, mapping missing objects to
// types.ErrBlobKeyNotFound.
func (d *BlobStoreGCS) readObject(
	ctx context.Context,
	key string,
) ([]byte, error) {
	r, err := d.bucket.Object(d.objectKey(key)).NewReader(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrBlobKeyNotFound
		}
		d.logger.Errorf("gcs object open %q: %v", key, err)
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		d.logger.Errorf("gcs object read %q: %v", key, err)
		return nil, err
	}
	d.recordOp(len(data))
	return data, nil
}

// writeObject stores value at key.
func (d *BlobStoreGCS) writeObject(
	ctx context.Context,
	key string,
	value []byte,
) error {
	w := d.bucket.Object(d.objectKey(key)).NewWriter(ctx)
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		d.logger.Errorf("gcs object write %q: %v", key, err)
		return err
	}
	if err := w.Close(); err != nil {
		d.logger.Errorf("gcs writer close %q: %v", key, err)
		return err
	}
	d.recordOp(len(value))
	return nil
}
