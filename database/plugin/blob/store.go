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

package blob

import (
	"fmt"

	"github.com/blinklabs-io/gavel/database/plugin"
	"github.com/blinklabs-io/gavel/database/types"

	// Ensure the plugins self-register on startup
	_ "github.com/blinklabs-io/gavel/database/plugin/blob/aws"
	_ "github.com/blinklabs-io/gavel/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/gavel/database/plugin/blob/gcs"
)

type BlobStore interface {
	Close() error
	NewTransaction(bool) types.Txn
	Get(types.Txn, []byte) ([]byte, error)
	Set(types.Txn, []byte, []byte) error
	Delete(types.Txn, []byte) error
	NewIterator(types.Txn, types.BlobIteratorOptions) types.BlobIterator

	// Journal record accessors
	SetRecord(types.Txn, uint64, []byte) error
	GetRecord(types.Txn, uint64) ([]byte, error)

	// Metadata commit tracking
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(types.Txn, int64) error
}

// New returns the started blob plugin selected by name
func New(pluginName string) (BlobStore, error) {
	// Get and start the plugin
	p, err := plugin.StartPlugin(plugin.PluginTypeBlob, pluginName)
	if err != nil {
		return nil, err
	}

	// Type assert to BlobStore interface
	blobStore, ok := p.(BlobStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement BlobStore interface",
			pluginName,
		)
	}

	return blobStore, nil
}
