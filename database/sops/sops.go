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

// Package sops wraps the SOPS library for encrypting blob records at rest.
// The cloud blob stores run every record through Encrypt before upload and
// Decrypt after download. Master keys come from GCP KMS and/or AWS KMS,
// selected through environment variables.
package sops

import (
	"errors"
	"fmt"
	"os"

	sopsapi "github.com/getsops/sops/v3"
	"github.com/getsops/sops/v3/aes"
	scommon "github.com/getsops/sops/v3/cmd/sops/common"
	"github.com/getsops/sops/v3/config"
	"github.com/getsops/sops/v3/decrypt"
	"github.com/getsops/sops/v3/gcpkms"
	skeys "github.com/getsops/sops/v3/keys"
	awskms "github.com/getsops/sops/v3/kms"
	jsonstore "github.com/getsops/sops/v3/stores/json"
	"github.com/getsops/sops/v3/version"
)

const (
	envGcpKmsResourceID = "GAVEL_GCP_KMS_RESOURCE_ID"
	envAwsKmsKeyArns    = "GAVEL_AWS_KMS_KEY_ARNS"
	envAwsKmsProfile    = "GAVEL_AWS_KMS_PROFILE"
)

// Decrypt recovers the plaintext from a SOPS binary-format payload
func Decrypt(data []byte) ([]byte, error) {
	return decrypt.Data(data, "binary")
}

// Encrypt wraps data in a SOPS binary-format payload encrypted with the
// master keys configured in the environment. Data that already carries SOPS
// metadata is rejected rather than encrypted a second time.
func Encrypt(data []byte) ([]byte, error) {
	storeConfig := &config.JSONBinaryStoreConfig{}
	input := jsonstore.NewBinaryStore(storeConfig)
	branches, err := input.LoadPlainFile(data)
	if err != nil {
		return nil, fmt.Errorf("load plain data: %w", err)
	}
	if hasSopsMetadata(branches) {
		return nil, errors.New("data is already SOPS encrypted")
	}

	keyGroups, err := masterKeyGroups()
	if err != nil {
		return nil, err
	}
	tree := sopsapi.Tree{
		Branches: branches,
		Metadata: sopsapi.Metadata{
			KeyGroups: keyGroups,
			Version:   version.Version,
		},
	}
	dataKey, errs := tree.GenerateDataKey()
	if len(errs) > 0 {
		return nil, fmt.Errorf("generate data key: %v", errs)
	}
	if err := scommon.EncryptTree(scommon.EncryptTreeOpts{
		DataKey: dataKey,
		Tree:    &tree,
		Cipher:  aes.NewCipher(),
	}); err != nil {
		return nil, fmt.Errorf("encrypt tree: %w", err)
	}

	output := jsonstore.NewBinaryStore(storeConfig)
	encrypted, err := output.EmitEncryptedFile(tree)
	if err != nil {
		return nil, fmt.Errorf("emit encrypted output: %w", err)
	}
	return encrypted, nil
}

func hasSopsMetadata(branches sopsapi.TreeBranches) bool {
	for _, branch := range branches {
		for _, item := range branch {
			if item.Key == "sops" {
				return true
			}
		}
	}
	return false
}

func masterKeyGroups() ([]sopsapi.KeyGroup, error) {
	var keyGroups []sopsapi.KeyGroup
	if keys := gcpMasterKeys(); len(keys) > 0 {
		keyGroups = append(keyGroups, keys)
	}
	if keys := awsMasterKeys(); len(keys) > 0 {
		keyGroups = append(keyGroups, keys)
	}
	if len(keyGroups) == 0 {
		return nil, fmt.Errorf(
			"SOPS requires at least one master key to encrypt: set %s and/or %s",
			envGcpKmsResourceID,
			envAwsKmsKeyArns,
		)
	}
	return keyGroups, nil
}

func gcpMasterKeys() []skeys.MasterKey {
	rid := os.Getenv(envGcpKmsResourceID)
	if rid == "" {
		return nil
	}
	var keys []skeys.MasterKey
	for _, k := range gcpkms.MasterKeysFromResourceIDString(rid) {
		keys = append(keys, k)
	}
	return keys
}

func awsMasterKeys() []skeys.MasterKey {
	arns := os.Getenv(envAwsKmsKeyArns)
	if arns == "" {
		return nil
	}
	profile := os.Getenv(envAwsKmsProfile)
	var keys []skeys.MasterKey
	for _, k := range awskms.MasterKeysFromArnString(arns, nil, profile) {
		keys = append(keys, k)
	}
	return keys
}
