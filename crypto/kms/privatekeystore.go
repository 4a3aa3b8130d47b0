/*
 * Copyright 2018 The QuorumSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package kms

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"

	"github.com/btcsuite/btcd/btcec"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/crypto/symmetric"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

var (
	// ErrNotKeyFile indicates the specified key file is malformed.
	ErrNotKeyFile = errors.New("private key file malformed")
	// ErrHashNotMatch indicates the private key hash head is wrong.
	ErrHashNotMatch = errors.New("private key hash not match")
)

// LoadPrivateKey loads a private key from keyFilePath and verifies the hash
// head.
func LoadPrivateKey(keyFilePath string, masterKey []byte) (key *asymmetric.PrivateKey, err error) {
	fileContent, err := ioutil.ReadFile(keyFilePath)
	if err != nil {
		log.WithField("path", keyFilePath).WithError(err).Error("read key file failed")
		return
	}

	decData, err := symmetric.DecryptWithPassword(fileContent, masterKey)
	if err != nil {
		log.Error("decrypt private key failed")
		return
	}

	// sha256 + privateKey
	if len(decData) != hash.HashSize+btcec.PrivKeyBytesLen {
		log.Errorf("private key file size should be %d bytes", hash.HashSize+btcec.PrivKeyBytesLen)
		return nil, ErrNotKeyFile
	}

	computedHash := hash.DoubleHashB(decData[hash.HashSize:])
	if !bytes.Equal(computedHash, decData[:hash.HashSize]) {
		return nil, ErrHashNotMatch
	}

	key, _ = asymmetric.PrivKeyFromBytes(decData[hash.HashSize:])
	return
}

// SavePrivateKey saves the private key with its hash on the head to
// keyFilePath, default perm is 0600.
func SavePrivateKey(keyFilePath string, key *asymmetric.PrivateKey, masterKey []byte) (err error) {
	serializedKey := key.Serialize()
	keyHash := hash.DoubleHashB(serializedKey)
	rawData := append(keyHash, serializedKey...)
	encKey, err := symmetric.EncryptWithPassword(rawData, masterKey)
	if err != nil {
		log.Error("encrypt private key failed")
		return
	}
	return ioutil.WriteFile(keyFilePath, encKey, 0600)
}

// GeneratePrivateKey generates a new EC private key.
func GeneratePrivateKey() (key *asymmetric.PrivateKey, err error) {
	privKey, _, err := asymmetric.GenSecp256k1KeyPair()
	return privKey, err
}

// InitLocalKeyPair loads the private key from keyFilePath and sets the local
// key pair. If the key file does not exist yet a fresh key is generated and
// saved there first.
func InitLocalKeyPair(keyFilePath string, masterKey []byte) (err error) {
	var key *asymmetric.PrivateKey
	key, err = LoadPrivateKey(keyFilePath, masterKey)
	if err != nil {
		if !os.IsNotExist(err) {
			if err == ErrNotKeyFile || err == ErrHashNotMatch {
				log.WithField("path", keyFilePath).WithError(err).Error("unusable key file")
			}
			return
		}
		log.WithField("path", keyFilePath).Info("key file not exist, generating")
		if key, err = GeneratePrivateKey(); err != nil {
			log.WithError(err).Error("generate private key failed")
			return
		}
		if err = SavePrivateKey(keyFilePath, key, masterKey); err != nil {
			log.WithError(err).Error("save generated private key failed")
			return
		}
	}
	SetLocalKeyPair(key, key.PubKey())
	return
}
