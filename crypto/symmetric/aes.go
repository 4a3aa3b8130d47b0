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

// Package symmetric implements symmetric encryption for key file storage.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
)

var (
	// ErrInputSize indicates cipher data size is not expected, maybe the data
	// is not encrypted by EncryptWithPassword in this package.
	ErrInputSize = errors.New("cipher data size not match")

	// salt fixes the key derivation of the local key file.
	salt = []byte("auxten-key-salt-auxten")
)

// KeyDerivation does sha256 twice to the salted password, producing 256 key
// bits.
func KeyDerivation(password []byte, salt []byte) (out []byte) {
	return hash.DoubleHashB(append(password, salt...))
}

func keyDerivation(password []byte) (out []byte) {
	return KeyDerivation(password, salt)
}

// EncryptWithPassword encrypts data with the given password, iv will be
// placed at head of cipher data.
func EncryptWithPassword(in, password []byte) (out []byte, err error) {
	// keyE is 256 bits, so aes.NewCipher(keyE) returns an AES-256 cipher
	keyE := keyDerivation(password)
	paddedIn := crypto.AddPKCSPadding(in)
	out = make([]byte, aes.BlockSize+len(paddedIn))

	// iv length must equal the block size
	iv := out[:aes.BlockSize]
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	block, _ := aes.NewCipher(keyE)
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out[aes.BlockSize:], paddedIn)

	return out, nil
}

// DecryptWithPassword decrypts data with the given password.
func DecryptWithPassword(in, password []byte) (out []byte, err error) {
	keyE := keyDerivation(password)

	// IV + padded cipher data == (n + 1 + 1) * aes.BlockSize
	if len(in)%aes.BlockSize != 0 || len(in)/aes.BlockSize < 2 {
		return nil, ErrInputSize
	}

	iv := in[:aes.BlockSize]
	block, _ := aes.NewCipher(keyE)
	mode := cipher.NewCBCDecrypter(block, iv)

	plain := make([]byte, len(in)-aes.BlockSize)
	mode.CryptBlocks(plain, in[aes.BlockSize:])

	return crypto.RemovePKCSPadding(plain)
}
