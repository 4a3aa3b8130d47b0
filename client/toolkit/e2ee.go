/*
 * Copyright 2019 The QuorumSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package toolkit provides client-side helpers for storing end-to-end
// encrypted values in a QuorumSQL database. Values encrypted here can only
// be read back by holders of the password, never by the miners.
package toolkit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"github.com/QuorumSQL/QuorumSQL/crypto"
	"github.com/QuorumSQL/QuorumSQL/crypto/symmetric"
)

var salt = [...]byte{
	0x51, 0x75, 0x6f, 0x72, 0x75, 0x6d, 0x53, 0x51,
	0x4c, 0x2d, 0x65, 0x32, 0x65, 0x65, 0x2d, 0x31,
}

// Encrypt encrypts data with given password by AES-128-CBC PKCS#7, iv will be placed
// at head of cipher data.
func Encrypt(in, password []byte) (out []byte, err error) {
	// keyE is truncated to 128 bits, so aes.NewCipher(keyE) returns an
	// AES-128 cipher.
	keyE := symmetric.KeyDerivation(password, salt[:])[:16]
	paddedIn := crypto.AddPKCSPadding(in)
	// IV + padded cipher data
	out = make([]byte, aes.BlockSize+len(paddedIn))

	// as IV length must equal block size, iv length should be 128 bits
	iv := out[:aes.BlockSize]
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	block, _ := aes.NewCipher(keyE)
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out[aes.BlockSize:], paddedIn)

	return out, nil
}

// Decrypt decrypts data with given password by AES-128-CBC PKCS#7. iv will be read from
// the head of raw.
func Decrypt(in, password []byte) (out []byte, err error) {
	keyE := symmetric.KeyDerivation(password, salt[:])[:16]
	// IV + padded cipher data == (n + 1 + 1) * aes.BlockSize
	if len(in)%aes.BlockSize != 0 || len(in)/aes.BlockSize < 2 {
		return nil, errors.New("cipher data size not match")
	}

	// read IV
	iv := in[:aes.BlockSize]

	block, _ := aes.NewCipher(keyE)
	mode := cipher.NewCBCDecrypter(block, iv)
	// same length as cipher data
	plainData := make([]byte, len(in)-aes.BlockSize)
	mode.CryptBlocks(plainData, in[aes.BlockSize:])

	return crypto.RemovePKCSPadding(plainData)
}
