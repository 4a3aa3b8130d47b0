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

// Package crypto implements the address derivation and padding helpers shared
// by the key management and signing packages.
package crypto

import (
	"bytes"
	"crypto/aes"
)

// AddPKCSPadding adds PKCS#7 padding to a block of data.
func AddPKCSPadding(src []byte) []byte {
	padding := aes.BlockSize - len(src)%aes.BlockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(src, padtext...)
}

// RemovePKCSPadding removes PKCS#7 padding from a block of data.
func RemovePKCSPadding(src []byte) ([]byte, error) {
	length := len(src)
	if length == 0 {
		return nil, ErrInvalidPadding
	}
	unpadding := int(src[length-1])
	if unpadding > length || unpadding > aes.BlockSize || unpadding == 0 {
		return nil, ErrInvalidPadding
	}
	return src[:(length - unpadding)], nil
}
