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

package crypto

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/proto"
)

const (
	// MainNet is the address version byte for main net.
	MainNet byte = 0x0
	// TestNet is the address version byte for test net.
	TestNet byte = 0x6f
)

// Package level errors.
var (
	// ErrInvalidPadding indicates the padded data is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrNilPublicKey indicates a nil public key is given for address derivation.
	ErrNilPublicKey = errors.New("nil public key")
)

// PublicKeyToAddress is an alias to function PubKeyHash.
var PublicKeyToAddress = PubKeyHash

// PubKeyHash generates the account hash address for specified public key.
func PubKeyHash(pubKey *asymmetric.PublicKey) (addr proto.AccountAddress, err error) {
	if pubKey == nil || pubKey.X == nil || pubKey.Y == nil {
		err = errors.WithStack(ErrNilPublicKey)
		return
	}
	addr = proto.AccountAddress(hash.THashH(pubKey.Serialize()))
	return
}

// PubKey2Addr converts the public key to a base58 wallet address, following
// https://bitcoin.org/en/developer-guide#standard-transactions.
func PubKey2Addr(pubKey *asymmetric.PublicKey, version byte) (addr string, err error) {
	var internalAddr proto.AccountAddress
	if internalAddr, err = PubKeyHash(pubKey); err != nil {
		return
	}
	addr = Hash2Addr(internalAddr, version)
	return
}

// Addr2Hash converts a base58 wallet address to the internal account address.
func Addr2Hash(addr string) (version byte, internalAddr proto.AccountAddress, err error) {
	var hashBytes []byte
	if hashBytes, version, err = base58.CheckDecode(addr); err != nil {
		err = errors.Wrap(err, "decode wallet address failed")
		return
	}
	var h *hash.Hash
	if h, err = hash.NewHash(hashBytes); err != nil {
		return
	}
	internalAddr = proto.AccountAddress(*h)
	return
}

// Hash2Addr converts an internal account address to base58 wallet format.
func Hash2Addr(addr proto.AccountAddress, version byte) string {
	return base58.CheckEncode(addr[:], version)
}
