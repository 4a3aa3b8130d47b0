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

// Package asymmetric wraps the btcsuite secp256k1 implementation, exporting
// only the types and functions the rest of the system needs.
package asymmetric

import (
	"crypto/ecdsa"
	"encoding/hex"

	ec "github.com/btcsuite/btcd/btcec"
)

// PrivateKey wraps an ec.PrivateKey as a convenience mainly for signing
// things with the private key.
type PrivateKey ec.PrivateKey

// PublicKey wraps an ec.PublicKey as a convenience mainly for verifying
// signatures with the public key.
type PublicKey ec.PublicKey

// PrivateKeyBytesLen defines the length in bytes of a serialized private key.
const PrivateKeyBytesLen = ec.PrivKeyBytesLen

// PublicKeyBytesLen defines the length in bytes of a serialized compressed
// public key.
const PublicKeyBytesLen = ec.PubKeyBytesLenCompressed

// GenSecp256k1KeyPair generates a new private/public key pair.
func GenSecp256k1KeyPair() (privateKey *PrivateKey, publicKey *PublicKey, err error) {
	privKey, err := ec.NewPrivateKey(ec.S256())
	if err != nil {
		return
	}
	privateKey = (*PrivateKey)(privKey)
	publicKey = (*PublicKey)(privKey.PubKey())
	return
}

// PrivKeyFromBytes returns a private and public key for `curve' based on the
// private key passed as an argument as a byte slice.
func PrivKeyFromBytes(pk []byte) (*PrivateKey, *PublicKey) {
	priv, pub := ec.PrivKeyFromBytes(ec.S256(), pk)
	return (*PrivateKey)(priv), (*PublicKey)(pub)
}

// PubKey returns the PublicKey corresponding to this private key.
func (private *PrivateKey) PubKey() *PublicKey {
	return (*PublicKey)((*ec.PrivateKey)(private).PubKey())
}

// Serialize returns the private key number d as a big-endian binary-encoded
// number, padded to a length of 32 bytes.
func (private *PrivateKey) Serialize() []byte {
	return (*ec.PrivateKey)(private).Serialize()
}

// Serialize serializes a public key in the 33-byte compressed format.
func (public *PublicKey) Serialize() []byte {
	return (*ec.PublicKey)(public).SerializeCompressed()
}

// IsEqual tests public key equality.
func (public *PublicKey) IsEqual(other *PublicKey) bool {
	return (*ec.PublicKey)(public).IsEqual((*ec.PublicKey)(other))
}

// ParsePubKey recovers a PublicKey from its compressed serialized form.
func ParsePubKey(pubKeyStr []byte) (*PublicKey, error) {
	key, err := ec.ParsePubKey(pubKeyStr, ec.S256())
	return (*PublicKey)(key), err
}

// MarshalHash returns the stable binary form used for hashing.
func (public *PublicKey) MarshalHash() (o []byte, err error) {
	if public == nil {
		return []byte{}, nil
	}
	return public.Serialize(), nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface, also used
// by the msgpack ext codec.
func (public *PublicKey) MarshalBinary() (keyBytes []byte, err error) {
	return public.Serialize(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (public *PublicKey) UnmarshalBinary(keyBytes []byte) (err error) {
	key, err := ParsePubKey(keyBytes)
	if err != nil {
		return
	}
	*public = *key
	return
}

// MarshalYAML implements the yaml.Marshaler interface.
func (public *PublicKey) MarshalYAML() (interface{}, error) {
	return hex.EncodeToString(public.Serialize()), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (public *PublicKey) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var str string
	if err = unmarshal(&str); err != nil {
		return
	}
	keyBytes, err := hex.DecodeString(str)
	if err != nil {
		return
	}
	return public.UnmarshalBinary(keyBytes)
}

func (public *PublicKey) toECDSA() *ecdsa.PublicKey {
	return (*ecdsa.PublicKey)((*ec.PublicKey)(public))
}
