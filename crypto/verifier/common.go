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

// Package verifier implements the hash-then-sign envelope embedded in every
// signed header and transaction.
package verifier

import (
	"github.com/pkg/errors"

	ca "github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/utils"
)

// Package level errors.
var (
	// ErrHashValueNotMatch indicates the hash value not match error from Verify.
	ErrHashValueNotMatch = errors.New("hash value not match")
	// ErrSignatureNotMatch indicates the signature not match error from Verify.
	ErrSignatureNotMatch = errors.New("signature not match")
)

// HashSignVerifier is the interface implemented by an object that contains a
// hash value of a payload, can be signed by a private key and verified later.
type HashSignVerifier interface {
	Hash() hash.Hash
	SetHash(interface{}) error
	SignHash(*ca.PrivateKey) error
	Sign(interface{}, *ca.PrivateKey) error
	VerifyHash(interface{}) error
	VerifySignature() error
	Verify(interface{}) error
}

// DefaultHashSignVerifierImpl defines a default implementation of
// HashSignVerifier. The payload is reduced to stable bytes with
// utils.MarshalHash before hashing, so the hash of an object is independent
// of in-memory representation.
type DefaultHashSignVerifierImpl struct {
	DataHash  hash.Hash
	Signee    *ca.PublicKey
	Signature *ca.Signature
}

// Hash implements HashSignVerifier.Hash.
func (i *DefaultHashSignVerifierImpl) Hash() hash.Hash {
	return i.DataHash
}

// SetHash implements HashSignVerifier.SetHash.
func (i *DefaultHashSignVerifierImpl) SetHash(obj interface{}) (err error) {
	var enc []byte
	if enc, err = utils.MarshalHash(obj); err != nil {
		return
	}
	i.DataHash = hash.THashH(enc)
	return
}

// SignHash implements HashSignVerifier.SignHash.
func (i *DefaultHashSignVerifierImpl) SignHash(signer *ca.PrivateKey) (err error) {
	if i.Signature, err = signer.Sign(i.DataHash[:]); err != nil {
		return
	}
	i.Signee = signer.PubKey()
	return
}

// Sign implements HashSignVerifier.Sign.
func (i *DefaultHashSignVerifierImpl) Sign(obj interface{}, signer *ca.PrivateKey) (err error) {
	if err = i.SetHash(obj); err != nil {
		return
	}
	return i.SignHash(signer)
}

// VerifyHash implements HashSignVerifier.VerifyHash.
func (i *DefaultHashSignVerifierImpl) VerifyHash(obj interface{}) (err error) {
	var enc []byte
	if enc, err = utils.MarshalHash(obj); err != nil {
		return
	}
	var h = hash.THashH(enc)
	if !i.DataHash.IsEqual(&h) {
		return errors.WithStack(ErrHashValueNotMatch)
	}
	return
}

// VerifySignature implements HashSignVerifier.VerifySignature.
func (i *DefaultHashSignVerifierImpl) VerifySignature() (err error) {
	if !i.Signature.Verify(i.DataHash[:], i.Signee) {
		return errors.WithStack(ErrSignatureNotMatch)
	}
	return
}

// Verify implements HashSignVerifier.Verify.
func (i *DefaultHashSignVerifierImpl) Verify(obj interface{}) (err error) {
	if err = i.VerifyHash(obj); err != nil {
		return
	}
	return i.VerifySignature()
}
