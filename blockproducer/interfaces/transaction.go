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

// Package interfaces defines the metadata transaction abstractions accepted
// by the block producer quorum.
package interfaces

import (
	"encoding/binary"
	"time"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/proto"
)

// AccountNonce defines the nonce of an account, a per-account strictly
// increasing counter. Each transaction consumes exactly one nonce; a nonce is
// never reused, even if the transaction it was allocated for fails.
type AccountNonce uint32

// TransactionType defines the available transaction types.
type TransactionType uint32

const (
	// TransactionTypeTransfer defines the token transfer transaction type.
	TransactionTypeTransfer TransactionType = iota
	// TransactionTypeCreateDatabase defines the database creation transaction type.
	TransactionTypeCreateDatabase
	// TransactionTypeUpdatePermission defines the user permission update transaction type.
	TransactionTypeUpdatePermission
	// TransactionTypeNumber defines the sentinel transaction type.
	TransactionTypeNumber
)

// String implements fmt.Stringer for TransactionType.
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeTransfer:
		return "Transfer"
	case TransactionTypeCreateDatabase:
		return "CreateDatabase"
	case TransactionTypeUpdatePermission:
		return "UpdatePermission"
	default:
		return "Unknown"
	}
}

// Bytes returns the big-endian binary form of a transaction type.
func (t TransactionType) Bytes() (b []byte) {
	b = make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(t))
	return
}

// FromBytes loads a transaction type from its binary form.
func FromBytes(b []byte) TransactionType {
	return TransactionType(binary.BigEndian.Uint32(b))
}

// Transaction is the interface implemented by an object that can be verified
// and processed by block producers.
type Transaction interface {
	GetAccountAddress() proto.AccountAddress
	GetAccountNonce() AccountNonce
	Hash() hash.Hash
	GetTransactionType() TransactionType
	GetTimestamp() time.Time
	Sign(signer *asymmetric.PrivateKey) error
	Verify() error
}

// TransactionTypeMixin provides type heuristic features to the transaction
// wrapper.
type TransactionTypeMixin struct {
	TxType    TransactionType `json:"type"`
	Timestamp time.Time       `json:"ts"`
}

// NewTransactionTypeMixin returns a new instance.
func NewTransactionTypeMixin(txType TransactionType) *TransactionTypeMixin {
	return &TransactionTypeMixin{
		TxType:    txType,
		Timestamp: time.Now().UTC(),
	}
}

// ContainsTransactionTypeMixin defines the interface to detect the
// transaction type mixin.
type ContainsTransactionTypeMixin interface {
	SetTransactionType(TransactionType)
}

// GetTransactionType implements Transaction.GetTransactionType.
func (m *TransactionTypeMixin) GetTransactionType() TransactionType {
	return m.TxType
}

// SetTransactionType is a helper function for derived types.
func (m *TransactionTypeMixin) SetTransactionType(t TransactionType) {
	m.TxType = t
}

// GetTimestamp implements Transaction.GetTimestamp.
func (m *TransactionTypeMixin) GetTimestamp() time.Time {
	return m.Timestamp
}

// SetTimestamp is a helper function for derived types.
func (m *TransactionTypeMixin) SetTimestamp(t time.Time) {
	m.Timestamp = t
}
