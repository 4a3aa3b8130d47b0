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

// Package proto contains the node, peer and identifier types shared between
// the client, the block producers and the miners.
package proto

import (
	"time"

	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
)

// NodeID is the node name, generated from Hash(nodePublicKey + nonce).
type NodeID string

// AccountAddress is the wallet address, generated from Hash(nodePublicKey).
type AccountAddress hash.Hash

// NodeKey is the node key on the consistent hash ring, generated from
// Hash(NodeID).
type NodeKey uint64

// IsEmpty test if a nodeID is empty.
func (id *NodeID) IsEmpty() bool {
	return id == nil || "" == string(*id)
}

// IsEqual returns if two node IDs are equal.
func (id *NodeID) IsEqual(target *NodeID) bool {
	return string(*id) == string(*target)
}

// String implements fmt.Stringer for NodeID.
func (id NodeID) String() string {
	return string(id)
}

// String implements fmt.Stringer for AccountAddress.
func (z AccountAddress) String() string {
	return hash.Hash(z).String()
}

// MarshalJSON implements the json.Marshaler interface.
func (z AccountAddress) MarshalJSON() ([]byte, error) {
	return hash.Hash(z).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (z *AccountAddress) UnmarshalJSON(data []byte) error {
	return (*hash.Hash)(z).UnmarshalJSON(data)
}

// Envelope is the protocol header of every RPC request/response.
type Envelope struct {
	Version string        `json:"v"`
	TTL     time.Duration `json:"t"`
	Expire  time.Duration `json:"e"`
	NodeID  *RawNodeID    `json:"id"`
}

// GetVersion returns the version in envelope.
func (e *Envelope) GetVersion() string {
	return e.Version
}

// GetTTL returns the TTL in envelope.
func (e *Envelope) GetTTL() time.Duration {
	return e.TTL
}

// GetExpire returns the expire duration in envelope.
func (e *Envelope) GetExpire() time.Duration {
	return e.Expire
}

// GetNodeID returns the node id in envelope.
func (e *Envelope) GetNodeID() *RawNodeID {
	return e.NodeID
}

// SetVersion sets the version in envelope.
func (e *Envelope) SetVersion(version string) {
	e.Version = version
}

// SetTTL sets the TTL in envelope.
func (e *Envelope) SetTTL(ttl time.Duration) {
	e.TTL = ttl
}

// SetExpire sets the expire duration in envelope.
func (e *Envelope) SetExpire(expire time.Duration) {
	e.Expire = expire
}

// SetNodeID sets the node id in envelope.
func (e *Envelope) SetNodeID(nodeID *RawNodeID) {
	e.NodeID = nodeID
}

// RawNodeID is the node id in binary format.
type RawNodeID struct {
	hash.Hash
}

// ToNodeID converts a raw node id to its string form.
func (r *RawNodeID) ToNodeID() NodeID {
	if r == nil {
		return NodeID("")
	}
	return NodeID(r.String())
}

// ToRawNodeID converts a string node id to its binary form.
func (id *NodeID) ToRawNodeID() *RawNodeID {
	if id == nil {
		return nil
	}
	h, err := hash.NewHashFromStr(string(*id))
	if err != nil {
		return nil
	}
	return &RawNodeID{*h}
}

// AccountAddressFromHex decodes an account address from its hex string form.
func AccountAddressFromHex(s string) (addr AccountAddress, err error) {
	h, err := hash.NewHashFromStr(s)
	if err != nil {
		return
	}
	addr = AccountAddress(*h)
	return
}
