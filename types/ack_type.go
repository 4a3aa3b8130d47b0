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

package types

import (
	"time"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/crypto/verifier"
	"github.com/QuorumSQL/QuorumSQL/proto"
)

// AckHeader defines an acknowledgement header sent back by a client after it
// received and verified a query response.
type AckHeader struct {
	Response     ResponseHeader `json:"r"`
	ResponseHash hash.Hash      `json:"rh"`
	NodeID       proto.NodeID   `json:"id"` // ack node id
	Timestamp    time.Time      `json:"t"`  // time in UTC zone
}

// GetRequestHash returns the hash of the acknowledged request.
func (h *AckHeader) GetRequestHash() hash.Hash {
	return h.Response.RequestHash
}

// SignedAckHeader defines a signed ack header.
type SignedAckHeader struct {
	AckHeader
	verifier.DefaultHashSignVerifierImpl
}

// Ack defines a complete client acknowledgement.
type Ack struct {
	Header SignedAckHeader `json:"h"`
}

// AckResponse defines the response of an Ack request.
type AckResponse struct{}

// Verify checks hash and signature in the ack header.
func (sh *SignedAckHeader) Verify() (err error) {
	return sh.DefaultHashSignVerifierImpl.Verify(&sh.AckHeader)
}

// Sign the ack header.
func (sh *SignedAckHeader) Sign(signer *asymmetric.PrivateKey) (err error) {
	return sh.DefaultHashSignVerifierImpl.Sign(&sh.AckHeader, signer)
}

// Verify checks hash and signature in the whole ack.
func (a *Ack) Verify() error {
	return a.Header.Verify()
}

// Sign the whole ack.
func (a *Ack) Sign(signer *asymmetric.PrivateKey) (err error) {
	return a.Header.Sign(signer)
}
