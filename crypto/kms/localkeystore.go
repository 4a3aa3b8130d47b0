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
	"errors"
	"sync"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/proto"
)

// LocalKeyStore holds the local private & public key.
type LocalKeyStore struct {
	isSet   bool
	private *asymmetric.PrivateKey
	public  *asymmetric.PublicKey
	nodeID  []byte
	sync.RWMutex
}

var (
	// localKey is the global accessible local private & public key.
	localKey *LocalKeyStore
	once     sync.Once
)

// ErrNilField indicates the requested field is not set yet.
var ErrNilField = errors.New("local field is nil")

func init() {
	initLocalKeyStore()
}

func initLocalKeyStore() {
	once.Do(func() {
		localKey = &LocalKeyStore{}
	})
}

// ResetLocalKeyStore FOR UNIT TEST, DO NOT USE IT.
func ResetLocalKeyStore() {
	localKey = &LocalKeyStore{}
}

// SetLocalKeyPair sets private and public key, this is a one time thing.
func SetLocalKeyPair(private *asymmetric.PrivateKey, public *asymmetric.PublicKey) {
	localKey.Lock()
	defer localKey.Unlock()
	if localKey.isSet {
		return
	}
	localKey.isSet = true
	localKey.private = private
	localKey.public = public
}

// SetLocalNodeID sets the raw node ID of this node.
func SetLocalNodeID(rawNodeID []byte) {
	localKey.Lock()
	defer localKey.Unlock()
	localKey.nodeID = make([]byte, len(rawNodeID))
	copy(localKey.nodeID, rawNodeID)
}

// GetLocalNodeID gets current node ID in hash string format.
func GetLocalNodeID() (nodeID proto.NodeID, err error) {
	var rawNodeIDBytes []byte
	if rawNodeIDBytes, err = GetLocalNodeIDBytes(); err != nil {
		return
	}
	var h *hash.Hash
	if h, err = hash.NewHash(rawNodeIDBytes); err != nil {
		return
	}
	nodeID = proto.NodeID(h.String())
	return
}

// GetLocalNodeIDBytes gets a copy of the current raw node ID.
func GetLocalNodeIDBytes() (rawNodeID []byte, err error) {
	localKey.RLock()
	if localKey.nodeID != nil {
		rawNodeID = make([]byte, len(localKey.nodeID))
		copy(rawNodeID, localKey.nodeID)
	} else {
		err = ErrNilField
	}
	localKey.RUnlock()
	return
}

// GetLocalPublicKey gets local public key, returns ErrNilField if not set yet.
func GetLocalPublicKey() (public *asymmetric.PublicKey, err error) {
	localKey.RLock()
	public = localKey.public
	if public == nil {
		err = ErrNilField
	}
	localKey.RUnlock()
	return
}

// GetLocalPrivateKey gets local private key, returns ErrNilField if not set yet.
func GetLocalPrivateKey() (private *asymmetric.PrivateKey, err error) {
	localKey.RLock()
	private = localKey.private
	if private == nil {
		err = ErrNilField
	}
	localKey.RUnlock()
	return
}
