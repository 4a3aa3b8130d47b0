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
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/conf"
	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

// pubKeyStoreSize bounds the number of cached node infos.
const pubKeyStoreSize = 1024

var (
	// pks holds the singleton node info cache.
	pks     *lru.Cache
	pksLock sync.Mutex

	// BP holds the initial block producer info.
	BP *conf.BPInfo
)

var (
	// ErrPKSNotInitialized indicates the public keystore is not initialized.
	ErrPKSNotInitialized = errors.New("public keystore not initialized")
	// ErrNilNode indicates the input node is nil.
	ErrNilNode = errors.New("nil node")
	// ErrKeyNotFound indicates the key was not found.
	ErrKeyNotFound = errors.New("key not found")
)

// InitBP initializes kms.BP struct with conf.GConf.
func InitBP() {
	if conf.GConf == nil {
		log.Fatal("must call conf.LoadConfig first")
	}
	BP = conf.GConf.BP

	err := hash.Decode(&BP.RawNodeID.Hash, string(BP.NodeID))
	if err != nil {
		log.WithError(err).Fatal("BP.NodeID error")
	}
}

// InitPublicKeyStore creates the cache and preloads initNodes into it.
func InitPublicKeyStore(initNodes []proto.Node) (err error) {
	pksLock.Lock()
	InitBP()
	if pks == nil {
		if pks, err = lru.New(pubKeyStoreSize); err != nil {
			pksLock.Unlock()
			return
		}
	}
	pksLock.Unlock()

	for i := range initNodes {
		if err = SetNode(&initNodes[i]); err != nil {
			err = errors.Wrap(err, "set init nodes failed")
			return
		}
	}
	return
}

// GetPublicKey gets the public key of the given id.
// Returns ErrKeyNotFound if the id was not found.
func GetPublicKey(id proto.NodeID) (publicKey *asymmetric.PublicKey, err error) {
	node, err := GetNodeInfo(id)
	if err == nil {
		publicKey = node.PublicKey
	}
	return
}

// GetNodeInfo gets node info of the given id.
// Returns ErrKeyNotFound if the id was not found.
func GetNodeInfo(id proto.NodeID) (nodeInfo *proto.Node, err error) {
	pksLock.Lock()
	defer pksLock.Unlock()
	if pks == nil {
		return nil, ErrPKSNotInitialized
	}
	val, ok := pks.Get(id)
	if !ok {
		return nil, ErrKeyNotFound
	}
	nodeInfo = val.(*proto.Node)
	return
}

// GetAllNodeID gets all node ids in the store.
func GetAllNodeID() (nodeIDs []proto.NodeID, err error) {
	pksLock.Lock()
	defer pksLock.Unlock()
	if pks == nil {
		return nil, ErrPKSNotInitialized
	}
	for _, key := range pks.Keys() {
		nodeIDs = append(nodeIDs, key.(proto.NodeID))
	}
	return
}

// SetPublicKey wraps the public key in a node info and stores it.
func SetPublicKey(id proto.NodeID, publicKey *asymmetric.PublicKey) (err error) {
	return SetNode(&proto.Node{
		ID:        id,
		PublicKey: publicKey,
	})
}

// SetNode stores {proto.Node.ID: proto.Node}.
func SetNode(nodeInfo *proto.Node) (err error) {
	if nodeInfo == nil {
		return ErrNilNode
	}
	pksLock.Lock()
	defer pksLock.Unlock()
	if pks == nil {
		return ErrPKSNotInitialized
	}
	pks.Add(nodeInfo.ID, nodeInfo)
	return
}

// DelNode removes the node info of the given id.
func DelNode(id proto.NodeID) (err error) {
	pksLock.Lock()
	defer pksLock.Unlock()
	if pks == nil {
		return ErrPKSNotInitialized
	}
	pks.Remove(id)
	return
}

// ResetPublicKeyStore drops all cached node infos. FOR UNIT TEST.
func ResetPublicKeyStore() {
	pksLock.Lock()
	defer pksLock.Unlock()
	pks = nil
}
