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

package route

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/conf"
	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

var (
	// resolver holds the singleton instance.
	resolver     *Resolver
	resolverOnce sync.Once
)

var (
	// ErrUnknownNodeID indicates an unknown node id was queried.
	ErrUnknownNodeID = errors.New("unknown node id")
	// ErrNilNodeID indicates a nil node id was given.
	ErrNilNodeID = errors.New("nil node id")
)

// Resolver does node id to address translation.
type Resolver struct {
	cache map[proto.RawNodeID]string
	bps   []proto.NodeID
	sync.RWMutex
}

func init() {
	initResolver()
}

func initResolver() {
	resolverOnce.Do(func() {
		resolver = &Resolver{
			cache: make(map[proto.RawNodeID]string),
		}
	})
}

// InitKMS loads the known nodes from conf.GConf into the kms public key
// store and the resolver address cache.
func InitKMS() (err error) {
	if conf.GConf == nil {
		return errors.New("must call conf.LoadConfig first")
	}

	if err = kms.InitPublicKeyStore(conf.GConf.KnownNodes); err != nil {
		err = errors.Wrap(err, "init public key store failed")
		return
	}

	for i := range conf.GConf.KnownNodes {
		node := &conf.GConf.KnownNodes[i]
		rawNodeID := node.ID.ToRawNodeID()
		if rawNodeID == nil {
			log.WithField("node", node.ID).Warning("invalid known node id")
			continue
		}
		if node.Addr != "" {
			SetNodeAddrCache(rawNodeID, node.Addr)
		}
		if node.Role == proto.Leader || node.Role == proto.Follower {
			resolver.Lock()
			resolver.bps = append(resolver.bps, node.ID)
			resolver.Unlock()
		}
	}
	return
}

// IsBPNodeID returns true if the raw node id belongs to a block producer.
func IsBPNodeID(id *proto.RawNodeID) bool {
	if id == nil {
		return false
	}
	nodeID := id.ToNodeID()
	resolver.RLock()
	defer resolver.RUnlock()
	for _, bp := range resolver.bps {
		if bp.IsEqual(&nodeID) {
			return true
		}
	}
	return false
}

// GetBPs returns the block producer node ids.
func GetBPs() (bpAddrs []proto.NodeID) {
	resolver.RLock()
	defer resolver.RUnlock()
	bpAddrs = make([]proto.NodeID, len(resolver.bps))
	copy(bpAddrs, resolver.bps)
	return
}

// GetNodeAddrCache gets the node address of the given id from the cache.
// Returns ErrUnknownNodeID on a cache miss.
func GetNodeAddrCache(id *proto.RawNodeID) (addr string, err error) {
	if id == nil {
		return "", ErrNilNodeID
	}
	resolver.RLock()
	defer resolver.RUnlock()
	addr, ok := resolver.cache[*id]
	if !ok {
		return "", ErrUnknownNodeID
	}
	return
}

// SetNodeAddrCache stores the node id and address pair.
func SetNodeAddrCache(id *proto.RawNodeID, addr string) (err error) {
	if id == nil {
		return ErrNilNodeID
	}
	resolver.Lock()
	defer resolver.Unlock()
	resolver.cache[*id] = addr
	return
}
