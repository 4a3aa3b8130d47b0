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

package rpc

import (
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

var (
	// ErrNoChiefBlockProducerAvailable defines failure to find a chief block
	// producer.
	ErrNoChiefBlockProducerAvailable = errors.New("no chief block producer found")

	// currentBP is the current chief block producer node.
	currentBP     proto.NodeID
	currentBPLock sync.Mutex
)

// GetNodeAddr tries best to get the node address, looking it up in the DHT
// on a local cache miss.
func GetNodeAddr(id *proto.RawNodeID) (addr string, err error) {
	addr, err = route.GetNodeAddrCache(id)
	if err == route.ErrUnknownNodeID {
		var nodeInfo *proto.Node
		if nodeInfo, err = findNodeInDHT(id); err != nil {
			return
		}
		addr = nodeInfo.Addr
	}
	return
}

// GetNodeInfo tries best to get the node info, looking it up in the DHT on a
// local keystore miss.
func GetNodeInfo(id *proto.RawNodeID) (nodeInfo *proto.Node, err error) {
	nodeInfo, err = kms.GetNodeInfo(proto.NodeID(id.String()))
	if err == kms.ErrKeyNotFound {
		nodeInfo, err = findNodeInDHT(id)
	}
	return
}

func findNodeInDHT(id *proto.RawNodeID) (nodeInfo *proto.Node, err error) {
	bps := route.GetBPs()
	if len(bps) == 0 {
		err = ErrNoChiefBlockProducerAvailable
		return
	}
	bp := bps[rand.Intn(len(bps))]

	req := &proto.FindNodeReq{
		ID: proto.NodeID(id.String()),
	}
	resp := new(proto.FindNodeResp)
	if err = NewCaller().CallNode(bp, route.DHTFindNode.String(), req, resp); err != nil {
		err = errors.Wrapf(err, "call %s to %s failed", route.DHTFindNode, bp)
		return
	}
	nodeInfo = resp.Node

	if errSet := route.SetNodeAddrCache(id, nodeInfo.Addr); errSet != nil {
		log.WithError(errSet).Warning("set node addr cache failed")
	}
	if errSet := kms.SetNode(nodeInfo); errSet != nil {
		log.WithError(errSet).Warning("set node to kms failed")
	}
	return
}

// PingBP sends a DHT.Ping request to the given block producer, registering
// the node info.
func PingBP(node *proto.Node, bpNodeID proto.NodeID) (err error) {
	req := &proto.PingReq{
		Node: *node,
	}
	resp := new(proto.PingResp)
	if err = NewCaller().CallNode(bpNodeID, route.DHTPing.String(), req, resp); err != nil {
		err = errors.Wrap(err, "call DHT.Ping failed")
		return
	}
	log.WithField("resp", resp.Msg).Debug("ping block producer done")
	return
}

// GetCurrentBP returns the current chief block producer node id, choosing a
// random one from the known block producers at first use.
func GetCurrentBP() (bpNodeID proto.NodeID, err error) {
	currentBPLock.Lock()
	defer currentBPLock.Unlock()

	if !currentBP.IsEmpty() {
		bpNodeID = currentBP
		return
	}

	bpList := route.GetBPs()
	if len(bpList) == 0 {
		err = ErrNoChiefBlockProducerAvailable
		return
	}

	currentBP = bpList[rand.Intn(len(bpList))]
	bpNodeID = currentBP
	return
}

// SetCurrentBP sets the current chief block producer node id.
func SetCurrentBP(bpNodeID proto.NodeID) {
	currentBPLock.Lock()
	defer currentBPLock.Unlock()
	currentBP = bpNodeID
}
