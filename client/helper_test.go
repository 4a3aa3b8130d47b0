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

package client

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/rpc"
	"github.com/QuorumSQL/QuorumSQL/types"
)

const testDatabaseID = "4121e68b6a4ce335e1b612504a423475a56edd26e09ea9b3d01f678de765ad86"

var (
	testLeaderNodeID   = proto.NodeID("0000000000000000000000000000000000000000000000000000000000000001")
	testFollowerNodeID = proto.NodeID("0000000000000000000000000000000000000000000000000000000000000002")
)

// setupTestKeys installs a throwaway key pair and node id in the local key
// store and returns the private key for scripting node responses.
func setupTestKeys() (priv *asymmetric.PrivateKey, err error) {
	kms.ResetLocalKeyStore()
	var pub *asymmetric.PublicKey
	if priv, pub, err = asymmetric.GenSecp256k1KeyPair(); err != nil {
		return
	}
	kms.SetLocalKeyPair(priv, pub)
	rawID := make([]byte, 32)
	rawID[31] = 0x1
	kms.SetLocalNodeID(rawID)
	return
}

// fakeNode scripts the behavior of a single database node reachable through
// a fakeCaller. All mutable fields are guarded by the embedded mutex.
type fakeNode struct {
	sync.Mutex

	privKey *asymmetric.PrivateKey

	// failSeqTimes makes the next n queries bounce with an invalid
	// sequence error before accepting one.
	failSeqTimes int
	// failWith, when set, fails every call with this error.
	failWith error

	payload      types.ResponsePayload
	lastInsertID int64
	affectedRows int64

	requests []*types.Request
	acks     []*types.Ack
}

func (n *fakeNode) handle(method string, request interface{}, reply interface{}) (err error) {
	n.Lock()
	defer n.Unlock()

	if n.failWith != nil {
		return n.failWith
	}

	switch method {
	case route.DBSQuery.String():
		req := request.(*types.Request)
		if err = req.Verify(); err != nil {
			return
		}
		if n.failSeqTimes > 0 {
			n.failSeqTimes--
			return types.ErrInvalidRequestSeq
		}
		reqCopy := *req
		n.requests = append(n.requests, &reqCopy)

		resp := reply.(*types.Response)
		resp.Header.Request = req.Header.RequestHeader
		resp.Header.RequestHash = req.Header.Hash()
		resp.Header.NodeID = testLeaderNodeID
		resp.Header.Timestamp = getLocalTime()
		resp.Header.LastInsertID = n.lastInsertID
		resp.Header.AffectedRows = n.affectedRows
		resp.Payload = n.payload
		return resp.Sign(n.privKey)
	case route.DBSAck.String():
		ack := request.(*types.Ack)
		if err = ack.Verify(); err != nil {
			return
		}
		n.acks = append(n.acks, ack)
		return
	}

	return errors.Errorf("fake node does not serve %s", method)
}

func (n *fakeNode) ackCount() int {
	n.Lock()
	defer n.Unlock()
	return len(n.acks)
}

func (n *fakeNode) requestCount() int {
	n.Lock()
	defer n.Unlock()
	return len(n.requests)
}

// fakeCaller satisfies rpc.PCaller by dispatching to an in-process fake
// node, no network involved.
type fakeCaller struct {
	target string
	node   *fakeNode
}

func (c *fakeCaller) Call(method string, request interface{}, reply interface{}) error {
	return c.node.handle(method, request, reply)
}

func (c *fakeCaller) Close()         {}
func (c *fakeCaller) Target() string { return c.target }
func (c *fakeCaller) New() rpc.PCaller {
	return &fakeCaller{target: c.target, node: c.node}
}

// fakeCluster wires the package level injection points to fake nodes and
// returns a restore func to be deferred.
type fakeCluster struct {
	leader   *fakeNode
	follower *fakeNode
}

func newFakeCluster(privKey *asymmetric.PrivateKey) *fakeCluster {
	return &fakeCluster{
		leader:   &fakeNode{privKey: privKey},
		follower: &fakeNode{privKey: privKey},
	}
}

func (f *fakeCluster) install() (restore func()) {
	oldPCaller := newPCaller
	oldRawPCaller := newRawPCaller
	oldDirectory := defaultPeerDirectory

	newPCaller = func(target proto.NodeID) rpc.PCaller {
		node := f.leader
		if target == testFollowerNodeID {
			node = f.follower
		}
		return &fakeCaller{target: string(target), node: node}
	}
	newRawPCaller = func(addr string) rpc.PCaller {
		return &fakeCaller{target: addr, node: f.leader}
	}
	defaultPeerDirectory = NewPeerDirectory(DefaultPeersUpdateInterval,
		func(dbID proto.DatabaseID) (*proto.Peers, error) {
			if !strings.EqualFold(string(dbID), testDatabaseID) {
				return nil, errors.New("database not found")
			}
			return &proto.Peers{
				PeersHeader: proto.PeersHeader{
					Leader:  testLeaderNodeID,
					Servers: []proto.NodeID{testLeaderNodeID, testFollowerNodeID},
				},
			}, nil
		})

	return func() {
		newPCaller = oldPCaller
		newRawPCaller = oldRawPCaller
		defaultPeerDirectory = oldDirectory
	}
}
