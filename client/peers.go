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
	"sync"
	"sync/atomic"
	"time"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/types"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

// DefaultPeersUpdateInterval is the interval of the peer directory
// background refresh.
var DefaultPeersUpdateInterval = time.Second * 15

// PeerDirectory caches the peer list of every database the process has
// touched and refreshes all entries periodically in the background.
//
// A refresh failure keeps the stale entry so queries can go on through a
// transient block producer outage. An entry is evicted only when the block
// producer states the database does not exist.
type PeerDirectory struct {
	peers    sync.Map // proto.DatabaseID -> *proto.Peers
	fetch    func(dbID proto.DatabaseID) (*proto.Peers, error)
	interval time.Duration

	running int32
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewPeerDirectory returns a stopped directory refreshing with the given
// interval. A nil fetch func falls back to querying the block producers.
func NewPeerDirectory(interval time.Duration, fetch func(proto.DatabaseID) (*proto.Peers, error)) (d *PeerDirectory) {
	d = &PeerDirectory{
		interval: interval,
	}
	if fetch == nil {
		fetch = fetchPeersFromBP
	}
	d.fetch = fetch
	return
}

// Start launches the background refresh routine. Starting a running
// directory is a no-op.
func (d *PeerDirectory) Start() {
	if !atomic.CompareAndSwapInt32(&d.running, 0, 1) {
		return
	}
	d.stopCh = make(chan struct{})
	d.wg.Add(1)
	go d.run()
}

// Stop terminates the background refresh routine and waits for any inflight
// refresh to settle. Stopping a stopped directory is a no-op.
func (d *PeerDirectory) Stop() {
	if !atomic.CompareAndSwapInt32(&d.running, 1, 0) {
		return
	}
	close(d.stopCh)
	d.wg.Wait()
}

func (d *PeerDirectory) run() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			d.refreshAll()
		}
	}
}

func (d *PeerDirectory) refreshAll() {
	var (
		wg    sync.WaitGroup
		dbIDs []proto.DatabaseID
	)
	d.peers.Range(func(k, v interface{}) bool {
		dbIDs = append(dbIDs, k.(proto.DatabaseID))
		return true
	})
	for _, dbID := range dbIDs {
		wg.Add(1)
		go func(dbID proto.DatabaseID) {
			defer wg.Done()
			d.refreshOne(dbID)
		}(dbID)
	}
	wg.Wait()
}

func (d *PeerDirectory) refreshOne(dbID proto.DatabaseID) {
	peers, err := d.fetch(dbID)
	if err != nil {
		if types.ContainsDatabaseNotFound(err) {
			d.peers.Delete(dbID)
			log.WithField("db", dbID).WithError(err).Warning("database gone, evicted peer cache")
		} else {
			// keep the stale entry
			log.WithField("db", dbID).WithError(err).Warning("update peers failed")
		}
		return
	}
	d.peers.Store(dbID, peers)
}

// GetPeers returns the peer list of the database, fetching it synchronously
// on a cache miss.
func (d *PeerDirectory) GetPeers(dbID proto.DatabaseID) (peers *proto.Peers, err error) {
	if v, ok := d.peers.Load(dbID); ok {
		return v.(*proto.Peers), nil
	}
	if peers, err = d.fetch(dbID); err != nil {
		return
	}
	d.peers.Store(dbID, peers)
	return
}

// Evict drops the cached peer list of the database.
func (d *PeerDirectory) Evict(dbID proto.DatabaseID) {
	d.peers.Delete(dbID)
}

// fetchPeersFromBP asks the block producers for the database profile,
// derives the peer list from the miner set and signs it with the local
// private key for use as an RPC authorization artifact.
func fetchPeersFromBP(dbID proto.DatabaseID) (peers *proto.Peers, err error) {
	profileReq := &types.QuerySQLChainProfileReq{
		DBID: dbID,
	}
	profileResp := new(types.QuerySQLChainProfileResp)
	if err = bpRequester(route.MCCQuerySQLChainProfile, profileReq, profileResp); err != nil {
		return
	}

	nodeIDs := make([]proto.NodeID, len(profileResp.Profile.Miners))
	if len(nodeIDs) == 0 {
		err = ErrInvalidProfile
		return
	}
	for i, mi := range profileResp.Profile.Miners {
		nodeIDs[i] = mi.NodeID
	}
	peers = &proto.Peers{
		PeersHeader: proto.PeersHeader{
			Leader:  nodeIDs[0],
			Servers: nodeIDs,
		},
	}

	var privateKey *asymmetric.PrivateKey
	if privateKey, err = kms.GetLocalPrivateKey(); err != nil {
		peers = nil
		return
	}
	if err = peers.Sign(privateKey); err != nil {
		peers = nil
		return
	}
	return
}

// defaultPeerDirectory serves all connections of this process.
var defaultPeerDirectory = NewPeerDirectory(DefaultPeersUpdateInterval, nil)
