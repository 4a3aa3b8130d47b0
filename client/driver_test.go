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
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	pi "github.com/QuorumSQL/QuorumSQL/blockproducer/interfaces"
	"github.com/QuorumSQL/QuorumSQL/conf"
	"github.com/QuorumSQL/QuorumSQL/crypto"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/types"
)

// markInitialized flips the driver init flag for tests that bypass Init and
// returns a restore func.
func markInitialized() (restore func()) {
	old := atomic.LoadUint32(&driverInitialized)
	atomic.StoreUint32(&driverInitialized, 1)
	return func() {
		atomic.StoreUint32(&driverInitialized, old)
	}
}

// swapBPRequester installs a scripted block producer and returns a restore
// func.
func swapBPRequester(fn func(method route.RemoteFunc, request interface{}, response interface{}) error) (restore func()) {
	old := bpRequester
	bpRequester = fn
	return func() {
		bpRequester = old
	}
}

func TestInitOneShot(t *testing.T) {
	Convey("second init is refused while the first holds the flag", t, func() {
		atomic.StoreUint32(&driverInitialized, 0)
		defer atomic.StoreUint32(&driverInitialized, 0)

		So(atomic.CompareAndSwapUint32(&driverInitialized, 0, 1), ShouldBeTrue)
		So(Init("", nil), ShouldEqual, ErrAlreadyInitialized)
	})

	Convey("failed init releases the flag for a retry", t, func() {
		atomic.StoreUint32(&driverInitialized, 0)

		err := Init(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		So(err, ShouldNotBeNil)
		So(err, ShouldNotEqual, ErrAlreadyInitialized)
		So(atomic.LoadUint32(&driverInitialized), ShouldEqual, 0)

		// the flag is free again
		So(atomic.CompareAndSwapUint32(&driverInitialized, 0, 1), ShouldBeTrue)
		atomic.StoreUint32(&driverInitialized, 0)
	})
}

func TestManagementRequiresInit(t *testing.T) {
	Convey("management calls before init are refused", t, func() {
		atomic.StoreUint32(&driverInitialized, 0)

		_, _, err := Create(ResourceMeta{})
		So(err, ShouldEqual, ErrNotInitialized)
		So(Drop("quorumsql://"+testDatabaseID), ShouldEqual, ErrNotInitialized)
		_, err = GetProfile("quorumsql://" + testDatabaseID)
		So(err, ShouldEqual, ErrNotInitialized)
		_, err = GetTokenBalance(types.Quanta)
		So(err, ShouldEqual, ErrNotInitialized)
		_, err = UpdatePermission(proto.AccountAddress{}, proto.AccountAddress{}, nil)
		So(err, ShouldEqual, ErrNotInitialized)
	})
}

func TestCreate(t *testing.T) {
	Convey("create allocates a nonce, sends the tx and derives the dsn", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		var (
			nonceCalls int32
			sentTx     pi.Transaction
		)
		defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
			switch method {
			case route.MCCNextAccountNonce:
				atomic.AddInt32(&nonceCalls, 1)
				response.(*types.NextAccountNonceResp).Nonce = 3
				return nil
			case route.MCCAddTx:
				sentTx = request.(*types.AddTxReq).Tx
				return nil
			}
			return errors.Errorf("unexpected method %s", method)
		})()

		dsn, txHash, err := Create(ResourceMeta{Node: 2})
		So(err, ShouldBeNil)
		So(atomic.LoadInt32(&nonceCalls), ShouldEqual, 1)
		So(sentTx, ShouldNotBeNil)
		So(txHash, ShouldNotResemble, hash.Hash{})

		// the database id is derived from the owner account and nonce
		cfg, err := ParseDSN(dsn)
		So(err, ShouldBeNil)
		clientAddr, err := crypto.PubKeyHash(privKey.PubKey())
		So(err, ShouldBeNil)
		So(cfg.DatabaseID, ShouldEqual,
			string(proto.FromAccountAndNonce(clientAddr, 3)))

		// the sent transaction is signed and intact
		createDB, ok := sentTx.(*types.CreateDatabase)
		So(ok, ShouldBeTrue)
		So(createDB.Verify(), ShouldBeNil)
		So(createDB.Owner, ShouldResemble, clientAddr)
		So(createDB.TokenType, ShouldEqual, types.Quanta)
		So(createDB.Hash(), ShouldResemble, txHash)
	})
}

func TestDropEvictsPeerCache(t *testing.T) {
	Convey("drop evicts the cached peer list only", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()
		defer markInitialized()()

		dbID := proto.DatabaseID(testDatabaseID)
		_, err = defaultPeerDirectory.GetPeers(dbID)
		So(err, ShouldBeNil)
		_, cached := defaultPeerDirectory.peers.Load(dbID)
		So(cached, ShouldBeTrue)

		So(Drop("quorumsql://"+testDatabaseID), ShouldBeNil)
		_, cached = defaultPeerDirectory.peers.Load(dbID)
		So(cached, ShouldBeFalse)
	})
}

func TestGetTokenBalance(t *testing.T) {
	Convey("token balance queries the block producer", t, func() {
		_, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		Convey("existing balance is returned", func() {
			defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
				So(method, ShouldEqual, route.MCCQueryAccountTokenBalance)
				resp := response.(*types.QueryAccountTokenBalanceResp)
				resp.OK = true
				resp.Balance = 10000
				return nil
			})()

			balance, err := GetTokenBalance(types.Quanta)
			So(err, ShouldBeNil)
			So(balance, ShouldEqual, 10000)
		})

		Convey("unknown account balance is an error", func() {
			defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
				return nil
			})()

			_, err := GetTokenBalance(types.Spark)
			So(err, ShouldEqual, ErrNoSuchTokenBalance)
		})
	})
}

func TestWalletAddress(t *testing.T) {
	Convey("wallet address encodes the local account", t, func() {
		atomic.StoreUint32(&driverInitialized, 0)
		_, err := WalletAddress()
		So(err, ShouldEqual, ErrNotInitialized)

		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		addr, err := WalletAddress()
		So(err, ShouldBeNil)
		expected, err := crypto.PubKey2Addr(privKey.PubKey(), crypto.MainNet)
		So(err, ShouldBeNil)
		So(addr, ShouldEqual, expected)
	})
}

func TestWaitDBCreation(t *testing.T) {
	Convey("wait polls through not-found until the database answers queries", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()
		defer markInitialized()()

		oldPeriod := conf.BPPeriod
		conf.BPPeriod = 10 * time.Millisecond
		defer func() { conf.BPPeriod = oldPeriod }()

		// the database stays unknown for the first polls
		var ready int32
		inner := defaultPeerDirectory.fetch
		defaultPeerDirectory = NewPeerDirectory(time.Hour,
			func(dbID proto.DatabaseID) (*proto.Peers, error) {
				if atomic.LoadInt32(&ready) == 0 {
					return nil, types.ErrDatabaseNotFound
				}
				return inner(dbID)
			})

		go func() {
			time.Sleep(30 * time.Millisecond)
			atomic.StoreInt32(&ready, 1)
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(WaitDBCreation(ctx, "quorumsql://"+testDatabaseID), ShouldBeNil)

		// the data plane answered the probe query
		So(cluster.leader.requestCount(), ShouldBeGreaterThanOrEqualTo, 1)
	})

	Convey("errors other than not-found abort the wait", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()
		defer markInitialized()()

		defaultPeerDirectory = NewPeerDirectory(time.Hour,
			func(dbID proto.DatabaseID) (*proto.Peers, error) {
				return nil, errors.New("block producer unreachable")
			})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = WaitDBCreation(ctx, "quorumsql://"+testDatabaseID)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "block producer unreachable")
	})

	Convey("wait gives up when the context expires", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()
		defer markInitialized()()

		oldPeriod := conf.BPPeriod
		conf.BPPeriod = 10 * time.Millisecond
		defer func() { conf.BPPeriod = oldPeriod }()

		defaultPeerDirectory = NewPeerDirectory(time.Hour,
			func(dbID proto.DatabaseID) (*proto.Peers, error) {
				return nil, types.ErrDatabaseNotFound
			})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		So(WaitDBCreation(ctx, "quorumsql://"+testDatabaseID),
			ShouldResemble, context.DeadlineExceeded)
	})
}

func TestWaitTxConfirmation(t *testing.T) {
	Convey("wait returns as soon as the state is terminal", t, func() {
		_, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		txHash := hash.THashH([]byte("tx"))
		var polls int32
		defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
			So(method, ShouldEqual, route.MCCQueryTxState)
			So(request.(*types.QueryTxStateReq).Hash, ShouldResemble, txHash)
			resp := response.(*types.QueryTxStateResp)
			if atomic.AddInt32(&polls, 1) < 2 {
				resp.State = pi.TransactionStatePending
			} else {
				resp.State = pi.TransactionStateConfirmed
			}
			return nil
		})()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		state, err := WaitTxConfirmation(ctx, txHash)
		So(err, ShouldBeNil)
		So(state, ShouldEqual, pi.TransactionStateConfirmed)
		So(atomic.LoadInt32(&polls), ShouldEqual, 2)
	})

	Convey("wait gives up when the context expires", t, func() {
		_, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
			response.(*types.QueryTxStateResp).State = pi.TransactionStatePending
			return nil
		})()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err = WaitTxConfirmation(ctx, hash.THashH([]byte("tx")))
		So(err, ShouldResemble, context.DeadlineExceeded)
	})

	Convey("wait surfaces block producer errors", t, func() {
		_, err := setupTestKeys()
		So(err, ShouldBeNil)
		defer markInitialized()()

		defer swapBPRequester(func(method route.RemoteFunc, request interface{}, response interface{}) error {
			return errors.New("block producer unreachable")
		})()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err = WaitTxConfirmation(ctx, hash.THashH([]byte("tx")))
		So(err, ShouldNotBeNil)
	})
}
