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

// Package client provides a database/sql driver for QuorumSQL databases,
// along with the management operations to create databases, grant
// permissions and track transaction confirmation on the main chain.
package client

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	pi "github.com/QuorumSQL/QuorumSQL/blockproducer/interfaces"
	"github.com/QuorumSQL/QuorumSQL/conf"
	"github.com/QuorumSQL/QuorumSQL/crypto"
	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/rpc"
	"github.com/QuorumSQL/QuorumSQL/types"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

const (
	// DefaultConfigDir is the default directory the driver looks into for a
	// config when none was given explicitly.
	DefaultConfigDir = "~/.quorumsql"
	// DefaultConfigFileName is the config file name under DefaultConfigDir.
	DefaultConfigFileName = "config.yaml"

	defaultGasPrice       = 1
	defaultAdvancePayment = 20000000

	// DefaultConfirmationPollInterval is the poll interval of transaction
	// confirmation waiting.
	DefaultConfirmationPollInterval = time.Second
)

// driverInitialized flips to 1 exactly once on a successful Init.
var driverInitialized uint32

func init() {
	d := new(quorumSQLDriver)
	sql.Register(DBScheme, d)
	sql.Register(DBSchemeAlias, d)
}

// quorumSQLDriver implements the sql/driver.Driver interface.
type quorumSQLDriver struct {
}

// Open returns a new connection to the database.
func (d *quorumSQLDriver) Open(dsn string) (c driver.Conn, err error) {
	var cfg *Config
	if cfg, err = ParseDSN(dsn); err != nil {
		return
	}

	if atomic.LoadUint32(&driverInitialized) == 0 {
		if err = defaultInit(); err != nil && errors.Cause(err) != ErrAlreadyInitialized {
			return
		}
		err = nil
	}

	return newConn(cfg)
}

// ResourceMeta defines the resource requirements of a new database.
type ResourceMeta types.ResourceMeta

// bpRequester routes a main chain RPC to the current block producer. It is a
// var for test injection.
var bpRequester = func(method route.RemoteFunc, request interface{}, response interface{}) (err error) {
	var bpNodeID proto.NodeID
	if bpNodeID, err = rpc.GetCurrentBP(); err != nil {
		return
	}
	return rpc.NewCaller().CallNode(bpNodeID, method.String(), request, response)
}

// Init initializes the driver: loads the config, prepares the local key
// pair and registers this node to the block producers. It may be called at
// most once per process; later calls return ErrAlreadyInitialized.
func Init(configFile string, masterKey []byte) (err error) {
	if !atomic.CompareAndSwapUint32(&driverInitialized, 0, 1) {
		return ErrAlreadyInitialized
	}
	defer func() {
		if err != nil {
			atomic.StoreUint32(&driverInitialized, 0)
		}
	}()

	if conf.GConf, err = conf.LoadConfig(configFile); err != nil {
		return
	}
	if conf.GConf.UseTestMasterKey {
		masterKey = []byte("")
	}
	if err = route.InitKMS(); err != nil {
		return
	}
	if err = kms.InitLocalKeyPair(conf.GConf.PrivateKeyFile, masterKey); err != nil {
		return
	}
	if rawID := conf.GConf.ThisNodeID.ToRawNodeID(); rawID != nil {
		kms.SetLocalNodeID(rawID.CloneBytes())
	}

	// ping the block producer to register this node
	if err = registerNode(); err != nil {
		return
	}

	defaultPeerDirectory.Start()
	return
}

// defaultInit initializes the driver from the well-known config location.
func defaultInit() (err error) {
	configFile := filepath.Join(expandHome(DefaultConfigDir), DefaultConfigFileName)
	if _, err = os.Stat(configFile); err != nil {
		return ErrNotInitialized
	}
	return Init(configFile, []byte(""))
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResetInit resets the driver initialization state. FOR UNIT TEST, DO NOT
// USE IT.
func ResetInit() {
	defaultPeerDirectory.Stop()
	atomic.StoreUint32(&driverInitialized, 0)
}

// Create allocates a database on the network with the given resource
// requirements. It returns the DSN of the new database and the hash of the
// creation transaction; use WaitTxConfirmation or WaitDBCreation to track
// readiness.
func Create(meta ResourceMeta) (dsn string, txHash hash.Hash, err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		err = ErrNotInitialized
		return
	}

	var (
		privateKey *asymmetric.PrivateKey
		clientAddr proto.AccountAddress
	)
	if privateKey, err = kms.GetLocalPrivateKey(); err != nil {
		err = errors.Wrap(err, "get local private key failed")
		return
	}
	if clientAddr, err = crypto.PubKeyHash(privateKey.PubKey()); err != nil {
		err = errors.Wrap(err, "get local account address failed")
		return
	}

	var nonce pi.AccountNonce
	if nonce, err = allocateNonce(clientAddr); err != nil {
		return
	}

	createDB := types.NewCreateDatabase(&types.CreateDatabaseHeader{
		Owner:          clientAddr,
		ResourceMeta:   types.ResourceMeta(meta),
		GasPrice:       defaultGasPrice,
		AdvancePayment: defaultAdvancePayment,
		TokenType:      types.Quanta,
		Nonce:          nonce,
	})
	if err = createDB.Sign(privateKey); err != nil {
		err = errors.Wrap(err, "sign create database transaction failed")
		return
	}

	if err = sendTx(createDB); err != nil {
		return
	}

	cfg := NewConfig()
	cfg.DatabaseID = string(proto.FromAccountAndNonce(clientAddr, uint32(nonce)))
	dsn = cfg.FormatDSN()
	txHash = createDB.Hash()
	return
}

// Drop disconnects this process from the database: the cached peer list is
// evicted and later connections will fail until the database is reachable
// again. The database itself stays on the chain.
func Drop(dsn string) (err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		return ErrNotInitialized
	}

	var cfg *Config
	if cfg, err = ParseDSN(dsn); err != nil {
		return
	}
	defaultPeerDirectory.Evict(proto.DatabaseID(cfg.DatabaseID))
	return
}

// UpdatePermission sends a permission update transaction on the target
// database to the main chain.
func UpdatePermission(targetUser proto.AccountAddress, targetChain proto.AccountAddress,
	perm *types.UserPermission) (txHash hash.Hash, err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		err = ErrNotInitialized
		return
	}

	var (
		privateKey *asymmetric.PrivateKey
		clientAddr proto.AccountAddress
	)
	if privateKey, err = kms.GetLocalPrivateKey(); err != nil {
		err = errors.Wrap(err, "get local private key failed")
		return
	}
	if clientAddr, err = crypto.PubKeyHash(privateKey.PubKey()); err != nil {
		err = errors.Wrap(err, "get local account address failed")
		return
	}

	var nonce pi.AccountNonce
	if nonce, err = allocateNonce(clientAddr); err != nil {
		return
	}

	up := types.NewUpdatePermission(&types.UpdatePermissionHeader{
		TargetSQLChain: targetChain,
		TargetUser:     targetUser,
		Permission:     perm,
		Nonce:          nonce,
	})
	if err = up.Sign(privateKey); err != nil {
		err = errors.Wrap(err, "sign update permission transaction failed")
		return
	}

	if err = sendTx(up); err != nil {
		return
	}
	txHash = up.Hash()
	return
}

// GetProfile fetches the on-chain profile of the database behind the DSN.
func GetProfile(dsn string) (profile *types.SQLChainProfile, err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		err = ErrNotInitialized
		return
	}

	var cfg *Config
	if cfg, err = ParseDSN(dsn); err != nil {
		return
	}

	req := &types.QuerySQLChainProfileReq{
		DBID: proto.DatabaseID(cfg.DatabaseID),
	}
	resp := new(types.QuerySQLChainProfileResp)
	if err = bpRequester(route.MCCQuerySQLChainProfile, req, resp); err != nil {
		return
	}
	profile = &resp.Profile
	return
}

// GetTokenBalance fetches the token balance of the local account.
func GetTokenBalance(tt types.TokenType) (balance uint64, err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		err = ErrNotInitialized
		return
	}

	var pubKey *asymmetric.PublicKey
	if pubKey, err = kms.GetLocalPublicKey(); err != nil {
		return
	}

	req := new(types.QueryAccountTokenBalanceReq)
	resp := new(types.QueryAccountTokenBalanceResp)
	req.TokenType = tt
	if req.Addr, err = crypto.PubKeyHash(pubKey); err != nil {
		return
	}

	if err = bpRequester(route.MCCQueryAccountTokenBalance, req, resp); err != nil {
		return
	}
	if !resp.OK {
		err = ErrNoSuchTokenBalance
		return
	}
	balance = resp.Balance
	return
}

// WalletAddress returns the base58 wallet address of the local account.
func WalletAddress() (addr string, err error) {
	if atomic.LoadUint32(&driverInitialized) == 0 {
		err = ErrNotInitialized
		return
	}

	var pubKey *asymmetric.PublicKey
	if pubKey, err = kms.GetLocalPublicKey(); err != nil {
		return
	}
	return crypto.PubKey2Addr(pubKey, crypto.MainNet)
}

// WaitTxConfirmation polls the main chain until the transaction reaches a
// terminal state or the context is canceled.
func WaitTxConfirmation(ctx context.Context, txHash hash.Hash) (state pi.TransactionState, err error) {
	start := time.Now()
	ticker := time.NewTicker(DefaultConfirmationPollInterval)
	defer ticker.Stop()

	for {
		req := &types.QueryTxStateReq{
			Hash: txHash,
		}
		resp := new(types.QueryTxStateResp)
		if err = bpRequester(route.MCCQueryTxState, req, resp); err != nil {
			err = errors.Wrap(err, "query transaction state failed")
			return
		}
		state = resp.State
		log.WithFields(log.Fields{
			"tx":      txHash.Short(4),
			"state":   state,
			"elapsed": time.Since(start),
		}).Info("tracking transaction confirmation")

		if state.IsTerminal() {
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}
	}
}

// WaitDBCreation waits until the database of the DSN has a published peer
// list and answers queries.
func WaitDBCreation(ctx context.Context, dsn string) (err error) {
	var cfg *Config
	if cfg, err = ParseDSN(dsn); err != nil {
		return
	}
	dbID := proto.DatabaseID(cfg.DatabaseID)

	var db *sql.DB
	if db, err = sql.Open(DBScheme, dsn); err != nil {
		return
	}
	defer db.Close()

	ticker := time.NewTicker(conf.BPPeriod)
	defer ticker.Stop()

	for {
		if _, err = defaultPeerDirectory.GetPeers(dbID); err == nil {
			// verify the miners answer queries
			if _, err = db.QueryContext(ctx, "SHOW TABLES"); err == nil {
				return
			}
		} else if !types.ContainsDatabaseNotFound(err) {
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}
	}
}

func allocateNonce(addr proto.AccountAddress) (nonce pi.AccountNonce, err error) {
	nonceReq := &types.NextAccountNonceReq{
		Addr: addr,
	}
	nonceResp := new(types.NextAccountNonceResp)
	if err = bpRequester(route.MCCNextAccountNonce, nonceReq, nonceResp); err != nil {
		err = errors.Wrap(err, "allocate transaction nonce failed")
		return
	}
	nonce = nonceResp.Nonce
	return
}

func sendTx(tx pi.Transaction) (err error) {
	addTxReq := &types.AddTxReq{
		TTL: conf.MaxTxBroadcastTTL,
		Tx:  tx,
	}
	if err = bpRequester(route.MCCAddTx, addTxReq, new(types.AddTxResp)); err != nil {
		err = errors.Wrap(err, "send transaction failed")
	}
	return
}

func registerNode() (err error) {
	var nodeID proto.NodeID
	if nodeID, err = kms.GetLocalNodeID(); err != nil {
		// anonymous client, skip registration
		log.WithError(err).Debug("no local node id, skip node registration")
		return nil
	}

	var nodeInfo *proto.Node
	if nodeInfo, err = kms.GetNodeInfo(nodeID); err != nil {
		return
	}

	return rpc.PingBP(nodeInfo, conf.GConf.BP.NodeID)
}
