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
	"database/sql"
	"database/sql/driver"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/crypto/kms"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/route"
	"github.com/QuorumSQL/QuorumSQL/rpc"
	"github.com/QuorumSQL/QuorumSQL/types"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

// newPCaller and newRawPCaller produce the callers used to reach database
// nodes. They are vars for test injection.
var (
	newPCaller = func(target proto.NodeID) rpc.PCaller {
		return rpc.NewPersistentCaller(target)
	}
	newRawPCaller = func(addr string) rpc.PCaller {
		return rpc.NewRawCaller(addr)
	}
)

// conn implements the driver.Conn interface.
type conn struct {
	dbID proto.DatabaseID

	useLeader   bool
	useFollower bool
	mirror      string

	nodeID  proto.NodeID
	privKey *asymmetric.PrivateKey
	pubKey  *asymmetric.PublicKey

	queries       []types.Query
	inTransaction bool
	closed        int32

	callersLock sync.Mutex
	callers     map[proto.NodeID]rpc.PCaller
	rawCaller   rpc.PCaller
}

func newConn(cfg *Config) (c *conn, err error) {
	// get local node id
	var nodeID proto.NodeID
	if nodeID, err = kms.GetLocalNodeID(); err != nil {
		return
	}

	// get local key pair
	var privKey *asymmetric.PrivateKey
	if privKey, err = kms.GetLocalPrivateKey(); err != nil {
		return
	}
	var pubKey *asymmetric.PublicKey
	if pubKey, err = kms.GetLocalPublicKey(); err != nil {
		return
	}

	c = &conn{
		dbID:        proto.DatabaseID(cfg.DatabaseID),
		useLeader:   cfg.UseLeader,
		useFollower: cfg.UseFollower,
		mirror:      cfg.Mirror,
		nodeID:      nodeID,
		privKey:     privKey,
		pubKey:      pubKey,
		callers:     make(map[proto.NodeID]rpc.PCaller),
	}

	log.WithField("db", c.dbID).Debug("new connection")
	return
}

// Prepare implements the driver.Conn.Prepare method.
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// Close implements the driver.Conn.Close method.
func (c *conn) Close() error {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.callersLock.Lock()
		for _, pc := range c.callers {
			pc.Close()
		}
		c.callers = nil
		if c.rawCaller != nil {
			c.rawCaller.Close()
			c.rawCaller = nil
		}
		c.callersLock.Unlock()
		log.WithField("db", c.dbID).Debug("closed connection")
	}
	return nil
}

// Begin implements the driver.Conn.Begin method.
func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements the driver.ConnBeginTx.BeginTx method.
func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, driver.ErrBadConn
	}
	if c.inTransaction {
		return nil, sql.ErrTxDone
	}

	c.inTransaction = true
	c.queries = c.queries[:0]

	return c, nil
}

// PrepareContext implements the driver.ConnPrepareContext.PrepareContext method.
func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, driver.ErrBadConn
	}
	return newStmt(c, query), nil
}

// ExecContext implements the driver.ExecerContext.ExecContext method.
func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (result driver.Result, err error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		err = driver.ErrBadConn
		return
	}

	sq := convertQuery(query, args)
	if c.inTransaction {
		// writes are queued and sent as one batch on commit
		c.queries = append(c.queries, *sq)
		result = driver.ResultNoRows
		return
	}

	var response *types.Response
	if response, err = c.sendQuery(ctx, types.WriteQuery, []types.Query{*sq}); err != nil {
		return
	}
	result = &execResult{
		lastInsertID: response.Header.LastInsertID,
		affectedRows: response.Header.AffectedRows,
	}
	return
}

// QueryContext implements the driver.QueryerContext.QueryContext method.
func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (rows driver.Rows, err error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		err = driver.ErrBadConn
		return
	}

	if c.inTransaction {
		// read queries are not supported during transaction
		err = ErrQueryInTransaction
		return
	}

	sq := convertQuery(query, args)
	var response *types.Response
	if response, err = c.sendQuery(ctx, types.ReadQuery, []types.Query{*sq}); err != nil {
		return
	}
	rows = newRows(response)
	return
}

// Commit implements the driver.Tx.Commit method.
func (c *conn) Commit() (err error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return driver.ErrBadConn
	}
	if !c.inTransaction {
		return sql.ErrTxDone
	}

	defer func() {
		c.queries = c.queries[:0]
		c.inTransaction = false
	}()

	if len(c.queries) > 0 {
		if _, err = c.sendQuery(context.Background(), types.WriteQuery, c.queries); err != nil {
			return
		}
	}
	return
}

// Rollback implements the driver.Tx.Rollback method.
func (c *conn) Rollback() error {
	if atomic.LoadInt32(&c.closed) != 0 {
		return driver.ErrBadConn
	}
	if !c.inTransaction {
		return sql.ErrTxDone
	}

	defer func() {
		c.queries = c.queries[:0]
		c.inTransaction = false
	}()

	if len(c.queries) == 0 {
		return sql.ErrTxDone
	}
	return nil
}

// getClient returns a caller to the node answering the given query type,
// honoring the leader/follower preference of the DSN.
func (c *conn) getClient(queryType types.QueryType) (pc rpc.PCaller, err error) {
	c.callersLock.Lock()
	defer c.callersLock.Unlock()

	if c.mirror != "" {
		if c.rawCaller == nil {
			c.rawCaller = newRawPCaller(c.mirror)
		}
		return c.rawCaller, nil
	}

	var peers *proto.Peers
	if peers, err = defaultPeerDirectory.GetPeers(c.dbID); err != nil {
		return
	}

	var target proto.NodeID
	if queryType == types.ReadQuery && c.useFollower {
		var followers []proto.NodeID
		for _, s := range peers.Servers {
			if !s.IsEqual(&peers.Leader) {
				followers = append(followers, s)
			}
		}
		if len(followers) > 0 {
			target = followers[rand.Intn(len(followers))]
		} else if c.useLeader {
			target = peers.Leader
		} else {
			err = errors.New("no follower node available")
			return
		}
	} else {
		// writes always go to the leader
		target = peers.Leader
	}

	pc, ok := c.callers[target]
	if !ok {
		pc = newPCaller(target)
		c.callers[target] = pc
	}
	return
}

func (c *conn) sendQuery(ctx context.Context, queryType types.QueryType, queries []types.Query) (response *types.Response, err error) {
	var pc rpc.PCaller
	if pc, err = c.getClient(queryType); err != nil {
		return
	}

	connID, seqNo := allocateConnAndSeq()
	defer putBackConn(connID)

	req := &types.Request{
		Header: types.SignedRequestHeader{
			RequestHeader: types.RequestHeader{
				QueryType:    queryType,
				NodeID:       c.nodeID,
				DatabaseID:   c.dbID,
				ConnectionID: connID,
				SeqNo:        seqNo,
				Timestamp:    getLocalTime(),
			},
		},
		Payload: types.RequestPayload{
			Queries: queries,
		},
	}
	if err = req.Sign(c.privKey); err != nil {
		return
	}

	response = new(types.Response)
	if err = pc.Call(route.DBSQuery.String(), req, response); err != nil {
		if !strings.Contains(err.Error(), types.ErrInvalidRequestSeq.Error()) {
			return
		}

		// the server rejected our sequence state, lease a fresh connection
		// id and retry once
		newConnID, newSeqNo := allocateConnAndSeq()
		defer putBackConn(newConnID)
		req.Header.ConnectionID = newConnID
		req.Header.SeqNo = newSeqNo
		if err = req.Sign(c.privKey); err != nil {
			return
		}
		if err = pc.Call(route.DBSQuery.String(), req, response); err != nil {
			return
		}
	}

	if err = response.Verify(); err != nil {
		return
	}

	// attach the receipt if the caller asked for one
	if v, ok := ctx.Value(&ctxReceiptKey).(*atomic.Value); ok {
		v.Store(&Receipt{
			RequestHash: req.Header.Hash(),
		})
	}

	c.sendAck(pc, &response.Header)
	return
}

// sendAck acknowledges a verified response. A failed ack is logged and does
// not fail the query.
func (c *conn) sendAck(pc rpc.PCaller, respHeader *types.SignedResponseHeader) {
	ack := &types.Ack{
		Header: types.SignedAckHeader{
			AckHeader: types.AckHeader{
				Response:     respHeader.ResponseHeader,
				ResponseHash: respHeader.Hash(),
				NodeID:       c.nodeID,
				Timestamp:    getLocalTime(),
			},
		},
	}
	if err := ack.Sign(c.privKey); err != nil {
		log.WithError(err).Warning("sign ack failed")
		return
	}

	var ackRes types.AckResponse
	if err := pc.Call(route.DBSAck.String(), ack, &ackRes); err != nil {
		log.WithError(err).Warning("ack query response failed")
	}
}

func getLocalTime() time.Time {
	return time.Now().UTC()
}

func convertQuery(query string, args []driver.NamedValue) (sq *types.Query) {
	sq = &types.Query{
		Pattern: query,
	}
	sq.Args = make([]types.NamedArg, len(args))
	for i, v := range args {
		sq.Args[i].Name = v.Name
		sq.Args[i].Value = v.Value
	}
	return
}
