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
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/QuorumSQL/QuorumSQL/types"
)

func TestConnExecAndQuery(t *testing.T) {
	Convey("exec and query against fake nodes", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		cluster.leader.lastInsertID = 42
		cluster.leader.affectedRows = 1
		cluster.leader.payload = types.ResponsePayload{
			Columns:   []string{"k", "v"},
			DeclTypes: []string{"int", "text"},
			Rows: []types.ResponseRow{
				{Values: []interface{}{int64(1), "one"}},
			},
		}

		c, err := newConn(&Config{DatabaseID: testDatabaseID, UseLeader: true})
		So(err, ShouldBeNil)
		defer c.Close()

		Convey("exec returns the node result", func() {
			result, err := c.ExecContext(context.Background(),
				"INSERT INTO kv VALUES (?, ?)", []driver.NamedValue{
					{Ordinal: 1, Value: int64(1)},
					{Ordinal: 2, Value: "one"},
				})
			So(err, ShouldBeNil)
			lastInsertID, err := result.LastInsertId()
			So(err, ShouldBeNil)
			So(lastInsertID, ShouldEqual, 42)
			affectedRows, err := result.RowsAffected()
			So(err, ShouldBeNil)
			So(affectedRows, ShouldEqual, 1)

			So(cluster.leader.requestCount(), ShouldEqual, 1)
			So(cluster.leader.ackCount(), ShouldEqual, 1)
		})

		Convey("query returns rows and declared types", func() {
			rows, err := c.QueryContext(context.Background(),
				"SELECT k, v FROM kv", nil)
			So(err, ShouldBeNil)
			So(rows.Columns(), ShouldResemble, []string{"k", "v"})

			dest := make([]driver.Value, 2)
			So(rows.Next(dest), ShouldBeNil)
			So(dest[0], ShouldEqual, int64(1))
			So(dest[1], ShouldEqual, "one")
			So(rows.Close(), ShouldBeNil)

			So(cluster.leader.ackCount(), ShouldEqual, 1)
		})

		Convey("query request carries a verified signature and batch info", func() {
			_, err := c.QueryContext(context.Background(), "SELECT 1", nil)
			So(err, ShouldBeNil)

			req := cluster.leader.requests[0]
			So(req.Header.QueryType, ShouldEqual, types.ReadQuery)
			So(string(req.Header.DatabaseID), ShouldEqual, testDatabaseID)
			So(req.Header.BatchCount, ShouldEqual, 1)
			So(req.Header.ConnectionID, ShouldBeGreaterThan, 0)
			So(req.Header.SeqNo, ShouldBeGreaterThan, 0)
		})

		Convey("receipt is attached on success", func() {
			ctx, receiptValue := WithReceipt(context.Background())
			_, err := c.QueryContext(ctx, "SELECT 1", nil)
			So(err, ShouldBeNil)

			receipt, ok := GetReceipt(receiptValue)
			So(ok, ShouldBeTrue)
			So(receipt.RequestHash, ShouldResemble, cluster.leader.requests[0].Header.Hash())
		})
	})
}

func TestConnSeqRetry(t *testing.T) {
	Convey("rejected sequence triggers one transparent retry", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		cluster.leader.failSeqTimes = 1

		c, err := newConn(&Config{DatabaseID: testDatabaseID, UseLeader: true})
		So(err, ShouldBeNil)
		defer c.Close()

		_, err = c.ExecContext(context.Background(), "DELETE FROM kv", nil)
		So(err, ShouldBeNil)
		So(cluster.leader.requestCount(), ShouldEqual, 1)
	})

	Convey("second rejection surfaces the error", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		cluster.leader.failSeqTimes = 2

		c, err := newConn(&Config{DatabaseID: testDatabaseID, UseLeader: true})
		So(err, ShouldBeNil)
		defer c.Close()

		_, err = c.ExecContext(context.Background(), "DELETE FROM kv", nil)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "invalid request sequence")
	})
}

func TestConnTransaction(t *testing.T) {
	Convey("transaction batches writes", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		c, err := newConn(&Config{DatabaseID: testDatabaseID, UseLeader: true})
		So(err, ShouldBeNil)
		defer c.Close()

		Convey("writes are queued and sent on commit", func() {
			tx, err := c.BeginTx(context.Background(), driver.TxOptions{})
			So(err, ShouldBeNil)

			result, err := c.ExecContext(context.Background(), "INSERT INTO kv VALUES (1)", nil)
			So(err, ShouldBeNil)
			So(result, ShouldResemble, driver.ResultNoRows)
			_, err = c.ExecContext(context.Background(), "INSERT INTO kv VALUES (2)", nil)
			So(err, ShouldBeNil)

			// no request leaves the client until commit
			So(cluster.leader.requestCount(), ShouldEqual, 0)

			So(tx.Commit(), ShouldBeNil)
			So(cluster.leader.requestCount(), ShouldEqual, 1)
			So(cluster.leader.requests[0].Header.BatchCount, ShouldEqual, 2)
			So(c.inTransaction, ShouldBeFalse)
		})

		Convey("reads are refused during transaction", func() {
			_, err := c.BeginTx(context.Background(), driver.TxOptions{})
			So(err, ShouldBeNil)
			_, err = c.QueryContext(context.Background(), "SELECT 1", nil)
			So(err, ShouldEqual, ErrQueryInTransaction)
			So(c.Rollback(), ShouldEqual, sql.ErrTxDone)
		})

		Convey("rollback drops the queued writes", func() {
			tx, err := c.BeginTx(context.Background(), driver.TxOptions{})
			So(err, ShouldBeNil)
			_, err = c.ExecContext(context.Background(), "INSERT INTO kv VALUES (1)", nil)
			So(err, ShouldBeNil)

			So(tx.Rollback(), ShouldBeNil)
			So(cluster.leader.requestCount(), ShouldEqual, 0)
			So(c.inTransaction, ShouldBeFalse)
		})

		Convey("nested begin is refused", func() {
			_, err := c.BeginTx(context.Background(), driver.TxOptions{})
			So(err, ShouldBeNil)
			_, err = c.BeginTx(context.Background(), driver.TxOptions{})
			So(err, ShouldEqual, sql.ErrTxDone)
			So(c.Rollback(), ShouldEqual, sql.ErrTxDone)
		})
	})
}

func TestConnRouting(t *testing.T) {
	Convey("follower preference routes reads off the leader", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		c, err := newConn(&Config{
			DatabaseID:  testDatabaseID,
			UseFollower: true,
		})
		So(err, ShouldBeNil)
		defer c.Close()

		_, err = c.QueryContext(context.Background(), "SELECT 1", nil)
		So(err, ShouldBeNil)
		So(cluster.follower.requestCount(), ShouldEqual, 1)
		So(cluster.leader.requestCount(), ShouldEqual, 0)

		Convey("writes still go to the leader", func() {
			_, err = c.ExecContext(context.Background(), "DELETE FROM kv", nil)
			So(err, ShouldBeNil)
			So(cluster.leader.requestCount(), ShouldEqual, 1)
		})
	})

	Convey("mirror option routes everything to the mirror address", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		c, err := newConn(&Config{
			DatabaseID: testDatabaseID,
			UseLeader:  true,
			Mirror:     "127.0.0.1:7784",
		})
		So(err, ShouldBeNil)
		defer c.Close()

		_, err = c.QueryContext(context.Background(), "SELECT 1", nil)
		So(err, ShouldBeNil)
		So(cluster.leader.requestCount(), ShouldEqual, 1)
		So(c.rawCaller.Target(), ShouldEqual, "127.0.0.1:7784")
	})
}

func TestConnClosed(t *testing.T) {
	Convey("operations on a closed conn fail with ErrBadConn", t, func() {
		privKey, err := setupTestKeys()
		So(err, ShouldBeNil)
		cluster := newFakeCluster(privKey)
		restore := cluster.install()
		defer restore()

		c, err := newConn(&Config{DatabaseID: testDatabaseID, UseLeader: true})
		So(err, ShouldBeNil)
		So(c.Close(), ShouldBeNil)
		So(atomic.LoadInt32(&c.closed), ShouldEqual, 1)

		_, err = c.ExecContext(context.Background(), "DELETE FROM kv", nil)
		So(err, ShouldEqual, driver.ErrBadConn)
		_, err = c.QueryContext(context.Background(), "SELECT 1", nil)
		So(err, ShouldEqual, driver.ErrBadConn)
		_, err = c.BeginTx(context.Background(), driver.TxOptions{})
		So(err, ShouldEqual, driver.ErrBadConn)
		_, err = c.PrepareContext(context.Background(), "SELECT 1")
		So(err, ShouldEqual, driver.ErrBadConn)

		// close is idempotent
		So(c.Close(), ShouldBeNil)
	})
}
