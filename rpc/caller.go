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
	"context"
	"net/rpc"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/proto"
)

// Caller is a wrapper for connection pooling and RPC calling.
type Caller struct {
	pool *ClientPool
}

// NewCaller returns a new RPC caller on the default pool.
func NewCaller() *Caller {
	return &Caller{
		pool: defaultPool,
	}
}

// CallNode invokes the named function, waits for it to complete, and returns
// its error status.
func (c *Caller) CallNode(
	node proto.NodeID, method string, args interface{}, reply interface{}) (err error) {
	return c.CallNodeWithContext(context.Background(), node, method, args, reply)
}

// CallNodeWithContext invokes the named function, waits for it to complete
// or the context to be canceled, and returns its error status.
func (c *Caller) CallNodeWithContext(
	ctx context.Context, node proto.NodeID, method string, args interface{}, reply interface{}) (err error) {
	client, err := c.pool.Get(node)
	if err != nil {
		err = errors.Wrapf(err, "dial to node %s failed", node)
		return
	}
	defer client.Close()

	// net/rpc does not support canceling in-flight calls, abandon the call
	// on context timeout and drop the connection.
	ch := client.Go(method, args, reply, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		err = ctx.Err()
		client.SetLastErr(err)
	case call := <-ch.Done:
		err = call.Error
		client.SetLastErr(err)
	}
	return
}
