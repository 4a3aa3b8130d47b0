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

// Package rpc provides msgpack encoded RPC calling to remote nodes, with
// per-node connection pooling and node id to address resolution.
package rpc

import (
	"net"
	"net/rpc"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/utils"
)

// Client is a RPC client using msgpack on the wire.
type Client struct {
	*rpc.Client
}

// NewClient wraps an established connection into a msgpack rpc client.
func NewClient(conn net.Conn) *Client {
	return &Client{
		Client: rpc.NewClientWithCodec(utils.GetMsgPackClientCodec(conn)),
	}
}

// InitClient dials the given address and returns a rpc client on the
// connection.
func InitClient(addr string) (client *Client, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		err = errors.Wrapf(err, "dial to %s failed", addr)
		return
	}
	return NewClient(conn), nil
}

// InitClientConn wraps an existing connection into a rpc client.
func InitClientConn(conn net.Conn) (client *Client, err error) {
	return NewClient(conn), nil
}

// DialToNode resolves the node id to an address and establishes a new
// connection to it.
func DialToNode(nodeID proto.NodeID) (conn net.Conn, err error) {
	addr, err := GetNodeAddr(nodeID.ToRawNodeID())
	if err != nil {
		err = errors.Wrapf(err, "resolve node %s failed", nodeID)
		return
	}
	if conn, err = net.Dial("tcp", addr); err != nil {
		err = errors.Wrapf(err, "dial to %s failed", addr)
	}
	return
}
