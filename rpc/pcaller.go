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
	"io"
	"net/rpc"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/proto"
)

// PCaller defines the generic caller interface shared by PersistentCaller
// and RawCaller.
type PCaller interface {
	Call(method string, request interface{}, reply interface{}) (err error)
	Close()
	Target() string
	New() PCaller // returns a fresh instance of the current caller
}

// PersistentCaller holds a sticky connection to one node and re-dials it
// transparently after a connection loss.
type PersistentCaller struct {
	client *PooledClient
	// TargetID is the request target node.
	TargetID proto.NodeID
	sync.Mutex
}

// NewPersistentCaller returns a persistent RPC caller to the target node on
// the default pool.
func NewPersistentCaller(target proto.NodeID) *PersistentCaller {
	return &PersistentCaller{
		TargetID: target,
	}
}

func (c *PersistentCaller) initClient() (err error) {
	c.Lock()
	defer c.Unlock()
	if c.client == nil {
		if c.client, err = defaultPool.Get(c.TargetID); err != nil {
			err = errors.Wrap(err, "dial to node failed")
		}
	}
	return
}

func isConnectionErr(err error) bool {
	if err == io.EOF ||
		err == io.ErrUnexpectedEOF ||
		err == io.ErrClosedPipe ||
		err == rpc.ErrShutdown {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "shut down") || strings.Contains(msg, "broken pipe")
}

// Call invokes the named function, waits for it to complete, and returns its
// error status. On a connection error the underlying client is reset so the
// next call dials anew.
func (c *PersistentCaller) Call(method string, args interface{}, reply interface{}) (err error) {
	if err = c.initClient(); err != nil {
		err = errors.Wrap(err, "init persistent caller client failed")
		return
	}
	if err = c.client.Call(method, args, reply); err != nil {
		if isConnectionErr(err) {
			_ = c.ResetClient()
			if reconnectErr := c.initClient(); reconnectErr != nil {
				err = errors.Wrap(reconnectErr, "reconnect failed")
			}
		}
		err = errors.Wrapf(err, "call %s failed", method)
	}
	return
}

// ResetClient drops the current client connection.
func (c *PersistentCaller) ResetClient() (err error) {
	c.Lock()
	if c.client != nil {
		_ = c.client.Close()
	}
	c.client = nil
	c.Unlock()
	return
}

// Close closes the underlying client.
func (c *PersistentCaller) Close() {
	c.Lock()
	defer c.Unlock()
	if c.client != nil {
		_ = c.client.Close()
		c.client = nil
	}
}

// Target returns the request target for logging purpose.
func (c *PersistentCaller) Target() string {
	return string(c.TargetID)
}

// New returns a brand new persistent caller to the same target.
func (c *PersistentCaller) New() PCaller {
	return NewPersistentCaller(c.TargetID)
}
