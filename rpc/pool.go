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
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/conf"
	"github.com/QuorumSQL/QuorumSQL/proto"
)

// PooledClient wraps a Client checked out from a ClientPool. Closing it
// returns the healthy underlying connection to the pool instead of tearing
// it down.
type PooledClient struct {
	*Client

	sync.Mutex
	freelist *freelist
	lastErr  error
}

// SetLastErr marks the underlying connection as broken so Close drops it
// instead of recycling.
func (c *PooledClient) SetLastErr(err error) {
	c.Lock()
	defer c.Unlock()
	if err != nil {
		c.lastErr = err
	}
}

// Call overwrites the Call method of the wrapped client.
func (c *PooledClient) Call(serviceMethod string, args interface{}, reply interface{}) error {
	err := c.Client.Call(serviceMethod, args, reply)
	if err != nil {
		c.SetLastErr(err)
	}
	return err
}

// Close overwrites the Close method of the wrapped client.
func (c *PooledClient) Close() error {
	c.Lock()
	if c.freelist != nil && c.lastErr == nil {
		err := c.freelist.put(c.Client)
		c.freelist = nil
		c.Unlock()
		return err
	}
	c.Unlock()
	return c.Client.Close()
}

type freelist struct {
	sync.RWMutex
	target proto.NodeID
	freeCh chan *Client
}

func (l *freelist) close() error {
	l.Lock()
	defer l.Unlock()
	close(l.freeCh)
	var errmsgs []string
	for s := range l.freeCh {
		if err := s.Close(); err != nil {
			errmsgs = append(errmsgs, err.Error())
		}
	}
	l.freeCh = nil // set to nil explicitly to force close in freelist.put
	if len(errmsgs) > 0 {
		return errors.Wrapf(errors.New(strings.Join(errmsgs, ", ")), "close free list %s", l.target)
	}
	return nil
}

func (l *freelist) put(cli *Client) (err error) {
	l.RLock() // note that this is read op on the freelist aspect
	defer l.RUnlock()
	if l.freeCh == nil {
		return cli.Close()
	}
	select {
	case l.freeCh <- cli:
	default:
		err = cli.Close()
	}
	return
}

func (l *freelist) getFree() (cli *Client, ok bool) {
	l.RLock()
	defer l.RUnlock()
	select {
	case cli, ok = <-l.freeCh:
	default:
	}
	return
}

func (l *freelist) get() (cli *PooledClient, err error) {
	var (
		raw *Client
		ok  bool
	)
	if raw, ok = l.getFree(); !ok {
		if raw, err = l.newClient(); err != nil {
			return
		}
	}
	return &PooledClient{
		Client:   raw,
		freelist: l,
	}, nil
}

// len returns physical connection count.
func (l *freelist) len() int {
	l.RLock()
	defer l.RUnlock()
	return len(l.freeCh)
}

func (l *freelist) newClient() (*Client, error) {
	conn, err := DialToNode(l.target)
	if err != nil {
		return nil, errors.Wrap(err, "dialing new connection failed")
	}
	return NewClient(conn), nil
}

// ClientPool is a per-node free list of pooled rpc clients.
type ClientPool struct {
	nodeFreeLists sync.Map // proto.NodeID -> *freelist
}

func (p *ClientPool) loadFreeList(id proto.NodeID) (list *freelist, ok bool) {
	var v interface{}
	if v, ok = p.nodeFreeLists.Load(id); ok {
		list = v.(*freelist)
		return
	}
	v, ok = p.nodeFreeLists.LoadOrStore(id, &freelist{
		target: id,
		freeCh: make(chan *Client, conf.MaxRPCPoolPhysicalConnection),
	})
	list = v.(*freelist)
	return
}

// Get returns the existing freelist of the node, if not exist tries best to
// create one.
func (p *ClientPool) Get(id proto.NodeID) (cli *PooledClient, err error) {
	list, _ := p.loadFreeList(id)
	return list.get()
}

// Remove removes the node freelist from the pool.
func (p *ClientPool) Remove(id proto.NodeID) {
	v, ok := p.nodeFreeLists.Load(id)
	if ok {
		_ = v.(*freelist).close()
		p.nodeFreeLists.Delete(id)
	}
}

// Close closes all free lists in the pool.
func (p *ClientPool) Close() error {
	var errmsgs []string
	p.nodeFreeLists.Range(func(k, v interface{}) bool {
		if err := v.(*freelist).close(); err != nil {
			errmsgs = append(errmsgs, err.Error())
		}
		p.nodeFreeLists.Delete(k)
		return true
	})
	if len(errmsgs) > 0 {
		return errors.Wrap(errors.New(strings.Join(errmsgs, ", ")), "close connection pool")
	}
	return nil
}

// Len returns the pooled connection count.
func (p *ClientPool) Len() (total int) {
	p.nodeFreeLists.Range(func(k, v interface{}) bool {
		total += v.(*freelist).len()
		return true
	})
	return
}

var defaultPool = &ClientPool{}
