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
)

// Connection ids are leased to live conns and recycled on close. Sequence
// numbers are global and strictly increasing, so a recycled connection id
// never reuses an old sequence number.
var (
	connIDLock  sync.Mutex
	connIDAvail []uint64
	globalConnID uint64
	globalSeqNo  uint64
)

func allocateConnAndSeq() (connID uint64, seqNo uint64) {
	connIDLock.Lock()
	defer connIDLock.Unlock()

	if len(connIDAvail) == 0 {
		// no available conn id, generate new one
		globalConnID++
		connID = globalConnID
	} else {
		// pop the last free conn id
		connID = connIDAvail[len(connIDAvail)-1]
		connIDAvail = connIDAvail[:len(connIDAvail)-1]
	}

	seqNo = atomic.AddUint64(&globalSeqNo, 1)
	return
}

func putBackConn(connID uint64) {
	connIDLock.Lock()
	defer connIDLock.Unlock()
	connIDAvail = append(connIDAvail, connID)
}
