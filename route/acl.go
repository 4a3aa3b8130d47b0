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

// Package route maps node ids to network addresses and names the RPC
// methods exposed by the block producers and the miners.
package route

// RemoteFunc defines the RPC call name.
type RemoteFunc int

const (
	// DHTPing is for node info register to the block producer.
	DHTPing RemoteFunc = iota
	// DHTFindNode gets node info.
	DHTFindNode
	// DBSQuery is used by clients to read/write a database.
	DBSQuery
	// DBSAck is used by clients to acknowledge a query response.
	DBSAck
	// MCCNextAccountNonce is used to allocate the next transaction nonce of
	// an account.
	MCCNextAccountNonce
	// MCCAddTx is used to upload a transaction to the main chain.
	MCCAddTx
	// MCCQuerySQLChainProfile is used to fetch a database profile.
	MCCQuerySQLChainProfile
	// MCCQueryTxState is used to fetch the state of an uploaded transaction.
	MCCQueryTxState
	// MCCQueryAccountTokenBalance is used to fetch an account token balance.
	MCCQueryAccountTokenBalance
)

const (
	// DHTRPCName defines the node directory rpc service name.
	DHTRPCName = "DHT"
	// BlockProducerRPCName defines the main chain rpc service name.
	BlockProducerRPCName = "MCC"
	// DBRPCName defines the database rpc service name.
	DBRPCName = "DBS"
)

// String returns the RemoteFunc string.
func (s RemoteFunc) String() string {
	switch s {
	case DHTPing:
		return "DHT.Ping"
	case DHTFindNode:
		return "DHT.FindNode"
	case DBSQuery:
		return "DBS.Query"
	case DBSAck:
		return "DBS.Ack"
	case MCCNextAccountNonce:
		return "MCC.NextAccountNonce"
	case MCCAddTx:
		return "MCC.AddTx"
	case MCCQuerySQLChainProfile:
		return "MCC.QuerySQLChainProfile"
	case MCCQueryTxState:
		return "MCC.QueryTxState"
	case MCCQueryAccountTokenBalance:
		return "MCC.QueryAccountTokenBalance"
	}
	return "Unknown"
}
