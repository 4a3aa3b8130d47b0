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

package interfaces

// TransactionState defines the state of a metadata transaction on the chain.
type TransactionState int32

const (
	// TransactionStatePending defines a transaction in the pending pool, not
	// yet included in a block.
	TransactionStatePending TransactionState = iota
	// TransactionStatePacked defines a transaction packed into a proposed but
	// not yet irreversible block.
	TransactionStatePacked
	// TransactionStateConfirmed defines a transaction included in an
	// irreversible block.
	TransactionStateConfirmed
	// TransactionStateExpired defines a transaction evicted from the pending
	// pool without confirmation.
	TransactionStateExpired
	// TransactionStateNotFound defines a transaction unknown to the chain.
	TransactionStateNotFound
)

// String implements fmt.Stringer for TransactionState.
func (s TransactionState) String() string {
	switch s {
	case TransactionStatePending:
		return "Pending"
	case TransactionStatePacked:
		return "Packed"
	case TransactionStateConfirmed:
		return "Confirmed"
	case TransactionStateExpired:
		return "Expired"
	case TransactionStateNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true for states the chain will never leave. Pending and
// Packed are the only non-terminal states: a poller keeps waiting on them.
func (s TransactionState) IsTerminal() bool {
	switch s {
	case TransactionStateConfirmed, TransactionStateExpired, TransactionStateNotFound:
		return true
	}
	return false
}
