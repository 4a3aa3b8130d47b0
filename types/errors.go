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

package types

import "github.com/pkg/errors"

// Chain-reported domain errors. These travel back to the client flattened to
// strings by net/rpc, so callers match them with ContainsDatabaseNotFound
// rather than errors.Cause.
var (
	// ErrDatabaseNotFound indicates that the requested database profile is
	// unknown to the chain.
	ErrDatabaseNotFound = errors.New("database not found")
	// ErrNoSuchDatabase indicates that a data plane request targets a
	// database the miner does not serve.
	ErrNoSuchDatabase = errors.New("no such database")
	// ErrInvalidRequestSeq indicates an invalid sequence number of a request.
	ErrInvalidRequestSeq = errors.New("invalid request sequence")
	// ErrSignVerification indicates a signature verification failure in a
	// signed message.
	ErrSignVerification = errors.New("signature verification failed")
	// ErrHashVerification indicates a hash verification failure in a signed
	// message.
	ErrHashVerification = errors.New("hash verification failed")
)

var errBatchCountMismatch = errors.New("batch count mismatch")
