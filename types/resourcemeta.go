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

import (
	"github.com/QuorumSQL/QuorumSQL/proto"
)

// ResourceMeta defines the resource requirements of a new database. It is
// created by the caller when requesting a database, embedded once into the
// creation transaction, and not persisted by the client afterwards.
type ResourceMeta struct {
	TargetMiners           []proto.AccountAddress // designated miners
	Node                   uint16                 // reserved node count
	Space                  uint64                 // reserved storage space in bytes
	Memory                 uint64                 // reserved memory in bytes
	LoadAvgPerCPU          float64                // max loadAvg15 per CPU
	EncryptionKey          string                 // client-side encryption key for the database
	UseEventualConsistency bool                   // use eventual consistency replication if enabled
	ConsistencyLevel       float64                // customized strong consistency level
	IsolationLevel         int                    // customized isolation level, mirrors sql.IsolationLevel
}
