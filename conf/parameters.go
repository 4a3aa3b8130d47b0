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

package conf

import "time"

// These parameters should be kept consistent with the block producers.
var (
	// BPPeriod is the block producer block produce period.
	BPPeriod = 3 * time.Second
)

const (
	// MaxTxBroadcastTTL defines the TTL limit of an AddTx request
	// broadcasting within the block producers.
	MaxTxBroadcastTTL = 1
)

// These limits will not cause inconsistency within certain range.
const (
	// MaxRPCPoolPhysicalConnection defines max pooled connection count for
	// one node pair.
	MaxRPCPoolPhysicalConnection = 1024
)
