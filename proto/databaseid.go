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

package proto

import (
	"fmt"
	"regexp"

	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
)

// DatabaseID is the database basic identifier.
type DatabaseID string

var databaseIDPattern = regexp.MustCompile("^[a-zA-Z0-9.]+$")

// FromAccountAndNonce derives the deterministic database ID from the owner
// account and the transaction nonce consumed by the creation transaction. The
// chain performs the identical derivation, so the client can compute the ID
// before the creation transaction confirms.
func FromAccountAndNonce(accountAddress AccountAddress, nonce uint32) DatabaseID {
	raw := fmt.Sprintf("%s%d", accountAddress.String(), nonce)
	return DatabaseID(hash.THashH([]byte(raw)).String())
}

// AccountAddress converts a database ID to its matching account address on
// chain.
func (d *DatabaseID) AccountAddress() (a AccountAddress, err error) {
	var h *hash.Hash
	if h, err = hash.NewHashFromStr(string(*d)); err != nil {
		return
	}
	a = AccountAddress(*h)
	return
}

// IsValid returns true if the database ID is a valid identifier.
func (d *DatabaseID) IsValid() bool {
	if d == nil || *d == "" {
		return false
	}
	return databaseIDPattern.MatchString(string(*d))
}
