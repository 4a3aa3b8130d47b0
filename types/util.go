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
	"strings"

	"github.com/pkg/errors"

	"github.com/QuorumSQL/QuorumSQL/crypto/hash"
	"github.com/QuorumSQL/QuorumSQL/crypto/verifier"
	"github.com/QuorumSQL/QuorumSQL/utils"
)

func buildHash(data interface{}, h *hash.Hash) (err error) {
	var enc []byte
	if enc, err = utils.MarshalHash(data); err != nil {
		return
	}
	*h = hash.THashH(enc)
	return
}

func verifyHash(data interface{}, h *hash.Hash) (err error) {
	var newHash hash.Hash
	if err = buildHash(data, &newHash); err != nil {
		return
	}
	if !newHash.IsEqual(h) {
		return errors.WithStack(verifier.ErrHashValueNotMatch)
	}
	return
}

// ContainsDatabaseNotFound reports whether an error transported over RPC
// carries the chain's "database does not exist" signal. net/rpc flattens
// server errors to plain strings, so the match is textual.
func ContainsDatabaseNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, ErrDatabaseNotFound.Error()) ||
		strings.Contains(msg, ErrNoSuchDatabase.Error())
}
