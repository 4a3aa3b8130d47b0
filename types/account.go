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

	"github.com/QuorumSQL/QuorumSQL/proto"
)

// UserPermissionRole defines the role of a user in a database.
type UserPermissionRole int32

// UserPermission defines the permission of a user in a database.
type UserPermission struct {
	// Role defines the permission role.
	Role UserPermissionRole
	// Patterns is the queries forbidden for a limited user.
	Patterns []string
}

const (
	// Void defines the initial permission.
	Void UserPermissionRole = iota
	// Admin defines the admin user permission.
	Admin
	// Write defines the writer user permission.
	Write
	// Read defines the reader user permission.
	Read
	// NumberOfUserPermission defines the sentinel permission.
	NumberOfUserPermission
)

// UserPermissionFromRole construct a new user permission instance from a role.
func UserPermissionFromRole(role UserPermissionRole) *UserPermission {
	return &UserPermission{
		Role: role,
	}
}

// IsValid returns whether the permission role is a defined one.
func (up *UserPermission) IsValid() bool {
	return up != nil && up.Role < NumberOfUserPermission && up.Role > Void
}

// HasReadPermission returns true if the user owns read permission.
func (up *UserPermission) HasReadPermission() bool {
	if up == nil {
		return false
	}
	return up.Role == Read || up.Role == Write || up.Role == Admin
}

// HasWritePermission returns true if the user owns write permission.
func (up *UserPermission) HasWritePermission() bool {
	if up == nil {
		return false
	}
	return up.Role == Write || up.Role == Admin
}

// HasAdminPermission returns true if the user owns admin permission.
func (up *UserPermission) HasAdminPermission() bool {
	if up == nil {
		return false
	}
	return up.Role == Admin
}

// FromString sets the permission role from its string form.
func (up *UserPermission) FromString(perm string) {
	switch strings.ToLower(perm) {
	case "admin":
		up.Role = Admin
	case "write":
		up.Role = Write
	case "read":
		up.Role = Read
	default:
		up.Role = Void
	}
}

// Status defines the on-chain billing status of a database user.
type Status int32

const (
	// UnknownStatus defines the initial status.
	UnknownStatus Status = iota
	// Normal defines no bill owed.
	Normal
	// Arrears defines the user in arrears.
	Arrears
)

// EnableQuery returns whether the status permits queries.
func (s Status) EnableQuery() bool {
	return s == Normal
}

// PermStat defines the permission status of a database user.
type PermStat struct {
	Permission *UserPermission
	Status     Status
}

// SQLChainUser defines a user of a database chain.
type SQLChainUser struct {
	Address    proto.AccountAddress
	Permission *UserPermission
	Status     Status
	Deposit    uint64
	Arrears    uint64
}

// MinerInfo defines a miner serving a database chain.
type MinerInfo struct {
	Address       proto.AccountAddress
	NodeID        proto.NodeID
	Name          string
	Deposit       uint64
	Status        Status
	EncryptionKey string
}

// SQLChainProfile defines the chain-side metadata of a database: the miners
// assigned to it and the users allowed on it.
type SQLChainProfile struct {
	ID      proto.DatabaseID
	Address proto.AccountAddress
	Period  uint64

	GasPrice  uint64
	TokenType TokenType

	Owner proto.AccountAddress
	// first miner in the list is the leader
	Miners []*MinerInfo

	Users []*SQLChainUser

	Meta ResourceMeta // dumped from the db creation tx
}
