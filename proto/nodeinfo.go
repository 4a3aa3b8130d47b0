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
	"strings"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
)

// ServerRole defines the role of a node in the network.
type ServerRole int

const (
	// Unknown is the zero value of ServerRole.
	Unknown ServerRole = iota
	// Leader is a server that has the ability to organize committing requests.
	Leader
	// Follower is a server that follows the leader log commits.
	Follower
	// Miner is a server that runs the sql database.
	Miner
	// Client is a client that sends sql queries to database.
	Client
)

func (s ServerRole) String() string {
	switch s {
	case Leader:
		return "Leader"
	case Follower:
		return "Follower"
	case Miner:
		return "Miner"
	case Client:
		return "Client"
	}
	return "Unknown"
}

// MarshalYAML implements the yaml.Marshaler interface.
func (s ServerRole) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *ServerRole) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var str string
	if err = unmarshal(&str); err != nil {
		return
	}
	switch strings.ToLower(str) {
	case "leader":
		*s = Leader
	case "follower":
		*s = Follower
	case "miner":
		*s = Miner
	case "client":
		*s = Client
	default:
		*s = Unknown
	}
	return
}

// Node is the all-in-one node info struct.
type Node struct {
	ID        NodeID                `yaml:"ID"`
	Role      ServerRole            `yaml:"Role"`
	Addr      string                `yaml:"Addr"`
	PublicKey *asymmetric.PublicKey `yaml:"PublicKey,omitempty"`
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{}
}

// PingReq is the request of DHT.Ping.
type PingReq struct {
	Envelope
	Node Node
}

// PingResp is the response of DHT.Ping.
type PingResp struct {
	Envelope
	Msg string
}

// FindNodeReq is the request of DHT.FindNode.
type FindNodeReq struct {
	Envelope
	ID NodeID
}

// FindNodeResp is the response of DHT.FindNode.
type FindNodeResp struct {
	Envelope
	Node *Node
	Msg  string
}
