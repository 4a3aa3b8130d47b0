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

// Package conf defines the client configuration loaded from a YAML file.
package conf

import (
	"encoding/hex"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/QuorumSQL/QuorumSQL/crypto/asymmetric"
	"github.com/QuorumSQL/QuorumSQL/proto"
	"github.com/QuorumSQL/QuorumSQL/utils/log"
)

// BPInfo holds the block producer info fields.
type BPInfo struct {
	// PublicKeyStr is the block producer public key in hex.
	PublicKeyStr string `yaml:"PublicKeyStr"`
	// PublicKey is the decoded block producer public key, filled on load.
	PublicKey *asymmetric.PublicKey `yaml:"-"`
	// NodeID is the node id of the block producer.
	NodeID proto.NodeID `yaml:"NodeID"`
	// RawNodeID is the above node id in raw hash form, filled on load.
	RawNodeID proto.RawNodeID `yaml:"-"`
}

// Config holds the config read from the YAML config file.
type Config struct {
	// UseTestMasterKey forces an empty master key, for test environments only.
	UseTestMasterKey bool `yaml:"UseTestMasterKey,omitempty"`

	WorkingRoot    string       `yaml:"WorkingRoot"`
	PrivateKeyFile string       `yaml:"PrivateKeyFile"`
	ListenAddr     string       `yaml:"ListenAddr"`
	ThisNodeID     proto.NodeID `yaml:"ThisNodeID"`

	BP *BPInfo `yaml:"BlockProducer"`

	KnownNodes []proto.Node `yaml:"KnownNodes"`
}

// GConf is the global config pointer.
var GConf *Config

// LoadConfig loads the config from configPath.
func LoadConfig(configPath string) (config *Config, err error) {
	configBytes, err := ioutil.ReadFile(configPath)
	if err != nil {
		err = errors.Wrap(err, "read config file failed")
		return
	}
	config = &Config{}
	if err = yaml.Unmarshal(configBytes, config); err != nil {
		err = errors.Wrap(err, "unmarshal config file failed")
		config = nil
		return
	}

	if config.WorkingRoot == "" {
		config.WorkingRoot = filepath.Dir(configPath)
	}
	if config.PrivateKeyFile == "" {
		config.PrivateKeyFile = "private.key"
	}
	if !filepath.IsAbs(config.PrivateKeyFile) {
		config.PrivateKeyFile = filepath.Join(config.WorkingRoot, config.PrivateKeyFile)
	}

	if config.BP != nil && config.BP.PublicKeyStr != "" {
		var pubKeyBytes []byte
		if pubKeyBytes, err = hex.DecodeString(config.BP.PublicKeyStr); err != nil {
			err = errors.Wrap(err, "decode BP public key failed")
			config = nil
			return
		}
		if config.BP.PublicKey, err = asymmetric.ParsePubKey(pubKeyBytes); err != nil {
			err = errors.Wrap(err, "parse BP public key failed")
			config = nil
			return
		}
	}

	log.WithField("path", configPath).Debug("config loaded")
	return
}
