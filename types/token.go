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

// TokenType defines a token's type.
type TokenType int32

const (
	// Quanta defines the native token used for gas and deposits.
	Quanta TokenType = iota
	// Spark defines the secondary utility token.
	Spark
	// SupportTokenNumber defines the number of supported tokens.
	SupportTokenNumber
)

// TokenList lists the supported tokens.
var TokenList = map[TokenType]string{
	Quanta: "Quanta",
	Spark:  "Spark",
}

// String returns the token's symbol.
func (t TokenType) String() string {
	if t < 0 || t >= SupportTokenNumber {
		return "Unknown"
	}
	return TokenList[t]
}

// Listed returns true if the token type is a supported token.
func (t TokenType) Listed() bool {
	return t >= 0 && t < SupportTokenNumber
}

// TokenTypeFromString returns the token's number from its symbol.
func TokenTypeFromString(t string) TokenType {
	for i, name := range TokenList {
		if name == t {
			return i
		}
	}
	return -1
}
