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

package symmetric

import (
	"bytes"
	"crypto/aes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const password = "QuorumSQL.io"

func TestEncryptDecryptWithPassword(t *testing.T) {
	Convey("encrypt & decrypt 0 length bytes with aes256", t, func() {
		enc, err := EncryptWithPassword([]byte(nil), []byte(password))
		So(enc, ShouldNotBeNil)
		So(len(enc), ShouldEqual, 2*aes.BlockSize)
		So(err, ShouldBeNil)

		dec, err := DecryptWithPassword(enc, []byte(password))
		So(len(dec), ShouldEqual, 0)
		So(err, ShouldBeNil)
	})

	Convey("encrypt & decrypt 1747 length bytes", t, func() {
		in := bytes.Repeat([]byte{0xff}, 1747)
		enc, err := EncryptWithPassword(in, []byte(password))
		So(enc, ShouldNotBeNil)
		So(len(enc), ShouldEqual, (1747/aes.BlockSize+2)*aes.BlockSize)
		So(err, ShouldBeNil)

		dec, err := DecryptWithPassword(enc, []byte(password))
		So(dec, ShouldResemble, in)
		So(err, ShouldBeNil)
	})

	Convey("decrypt error length bytes", t, func() {
		in := bytes.Repeat([]byte{0xff}, 1747)
		dec, err := DecryptWithPassword(in, []byte(password))
		So(dec, ShouldBeNil)
		So(err, ShouldEqual, ErrInputSize)
	})

	Convey("key derivation is deterministic and salt sensitive", t, func() {
		k1 := KeyDerivation([]byte(password), []byte("salt1"))
		k2 := KeyDerivation([]byte(password), []byte("salt1"))
		k3 := KeyDerivation([]byte(password), []byte("salt2"))
		So(k1, ShouldResemble, k2)
		So(bytes.Equal(k1, k3), ShouldBeFalse)
		So(len(k1), ShouldEqual, 32)
	})
}
