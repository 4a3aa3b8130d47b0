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

package asymmetric

import (
	"bytes"
	"crypto/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSign(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{
			name: "Test curve",
			key: []byte{
				0xea, 0xf0, 0x2c, 0xa3, 0x48, 0xc5, 0x24, 0xe6,
				0x39, 0x26, 0x55, 0xba, 0x4d, 0x29, 0x60, 0x3c,
				0xd1, 0xa7, 0x34, 0x7d, 0x9d, 0x65, 0xcf, 0xe9,
				0x3c, 0xe1, 0xeb, 0xff, 0xdc, 0xa2, 0x26, 0x94,
			},
		},
	}

	for _, test := range tests {
		priv, pub := PrivKeyFromBytes(test.key)
		hash := []byte{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9}
		sig, err := priv.Sign(hash)

		if err != nil {
			t.Errorf("%s could not sign: %v", test.name, err)
			continue
		}

		if !sig.Verify(hash, pub) {
			t.Errorf("%s could not verify: %v", test.name, err)
			continue
		}

		serializedKey := priv.Serialize()
		if !bytes.Equal(serializedKey, test.key) {
			t.Errorf("%s unexpected serialized bytes - got: %x, want: %x", test.name,
				serializedKey, test.key)
		}

		serializedSig := sig.Serialize()
		targetSig, err := ParseSignature(serializedSig)
		if err != nil {
			t.Errorf("%s could not parse: %v", test.name, err)
			continue
		}
		if !sig.IsEqual(targetSig) {
			t.Errorf("%s unexpected serialized bytes - got: %x, want: %x", test.name,
				targetSig, sig)
		}
	}
}

func TestSignatureMarshalBinary(t *testing.T) {
	Convey("marshal unmarshal signature", t, func() {
		privateKey, publicKey, err := GenSecp256k1KeyPair()
		So(err, ShouldBeNil)

		buf := make([]byte, 16)
		rand.Read(buf)

		sign, err := privateKey.Sign(buf)
		So(err, ShouldBeNil)

		keyBytes, err := sign.MarshalBinary()
		So(err, ShouldBeNil)

		sign2 := new(Signature)
		err = sign2.UnmarshalBinary(keyBytes)
		So(err, ShouldBeNil)
		So(sign2.Verify(buf, publicKey), ShouldBeTrue)

		// tampered message must not verify
		buf[0] ^= 0xff
		So(sign2.Verify(buf, publicKey), ShouldBeFalse)
	})

	Convey("unmarshal garbage", t, func() {
		sign := new(Signature)
		So(sign.UnmarshalBinary([]byte("not a signature")), ShouldNotBeNil)
	})

	Convey("nil signature never verifies", t, func() {
		_, publicKey, err := GenSecp256k1KeyPair()
		So(err, ShouldBeNil)
		So((*Signature)(nil).Verify([]byte("x"), publicKey), ShouldBeFalse)
		sig := &Signature{}
		So(sig.Verify([]byte("x"), nil), ShouldBeFalse)
	})
}
