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

package utils

import (
	"bytes"
	"io"
	"net/rpc"
	"reflect"

	"github.com/ugorji/go/codec"
)

var (
	msgpackHandle = func() *codec.MsgpackHandle {
		h := &codec.MsgpackHandle{
			WriteExt: true,
		}
		h.RawToString = true
		return h
	}()

	// stableHandle produces deterministic output for identical values, used to
	// feed hash functions. Canonical guarantees stable map key ordering,
	// StructToArray drops field names from the encoding so renames do not
	// change transaction hashes.
	stableHandle = func() *codec.MsgpackHandle {
		h := &codec.MsgpackHandle{
			WriteExt: true,
		}
		h.RawToString = true
		h.Canonical = true
		h.StructToArray = true
		return h
	}()
)

// RegisterInterfaceToMsgPack binds interface decode/encode to specified implementation.
func RegisterInterfaceToMsgPack(intf, impl reflect.Type) (err error) {
	if err = msgpackHandle.Intf2Impl(intf, impl); err != nil {
		return
	}
	return stableHandle.Intf2Impl(intf, impl)
}

// EncodeMsgPack writes an encoded object to a new bytes buffer.
func EncodeMsgPack(in interface{}) (*bytes.Buffer, error) {
	buf := bytes.NewBuffer(nil)
	err := codec.NewEncoder(buf, msgpackHandle).Encode(in)
	return buf, err
}

// DecodeMsgPack reverses the encode operation on a byte slice input.
func DecodeMsgPack(buf []byte, out interface{}) error {
	return codec.NewDecoder(bytes.NewBuffer(buf), msgpackHandle).Decode(out)
}

// GetMsgPackClientCodec returns a msgpack based rpc.ClientCodec for the
// given connection.
func GetMsgPackClientCodec(conn io.ReadWriteCloser) rpc.ClientCodec {
	return codec.MsgpackSpecRpc.ClientCodec(conn, msgpackHandle)
}

// GetMsgPackServerCodec returns a msgpack based rpc.ServerCodec for the
// given connection.
func GetMsgPackServerCodec(conn io.ReadWriteCloser) rpc.ServerCodec {
	return codec.MsgpackSpecRpc.ServerCodec(conn, msgpackHandle)
}

// MarshalHash encodes an object to stable bytes suitable for hashing or
// signing. Two equal values always produce identical bytes.
func MarshalHash(in interface{}) (out []byte, err error) {
	buf := bytes.NewBuffer(nil)
	if err = codec.NewEncoder(buf, stableHandle).Encode(in); err != nil {
		return
	}
	out = buf.Bytes()
	return
}
