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

package interfaces

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/QuorumSQL/QuorumSQL/utils"
)

const (
	// msgpack container type constants, copied from go/codec/msgpack.go
	valueTypeMap   = 9
	valueTypeArray = 10
)

var (
	txTypeMapping sync.Map
	txType        = reflect.TypeOf((*Transaction)(nil)).Elem()
	txWrapperType = reflect.TypeOf((*TransactionWrapper)(nil))

	// ErrInvalidContainerType represents invalid container type read from msgpack bytes.
	ErrInvalidContainerType = errors.New("invalid container type for TransactionWrapper")
	// ErrInvalidTransactionType represents invalid transaction type read from msgpack bytes.
	ErrInvalidTransactionType = errors.New("invalid transaction type, can not instantiate transaction")
	// ErrTransactionRegistration represents invalid transaction object type being registered.
	ErrTransactionRegistration = errors.New("transaction register failed")
)

func init() {
	// route interface-typed transaction fields through the wrapper
	if err := utils.RegisterInterfaceToMsgPack(txType, txWrapperType); err != nil {
		panic(err)
	}
}

// RegisterTransaction registers the concrete type instantiated for a
// transaction type on decode. Passing a nil pointer of the concrete type is
// the normal usage.
func RegisterTransaction(t TransactionType, tx Transaction) {
	if tx == nil {
		panic(ErrTransactionRegistration)
	}
	typ := reflect.TypeOf(tx)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	txTypeMapping.Store(t, typ)
}

// NewTransaction instantiates a new empty transaction of the registered
// concrete type.
func NewTransaction(t TransactionType) (tx Transaction, err error) {
	var d interface{}
	var ok bool
	if d, ok = txTypeMapping.Load(t); !ok {
		err = errors.Wrapf(ErrInvalidTransactionType, "unknown type %s", t.String())
		return
	}
	typ := d.(reflect.Type)
	tx = reflect.New(typ).Interface().(Transaction)
	if mixin, ok := tx.(ContainsTransactionTypeMixin); ok {
		mixin.SetTransactionType(t)
	}
	return
}

// TransactionWrapper wraps the Transaction interface for
// serialization/deserialization purposes.
type TransactionWrapper struct {
	Transaction
}

// WrapTransaction wraps a transaction for an interface-typed field.
func WrapTransaction(tx Transaction) *TransactionWrapper {
	if w, ok := tx.(*TransactionWrapper); ok {
		return w
	}
	return &TransactionWrapper{Transaction: tx}
}

// Unwrap returns the transaction within the wrapper.
func (w *TransactionWrapper) Unwrap() Transaction {
	return w.Transaction
}

// CodecEncodeSelf implements codec.Selfer interface.
func (w *TransactionWrapper) CodecEncodeSelf(e *codec.Encoder) {
	helperEncoder, encDriver := codec.GenHelperEncoder(e)

	if w == nil || w.Transaction == nil {
		encDriver.EncodeNil()
		return
	}

	// two element array: [type, payload]
	encDriver.WriteArrayStart(2)
	encDriver.WriteArrayElem()
	encDriver.EncodeUint(uint64(w.GetTransactionType()))
	encDriver.WriteArrayElem()
	helperEncoder.EncFallback(w.Transaction)
	encDriver.WriteArrayEnd()
}

// CodecDecodeSelf implements codec.Selfer interface.
func (w *TransactionWrapper) CodecDecodeSelf(d *codec.Decoder) {
	helperDecoder, decodeDriver := codec.GenHelperDecoder(d)

	w.Transaction = nil

	if ct := decodeDriver.ContainerType(); ct != valueTypeArray {
		panic(errors.Wrapf(ErrInvalidContainerType, "type %v applied", ct))
	}

	containerLen := decodeDriver.ReadArrayStart()

	for i := 0; i < containerLen; i++ {
		if decodeDriver.CheckBreak() {
			break
		}

		decodeDriver.ReadArrayElem()

		switch i {
		case 0:
			if decodeDriver.TryDecodeAsNil() {
				panic(ErrInvalidTransactionType)
			}
			var t TransactionType
			helperDecoder.DecFallback(&t, true)

			var err error
			if w.Transaction, err = NewTransaction(t); err != nil {
				panic(err)
			}
		case 1:
			if ct := decodeDriver.ContainerType(); ct != valueTypeMap && ct != valueTypeArray {
				panic(errors.Wrapf(ErrInvalidContainerType, "type %v applied", ct))
			}
			if !decodeDriver.TryDecodeAsNil() {
				helperDecoder.DecFallback(&w.Transaction, true)
			}
		default:
			helperDecoder.DecStructFieldNotFound(i, "")
		}
	}

	decodeDriver.ReadArrayEnd()

	if containerLen < 2 {
		panic(ErrInvalidTransactionType)
	}
}
