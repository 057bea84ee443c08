// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package bencodex implements the canonical Bencodex serialization
// format: a scalar encoder/decoder plus a SIMD-accelerated decoder
// (see the simd subpackage) that are required to agree on every input.
package bencodex

import (
	"bytes"
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"

	"github.com/sneller-labs/bencodex/internal/utf8"
)

// Kind discriminates the seven value kinds. There is no inheritance
// here: a Value is a closed tagged union and callers dispatch on Kind.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Integer
	ByteString
	TextString
	List
	Dictionary
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case ByteString:
		return "bytestring"
	case TextString:
		return "textstring"
	case List:
		return "list"
	case Dictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// KV is a single dictionary entry. Key must be of Kind ByteString or
// Kind TextString; anything else is rejected by DictValue and by the
// decoder.
type KV struct {
	Key   Value
	Value Value
}

// Value is exactly one of the seven Bencodex value kinds. The zero
// Value is NullValue. Values are immutable
// once constructed: containers own their children exclusively and
// there is no aliasing between trees, so a Value is safe to share
// across goroutines without synchronization.
type Value struct {
	kind Kind
	b    bool
	i    *big.Int
	s    []byte // raw bytes for ByteString, UTF-8 bytes for TextString
	list []Value
	dict []KV // sorted into canonical order
}

// NullValue is the sole value of Kind Null.
var NullValue = Value{kind: Null}

// BoolValue constructs a Boolean value.
func BoolValue(b bool) Value {
	return Value{kind: Boolean, b: b}
}

// IntValue constructs an Integer value from a machine int64.
func IntValue(n int64) Value {
	return Value{kind: Integer, i: big.NewInt(n)}
}

// BigIntValue constructs an Integer value from an arbitrary-precision
// integer. The big.Int is cloned so the caller may keep mutating its
// own copy without violating the Value's immutability.
func BigIntValue(n *big.Int) Value {
	return Value{kind: Integer, i: new(big.Int).Set(n)}
}

// BytesValue constructs a ByteString value. The slice is cloned.
func BytesValue(b []byte) Value {
	return Value{kind: ByteString, s: slices.Clone(b)}
}

// TextValue constructs a TextString value from a well-formed UTF-8 string.
func TextValue(s string) Value {
	return Value{kind: TextString, s: []byte(s)}
}

// ListValue constructs a List value. The slice is cloned shallowly;
// the child Values themselves are already immutable.
func ListValue(items []Value) Value {
	return Value{kind: List, list: slices.Clone(items)}
}

// DictValue constructs a Dictionary value, sorting pairs into the
// canonical key order and rejecting invalid input: a key of
// the wrong kind is InvalidDictionaryKey, a duplicate key (under the
// canonical equality in keyLess) is OutOfOrderKeys.
func DictValue(pairs []KV) (Value, error) {
	out := slices.Clone(pairs)
	for i := range out {
		k := out[i].Key.kind
		if k != ByteString && k != TextString {
			return Value{}, newErr(InvalidDictionaryKey, -1)
		}
	}
	slices.SortFunc(out, func(a, b KV) int {
		if keyLess(a.Key, b.Key) {
			return -1
		}
		if keyLess(b.Key, a.Key) {
			return 1
		}
		return 0
	})
	for i := 1; i < len(out); i++ {
		if !keyLess(out[i-1].Key, out[i].Key) {
			return Value{}, newErr(OutOfOrderKeys, -1)
		}
	}
	return Value{kind: Dictionary, dict: out}, nil
}

// Kind returns the tag discriminating this value.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the payload of a Boolean value.
func (v Value) Bool() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.b, true
}

// Int returns the payload of an Integer value as a big.Int. The
// returned pointer must not be mutated by the caller.
func (v Value) Int() (*big.Int, bool) {
	if v.kind != Integer {
		return nil, false
	}
	return v.i, true
}

// Bytes returns the payload of a ByteString value.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != ByteString {
		return nil, false
	}
	return v.s, true
}

// Text returns the payload of a TextString value.
func (v Value) Text() (string, bool) {
	if v.kind != TextString {
		return "", false
	}
	return string(v.s), true
}

// RuneCount returns the number of Unicode code points in a TextString
// value. It counts the bytes that are not UTF-8 continuation bytes
// rather than decoding runes, which is exact for well-formed UTF-8:
// decode rejects anything else, and TextValue takes a well-formed
// string as given without validating it.
func (v Value) RuneCount() (int, bool) {
	if v.kind != TextString {
		return 0, false
	}
	return utf8.ValidStringLength(v.s), true
}

// List returns the children of a List value.
func (v Value) List() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

// Dict returns the entries of a Dictionary value in canonical order.
func (v Value) Dict() ([]KV, bool) {
	if v.kind != Dictionary {
		return nil, false
	}
	return v.dict, true
}

// keyBytes returns the raw bytes a dictionary key value is compared
// and encoded by; only valid for ByteString and TextString values.
func keyBytes(v Value) []byte { return v.s }

// keyRank orders ByteString keys before TextString keys.
func keyRank(v Value) int {
	if v.kind == ByteString {
		return 0
	}
	return 1
}

// keyLess implements the canonical dictionary key order: all
// ByteString keys precede all TextString keys, and within a kind
// keys are compared as byte sequences with shorter-is-smaller when
// one is a prefix of the other.
func keyLess(a, b Value) bool {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra < rb
	}
	return bytes.Compare(keyBytes(a), keyBytes(b)) < 0
}

// Equal reports whether v and x represent the same Bencodex value.
func (v Value) Equal(x Value) bool {
	if v.kind != x.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Boolean:
		return v.b == x.b
	case Integer:
		return v.i.Cmp(x.i) == 0
	case ByteString, TextString:
		return bytes.Equal(v.s, x.s)
	case List:
		if len(v.list) != len(x.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(x.list[i]) {
				return false
			}
		}
		return true
	case Dictionary:
		if len(v.dict) != len(x.dict) {
			return false
		}
		for i := range v.dict {
			if !v.dict[i].Key.Equal(x.dict[i].Key) || !v.dict[i].Value.Equal(x.dict[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
