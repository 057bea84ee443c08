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

package bencodex

import (
	"bytes"
	"testing"
)

// TestScenarios exercises a curated set of representative inputs
// against both decoders.
func TestScenarios(t *testing.T) {
	dict, err := DictValue([]KV{
		{Key: TextValue("a"), Value: TextValue("1")},
		{Key: TextValue("b"), Value: TextValue("2")},
	})
	if err != nil {
		t.Fatalf("DictValue: %v", err)
	}
	mixedDict, err := DictValue([]KV{
		{Key: BytesValue([]byte("a")), Value: TextValue("a")},
		{Key: TextValue("b"), Value: TextValue("b")},
	})
	if err != nil {
		t.Fatalf("DictValue: %v", err)
	}

	cases := []struct {
		name  string
		input []byte
		want  Value
	}{
		{"null", []byte("n"), NullValue},
		{"negative int", []byte("i-123e"), IntValue(-123)},
		{"bytestring", []byte("3:\x01\x02\x03"), BytesValue([]byte{0x01, 0x02, 0x03})},
		{"textstring", []byte("u5:hello"), TextValue("hello")},
		{"list", []byte("li1ei2ei3ee"), ListValue([]Value{IntValue(1), IntValue(2), IntValue(3)})},
		{"dict", []byte("du1:au1:1u1:bu1:2e"), dict},
		{"mixed-key dict", []byte("d1:au1:au1:bu1:be"), mixedDict},
		{"empty dict", []byte("de"), mustDict(nil)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Decode(c.input)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !got.Equal(c.want) {
				t.Fatalf("Decode(%q) = %v, want %v", c.input, got, c.want)
			}
			gotSIMD, err := DecodeSIMD(c.input)
			if err != nil {
				t.Fatalf("DecodeSIMD: %v", err)
			}
			if !gotSIMD.Equal(c.want) {
				t.Fatalf("DecodeSIMD(%q) = %v, want %v", c.input, gotSIMD, c.want)
			}
			reenc := Encode(c.want)
			if !bytes.Equal(reenc, c.input) {
				t.Fatalf("Encode(%v) = %q, want %q", c.want, reenc, c.input)
			}
		})
	}
}

func mustDict(pairs []KV) Value {
	v, err := DictValue(pairs)
	if err != nil {
		panic(err)
	}
	return v
}

func TestEmptyDictionaryEncodesExactly(t *testing.T) {
	got := Encode(mustDict(nil))
	if string(got) != "de" {
		t.Fatalf("Encode(empty dict) = %q, want \"de\"", got)
	}
}

// TestCanonicalRejection checks that non-canonical byte sequences
// are rejected by both decoders with a matching error kind.
func TestCanonicalRejection(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  ErrorKind
	}{
		{"leading zero int", []byte("i03e"), InvalidInteger},
		{"negative zero", []byte("i-0e"), InvalidInteger},
		{"empty int body", []byte("ie"), InvalidInteger},
		{"leading zero length", []byte("03:abc"), InvalidLengthPrefix},
		{"invalid utf8", []byte("u2:\xff\xfe"), InvalidUTF8},
		{"unsorted keys", []byte("du1:bu1:2u1:au1:1e"), OutOfOrderKeys},
		{"duplicate keys", []byte("du1:au1:1u1:au1:2e"), OutOfOrderKeys},
		{"trailing bytes", []byte("nn"), TrailingBytes},
		{"unexpected byte", []byte("x"), UnexpectedByte},
		{"truncated list", []byte("li1e"), UnexpectedEndOfInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(c.input)
			if kind, ok := KindOf(err); !ok || kind != c.want {
				t.Fatalf("Decode(%q) error = %v, want Kind %s", c.input, err, c.want)
			}
			_, err = DecodeSIMD(c.input)
			if kind, ok := KindOf(err); !ok || kind != c.want {
				t.Fatalf("DecodeSIMD(%q) error = %v, want Kind %s", c.input, err, c.want)
			}
		})
	}
}

// TestRoundTrip checks decode(encode(v)) == v and encode(decode(b)) == b
// over a broader set of constructed values, including ones containing
// 'e', ':' and digits inside payloads, where 'e' plays a dual role as
// both a container terminator and an ordinary payload byte.
func TestRoundTrip(t *testing.T) {
	nested, err := DictValue([]KV{
		{Key: TextValue("list"), Value: ListValue([]Value{IntValue(-1), NullValue, BoolValue(true)})},
		{Key: TextValue("payload"), Value: BytesValue([]byte("e:123e"))},
	})
	if err != nil {
		t.Fatalf("DictValue: %v", err)
	}
	values := []Value{
		NullValue,
		BoolValue(true),
		BoolValue(false),
		IntValue(0),
		IntValue(1),
		IntValue(-1),
		BytesValue([]byte("e:123e")),
		TextValue(""),
		ListValue(nil),
		nested,
	}
	for _, v := range values {
		b := Encode(v)
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(Encode(%v)): %v", v, err)
		}
		if !got.Equal(v) {
			t.Fatalf("round trip mismatch for %v: got %v", v, got)
		}
		if reenc := Encode(got); !bytes.Equal(reenc, b) {
			t.Fatalf("idempotent encoding failed: %q != %q", reenc, b)
		}
		gotSIMD, err := DecodeSIMD(b)
		if err != nil {
			t.Fatalf("DecodeSIMD(Encode(%v)): %v", v, err)
		}
		if !gotSIMD.Equal(v) {
			t.Fatalf("SIMD round trip mismatch for %v: got %v", v, gotSIMD)
		}
	}
}

func TestLimits(t *testing.T) {
	_, err := DecodeLimited([]byte("i12345e"), Limits{MaxIntegerDigits: 3})
	if kind, ok := KindOf(err); !ok || kind != InvalidInteger {
		t.Fatalf("got %v, want InvalidInteger", err)
	}
	_, err = DecodeLimited([]byte("u5:hello"), Limits{MaxStringLength: 2})
	if kind, ok := KindOf(err); !ok || kind != InvalidLengthPrefix {
		t.Fatalf("got %v, want InvalidLengthPrefix", err)
	}
	_, err = DecodeLimited([]byte("llleee"), Limits{MaxDepth: 2})
	if kind, ok := KindOf(err); !ok || kind != UnexpectedEndOfInput {
		t.Fatalf("got %v, want UnexpectedEndOfInput", err)
	}
	// the zero Limits never rejects.
	v, err := DecodeLimited([]byte("i12345e"), Limits{})
	if err != nil {
		t.Fatalf("unbounded Limits rejected a valid input: %v", err)
	}
	n, _ := v.Int()
	if n.Int64() != 12345 {
		t.Fatalf("got %v, want 12345", n)
	}
}
