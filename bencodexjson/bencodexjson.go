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

// Package bencodexjson bridges bencodex.Value to and from JSON text.
// It is a thin external collaborator, not part of the core codec: it
// never touches raw Bencodex bytes, only the decoded Value tree, and
// it is free to make lossy or convention-based choices (like how a
// ByteString is rendered) that the core format itself never makes.
package bencodexjson

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/sneller-labs/bencodex/bencodex"
)

// BinaryEncoding selects how Marshal renders a ByteString value as a
// JSON string. Unmarshal recognizes both renderings whatever it is set to.
type BinaryEncoding uint8

const (
	// Hex renders a ByteString as "0x" followed by lowercase hex.
	Hex BinaryEncoding = iota
	// Base64 renders a ByteString as "b64:" followed by standard
	// (padded) base64.
	Base64
)

// Options controls Marshal's rendering. The zero value uses Hex.
type Options struct {
	BinaryEncoding BinaryEncoding
}

// Marshal renders v as JSON text per opt. Dictionary keys are emitted
// in the Value's own canonical order; this package never reorders
// them further.
func Marshal(v bencodex.Value, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v bencodex.Value, opt Options) error {
	switch v.Kind() {
	case bencodex.Null:
		buf.WriteString("null")
		return nil
	case bencodex.Boolean:
		b, _ := v.Bool()
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case bencodex.Integer:
		n, _ := v.Int()
		buf.WriteString(n.String())
		return nil
	case bencodex.ByteString:
		b, _ := v.Bytes()
		return writeQuoted(buf, encodeBinary(b, opt.BinaryEncoding))
	case bencodex.TextString:
		s, _ := v.Text()
		return writeJSONString(buf, s)
	case bencodex.List:
		items, _ := v.List()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item, opt); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case bencodex.Dictionary:
		pairs, _ := v.Dict()
		buf.WriteByte('{')
		for i, kv := range pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, kv.Key, opt); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, kv.Value, opt); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("bencodexjson: unhandled kind %s", v.Kind())
	}
}

// writeJSONString writes s as a quoted JSON string, reusing
// encoding/json's escaping rather than reimplementing it.
func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeQuoted(buf *bytes.Buffer, s string) error {
	return writeJSONString(buf, s)
}

func encodeBinary(b []byte, enc BinaryEncoding) string {
	switch enc {
	case Base64:
		return "b64:" + base64.StdEncoding.EncodeToString(b)
	default:
		return "0x" + hex.EncodeToString(b)
	}
}

// Unmarshal parses JSON text into a Value per opt. A JSON string
// matching the "0x" or "b64:" prefix convention decodes to a
// ByteString; every other JSON string decodes to a TextString. A
// JSON number decodes to an Integer; a fractional or exponent form
// is rejected, since Bencodex has no floating-point or decimal kind.
// Objects decode to Dictionary (keys must be JSON strings, as JSON
// requires), arrays to List, true/false/null to the matching scalar.
func Unmarshal(data []byte, opt Options) (bencodex.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec, opt)
	if err != nil {
		return bencodex.Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return bencodex.Value{}, fmt.Errorf("bencodexjson: trailing data after value")
	}
	return v, nil
}

func readValue(dec *json.Decoder, opt Options) (bencodex.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return bencodex.Value{}, err
	}
	return valueFromToken(dec, tok, opt)
}

func valueFromToken(dec *json.Decoder, tok json.Token, opt Options) (bencodex.Value, error) {
	switch t := tok.(type) {
	case nil:
		return bencodex.NullValue, nil
	case bool:
		return bencodex.BoolValue(t), nil
	case json.Number:
		return integerFromNumber(t)
	case string:
		return stringValueImpl(t), nil
	case json.Delim:
		switch t {
		case '[':
			return arrayValue(dec, opt)
		case '{':
			return objectValue(dec, opt)
		default:
			return bencodex.Value{}, fmt.Errorf("bencodexjson: unexpected delimiter %q", t)
		}
	default:
		return bencodex.Value{}, fmt.Errorf("bencodexjson: unhandled JSON token %T", tok)
	}
}

func integerFromNumber(n json.Number) (bencodex.Value, error) {
	s := n.String()
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == 'e' || c == 'E' {
			return bencodex.Value{}, fmt.Errorf("bencodexjson: %q is not an integer literal", s)
		}
	}
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return bencodex.Value{}, fmt.Errorf("bencodexjson: malformed integer literal %q", s)
	}
	return bencodex.BigIntValue(bi), nil
}

// stringValueImpl implements the decode half of the "0x"/"b64:" prefix
// convention: a JSON string carrying either prefix decodes to a
// ByteString, everything else decodes to a TextString. It never
// consults Options, since the prefixes are unambiguous regardless of
// which encoding Marshal was configured to produce.
func stringValueImpl(s string) bencodex.Value {
	if b, ok := decodeBinaryPrefix(s); ok {
		return bencodex.BytesValue(b)
	}
	return bencodex.TextValue(s)
}

func decodeBinaryPrefix(s string) ([]byte, bool) {
	const hexPrefix = "0x"
	const b64Prefix = "b64:"
	switch {
	case len(s) >= len(hexPrefix) && s[:len(hexPrefix)] == hexPrefix:
		b, err := hex.DecodeString(s[len(hexPrefix):])
		if err != nil {
			return nil, false
		}
		return b, true
	case len(s) >= len(b64Prefix) && s[:len(b64Prefix)] == b64Prefix:
		b, err := base64.StdEncoding.DecodeString(s[len(b64Prefix):])
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return nil, false
	}
}

func arrayValue(dec *json.Decoder, opt Options) (bencodex.Value, error) {
	var items []bencodex.Value
	for dec.More() {
		v, err := readValue(dec, opt)
		if err != nil {
			return bencodex.Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return bencodex.Value{}, err
	}
	return bencodex.ListValue(items), nil
}

func objectValue(dec *json.Decoder, opt Options) (bencodex.Value, error) {
	var pairs []bencodex.KV
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return bencodex.Value{}, err
		}
		keyStr, ok := keyTok.(string)
		if !ok {
			return bencodex.Value{}, fmt.Errorf("bencodexjson: object key must be a string, got %T", keyTok)
		}
		val, err := readValue(dec, opt)
		if err != nil {
			return bencodex.Value{}, err
		}
		pairs = append(pairs, bencodex.KV{Key: stringValueImpl(keyStr), Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return bencodex.Value{}, err
	}
	return bencodex.DictValue(pairs)
}
