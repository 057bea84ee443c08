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
	"unicode/utf8"
)

// Limits bounds the resources a Decode call is willing to spend. The
// zero Limits is unbounded (every field 0), which is the default used
// by Decode/DecodeSIMD so that a valid canonical input is never
// rejected unless the caller explicitly opts into a limit.
type Limits struct {
	MaxIntegerDigits int // 0 = unbounded
	MaxStringLength  int // 0 = unbounded
	MaxDepth         int // 0 = unbounded; counts List/Dictionary nesting
}

func (lim Limits) checkDigits(n int) bool {
	return lim.MaxIntegerDigits == 0 || n <= lim.MaxIntegerDigits
}

func (lim Limits) checkLength(n int) bool {
	return lim.MaxStringLength == 0 || n <= lim.MaxStringLength
}

func (lim Limits) checkDepth(depth int) bool {
	return lim.MaxDepth == 0 || depth <= lim.MaxDepth
}

// Decode parses b as a single canonical Bencodex value. The entire
// input must be consumed; any unconsumed suffix is a TrailingBytes
// error. Decode rejects any input that is not in exactly the
// canonical form.
func Decode(b []byte) (Value, error) {
	return DecodeLimited(b, Limits{})
}

// DecodeLimited is Decode with resource limits applied during parsing.
func DecodeLimited(b []byte, lim Limits) (Value, error) {
	d := scalarDecoder{buf: b, lim: lim}
	v, err := d.value(0)
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(b) {
		return Value{}, newErr(TrailingBytes, int64(d.pos))
	}
	return v, nil
}

type scalarDecoder struct {
	buf []byte
	pos int
	lim Limits
}

func (d *scalarDecoder) peek() (byte, bool) {
	if d.pos >= len(d.buf) {
		return 0, false
	}
	return d.buf[d.pos], true
}

// value decodes the value starting at d.pos, which must be depth
// levels of List/Dictionary nesting deep.
func (d *scalarDecoder) value(depth int) (Value, error) {
	c, ok := d.peek()
	if !ok {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	switch {
	case c == 'n':
		d.pos++
		return NullValue, nil
	case c == 't':
		d.pos++
		return BoolValue(true), nil
	case c == 'f':
		d.pos++
		return BoolValue(false), nil
	case c == 'i':
		return d.integer()
	case c == 'u':
		return d.textString()
	case c >= '0' && c <= '9':
		return d.byteString()
	case c == 'l':
		return d.list(depth)
	case c == 'd':
		return d.dict(depth)
	default:
		return Value{}, newErr(UnexpectedByte, int64(d.pos))
	}
}

func (d *scalarDecoder) integer() (Value, error) {
	start := d.pos
	d.pos++ // consume 'i'
	bodyStart := d.pos
	for {
		c, ok := d.peek()
		if !ok {
			return Value{}, newErr(UnexpectedEndOfInput, int64(start))
		}
		if c == 'e' {
			break
		}
		d.pos++
	}
	body := d.buf[bodyStart:d.pos]
	if !d.lim.checkDigits(len(body)) {
		return Value{}, newErr(InvalidInteger, int64(bodyStart))
	}
	n, err := parseCanonicalInt(body, int64(bodyStart))
	if err != nil {
		return Value{}, err
	}
	d.pos++ // consume 'e'
	return BigIntValue(n), nil
}

// countedPayload reads "<len>:<payload>" (marker == 0) or
// "u<len>:<payload>" (marker == 'u') starting at d.pos, returning the
// raw payload bytes.
func (d *scalarDecoder) countedPayload(marker byte) ([]byte, int64, error) {
	start := d.pos
	if marker != 0 {
		d.pos++ // consume marker
	}
	lenStart := d.pos
	for {
		c, ok := d.peek()
		if !ok {
			return nil, 0, newErr(UnexpectedEndOfInput, int64(start))
		}
		if c == ':' {
			break
		}
		if c < '0' || c > '9' {
			return nil, 0, newErr(InvalidLengthPrefix, int64(d.pos))
		}
		d.pos++
	}
	lenBody := d.buf[lenStart:d.pos]
	n, err := parseCanonicalLength(lenBody, int64(lenStart))
	if err != nil {
		return nil, 0, err
	}
	if !d.lim.checkLength(n) {
		return nil, 0, newErr(InvalidLengthPrefix, int64(lenStart))
	}
	d.pos++ // consume ':'
	if len(d.buf)-d.pos < n {
		return nil, 0, newErr(UnexpectedEndOfInput, int64(start))
	}
	payload := d.buf[d.pos : d.pos+n]
	payloadOffset := int64(d.pos)
	d.pos += n
	return payload, payloadOffset, nil
}

func (d *scalarDecoder) byteString() (Value, error) {
	payload, _, err := d.countedPayload(0)
	if err != nil {
		return Value{}, err
	}
	return BytesValue(payload), nil
}

func (d *scalarDecoder) textString() (Value, error) {
	payload, offset, err := d.countedPayload('u')
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(payload) {
		return Value{}, newErr(InvalidUTF8, offset)
	}
	return Value{kind: TextString, s: payload}, nil
}

func (d *scalarDecoder) list(depth int) (Value, error) {
	if !d.lim.checkDepth(depth + 1) {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	d.pos++ // consume 'l'
	var items []Value
	for {
		c, ok := d.peek()
		if !ok {
			return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
		}
		if c == 'e' {
			d.pos++
			break
		}
		v, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return Value{kind: List, list: items}, nil
}

func (d *scalarDecoder) dict(depth int) (Value, error) {
	if !d.lim.checkDepth(depth + 1) {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	d.pos++ // consume 'd'
	var pairs []KV
	for {
		c, ok := d.peek()
		if !ok {
			return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
		}
		if c == 'e' {
			d.pos++
			break
		}
		keyStart := d.pos
		key, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		if key.kind != ByteString && key.kind != TextString {
			return Value{}, newErr(InvalidDictionaryKey, int64(keyStart))
		}
		if len(pairs) > 0 && !keyLess(pairs[len(pairs)-1].Key, key) {
			return Value{}, newErr(OutOfOrderKeys, int64(keyStart))
		}
		val, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, KV{Key: key, Value: val})
	}
	return Value{kind: Dictionary, dict: pairs}, nil
}
