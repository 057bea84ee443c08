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

	"github.com/sneller-labs/bencodex/bencodex/simd"
)

// DecodeSIMD parses b exactly like Decode, but drives the parse with
// a structural index built by the best vector backend the process can
// use, consulting it through two index primitives instead of scanning
// the raw bytes byte by byte for every delimiter. It must accept
// exactly the inputs Decode accepts and reject exactly the inputs
// Decode rejects, with the same error Kind (offsets may differ
// because the two decoders walk the bytes in a different order).
func DecodeSIMD(b []byte) (Value, error) {
	return DecodeSIMDLimited(b, Limits{})
}

// DecodeSIMDLimited is DecodeSIMD with resource limits applied.
func DecodeSIMDLimited(b []byte, lim Limits) (Value, error) {
	backend := simd.Detect()
	idx := simd.Scan(backend, b)
	d := stage2Decoder{buf: b, idx: idx, lim: lim}
	v, err := d.value(0)
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(b) {
		return Value{}, newErr(TrailingBytes, int64(d.pos))
	}
	return v, nil
}

// stage2Decoder parses the same grammar as scalarDecoder, but
// delimiters are located via the structural index rather than a
// manual scan of the raw bytes.
type stage2Decoder struct {
	buf       []byte
	idx       simd.Index
	structIdx int
	pos       int
	lim       Limits
}

// advancePastPayload sets pos += n and then advances structIdx past
// every index entry whose offset is now behind pos. The entries
// inside the payload we just skipped are exactly the ones a
// structural scan spuriously picked up.
func (d *stage2Decoder) advancePastPayload(n int) {
	d.pos += n
	for d.structIdx < len(d.idx) && int(d.idx[d.structIdx]) < d.pos {
		d.structIdx++
	}
}

// findNextStructural advances structIdx until it names an offset
// >= pos whose byte equals want, returning that offset. The second
// check is mandatory: the index is a superset of the true structural
// positions, so an entry can sit at offset >= pos yet not be the
// delimiter being sought (e.g. a digit encountered while looking for
// ':').
func (d *stage2Decoder) findNextStructural(want byte) (int, bool) {
	for d.structIdx < len(d.idx) {
		off := int(d.idx[d.structIdx])
		if off < d.pos {
			d.structIdx++
			continue
		}
		if d.buf[off] != want {
			d.structIdx++
			continue
		}
		return off, true
	}
	return 0, false
}

func (d *stage2Decoder) peek() (byte, bool) {
	if d.pos >= len(d.buf) {
		return 0, false
	}
	return d.buf[d.pos], true
}

func (d *stage2Decoder) value(depth int) (Value, error) {
	c, ok := d.peek()
	if !ok {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	switch {
	case c == 'n':
		d.advancePastPayload(1)
		return NullValue, nil
	case c == 't':
		d.advancePastPayload(1)
		return BoolValue(true), nil
	case c == 'f':
		d.advancePastPayload(1)
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

func (d *stage2Decoder) integer() (Value, error) {
	start := d.pos
	d.advancePastPayload(1) // consume 'i'
	bodyStart := d.pos
	end, ok := d.findNextStructural('e')
	if !ok {
		return Value{}, newErr(UnexpectedEndOfInput, int64(start))
	}
	body := d.buf[bodyStart:end]
	if !d.lim.checkDigits(len(body)) {
		return Value{}, newErr(InvalidInteger, int64(bodyStart))
	}
	n, err := parseCanonicalInt(body, int64(bodyStart))
	if err != nil {
		return Value{}, err
	}
	d.advancePastPayload(end - bodyStart + 1) // digits + 'e'
	return BigIntValue(n), nil
}

func (d *stage2Decoder) countedPayload(marker byte) ([]byte, int64, error) {
	start := d.pos
	if marker != 0 {
		d.advancePastPayload(1) // consume marker
	}
	lenStart := d.pos
	colon, ok := d.findNextStructural(':')
	if !ok {
		for i, c := range d.buf[lenStart:] {
			if c < '0' || c > '9' {
				return nil, 0, newErr(InvalidLengthPrefix, int64(lenStart+i))
			}
		}
		return nil, 0, newErr(UnexpectedEndOfInput, int64(start))
	}
	lenBody := d.buf[lenStart:colon]
	for i, c := range lenBody {
		if c < '0' || c > '9' {
			return nil, 0, newErr(InvalidLengthPrefix, int64(lenStart+i))
		}
	}
	n, err := parseCanonicalLength(lenBody, int64(lenStart))
	if err != nil {
		return nil, 0, err
	}
	if !d.lim.checkLength(n) {
		return nil, 0, newErr(InvalidLengthPrefix, int64(lenStart))
	}
	d.advancePastPayload(colon - lenStart + 1) // digits + ':'
	if len(d.buf)-d.pos < n {
		return nil, 0, newErr(UnexpectedEndOfInput, int64(start))
	}
	payload := d.buf[d.pos : d.pos+n]
	payloadOffset := int64(d.pos)
	d.advancePastPayload(n)
	return payload, payloadOffset, nil
}

func (d *stage2Decoder) byteString() (Value, error) {
	payload, _, err := d.countedPayload(0)
	if err != nil {
		return Value{}, err
	}
	return BytesValue(payload), nil
}

func (d *stage2Decoder) textString() (Value, error) {
	payload, offset, err := d.countedPayload('u')
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(payload) {
		return Value{}, newErr(InvalidUTF8, offset)
	}
	return Value{kind: TextString, s: payload}, nil
}

func (d *stage2Decoder) list(depth int) (Value, error) {
	if !d.lim.checkDepth(depth + 1) {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	d.advancePastPayload(1) // consume 'l'
	var items []Value
	for {
		c, ok := d.peek()
		if !ok {
			return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
		}
		if c == 'e' {
			d.advancePastPayload(1)
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

func (d *stage2Decoder) dict(depth int) (Value, error) {
	if !d.lim.checkDepth(depth + 1) {
		return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
	}
	d.advancePastPayload(1) // consume 'd'
	var pairs []KV
	for {
		c, ok := d.peek()
		if !ok {
			return Value{}, newErr(UnexpectedEndOfInput, int64(d.pos))
		}
		if c == 'e' {
			d.advancePastPayload(1)
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
