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
	"io"
	"strconv"

	"github.com/sneller-labs/bencodex/internal/ints"
)

// Buffer accumulates canonical Bencodex bytes. The zero Buffer is
// ready to use. Unlike an ion.Buffer, Bencodex containers are
// delimited by explicit 'e' terminators rather than a length prefix,
// so no backpatching is required: each Write* call appends strictly
// forward.
type Buffer struct {
	buf []byte
}

// Bytes returns the bytes written so far. The slice aliases the
// Buffer's internal storage and is invalidated by the next Write call.
func (b *Buffer) Bytes() []byte { return b.buf }

// Reset empties the buffer, retaining its underlying storage.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// WriteTo implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf)
	return int64(n), err
}

func (b *Buffer) grow(n int) []byte {
	off := len(b.buf)
	if cap(b.buf)-off >= n {
		b.buf = b.buf[:off+n]
	} else {
		// Double the existing storage at minimum so repeated small
		// writes (one per container element) don't reallocate on
		// every call.
		newCap := ints.Max(n+2*off, off+n)
		nb := make([]byte, off+n, newCap)
		copy(nb, b.buf)
		b.buf = nb
	}
	return b.buf[off:]
}

// WriteValue appends the canonical encoding of v to the buffer.
func (b *Buffer) WriteValue(v Value) {
	switch v.kind {
	case Null:
		b.buf = append(b.buf, 'n')
	case Boolean:
		if v.b {
			b.buf = append(b.buf, 't')
		} else {
			b.buf = append(b.buf, 'f')
		}
	case Integer:
		b.buf = append(b.buf, 'i')
		b.buf = v.i.Append(b.buf, 10)
		b.buf = append(b.buf, 'e')
	case ByteString:
		b.writeCountedBytes(v.s, 0)
	case TextString:
		b.writeCountedBytes(v.s, 'u')
	case List:
		b.buf = append(b.buf, 'l')
		for i := range v.list {
			b.WriteValue(v.list[i])
		}
		b.buf = append(b.buf, 'e')
	case Dictionary:
		b.buf = append(b.buf, 'd')
		for i := range v.dict {
			b.writeCountedBytes(v.dict[i].Key.s, boolMarker(v.dict[i].Key.kind == TextString))
			b.WriteValue(v.dict[i].Value)
		}
		b.buf = append(b.buf, 'e')
	default:
		panic("bencodex: Value with invalid Kind")
	}
}

func boolMarker(isText bool) byte {
	if isText {
		return 'u'
	}
	return 0
}

// writeCountedBytes writes "<len>:<payload>" (a ByteString) or
// "u<len>:<payload>" (a TextString, marker == 'u').
func (b *Buffer) writeCountedBytes(payload []byte, marker byte) {
	if marker != 0 {
		b.buf = append(b.buf, marker)
	}
	b.buf = strconv.AppendInt(b.buf, int64(len(payload)), 10)
	b.buf = append(b.buf, ':')
	copy(b.grow(len(payload)), payload)
}

// Encode returns the canonical Bencodex encoding of v.
func Encode(v Value) []byte {
	var b Buffer
	b.WriteValue(v)
	return b.Bytes()
}

// EncodeTo writes the canonical Bencodex encoding of v to w. The only
// way this can fail is if w itself fails; the error is returned
// verbatim.
func EncodeTo(w io.Writer, v Value) error {
	var b Buffer
	b.WriteValue(v)
	_, err := b.WriteTo(w)
	return err
}
