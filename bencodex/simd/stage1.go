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

package simd

import (
	"math/bits"

	"github.com/sneller-labs/bencodex/internal/ints"
)

// structuralSingles is every structural byte apart from the ASCII
// digit range, which is handled as a contiguous run below.
var structuralSingles = [...]byte{'n', 't', 'f', 'i', 'l', 'd', 'u', ':', 'e'}

// IsStructural reports whether b is a structural byte: a type marker,
// delimiter, or digit that Stage 1 indexes.
func IsStructural(b byte) bool {
	for _, c := range structuralSingles {
		if b == c {
			return true
		}
	}
	return b >= '0' && b <= '9'
}

func structuralMask(backend Backend, v Vec32) Vec32 {
	var m Vec32
	for _, c := range structuralSingles {
		m = backend.Or(m, backend.CmpEqByte(v, c))
	}
	// digits 0-9: OR-reduce cmpeq against each digit rather than a
	// range predicate, since the primitive set only exposes per-byte
	// equality.
	for d := byte('0'); d <= '9'; d++ {
		m = backend.Or(m, backend.CmpEqByte(v, d))
	}
	return m
}

// Index is the ordered sequence of absolute byte offsets Stage 1
// produces. It is a superset of the true structural byte positions:
// some entries may point inside a ByteString/TextString payload.
// Stage 2 is responsible for skipping those via advancePastPayload.
type Index []uint32

// Scan runs the two-part Stage 1 structural scan over input using
// backend: a chunk loop of backend.Width() bytes handled with the
// vector primitives, followed by a scalar tail loop over the final
// len(input) % Width() bytes. The returned Index is strictly
// ascending.
func Scan(backend Backend, input []byte) Index {
	w := backend.Width()
	var idx Index
	pos := 0
	if w > 1 {
		// chunked is the largest prefix of input that divides evenly
		// into w-byte lanes; the remainder is handled by the scalar
		// tail loop below.
		chunked := ints.AlignDown(uint(len(input)), uint(w))
		for ; pos < int(chunked); pos += w {
			v := backend.LoadUnaligned(input[pos : pos+w])
			mask := structuralMask(backend, v)
			word := backend.Movemask(mask)
			for word != 0 {
				tz := bits.TrailingZeros32(word)
				idx = append(idx, uint32(pos+tz))
				word &= word - 1 // clear lowest set bit
			}
		}
	}
	for ; pos < len(input); pos++ {
		if IsStructural(input[pos]) {
			idx = append(idx, uint32(pos))
		}
	}
	return idx
}
