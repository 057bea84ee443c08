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

// Package simd provides the vector primitives that back the
// structural scan: a fixed-width lane vector, equality/OR/movemask
// operations over it, and runtime dispatch across the handful of
// concrete backends a target can support. As in internal/simd of
// the wider sneller tree (which
// emulates AVX512 in portable Go), every backend here is a software
// model of the corresponding hardware instruction sequence rather
// than actual assembly: what varies between backends is lane width
// and movemask strategy, not instruction selection, so a pure-Go
// implementation behind the same interface preserves the performance
// *shape* (chunked, branch-light, bit-trick heavy) without requiring
// per-arch .s files.
package simd

// Vec32 holds up to 32 lanes (bytes). Backends with a narrower native
// width (16, or 1 for the scalar fallback) leave the upper lanes unused.
type Vec32 [32]byte

// Backend is a concrete vector primitive set for one instruction set,
// parameterized by lane width (32, 16, or 1 byte for the scalar fallback).
type Backend interface {
	// Name identifies the backend for diagnostics and backend-parity tests.
	Name() string
	// Width is the number of lanes (bytes) this backend processes per
	// call; W is 32, 16 or 1 across the concrete backends.
	Width() int
	// LoadUnaligned loads Width() bytes from p into a Vec32 (lanes
	// beyond Width() are zero).
	LoadUnaligned(p []byte) Vec32
	// CmpEqByte returns a per-lane equality mask: lane i is 0xff if
	// v[i] == b, else 0x00.
	CmpEqByte(v Vec32, b byte) Vec32
	// Or returns the bitwise OR of a and b.
	Or(a, b Vec32) Vec32
	// Movemask extracts the most-significant bit of each of the
	// first Width() lanes into a Width()-bit word.
	Movemask(v Vec32) uint32
}
