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

// Package digest derives fingerprints from the canonical encoding of
// a Bencodex value. Canonical dictionary key ordering exists so that
// a given value has exactly one byte form, which makes that byte
// form directly usable for hashing and content addressing; this
// package is that usable form. Both functions
// encode the value themselves rather than accepting pre-encoded
// bytes, so a caller can never produce a digest over a non-canonical
// byte sequence.
package digest

import (
	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"

	"github.com/sneller-labs/bencodex/bencodex"
)

// Keyed returns a fast, keyed, non-cryptographic 64-bit fingerprint of
// v's canonical encoding. Two equal Values under the same key always
// produce the same fingerprint, and the key prevents an adversary who
// doesn't know it from predicting collisions — suitable for in-memory
// sets, hash joins and Bloom filters over decoded values, not for
// content addressing across untrusted parties.
func Keyed(key [16]byte, v bencodex.Value) uint64 {
	k0 := leUint64(key[0:8])
	k1 := leUint64(key[8:16])
	return siphash.Hash(k0, k1, bencodex.Encode(v))
}

// Content returns a 256-bit BLAKE2b digest of v's canonical encoding,
// suitable as a content address: it does not depend on a key, a
// process, or a machine, only on the value itself.
func Content(v bencodex.Value) [32]byte {
	return blake2b.Sum256(bencodex.Encode(v))
}

func leUint64(b []byte) uint64 {
	var u uint64
	for i := 7; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return u
}
