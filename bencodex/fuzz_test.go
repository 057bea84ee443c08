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

import "testing"

// FuzzDecodeEquivalence checks that for every byte sequence, Decode
// and DecodeSIMD return the same value or the same error Kind, even
// for inputs that aren't valid Bencodex at all.
func FuzzDecodeEquivalence(f *testing.F) {
	seeds := []string{
		"n", "t", "f",
		"i0e", "i-1e", "i03e", "i-0e",
		"3:abc", "u5:hello", "u2:\xff\xfe",
		"li1ei2eee", "le",
		"du1:au1:1u1:bu1:2e",
		"d1:au1:au1:bu1:be",
		"du1:bu1:2u1:au1:1e",
		"de", "", "x", "i",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		b := []byte(s)
		v1, err1 := Decode(b)
		v2, err2 := DecodeSIMD(b)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("Decode/DecodeSIMD disagree on success for %q: %v vs %v", b, err1, err2)
		}
		if err1 != nil {
			k1, ok1 := KindOf(err1)
			k2, ok2 := KindOf(err2)
			if !ok1 || !ok2 || k1 != k2 {
				t.Fatalf("error kind mismatch for %q: %v vs %v", b, err1, err2)
			}
			return
		}
		if !v1.Equal(v2) {
			t.Fatalf("decoded value mismatch for %q: %v vs %v", b, v1, v2)
		}
	})
}
