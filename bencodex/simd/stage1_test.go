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

import "testing"

// TestStage1Completeness checks that the structural index contains
// the offset of every structural byte and no other offset, strictly
// ascending.
func TestStage1Completeness(t *testing.T) {
	input := []byte("du1:au1:5eu1:bli1ei2eee")
	for _, backend := range All {
		idx := Scan(backend, input)
		var want []uint32
		for i, b := range input {
			if IsStructural(b) {
				want = append(want, uint32(i))
			}
		}
		if len(idx) != len(want) {
			t.Fatalf("%s: got %d entries, want %d", backend.Name(), len(idx), len(want))
		}
		for i := range want {
			if idx[i] != want[i] {
				t.Fatalf("%s: entry %d = %d, want %d", backend.Name(), i, idx[i], want[i])
			}
		}
		for i := 1; i < len(idx); i++ {
			if idx[i] <= idx[i-1] {
				t.Fatalf("%s: index not strictly ascending at %d: %d <= %d", backend.Name(), i, idx[i], idx[i-1])
			}
		}
	}
}

// TestBackendParity checks that every backend produces an identical
// structural index for the same input, regardless of lane width or
// movemask strategy.
func TestBackendParity(t *testing.T) {
	inputs := [][]byte{
		[]byte("n"),
		[]byte("i-123e"),
		[]byte("3:\x01\x02\x03"),
		[]byte("u5:hello"),
		[]byte("li1ei2ei3ee"),
		[]byte("du1:au1:1u1:bu1:2e"),
		make([]byte, 97), // longer than any backend's width, exercises the tail loop
	}
	for i := range inputs[6] {
		inputs[6][i] = byte('0' + i%10)
	}

	for _, input := range inputs {
		var first Index
		for i, backend := range All {
			idx := Scan(backend, input)
			if i == 0 {
				first = idx
				continue
			}
			if len(idx) != len(first) {
				t.Fatalf("%s vs %s: length mismatch on %q: %d != %d",
					All[0].Name(), backend.Name(), input, len(first), len(idx))
			}
			for j := range idx {
				if idx[j] != first[j] {
					t.Fatalf("%s vs %s: entry %d mismatch on %q: %d != %d",
						All[0].Name(), backend.Name(), j, input, first[j], idx[j])
				}
			}
		}
	}
}

func TestIsStructural(t *testing.T) {
	for _, b := range []byte("ntfidlue:e0123456789") {
		if !IsStructural(b) {
			t.Errorf("expected %q to be structural", b)
		}
	}
	for _, b := range []byte("xyzABC ") {
		if IsStructural(b) {
			t.Errorf("expected %q to not be structural", b)
		}
	}
}
