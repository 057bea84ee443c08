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

func TestDirectAndNeonMovemaskAgree(t *testing.T) {
	var v Vec32
	for i := range v {
		if i%3 == 0 {
			v[i] = 0x80
		}
	}
	for _, width := range []int{16, 32} {
		want := directMovemask(v, width)
		got := neonMovemask(v, width)
		if got != want {
			t.Fatalf("width %d: neonMovemask = %#x, want %#x", width, got, want)
		}
	}
}

func TestDetectReturnsUsableBackend(t *testing.T) {
	b := Detect()
	if b == nil {
		t.Fatalf("Detect returned nil")
	}
	if b.Width() != 1 && b.Width() != 16 && b.Width() != 32 {
		t.Fatalf("unexpected width %d from backend %s", b.Width(), b.Name())
	}
	again := Detect()
	if again.Name() != b.Name() {
		t.Fatalf("Detect is not stable across calls: %s then %s", b.Name(), again.Name())
	}
}
