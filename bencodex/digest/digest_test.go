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

package digest_test

import (
	"testing"

	"github.com/sneller-labs/bencodex/bencodex"
	"github.com/sneller-labs/bencodex/bencodex/digest"
)

func TestKeyedIsDeterministic(t *testing.T) {
	key := [16]byte{1, 2, 3, 4}
	v := bencodex.ListValue([]bencodex.Value{bencodex.IntValue(1), bencodex.TextValue("x")})
	a := digest.Keyed(key, v)
	b := digest.Keyed(key, v)
	if a != b {
		t.Fatalf("Keyed is not deterministic: %d != %d", a, b)
	}
}

func TestKeyedDependsOnKey(t *testing.T) {
	v := bencodex.TextValue("same value")
	a := digest.Keyed([16]byte{1}, v)
	b := digest.Keyed([16]byte{2}, v)
	if a == b {
		t.Fatalf("Keyed produced the same digest under different keys")
	}
}

func TestContentIsDeterministicAndValueDependent(t *testing.T) {
	v1 := bencodex.IntValue(1)
	v2 := bencodex.IntValue(2)
	if digest.Content(v1) != digest.Content(v1) {
		t.Fatalf("Content is not deterministic")
	}
	if digest.Content(v1) == digest.Content(v2) {
		t.Fatalf("Content collided for distinct values")
	}
}
