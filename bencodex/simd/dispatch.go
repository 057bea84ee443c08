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
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// detected caches the process-wide backend selection. Initialization
// happens exactly once, the way vm.avx512level/internal/aes's hash
// engine dispatch cache their CPU feature check: a sync.Once guards
// the race, and every call after the first reads the cached value
// without synchronization.
var (
	once     sync.Once
	detected Backend
)

// Detect returns the best Backend the current process can use. The
// selection happens once per process and is safe to call from any
// number of goroutines concurrently.
func Detect() Backend {
	once.Do(func() {
		detected = detect()
	})
	return detected
}

func detect() Backend {
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasAVX2 {
			return avx2Backend{}
		}
		if cpu.X86.HasSSE42 {
			return sse42Backend{}
		}
		return scalarBackend{}
	case "arm64":
		return neonBackend{}
	default:
		return scalarBackend{}
	}
}
