// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package stateid

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

var native binary.ByteOrder = binary.LittleEndian

func init() {
	if cpu.IsBigEndian {
		native = binary.BigEndian
	}
}

// ByteOrder returns the host's native byte order,
// which is the order used by Read and Put.
func ByteOrder() binary.ByteOrder { return native }

// Read decodes an identifier from the first
// WidthOf[S]().Size() bytes of b.
// The caller guarantees that b is long enough.
func Read[S ID](b []byte) S {
	switch WidthOf[S]().Size() {
	case 1:
		return S(b[0])
	case 2:
		return S(native.Uint16(b))
	case 4:
		return S(native.Uint32(b))
	default:
		return S(native.Uint64(b))
	}
}
