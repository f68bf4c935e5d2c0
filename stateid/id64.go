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

//go:build amd64 || arm64 || loong64 || mips64 || mips64le || ppc64 || ppc64le || riscv64 || s390x || wasm

package stateid

import (
	"math"
	"math/bits"
)

// U64 is a 64-bit state identifier. It only exists
// on hosts whose uint can hold every uint64.
type U64 uint64

// fails to compile if uint is narrower than 64 bits
var _ [bits.UintSize - 64]struct{}

func (s U64) Index() uint  { return uint(s) }
func (U64) MaxID() uint    { return math.MaxUint }
func (U64) Width() Width   { return Width64 }
func (s U64) Put(b []byte) { native.PutUint64(b, uint64(s)) }
func (U64) sealed()        {}
