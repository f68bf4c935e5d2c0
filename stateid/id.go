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
	"math"
	"math/bits"
)

// ID is the set of state identifier representations.
//
// The set is closed: only the types declared in this
// package satisfy ID. Implementations guarantee that
// Index never returns a value greater than MaxID and
// that MaxID never exceeds the range of uint.
type ID interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint

	// Index returns the identifier as a table index.
	Index() uint
	// MaxID returns the largest index the
	// representation can hold.
	MaxID() uint
	// Width returns the representation tag.
	Width() Width
	// Put writes the identifier into the first
	// Width().Size() bytes of b in native byte order.
	Put(b []byte)

	sealed()
}

// U8 is an 8-bit state identifier.
type U8 uint8

// U16 is a 16-bit state identifier.
type U16 uint16

// U32 is a 32-bit state identifier.
type U32 uint32

// Usize is a state identifier as wide as the
// platform's index type (uint).
type Usize uint

func (s U8) Index() uint  { return uint(s) }
func (U8) MaxID() uint    { return math.MaxUint8 }
func (U8) Width() Width   { return Width8 }
func (s U8) Put(b []byte) { b[0] = byte(s) }
func (U8) sealed()        {}

func (s U16) Index() uint  { return uint(s) }
func (U16) MaxID() uint    { return math.MaxUint16 }
func (U16) Width() Width   { return Width16 }
func (s U16) Put(b []byte) { native.PutUint16(b, uint16(s)) }
func (U16) sealed()        {}

func (s U32) Index() uint  { return uint(s) }
func (U32) MaxID() uint    { return math.MaxUint32 }
func (U32) Width() Width   { return Width32 }
func (s U32) Put(b []byte) { native.PutUint32(b, uint32(s)) }
func (U32) sealed()        {}

func (s Usize) Index() uint { return uint(s) }
func (Usize) MaxID() uint   { return math.MaxUint }
func (Usize) Width() Width  { return WidthPtr }
func (Usize) sealed()       {}

func (s Usize) Put(b []byte) {
	if bits.UintSize == 64 {
		native.PutUint64(b, uint64(s))
	} else {
		native.PutUint32(b, uint32(s))
	}
}
