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

	"github.com/SnellerInc/rxstate/ints"
)

// MaxID returns the largest index representable by S.
func MaxID[S ID]() uint {
	var s S
	return s.MaxID()
}

// Dead returns the identifier of the dead state,
// which is always zero.
func Dead[S ID]() S {
	return 0
}

// FromIndexUnchecked converts n to S without
// checking that n <= MaxID[S]().
//
// The caller must have established that bound.
// Matching code trusts identifiers as table offsets,
// so an out-of-range n (which is truncated) leads to
// reads of the wrong state or beyond the end of a
// transition table. Use FromIndex for any index that
// has not been proven to fit.
func FromIndexUnchecked[S ID](n uint) S {
	return S(n)
}

// FromIndex converts n to S, returning an
// *OverflowError if n > MaxID[S]().
func FromIndex[S ID](n uint) (S, error) {
	if max := MaxID[S](); n > max {
		return 0, &OverflowError{Max: max}
	}
	return FromIndexUnchecked[S](n), nil
}

// Next allocates the identifier that follows cur.
// Identifiers allocated this way form a gap-free
// sequence starting at Dead. Next returns an
// *OverflowError if the successor overflows uint
// or cannot be represented by S.
func Next[S ID](cur S) (S, error) {
	next, wrapped := ints.AddOverflows(cur.Index(), 1)
	if wrapped {
		return 0, &OverflowError{Max: math.MaxUint}
	}
	if max := cur.MaxID(); next > max {
		return 0, &OverflowError{Max: max}
	}
	return FromIndexUnchecked[S](next), nil
}

// CheckPremultiply checks that last*alphabetLen,
// the row offset of last in a premultiplied
// transition table, can be represented by S.
// It returns a *PremultiplyError if the product
// overflows uint or exceeds MaxID[S]().
//
// Since row offsets grow with the identifier,
// a successful check on the highest allocated
// identifier covers every identifier below it.
func CheckPremultiply[S ID](last S, alphabetLen uint) error {
	max := last.MaxID()
	requested, wrapped := ints.MulOverflows(last.Index(), alphabetLen)
	if wrapped {
		return &PremultiplyError{Max: max, Wrapped: true}
	}
	if requested > max {
		return &PremultiplyError{Max: max, Requested: requested}
	}
	return nil
}
