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
	"fmt"
	"math"
	"math/bits"

	"github.com/SnellerInc/rxstate/ints"
)

// Width names one of the identifier representations.
// It is the run-time counterpart of the ID type
// parameter and is what gets recorded when an
// automaton is persisted.
type Width uint8

const (
	// WidthInvalid is the zero Width.
	WidthInvalid Width = iota
	Width8             // U8
	Width16            // U16
	Width32            // U32
	Width64            // U64; 64-bit hosts only
	WidthPtr           // Usize
)

// WidthOf returns the Width of the representation S.
func WidthOf[S ID]() Width {
	var s S
	return s.Width()
}

// Supported returns whether w can be instantiated
// on this host.
func (w Width) Supported() bool {
	switch w {
	case Width8, Width16, Width32, WidthPtr:
		return true
	case Width64:
		return bits.UintSize == 64
	default:
		return false
	}
}

// Size returns the number of bytes in the encoding
// of an identifier of width w, or 0 if w is invalid.
func (w Width) Size() int {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	case Width32:
		return 4
	case Width64:
		return 8
	case WidthPtr:
		return bits.UintSize / 8
	default:
		return 0
	}
}

// MaxID returns the largest index representable
// with width w, or 0 if w is invalid or unsupported.
func (w Width) MaxID() uint {
	switch w {
	case Width8:
		return math.MaxUint8
	case Width16:
		return math.MaxUint16
	case Width32:
		return math.MaxUint32
	case Width64:
		if bits.UintSize != 64 {
			return 0
		}
		return math.MaxUint
	case WidthPtr:
		return math.MaxUint
	default:
		return 0
	}
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "u8"
	case Width16:
		return "u16"
	case Width32:
		return "u32"
	case Width64:
		return "u64"
	case WidthPtr:
		return "usize"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// ParseWidth parses the name of a width as
// produced by Width.String. It also accepts
// the bit counts "8", "16", "32" and "64".
func ParseWidth(s string) (Width, error) {
	var w Width
	switch s {
	case "u8", "8":
		w = Width8
	case "u16", "16":
		w = Width16
	case "u32", "32":
		w = Width32
	case "u64", "64":
		w = Width64
	case "usize", "ptr":
		w = WidthPtr
	default:
		return WidthInvalid, fmt.Errorf("stateid: unknown width %q", s)
	}
	if !w.Supported() {
		return WidthInvalid, fmt.Errorf("stateid: width %s is not supported on this platform", w)
	}
	return w, nil
}

// Widths returns the widths that are distinct
// choices on this host, narrowest first. Usize
// is omitted because it always has the same range
// as the widest entry.
func Widths() []Width {
	if bits.UintSize == 64 {
		return []Width{Width8, Width16, Width32, Width64}
	}
	return []Width{Width8, Width16, Width32}
}

// Wider returns the narrowest width whose range
// is strictly larger than that of w, and false if
// there is none.
func (w Width) Wider() (Width, bool) {
	max := w.MaxID()
	for _, c := range Widths() {
		if c.MaxID() > max {
			return c, true
		}
	}
	return WidthInvalid, false
}

// Narrowest returns the narrowest width that can
// name every state up to lastIndex and, if
// premultiplied is set, every row offset up to
// lastIndex*alphabetLen.
func Narrowest(lastIndex, alphabetLen uint, premultiplied bool) (Width, error) {
	need := lastIndex
	if premultiplied {
		max, wrapped := ints.MulOverflows(lastIndex, alphabetLen)
		if wrapped {
			return WidthInvalid, &PremultiplyError{Max: math.MaxUint, Wrapped: true}
		}
		need = max
	}
	for _, w := range Widths() {
		if need <= w.MaxID() {
			return w, nil
		}
	}
	// unreachable: the widest width holds math.MaxUint
	return WidthInvalid, &OverflowError{Max: math.MaxUint}
}
