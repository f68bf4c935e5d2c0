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
	"errors"
	"fmt"
)

var (
	// ErrOverflow is matched (via errors.Is) by
	// every *OverflowError.
	ErrOverflow = errors.New("state id overflow")
	// ErrPremultiply is matched (via errors.Is) by
	// every *PremultiplyError.
	ErrPremultiply = errors.New("premultiplied state id overflow")
)

// OverflowError is returned when an index cannot be
// represented by the chosen identifier width.
type OverflowError struct {
	// Max is the bound that was exceeded: the
	// representation's MaxID, or math.MaxUint when
	// the platform index range itself overflowed.
	Max uint
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("state id overflow: index exceeds maximum id %d", e.Max)
}

func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

// PremultiplyError is returned when the row offset
// of the last state in a premultiplied transition
// table cannot be represented.
type PremultiplyError struct {
	// Max is the representation's MaxID.
	Max uint
	// Requested is the offending row offset.
	// It is zero when Wrapped is set.
	Requested uint
	// Wrapped is set when the offset overflowed
	// the platform index type.
	Wrapped bool
}

func (e *PremultiplyError) Error() string {
	if e.Wrapped {
		return fmt.Sprintf("premultiplied state id overflow: offset wraps uint (maximum id %d)", e.Max)
	}
	return fmt.Sprintf("premultiplied state id overflow: offset %d exceeds maximum id %d", e.Requested, e.Max)
}

func (e *PremultiplyError) Is(target error) bool { return target == ErrPremultiply }
