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

package ints

import (
	"golang.org/x/exp/constraints"
)

// AddOverflows returns a+b and whether the addition
// wrapped around the range of T.
func AddOverflows[T constraints.Unsigned](a, b T) (T, bool) {
	sum := a + b
	return sum, sum < a
}

// MulOverflows returns a*b and whether the product
// wrapped around the range of T.
func MulOverflows[T constraints.Unsigned](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	prod := a * b
	return prod, prod/b != a
}
