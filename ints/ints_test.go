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
	"math"
	"testing"
)

func TestAddOverflows(t *testing.T) {
	testcases := []struct {
		a, b     uint
		sum      uint
		overflow bool
	}{
		{0, 0, 0, false},
		{1, 2, 3, false},
		{math.MaxUint - 1, 1, math.MaxUint, false},
		{math.MaxUint, 1, 0, true},
		{math.MaxUint, math.MaxUint, math.MaxUint - 1, true},
	}
	for i := range testcases {
		tc := &testcases[i]
		sum, overflow := AddOverflows(tc.a, tc.b)
		if overflow != tc.overflow {
			t.Errorf("case %d: %d+%d overflow=%v, want %v", i, tc.a, tc.b, overflow, tc.overflow)
			continue
		}
		if sum != tc.sum {
			t.Errorf("case %d: %d+%d = %d, want %d", i, tc.a, tc.b, sum, tc.sum)
		}
	}
}

func TestMulOverflows(t *testing.T) {
	testcases := []struct {
		a, b     uint
		overflow bool
	}{
		{0, math.MaxUint, false},
		{math.MaxUint, 0, false},
		{1, math.MaxUint, false},
		{math.MaxUint, 1, false},
		{2, math.MaxUint / 2, false},
		{2, math.MaxUint/2 + 1, true},
		{math.MaxUint, math.MaxUint, true},
	}
	for i := range testcases {
		tc := &testcases[i]
		prod, overflow := MulOverflows(tc.a, tc.b)
		if overflow != tc.overflow {
			t.Errorf("case %d: %d*%d overflow=%v, want %v", i, tc.a, tc.b, overflow, tc.overflow)
			continue
		}
		if !overflow && prod != tc.a*tc.b {
			t.Errorf("case %d: %d*%d = %d", i, tc.a, tc.b, prod)
		}
	}
	// narrow types wrap at their own width
	if _, overflow := MulOverflows(uint8(16), uint8(16)); !overflow {
		t.Error("16*16 should overflow uint8")
	}
	if p, overflow := MulOverflows(uint8(15), uint8(17)); overflow || p != 255 {
		t.Errorf("15*17 = %d (overflow=%v), want 255", p, overflow)
	}
}

func TestBits(t *testing.T) {
	words := make([]uint64, ChunkCount(uint(130), 64))
	if len(words) != 3 {
		t.Fatalf("ChunkCount(130, 64) = %d, want 3", len(words))
	}
	for _, k := range []int{0, 63, 64, 129} {
		SetBit(words, k)
	}
	for k := 0; k < 130; k++ {
		want := k == 0 || k == 63 || k == 64 || k == 129
		if got := TestBit(words, k); got != want {
			t.Errorf("bit %d = %v, want %v", k, got, want)
		}
	}
}

func TestAlignUp(t *testing.T) {
	testcases := []struct {
		v, alignment, want uint
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 4, 12},
		{7, 1, 7},
	}
	for _, tc := range testcases {
		if got := AlignUp(tc.v, tc.alignment); got != tc.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tc.v, tc.alignment, got, tc.want)
		}
	}
}

func TestMax(t *testing.T) {
	if Max(3, 5) != 5 || Max(5, 3) != 5 {
		t.Error("Max")
	}
}
