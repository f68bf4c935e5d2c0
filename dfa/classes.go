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

package dfa

// ByteClasses maps every input byte to the
// column of a transition table row. Bytes that
// no pattern can distinguish share a class, so
// the alphabet length (row width) is usually far
// smaller than 256.
type ByteClasses [256]uint8

// SingletonClasses gives every byte its own class.
func SingletonClasses() ByteClasses {
	var bc ByteClasses
	for i := range bc {
		bc[i] = uint8(i)
	}
	return bc
}

// ClassesFor returns the byte classes for a set of
// literal patterns: every byte that occurs in a
// pattern gets a class of its own, and all other
// bytes share class 0.
func ClassesFor(patterns [][]byte) ByteClasses {
	var seen [256]bool
	for _, p := range patterns {
		for _, b := range p {
			seen[b] = true
		}
	}
	used := 0
	for i := range seen {
		if seen[i] {
			used++
		}
	}
	if used == len(seen) {
		return SingletonClasses()
	}
	var bc ByteClasses
	class := 0
	for i := range seen {
		if seen[i] {
			class++
			bc[i] = uint8(class)
		}
	}
	return bc
}

// AlphabetLen returns the number of distinct
// classes, which is the width of a transition
// table row.
func (bc *ByteClasses) AlphabetLen() int {
	max := 0
	for _, c := range bc {
		if int(c) > max {
			max = int(c)
		}
	}
	return max + 1
}

// valid returns whether the classes are numbered
// densely from 0, which is what AlphabetLen assumes.
func (bc *ByteClasses) valid() bool {
	var used [256]bool
	for _, c := range bc {
		used[c] = true
	}
	n := bc.AlphabetLen()
	for i := 0; i < n; i++ {
		if !used[i] {
			return false
		}
	}
	return true
}
