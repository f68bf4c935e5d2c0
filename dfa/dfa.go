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

// Package dfa compiles sets of literal byte
// strings into dense deterministic automata whose
// states are named by the narrowest stateid
// representation that fits.
//
// A compiled automaton is immutable and may be
// used by any number of goroutines at once.
package dfa

import (
	"github.com/SnellerInc/rxstate/compr"
	"github.com/SnellerInc/rxstate/stateid"
)

// Automaton is a compiled DFA with its identifier
// width erased. Every Automaton is a *DFA[S] for
// one of the stateid representations.
type Automaton interface {
	// Match reports whether b is exactly one of
	// the patterns.
	Match(b []byte) bool
	// LongestPrefix returns the length of the
	// longest pattern that is a prefix of b.
	LongestPrefix(b []byte) (int, bool)
	// Find returns the leftmost-longest occurrence
	// of a pattern in b.
	Find(b []byte) (start, end int, ok bool)

	// Width returns the identifier representation.
	Width() stateid.Width
	// States returns the number of states,
	// including the dead state.
	States() int
	// Patterns returns the number of patterns
	// the automaton was built from.
	Patterns() int
	AlphabetLen() int
	Premultiplied() bool

	// MarshalBinary encodes the automaton without
	// compression. See Marshal.
	MarshalBinary() ([]byte, error)

	encode(codec compr.Codec) ([]byte, error)
}

// DFA is a dense transition table indexed by
// identifiers of type S.
type DFA[S stateid.ID] struct {
	classes       ByteClasses
	alphabetLen   uint
	premultiplied bool
	// table has alphabetLen entries per state;
	// when premultiplied, entries are row offsets
	table    []S
	start    S
	maxMatch S
	states   uint
	patterns int
}

func (d *DFA[S]) Width() stateid.Width { return stateid.WidthOf[S]() }
func (d *DFA[S]) States() int          { return int(d.states) }
func (d *DFA[S]) Patterns() int        { return d.patterns }
func (d *DFA[S]) AlphabetLen() int     { return int(d.alphabetLen) }
func (d *DFA[S]) Premultiplied() bool  { return d.premultiplied }

// Start returns the start state.
func (d *DFA[S]) Start() S { return d.start }

// Next returns the state reached from s on c.
// s must be a state of d.
func (d *DFA[S]) Next(s S, c byte) S {
	if d.premultiplied {
		return d.table[s.Index()+uint(d.classes[c])]
	}
	return d.table[s.Index()*d.alphabetLen+uint(d.classes[c])]
}

// IsDead reports whether s is the dead state.
func (d *DFA[S]) IsDead(s S) bool { return s == stateid.Dead[S]() }

// IsMatch reports whether s is accepting.
// Accepting states are numbered directly after
// the dead state.
func (d *DFA[S]) IsMatch(s S) bool {
	return s != stateid.Dead[S]() && s <= d.maxMatch
}

func (d *DFA[S]) Match(b []byte) bool {
	s := d.start
	for _, c := range b {
		s = d.Next(s, c)
		if d.IsDead(s) {
			return false
		}
	}
	return d.IsMatch(s)
}

func (d *DFA[S]) LongestPrefix(b []byte) (int, bool) {
	s := d.start
	end, ok := 0, d.IsMatch(s)
	for i, c := range b {
		s = d.Next(s, c)
		if d.IsDead(s) {
			break
		}
		if d.IsMatch(s) {
			end, ok = i+1, true
		}
	}
	return end, ok
}

func (d *DFA[S]) Find(b []byte) (start, end int, ok bool) {
	for i := 0; i <= len(b); i++ {
		if n, ok := d.LongestPrefix(b[i:]); ok {
			return i, i + n, true
		}
	}
	return 0, 0, false
}
