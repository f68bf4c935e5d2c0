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

import (
	"fmt"

	"github.com/SnellerInc/rxstate/ints"
	"github.com/SnellerInc/rxstate/stateid"
)

// Builder constructs a DFA that matches a set of
// literal byte strings, using identifiers of type S.
//
// States are allocated in discovery order with
// stateid.Next, starting after the dead state.
// When premultiplication is enabled, every
// allocation is followed by a premultiplication
// check, so a Builder fails on the first state
// whose row offset does not fit in S.
type Builder[S stateid.ID] struct {
	classes     ByteClasses
	alphabetLen uint
	premultiply bool

	// trans holds one row of alphabetLen
	// (not premultiplied) identifiers per state
	trans    []S
	accept   []uint64
	last     S
	start    S
	patterns int
}

// NewBuilder returns a Builder holding the dead
// state and the start state.
func NewBuilder[S stateid.ID](classes ByteClasses, premultiply bool) (*Builder[S], error) {
	if !classes.valid() {
		return nil, fmt.Errorf("dfa: byte classes are not numbered densely")
	}
	b := &Builder[S]{
		classes:     classes,
		alphabetLen: uint(classes.AlphabetLen()),
		premultiply: premultiply,
		last:        stateid.Dead[S](),
	}
	b.grow()
	start, err := b.alloc()
	if err != nil {
		return nil, err
	}
	b.start = start
	return b, nil
}

func (b *Builder[S]) grow() {
	b.trans = append(b.trans, make([]S, b.alphabetLen)...)
	if need := int(ints.ChunkCount(b.last.Index()+1, 64)); need > len(b.accept) {
		b.accept = append(b.accept, 0)
	}
}

func (b *Builder[S]) alloc() (S, error) {
	next, err := stateid.Next(b.last)
	if err != nil {
		return 0, err
	}
	if b.premultiply {
		if err := stateid.CheckPremultiply(next, b.alphabetLen); err != nil {
			return 0, err
		}
	}
	b.last = next
	b.grow()
	return next, nil
}

// Add adds a pattern. The empty pattern makes the
// start state accepting. On error the Builder must
// be discarded.
func (b *Builder[S]) Add(pattern []byte) error {
	cur := b.start
	for _, c := range pattern {
		i := cur.Index()*b.alphabetLen + uint(b.classes[c])
		next := b.trans[i]
		if next == stateid.Dead[S]() {
			var err error
			next, err = b.alloc()
			if err != nil {
				return err
			}
			b.trans[i] = next
		}
		cur = next
	}
	ints.SetBit(b.accept, cur.Index())
	b.patterns++
	return nil
}

// States returns the number of states allocated
// so far, including the dead state.
func (b *Builder[S]) States() int { return int(b.last.Index()) + 1 }

// Build returns the compiled DFA. States are
// renumbered so that accepting states directly
// follow the dead state, which lets the matcher
// test for a match with a single comparison.
func (b *Builder[S]) Build() (*DFA[S], error) {
	n := b.last.Index() + 1
	size, wrapped := ints.MulOverflows(n, b.alphabetLen)
	if wrapped {
		return nil, &stateid.OverflowError{Max: stateid.MaxID[S]()}
	}
	if b.premultiply {
		if err := stateid.CheckPremultiply(b.last, b.alphabetLen); err != nil {
			return nil, err
		}
	}
	remap := make([]uint, n)
	id := uint(1)
	for s := uint(1); s < n; s++ {
		if ints.TestBit(b.accept, s) {
			remap[s] = id
			id++
		}
	}
	maxMatch := id - 1
	for s := uint(1); s < n; s++ {
		if !ints.TestBit(b.accept, s) {
			remap[s] = id
			id++
		}
	}
	mult := uint(1)
	if b.premultiply {
		mult = b.alphabetLen
	}
	// every value below is at most (n-1)*mult,
	// which Next and CheckPremultiply have bounded
	table := make([]S, size)
	for s := uint(0); s < n; s++ {
		src := b.trans[s*b.alphabetLen : (s+1)*b.alphabetLen]
		dst := table[remap[s]*b.alphabetLen : (remap[s]+1)*b.alphabetLen]
		for c, t := range src {
			dst[c] = stateid.FromIndexUnchecked[S](remap[t.Index()] * mult)
		}
	}
	return &DFA[S]{
		classes:       b.classes,
		alphabetLen:   b.alphabetLen,
		premultiplied: b.premultiply,
		table:         table,
		start:         stateid.FromIndexUnchecked[S](remap[b.start.Index()] * mult),
		maxMatch:      stateid.FromIndexUnchecked[S](maxMatch * mult),
		states:        n,
		patterns:      b.patterns,
	}, nil
}
