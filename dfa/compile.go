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
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/rxstate/stateid"
)

// impl holds the width-specific entry points.
type impl struct {
	compile func(patterns [][]byte, o *options) (Automaton, error)
	decode  func(h *Header, payload []byte) (Automaton, error)
}

var impls = map[stateid.Width]impl{
	stateid.Width8:   {compile: compileAs[stateid.U8], decode: decodeAs[stateid.U8]},
	stateid.Width16:  {compile: compileAs[stateid.U16], decode: decodeAs[stateid.U16]},
	stateid.Width32:  {compile: compileAs[stateid.U32], decode: decodeAs[stateid.U32]},
	stateid.WidthPtr: {compile: compileAs[stateid.Usize], decode: decodeAs[stateid.Usize]},
}

func compileAs[S stateid.ID](patterns [][]byte, o *options) (Automaton, error) {
	b, err := NewBuilder[S](o.classes(patterns), o.premultiply)
	if err != nil {
		return nil, err
	}
	for _, p := range patterns {
		if err := b.Add(p); err != nil {
			return nil, err
		}
	}
	d, err := b.Build()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// normalize returns the distinct patterns in
// lexicographic order, so that equal sets always
// produce identical automata.
func normalize(patterns [][]byte) [][]byte {
	strs := make([]string, len(patterns))
	for i := range patterns {
		strs[i] = string(patterns[i])
	}
	slices.Sort(strs)
	out := make([][]byte, 0, len(strs))
	for i := range strs {
		if i > 0 && strs[i] == strs[i-1] {
			continue
		}
		out = append(out, []byte(strs[i]))
	}
	return out
}

// Compile builds an automaton matching patterns.
//
// Unless WithWidth is given, Compile starts with
// 8-bit identifiers and, whenever construction
// reports stateid.ErrOverflow or
// stateid.ErrPremultiply, discards the partial
// automaton and rebuilds it with the next wider
// representation.
func Compile(patterns [][]byte, opts ...Option) (Automaton, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return compile(normalize(patterns), &o)
}

func compile(patterns [][]byte, o *options) (Automaton, error) {
	w := stateid.Width8
	if o.width != stateid.WidthInvalid {
		w = o.width
	}
	for {
		im, ok := impls[w]
		if !ok || !w.Supported() {
			return nil, fmt.Errorf("dfa: width %s is not supported on this platform", w)
		}
		a, err := im.compile(patterns, o)
		if err == nil {
			return a, nil
		}
		if o.width != stateid.WidthInvalid ||
			!(errors.Is(err, stateid.ErrOverflow) || errors.Is(err, stateid.ErrPremultiply)) {
			return nil, fmt.Errorf("dfa: compiling %d patterns with %s ids: %w", len(patterns), w, err)
		}
		wider, ok := w.Wider()
		if !ok || (o.maxWidth != stateid.WidthInvalid && wider.MaxID() > o.maxWidth.MaxID()) {
			return nil, fmt.Errorf("dfa: compiling %d patterns: no wider representation than %s: %w", len(patterns), w, err)
		}
		o.logf("dfa: %s ids overflowed (%s); rebuilding with %s", w, err, wider)
		w = wider
	}
}
