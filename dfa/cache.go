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
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Cache memoizes compiled automata by the set of
// patterns they match. All automata in a Cache are
// compiled with the same options. A Cache is safe
// for concurrent use, and so are the automata it
// returns.
type Cache struct {
	opts options

	lock    sync.Mutex
	entries map[[blake2b.Size256]byte]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	a    Automaton
	err  error
}

// NewCache returns an empty Cache that compiles
// with opts.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		opts:    defaultOptions(),
		entries: make(map[[blake2b.Size256]byte]*cacheEntry),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Fingerprint returns a digest that identifies the
// set of patterns, independent of order and
// duplicates.
func Fingerprint(patterns [][]byte) [blake2b.Size256]byte {
	return fingerprint(normalize(patterns))
}

func fingerprint(normalized [][]byte) [blake2b.Size256]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	var lenbuf [binary.MaxVarintLen64]byte
	for _, p := range normalized {
		n := binary.PutUvarint(lenbuf[:], uint64(len(p)))
		h.Write(lenbuf[:n])
		h.Write(p)
	}
	var out [blake2b.Size256]byte
	h.Sum(out[:0])
	return out
}

// Get returns the automaton for patterns,
// compiling it on first use. Concurrent callers
// asking for the same set share one compilation.
// Failed compilations are cached as well.
func (c *Cache) Get(patterns [][]byte) (Automaton, error) {
	normalized := normalize(patterns)
	key := fingerprint(normalized)
	c.lock.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = new(cacheEntry)
		c.entries[key] = e
	}
	c.lock.Unlock()
	e.once.Do(func() {
		o := c.opts
		e.a, e.err = compile(normalized, &o)
	})
	return e.a, e.err
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.entries)
}
