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
	"bytes"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/SnellerInc/rxstate/stateid"
)

func naiveMatch(patterns [][]byte, b []byte) bool {
	for _, p := range patterns {
		if bytes.Equal(p, b) {
			return true
		}
	}
	return false
}

func naiveLongestPrefix(patterns [][]byte, b []byte) (int, bool) {
	end, ok := 0, false
	for _, p := range patterns {
		if bytes.HasPrefix(b, p) && (!ok || len(p) > end) {
			end, ok = len(p), true
		}
	}
	return end, ok
}

func naiveFind(patterns [][]byte, b []byte) (int, int, bool) {
	for i := 0; i <= len(b); i++ {
		if n, ok := naiveLongestPrefix(patterns, b[i:]); ok {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

func randomBytes(rng *rand.Rand, alphabet string, max int) []byte {
	out := make([]byte, rng.Intn(max+1))
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return out
}

func checkAgainstNaive(t *testing.T, a Automaton, patterns [][]byte, inputs [][]byte) {
	t.Helper()
	for _, in := range inputs {
		if got, want := a.Match(in), naiveMatch(patterns, in); got != want {
			t.Fatalf("%s: Match(%q) = %v, want %v", a.Width(), in, got, want)
		}
		gotN, gotOK := a.LongestPrefix(in)
		wantN, wantOK := naiveLongestPrefix(patterns, in)
		if gotN != wantN || gotOK != wantOK {
			t.Fatalf("%s: LongestPrefix(%q) = %d, %v, want %d, %v", a.Width(), in, gotN, gotOK, wantN, wantOK)
		}
		gs, ge, gok := a.Find(in)
		ws, we, wok := naiveFind(patterns, in)
		if gs != ws || ge != we || gok != wok {
			t.Fatalf("%s: Find(%q) = %d, %d, %v, want %d, %d, %v", a.Width(), in, gs, ge, gok, ws, we, wok)
		}
	}
}

func TestClassesFor(t *testing.T) {
	bc := ClassesFor([][]byte{[]byte("abc"), []byte("cab")})
	if n := bc.AlphabetLen(); n != 4 {
		t.Fatalf("AlphabetLen() = %d, want 4", n)
	}
	if bc['x'] != 0 || bc['a'] == 0 || bc['a'] == bc['b'] {
		t.Fatalf("unexpected classes a=%d b=%d x=%d", bc['a'], bc['b'], bc['x'])
	}
	if !bc.valid() {
		t.Fatal("classes should be valid")
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	bc = ClassesFor([][]byte{all})
	if bc != SingletonClasses() {
		t.Fatal("using every byte should produce singleton classes")
	}
	bc = ClassesFor([][]byte{all[1:]})
	if n := bc.AlphabetLen(); n != 256 {
		t.Fatalf("AlphabetLen() = %d, want 256", n)
	}
	bc = ClassesFor(nil)
	if n := bc.AlphabetLen(); n != 1 {
		t.Fatalf("AlphabetLen() = %d, want 1", n)
	}
	bc = ByteClasses{}
	bc[3] = 2
	if bc.valid() {
		t.Fatal("classes skipping 1 should be invalid")
	}
}

func TestBuilder(t *testing.T) {
	patterns := [][]byte{[]byte("ab"), []byte("ac")}
	b, err := NewBuilder[stateid.U8](ClassesFor(patterns), true)
	if err != nil {
		t.Fatal(err)
	}
	if b.States() != 2 {
		t.Fatalf("new builder has %d states", b.States())
	}
	for _, p := range patterns {
		if err := b.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	// dead, start, a, ab, ac
	if b.States() != 5 {
		t.Fatalf("States() = %d, want 5", b.States())
	}
	d, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if d.Width() != stateid.Width8 || !d.Premultiplied() || d.AlphabetLen() != 4 {
		t.Fatalf("width=%s premultiplied=%v alphabet=%d", d.Width(), d.Premultiplied(), d.AlphabetLen())
	}
	checkAgainstNaive(t, d, patterns, [][]byte{
		nil, []byte("a"), []byte("ab"), []byte("ac"), []byte("abc"), []byte("xab"),
	})
	// accepting states directly follow the dead state
	alen := uint(d.AlphabetLen())
	for _, s := range d.table {
		if s.Index()%alen != 0 || s.Index()/alen >= uint(d.States()) {
			t.Fatalf("table entry %d is not a row offset", s)
		}
	}
	if d.maxMatch.Index() != 2*alen {
		t.Fatalf("maxMatch = %d, want %d", d.maxMatch, 2*alen)
	}
	if !d.IsDead(d.Next(d.Start(), 'x')) {
		t.Fatal("unknown byte should lead to the dead state")
	}
}

func TestNewBuilderPremultiplyOverflow(t *testing.T) {
	// the start state's row begins at 1*256
	_, err := NewBuilder[stateid.U8](SingletonClasses(), true)
	var pe *stateid.PremultiplyError
	if !errors.As(err, &pe) {
		t.Fatalf("NewBuilder[U8] = %v", err)
	}
	if pe.Max != 255 || pe.Requested != 256 {
		t.Fatalf("unexpected error %+v", pe)
	}
	if _, err := NewBuilder[stateid.U8](SingletonClasses(), false); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBuilder[stateid.U16](SingletonClasses(), true); err != nil {
		t.Fatal(err)
	}
}

func TestBuilderEagerOverflow(t *testing.T) {
	b, err := NewBuilder[stateid.U8](SingletonClasses(), false)
	if err != nil {
		t.Fatal(err)
	}
	var i int
	for i = 0; i < 300; i++ {
		if err = b.Add([]byte{byte(i / 256), byte(i)}); err != nil {
			break
		}
	}
	if !errors.Is(err, stateid.ErrOverflow) {
		t.Fatalf("Add returned %v", err)
	}
	// dead, start, 0x00 and one state per pattern
	if b.States() != 256 || i != 253 {
		t.Fatalf("failed after %d patterns with %d states", i, b.States())
	}
}

func gridPatterns(rows, cols int) [][]byte {
	var out [][]byte
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, []byte{'a' + byte(i), 'A' + byte(j)})
		}
	}
	return out
}

func TestCompileWidening(t *testing.T) {
	var logbuf bytes.Buffer
	a, err := Compile([][]byte{[]byte("a")},
		WithByteClasses(false),
		WithLogger(log.New(&logbuf, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	if a.Width() != stateid.Width16 {
		t.Fatalf("Width() = %s, want u16", a.Width())
	}
	if !strings.Contains(logbuf.String(), "rebuilding with u16") {
		t.Fatalf("unexpected log output %q", logbuf.String())
	}
	a, err = Compile([][]byte{[]byte("a")}, WithByteClasses(false), WithPremultiply(false))
	if err != nil {
		t.Fatal(err)
	}
	if a.Width() != stateid.Width8 || a.Premultiplied() {
		t.Fatalf("Width() = %s, premultiplied = %v", a.Width(), a.Premultiplied())
	}

	patterns := gridPatterns(20, 15)
	a, err = Compile(patterns)
	if err != nil {
		t.Fatal(err)
	}
	if a.Width() != stateid.Width16 || a.States() != 322 || a.Patterns() != 300 {
		t.Fatalf("width=%s states=%d patterns=%d", a.Width(), a.States(), a.Patterns())
	}
	checkAgainstNaive(t, a, patterns, [][]byte{[]byte("aA"), []byte("tN"), []byte("tO"), []byte("xxbBx")})
}

func TestCompileFixedWidth(t *testing.T) {
	patterns := gridPatterns(20, 15)
	_, err := Compile(patterns, WithWidth(stateid.Width8))
	if !errors.Is(err, stateid.ErrPremultiply) {
		t.Fatalf("premultiplied u8: %v", err)
	}
	_, err = Compile(patterns, WithWidth(stateid.Width8), WithPremultiply(false))
	if !errors.Is(err, stateid.ErrOverflow) {
		t.Fatalf("u8: %v", err)
	}
	_, err = Compile(patterns, WithMaxWidth(stateid.Width8))
	if !errors.Is(err, stateid.ErrPremultiply) {
		t.Fatalf("max u8: %v", err)
	}
	a, err := Compile(patterns, WithWidth(stateid.WidthPtr))
	if err != nil {
		t.Fatal(err)
	}
	if a.Width() != stateid.WidthPtr {
		t.Fatalf("Width() = %s", a.Width())
	}
	if _, err := Compile(patterns, WithWidth(stateid.WidthInvalid+100)); err == nil {
		t.Fatal("expected error for bogus width")
	}
}

func TestEmptyAndMissing(t *testing.T) {
	a, err := Compile([][]byte{{}})
	if err != nil {
		t.Fatal(err)
	}
	if !a.Match(nil) || a.Match([]byte("x")) {
		t.Fatal("empty pattern should only match empty input")
	}
	if n, ok := a.LongestPrefix([]byte("xyz")); !ok || n != 0 {
		t.Fatalf("LongestPrefix = %d, %v", n, ok)
	}
	a, err = Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Match(nil) || a.States() != 2 {
		t.Fatalf("no patterns: Match(nil)=%v states=%d", a.Match(nil), a.States())
	}
	if _, _, ok := a.Find([]byte("abc")); ok {
		t.Fatal("Find should fail without patterns")
	}
}

func TestCompileRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		var patterns [][]byte
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			patterns = append(patterns, randomBytes(rng, "abcd", 6))
		}
		var inputs [][]byte
		for i := 0; i < 50; i++ {
			inputs = append(inputs, randomBytes(rng, "abcde", 10))
		}
		inputs = append(inputs, patterns...)
		for _, premultiply := range []bool{true, false} {
			a, err := Compile(patterns, WithPremultiply(premultiply))
			if err != nil {
				t.Fatal(err)
			}
			checkAgainstNaive(t, a, patterns, inputs)
			for _, w := range stateid.Widths() {
				a, err := Compile(patterns, WithPremultiply(premultiply), WithWidth(w))
				if err != nil {
					if w == stateid.Width8 && errors.Is(err, stateid.ErrPremultiply) {
						continue
					}
					t.Fatalf("%s: %s", w, err)
				}
				checkAgainstNaive(t, a, patterns, inputs)
			}
		}
	}
}

func TestConcurrentMatch(t *testing.T) {
	patterns := gridPatterns(10, 10)
	a, err := Compile(patterns)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				in := []byte{'a' + byte((g+i)%12), 'A' + byte(i%12)}
				if a.Match(in) != naiveMatch(patterns, in) {
					errs <- string(in)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("mismatch on %q", in)
	}
}
