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

package dfa_test

import (
	"fmt"

	"github.com/SnellerInc/rxstate/dfa"
)

func ExampleCompile() {
	a, err := dfa.Compile([][]byte{[]byte("foo"), []byte("bar"), []byte("baz")})
	if err != nil {
		panic(err)
	}
	fmt.Println(a.Width(), a.States(), a.AlphabetLen())
	fmt.Println(a.Match([]byte("bar")), a.Match([]byte("ba")))
	fmt.Println(a.Find([]byte("a foo!")))
	// Output:
	// u8 9 7
	// true false
	// 2 5 true
}
