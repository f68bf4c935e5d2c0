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

// Package stateid implements the state identifiers
// used by compiled finite automata.
//
// A representation (one of U8, U16, U32, Usize or,
// on 64-bit hosts, U64) is chosen once per automaton
// and is the narrowest integer type that can name
// every state of that automaton. Matching code uses
// identifiers (and premultiplied identifiers) directly
// as offsets into transition tables without bounds
// checks, so the central invariant of this package is
//
//	0 <= id.Index() <= id.MaxID()
//
// for every identifier that is ever produced.
//
// There are two tiers of constructors. The checked
// tier (FromIndex, Next, CheckPremultiply) must be
// used wherever an index comes from arithmetic or from
// outside the automaton. FromIndexUnchecked exists for
// code that has already proven the bound; passing it
// an index larger than MaxID silently truncates and
// produces an identifier that points at the wrong
// state (or outside the table).
//
// Identifiers are encoded with Put and decoded with
// Read as fixed-width integers in the host's native
// byte order.
package stateid
