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
	"errors"
	"fmt"
	"math"

	"github.com/dchest/siphash"
	"github.com/google/uuid"

	"github.com/SnellerInc/rxstate/compr"
	"github.com/SnellerInc/rxstate/ints"
	"github.com/SnellerInc/rxstate/stateid"
)

// Encoded automata consist of a fixed header
// followed by a (possibly compressed) payload.
// Header fields and payload scalars are little
// endian. Transition table entries are written in
// the native byte order of the encoding host, so
// an encoded automaton can only be loaded on a
// host with the same byte order.
//
// header:
//
//	[0:4]   magic
//	[4]     version
//	[5]     1 if big endian
//	[6]     stateid.Width
//	[7]     flags
//	[8]     compr.Codec
//	[16:32] build id
//	[32:40] payload length
//	[40:48] stored (compressed) length
//	[48:56] siphash of the stored payload
//
// payload:
//
//	[0:4]     alphabet length
//	[4:8]     pattern count
//	[8:16]    state count
//	[16:24]   start state
//	[24:32]   highest accepting state
//	[32:288]  byte classes
//	[aligned] transition table
const (
	magic          = "RXSD"
	version        = 1
	headerSize     = 56
	payloadPrefix  = 288
	flagPremult    = 1
	checksumKey0   = 0x736e656c6c657221
	checksumKey1   = 0x7278737461746531
	maxPayloadSize = math.MaxInt32
	// compressed payloads may not claim to expand
	// by more than this factor
	maxExpansion = 1 << 12
)

var le = binary.LittleEndian

var (
	// ErrCorrupt is matched by errors returned
	// from Unmarshal for malformed input.
	ErrCorrupt = errors.New("dfa: corrupt automaton")
	// ErrByteOrder is returned by Unmarshal when
	// the automaton was encoded on a host with a
	// different byte order.
	ErrByteOrder = errors.New("dfa: automaton was encoded with a different byte order")
)

func corrupt(f string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(f, args...))
}

// Header describes an encoded automaton.
type Header struct {
	Version       uint8
	BigEndian     bool
	Width         stateid.Width
	Premultiplied bool
	Codec         compr.Codec
	BuildID       uuid.UUID

	rawLen    uint64
	storedLen uint64
	checksum  uint64
}

// ReadHeader decodes the header of an
// encoded automaton.
func ReadHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < headerSize {
		return h, corrupt("%d bytes is too short for a header", len(buf))
	}
	if string(buf[:4]) != magic {
		return h, corrupt("bad magic %q", buf[:4])
	}
	h.Version = buf[4]
	if h.Version != version {
		return h, corrupt("unsupported version %d", h.Version)
	}
	h.BigEndian = buf[5] != 0
	h.Width = stateid.Width(buf[6])
	h.Premultiplied = buf[7]&flagPremult != 0
	h.Codec = compr.Codec(buf[8])
	copy(h.BuildID[:], buf[16:32])
	h.rawLen = le.Uint64(buf[32:])
	h.storedLen = le.Uint64(buf[40:])
	h.checksum = le.Uint64(buf[48:])
	return h, nil
}

func (h *Header) put(dst []byte) {
	copy(dst, magic)
	dst[4] = h.Version
	if h.BigEndian {
		dst[5] = 1
	}
	dst[6] = uint8(h.Width)
	if h.Premultiplied {
		dst[7] |= flagPremult
	}
	dst[8] = uint8(h.Codec)
	copy(dst[16:32], h.BuildID[:])
	le.PutUint64(dst[32:], h.rawLen)
	le.PutUint64(dst[40:], h.storedLen)
	le.PutUint64(dst[48:], h.checksum)
}

func nativeBigEndian() bool {
	return stateid.ByteOrder() == binary.ByteOrder(binary.BigEndian)
}

// Marshal encodes a with the given compression.
// Every call stamps a fresh build id.
func Marshal(a Automaton, codec compr.Codec) ([]byte, error) {
	return a.encode(codec)
}

func (d *DFA[S]) MarshalBinary() ([]byte, error) {
	return d.encode(compr.None)
}

func (d *DFA[S]) encode(codec compr.Codec) ([]byte, error) {
	size := uint(stateid.WidthOf[S]().Size())
	off := ints.AlignUp(uint(payloadPrefix), size)
	raw := make([]byte, off+uint(len(d.table))*size)
	le.PutUint32(raw[0:], uint32(d.alphabetLen))
	le.PutUint32(raw[4:], uint32(d.patterns))
	le.PutUint64(raw[8:], uint64(d.states))
	le.PutUint64(raw[16:], uint64(d.start.Index()))
	le.PutUint64(raw[24:], uint64(d.maxMatch.Index()))
	copy(raw[32:payloadPrefix], d.classes[:])
	for i, s := range d.table {
		s.Put(raw[off+uint(i)*size:])
	}

	stored := raw
	if codec != compr.None {
		c := codec.Compressor()
		if c == nil {
			return nil, fmt.Errorf("dfa: no compressor for %s", codec)
		}
		stored = c.Compress(raw, nil)
	}
	h := Header{
		Version:       version,
		BigEndian:     nativeBigEndian(),
		Width:         d.Width(),
		Premultiplied: d.premultiplied,
		Codec:         codec,
		BuildID:       uuid.New(),
		rawLen:        uint64(len(raw)),
		storedLen:     uint64(len(stored)),
		checksum:      siphash.Hash(checksumKey0, checksumKey1, stored),
	}
	out := make([]byte, headerSize, headerSize+len(stored))
	h.put(out)
	return append(out, stored...), nil
}

// Unmarshal decodes an automaton produced by
// Marshal or MarshalBinary. Every identifier in
// the encoded table is validated, so a successfully
// decoded automaton is as safe to match with as a
// freshly compiled one.
func Unmarshal(buf []byte) (Automaton, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.BigEndian != nativeBigEndian() {
		return nil, ErrByteOrder
	}
	im, ok := impls[h.Width]
	if !ok || !h.Width.Supported() {
		return nil, fmt.Errorf("dfa: width %s is not supported on this platform", h.Width)
	}
	stored := buf[headerSize:]
	if uint64(len(stored)) != h.storedLen {
		return nil, corrupt("stored length %d, header says %d", len(stored), h.storedLen)
	}
	if siphash.Hash(checksumKey0, checksumKey1, stored) != h.checksum {
		return nil, corrupt("checksum mismatch")
	}
	if h.rawLen > maxPayloadSize {
		return nil, corrupt("payload length %d too large", h.rawLen)
	}
	payload := stored
	if h.Codec == compr.None {
		if h.rawLen != h.storedLen {
			return nil, corrupt("uncompressed payload length mismatch")
		}
	} else {
		dec := h.Codec.Decompressor()
		if dec == nil {
			return nil, corrupt("unknown compression %s", h.Codec)
		}
		if h.rawLen/maxExpansion > h.storedLen {
			return nil, corrupt("payload length %d exceeds %d times the stored length %d", h.rawLen, maxExpansion, h.storedLen)
		}
		payload = make([]byte, h.rawLen)
		if err := dec.Decompress(stored, payload); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCorrupt, err)
		}
	}
	return im.decode(&h, payload)
}

func decodeAs[S stateid.ID](h *Header, payload []byte) (Automaton, error) {
	d, err := decodeDFA[S](h, payload)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func decodeDFA[S stateid.ID](h *Header, payload []byte) (*DFA[S], error) {
	if len(payload) < payloadPrefix {
		return nil, corrupt("payload too short")
	}
	alen := uint(le.Uint32(payload[0:]))
	patterns := le.Uint32(payload[4:])
	states := le.Uint64(payload[8:])
	d := &DFA[S]{
		alphabetLen:   alen,
		premultiplied: h.Premultiplied,
		patterns:      int(patterns),
	}
	copy(d.classes[:], payload[32:payloadPrefix])
	if alen == 0 || alen > 256 || !d.classes.valid() || uint(d.classes.AlphabetLen()) != alen {
		return nil, corrupt("bad byte classes for alphabet length %d", alen)
	}
	if states < 2 || states-1 > uint64(math.MaxUint) {
		return nil, corrupt("bad state count %d", states)
	}
	last, err := stateid.FromIndex[S](uint(states - 1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	d.states = last.Index() + 1
	mult := uint(1)
	if d.premultiplied {
		if err := stateid.CheckPremultiply(last, alen); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCorrupt, err)
		}
		mult = alen
	}

	// state validates an encoded identifier
	state := func(raw uint64) (S, error) {
		if raw > uint64(math.MaxUint) {
			return 0, corrupt("state %d out of range", raw)
		}
		s, err := stateid.FromIndex[S](uint(raw))
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrCorrupt, err)
		}
		if s.Index()%mult != 0 || s.Index()/mult >= d.states {
			return 0, corrupt("state %d is not a state of the automaton", raw)
		}
		return s, nil
	}
	if d.start, err = state(le.Uint64(payload[16:])); err != nil {
		return nil, err
	}
	if d.maxMatch, err = state(le.Uint64(payload[24:])); err != nil {
		return nil, err
	}

	size := uint(stateid.WidthOf[S]().Size())
	off := ints.AlignUp(uint(payloadPrefix), size)
	count, wrapped := ints.MulOverflows(d.states, alen)
	if wrapped {
		return nil, corrupt("table size overflows")
	}
	tableBytes, wrapped := ints.MulOverflows(count, size)
	if wrapped {
		return nil, corrupt("table size overflows")
	}
	if end, wrapped := ints.AddOverflows(off, tableBytes); wrapped || end != uint(len(payload)) {
		return nil, corrupt("payload is %d bytes, want table of %d bytes at offset %d", len(payload), tableBytes, off)
	}
	d.table = make([]S, count)
	for i := range d.table {
		s, err := state(uint64(stateid.Read[S](payload[off+uint(i)*size:]).Index()))
		if err != nil {
			return nil, err
		}
		if uint(i) < alen && s != stateid.Dead[S]() {
			return nil, corrupt("dead state has a live transition")
		}
		d.table[i] = s
	}
	return d, nil
}
