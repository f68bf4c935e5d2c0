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
	"log"

	"github.com/SnellerInc/rxstate/stateid"
)

type options struct {
	width       stateid.Width
	maxWidth    stateid.Width
	premultiply bool
	byteClasses bool
	logger      *log.Logger
}

func defaultOptions() options {
	return options{
		premultiply: true,
		byteClasses: true,
	}
}

// Option configures Compile and Cache.
type Option func(o *options)

// WithWidth fixes the identifier width.
// Compile fails instead of widening when the
// automaton does not fit.
func WithWidth(w stateid.Width) Option {
	return func(o *options) {
		o.width = w
	}
}

// WithMaxWidth bounds the widths Compile
// may widen to.
func WithMaxWidth(w stateid.Width) Option {
	return func(o *options) {
		o.maxWidth = w
	}
}

// WithPremultiply selects whether transition
// tables store premultiplied row offsets.
// It is enabled by default.
func WithPremultiply(on bool) Option {
	return func(o *options) {
		o.premultiply = on
	}
}

// WithByteClasses selects whether bytes are
// grouped into classes. When disabled every
// row has 256 columns. It is enabled by default.
func WithByteClasses(on bool) Option {
	return func(o *options) {
		o.byteClasses = on
	}
}

// WithLogger sets the logger that Compile reports
// representation changes to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) logf(f string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(f, args...)
	}
}

func (o *options) classes(patterns [][]byte) ByteClasses {
	if o.byteClasses {
		return ClassesFor(patterns)
	}
	return SingletonClasses()
}
