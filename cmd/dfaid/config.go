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

package main

import (
	"fmt"
	"log"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/rxstate/compr"
	"github.com/SnellerInc/rxstate/dfa"
	"github.com/SnellerInc/rxstate/stateid"
)

// config is the contents of a -c file.
// Command-line flags override its fields.
type config struct {
	Patterns    []string `json:"patterns"`
	Width       string   `json:"width,omitempty"`
	MaxWidth    string   `json:"maxWidth,omitempty"`
	Premultiply *bool    `json:"premultiply,omitempty"`
	ByteClasses *bool    `json:"byteClasses,omitempty"`
	Compression string   `json:"compression,omitempty"`
}

func parseConfig(buf []byte) (*config, error) {
	c := new(config)
	if err := yaml.UnmarshalStrict(buf, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

func loadConfig(path string) (*config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(buf)
}

func (c *config) patterns() [][]byte {
	out := make([][]byte, len(c.Patterns))
	for i := range c.Patterns {
		out[i] = []byte(c.Patterns[i])
	}
	return out
}

func (c *config) codec() (compr.Codec, error) {
	return compr.ParseCodec(c.Compression)
}

func (c *config) options(logger *log.Logger) ([]dfa.Option, error) {
	var opts []dfa.Option
	if c.Width != "" {
		w, err := stateid.ParseWidth(c.Width)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dfa.WithWidth(w))
	}
	if c.MaxWidth != "" {
		w, err := stateid.ParseWidth(c.MaxWidth)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dfa.WithMaxWidth(w))
	}
	if c.Premultiply != nil {
		opts = append(opts, dfa.WithPremultiply(*c.Premultiply))
	}
	if c.ByteClasses != nil {
		opts = append(opts, dfa.WithByteClasses(*c.ByteClasses))
	}
	if logger != nil {
		opts = append(opts, dfa.WithLogger(logger))
	}
	return opts, nil
}
