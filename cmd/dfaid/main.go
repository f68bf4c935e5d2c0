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

// Command dfaid compiles sets of literal patterns
// into automata and reports the state identifier
// width they need. It can also load a compiled
// automaton and match inputs against it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SnellerInc/rxstate/dfa"
	"github.com/SnellerInc/rxstate/ints"
)

var (
	dashc string
	dashw string
	dashW string
	dashp bool
	dashb bool
	dashz string
	dasho string
	dashm string
	dashv bool
)

func init() {
	flag.StringVar(&dashc, "c", "", "YAML config file")
	flag.StringVar(&dashw, "w", "", "fixed state id width (u8, u16, u32, u64, usize)")
	flag.StringVar(&dashW, "W", "", "widest state id width to widen to")
	flag.BoolVar(&dashp, "p", true, "premultiply transition table offsets")
	flag.BoolVar(&dashb, "b", true, "group bytes into classes")
	flag.StringVar(&dashz, "z", "", "compression for -o (none, zstd, zstd-better, s2)")
	flag.StringVar(&dasho, "o", "", "file to write the compiled automaton to")
	flag.StringVar(&dashm, "m", "", "match the arguments against a compiled automaton")
	flag.BoolVar(&dashv, "v", false, "log representation changes to stderr")
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// flagConfig builds the effective config from
// the -c file and any explicitly set flags.
func flagConfig(args []string) (*config, error) {
	c := new(config)
	if dashc != "" {
		var err error
		c, err = loadConfig(dashc)
		if err != nil {
			return nil, err
		}
	}
	c.Patterns = append(c.Patterns, args...)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			c.Width = dashw
		case "W":
			c.MaxWidth = dashW
		case "p":
			c.Premultiply = &dashp
		case "b":
			c.ByteClasses = &dashb
		case "z":
			c.Compression = dashz
		}
	})
	return c, nil
}

func build(dst io.Writer, c *config, logger *log.Logger) error {
	opts, err := c.options(logger)
	if err != nil {
		return err
	}
	codec, err := c.codec()
	if err != nil {
		return err
	}
	a, err := dfa.Compile(c.patterns(), opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(dst, "width=%s states=%d alphabet=%d premultiplied=%v patterns=%d\n",
		a.Width(), a.States(), a.AlphabetLen(), a.Premultiplied(), a.Patterns())
	if dasho == "" {
		return nil
	}
	buf, err := dfa.Marshal(a, codec)
	if err != nil {
		return err
	}
	h, err := dfa.ReadHeader(buf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dasho, buf, 0644); err != nil {
		return err
	}
	fmt.Fprintf(dst, "wrote %s: %d bytes, compression %s, build %s\n", dasho, len(buf), codec, h.BuildID)
	return nil
}

func match(dst io.Writer, file string, inputs []string) error {
	buf, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	a, err := dfa.Unmarshal(buf)
	if err != nil {
		return fmt.Errorf("loading %s: %w", file, err)
	}
	width := 0
	for _, in := range inputs {
		width = ints.Max(width, len(in))
	}
	for _, in := range inputs {
		b := []byte(in)
		if n, ok := a.LongestPrefix(b); ok {
			fmt.Fprintf(dst, "%-*q  prefix [0:%d] %q exact=%v\n", width+2, in, n, in[:n], a.Match(b))
			continue
		}
		if start, end, ok := a.Find(b); ok {
			fmt.Fprintf(dst, "%-*q  no prefix; first match [%d:%d] %q\n", width+2, in, start, end, in[start:end])
			continue
		}
		fmt.Fprintf(dst, "%-*q  no match\n", width+2, in)
	}
	return nil
}

func main() {
	flag.Parse()
	o := bufio.NewWriter(os.Stdout)
	var err error
	if dashm != "" {
		err = match(o, dashm, flag.Args())
	} else {
		var logger *log.Logger
		if dashv {
			logger = log.New(os.Stderr, "dfaid: ", 0)
		}
		var c *config
		c, err = flagConfig(flag.Args())
		if err == nil {
			err = build(o, c, logger)
		}
	}
	if ferr := o.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		exit(err)
	}
}
