// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Command atomdb is a thin CLI over the library, grounded on the
// teacher's go/store/cmd/noms subcommand family (`noms show`) and
// built on the same CLI parser, kingpin.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/atomdb/atomdb/cache"
	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/convert"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/view"
)

var (
	app = kingpin.New("atomdb", "Inspect an AtomDB filesystem store.")

	show    = app.Command("show", "Dereference a root hash and print its value.")
	showDir = show.Arg("dir", "store directory").Required().String()
	showH   = show.Arg("roothash", "root hash to dereference").Required().String()
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch cmd {
	case show.FullCommand():
		return runShow(stdout, stderr, *showDir, *showH)
	}
	return 1
}

// runShow opens dir as a filesystem chunk store, dereferences
// hashStr's chunk and everything beneath it, and prints the result
// through the textual codec's notation (spec §1's "dereferences and
// prints a root value through the textual codec").
func runShow(stdout, stderr io.Writer, dir, hashStr string) int {
	h, ok := hash.MaybeParse(hashStr)
	if !ok {
		fmt.Fprintf(stderr, "atomdb: not a valid hash: %q\n", hashStr)
		return 1
	}

	store, err := chunks.NewFileStore(dir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	codec := chunks.TextualCodec{}

	ctx := context.Background()
	n, err := view.Root(ctx, store, cache.NoOp{}, codec, h)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	plain, err := convert.ToPlain(ctx, n)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, chunks.FormatText(plain))
	return 0
}
