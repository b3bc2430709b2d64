// Command orus is the CLI entry point: `orus [-trace] <file.orus>`
// (§6 "CLI contract").
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orus-lang/orus/pkg/cli"
)

func main() {
	trace := flag.Bool("trace", false, "dump each executed instruction to stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: orus [-trace] <file.orus>")
		os.Exit(cli.ExitCompile)
	}

	os.Exit(cli.Run(cli.Options{
		Path:  flag.Arg(0),
		Trace: *trace,
	}))
}
