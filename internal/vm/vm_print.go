package vm

import (
	"fmt"
	"io"
)

// fmtPrint writes s to w, optionally followed by a newline. OpPrintPart
// and OpPrintNewline both funnel through here so the prefix-split and
// simple-print paths share the same write call (§4.2 "Print").
func fmtPrint(w io.Writer, s string, newline bool) {
	if newline {
		fmt.Fprintln(w, s)
		return
	}
	fmt.Fprint(w, s)
}
