// Command registers is the thin CLI shell over the register core: it
// dispatches to pkg/register, pkg/rsf, pkg/patch and pkg/xsv and otherwise
// carries no business logic of its own (SPEC_FULL.md §4.12).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
