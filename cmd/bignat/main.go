// Command bignat drives the big-integer engine from the command line. Operands
// are big-endian hex strings; results are printed the same way.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
