// Command lox-conformance runs every testdata/scripts/*.lox file through
// the interpreter and checks its combined stdout-plus-diagnostics output
// against the matching *.golden file, in the spirit of the differential
// runner this repo's interpreter used to be checked with, but comparing
// against recorded golden output instead of a second implementation.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	dir := flag.String("dir", "testdata/scripts", "directory of .lox/.golden pairs")
	flag.Parse()

	suites := collectSuites(*dir)
	if len(suites) == 0 {
		fmt.Fprintf(os.Stderr, "lox-conformance: no test scripts found under %s\n", *dir)
		os.Exit(1)
	}

	passed, failed := runSuites(suites)
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
