package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kylelemons/godebug/diff"
)

const width = 100

var divider = strings.Repeat("-", width)

// report prints one case's outcome the way the teacher's PrintResult did:
// a single colorized line on success, a diff block on failure. It returns
// whether the case failed, so the caller can decide when to print a
// divider between runs of failures.
func (c *Case) report(prevFailed bool) bool {
	spacing := strings.Repeat(" ", padWidth(c.Name))

	if c.Actual == c.Golden {
		fmt.Printf("  [%s] %s%s\n", color.GreenString("passed"), c.Name, spacing)
		return false
	}

	if !prevFailed {
		fmt.Println(divider)
	}
	fmt.Printf("  [%s] %s\n", color.RedString("failed"), c.Name)
	fmt.Println(diff.Diff(c.Golden, c.Actual))
	fmt.Println(divider)
	return true
}

func padWidth(name string) int {
	n := width - len("  [passed] ") - len(name)
	if n < 1 {
		return 1
	}
	return n
}
