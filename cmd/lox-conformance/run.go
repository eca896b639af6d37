package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"loxscript/internal/lox"
)

// Case is one testdata/scripts/*.lox file paired with its *.golden file.
type Case struct {
	Name   string
	Dir    string
	Golden string
	Actual string
}

// Suite groups cases the way a testdata subdirectory does.
type Suite struct {
	Name  string
	Cases []*Case
}

// run executes the case against a fresh interpreter and records its
// actual output for comparison.
func (c *Case) run() error {
	scriptPath := filepath.Join(c.Dir, c.Name+".lox")
	goldenPath := filepath.Join(c.Dir, c.Name+".golden")

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", scriptPath, err)
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", goldenPath, err)
	}
	c.Golden = string(golden)

	var out bytes.Buffer
	interp := lox.NewInterpreter(&out, 1000)
	diags := lox.Run(string(source), interp)
	for _, d := range diags {
		fmt.Fprintln(&out, d.Error())
	}
	c.Actual = out.String()
	return nil
}

func runSuites(suites []*Suite) (passed, failed int) {
	prevFailed := false
	for i, suite := range suites {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(suite.Name)

		for _, c := range suite.Cases {
			if err := c.run(); err != nil {
				fmt.Fprintf(os.Stderr, "lox-conformance: %v\n", err)
				failed++
				continue
			}
			if c.report(prevFailed) {
				prevFailed = true
				failed++
			} else {
				prevFailed = false
				passed++
			}
		}
	}
	return passed, failed
}
