// Command loxscript runs the interpreter: with no arguments it starts a
// REPL, with one argument it runs that file, and with more it prints
// usage (spec §6).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"loxscript/internal/lox"
)

func main() {
	cfg, err := lox.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "loxscript: invalid configuration:", err)
		os.Exit(1)
	}

	switch len(os.Args) {
	case 1:
		runREPL(cfg)
	case 2:
		os.Exit(runFile(cfg, os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: loxscript [script]")
		os.Exit(64)
	}
}

func runFile(cfg lox.Config, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxscript: can't read %s: %v\n", path, err)
		return 66
	}

	interp := lox.NewInterpreter(os.Stdout, cfg.MaxCallDepth)
	diags := lox.Run(string(source), interp)
	reportAll(diags)
	return lox.ExitCode(diags)
}

func runREPL(cfg lox.Config) {
	interp := lox.NewInterpreter(os.Stdout, cfg.MaxCallDepth)
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(cfg.Prompt)
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			diags := lox.Run(line, interp)
			reportAll(diags)
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "loxscript:", err)
			}
			fmt.Println()
			return
		}
	}
}

var diagColor = color.New(color.FgRed)

func reportAll(diags []lox.Diagnostic) {
	for _, d := range diags {
		diagColor.Fprintln(os.Stderr, d.Error())
	}
}
