package main

import (
	"io/fs"
	"os"
	"path"
)

// collectSuites groups testdata/scripts into suites exactly the way the
// teacher's runner grouped test/cases: one level of subdirectories, each
// becoming its own suite, with loose files falling into "Top Level".
func collectSuites(dir string) []*Suite {
	var suites []*Suite
	topLevel := &Suite{Name: "Top Level"}

	for _, entry := range getEntries(dir) {
		if entry.IsDir() {
			suites = append(suites, collectSuite(path.Join(dir, entry.Name()), entry.Name()))
			continue
		}
		if name, ok := scriptName(entry.Name()); ok {
			topLevel.Cases = append(topLevel.Cases, &Case{Name: name, Dir: dir})
		}
	}

	if len(topLevel.Cases) > 0 {
		suites = append(suites, topLevel)
	}
	return suites
}

func collectSuite(dir, name string) *Suite {
	suite := &Suite{Name: name}
	for _, entry := range getEntries(dir) {
		if entry.IsDir() {
			continue
		}
		if scriptName, ok := scriptName(entry.Name()); ok {
			suite.Cases = append(suite.Cases, &Case{Name: scriptName, Dir: dir})
		}
	}
	return suite
}

func getEntries(dir string) []fs.DirEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	return entries
}

// scriptName reports the case name for a .lox file, stripping the
// extension, or false for anything else (golden files included).
func scriptName(filename string) (string, bool) {
	const ext = ".lox"
	if len(filename) <= len(ext) || filename[len(filename)-len(ext):] != ext {
		return "", false
	}
	return filename[:len(filename)-len(ext)], true
}
