package lox

// Run executes one source unit against interp: scan and parse it in full
// (parsing runs even after lexical diagnostics, so one pass surfaces every
// lexical and syntax problem at once), resolve it only if parsing reported
// no syntax errors, then interpret it only if every stage came back clean.
func Run(source string, interp *Interpreter) []Diagnostic {
	var diags []Diagnostic

	scanner := NewScanner(source)
	tokens, lexDiags := scanner.Scan()
	diags = append(diags, lexDiags...)

	program, parseDiags := Parse(tokens)
	diags = append(diags, parseDiags...)
	if len(parseDiags) > 0 {
		return diags
	}

	locals, resolveDiags := Resolve(program)
	diags = append(diags, resolveDiags...)

	if len(diags) > 0 {
		return diags
	}

	if d := interp.Interpret(program, locals); d != nil {
		return []Diagnostic{*d}
	}
	return nil
}

// ExitCode maps a batch of diagnostics from a single Run call to the
// process exit code spec §6 defines: 0 on success, 64 for a
// lexical/syntax/resolver failure (nothing ran), 70 for a runtime
// failure partway through.
func ExitCode(diags []Diagnostic) int {
	if len(diags) == 0 {
		return 0
	}
	for _, d := range diags {
		if d.Kind == RuntimeErrorKind {
			return 70
		}
	}
	return 64
}
