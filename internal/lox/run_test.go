package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSource(t *testing.T, source string) (string, []Diagnostic) {
	t.Helper()
	var out bytes.Buffer
	interp := NewInterpreter(&out, 1000)
	diags := Run(source, interp)
	return out.String(), diags
}

func TestRunArithmeticAndPrint(t *testing.T) {
	out, diags := runSource(t, `print 1 + 2 * 3;`)
	require.Empty(t, diags)
	assert.Equal(t, "7\n", out)
}

func TestRunClosuresCaptureByReference(t *testing.T) {
	out, diags := runSource(t, `
		def makeCounter() {
			var i = 0;
			def count() { i = i + 1; return i; }
			return count;
		}
		var c = makeCounter();
		print c(); print c(); print c();
	`)
	require.Empty(t, diags)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestRunStaticResolutionNotDynamic(t *testing.T) {
	out, diags := runSource(t, `
		var a = "global";
		{
			def show() { print a; }
			show();
			var a = "local";
			show();
		}
	`)
	require.Empty(t, diags)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestRunClassInitAndMethod(t *testing.T) {
	out, diags := runSource(t, `
		class Greeter {
			init(name) { self.name = name; }
			hi() { print "hi " + self.name; }
		}
		Greeter("world").hi();
	`)
	require.Empty(t, diags)
	assert.Equal(t, "hi world\n", out)
}

func TestRunInheritanceAndSuper(t *testing.T) {
	out, diags := runSource(t, `
		class A { speak() { print "A"; } }
		class B : A { speak() { super.speak(); print "B"; } }
		B().speak();
	`)
	require.Empty(t, diags)
	assert.Equal(t, "A\nB\n", out)
}

func TestRunForLoopDesugaringAndBreak(t *testing.T) {
	out, diags := runSource(t, `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 3) break;
			print i;
		}
	`)
	require.Empty(t, diags)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestRunContinueSkipsOneIteration(t *testing.T) {
	out, diags := runSource(t, `
		var i = 0;
		while (i < 4) {
			i = i + 1;
			if (i == 2) continue;
			print i;
		}
	`)
	require.Empty(t, diags)
	assert.Equal(t, "1\n3\n4\n", out)
}

// A "continue" inside a for-loop body skips the loop's own increment
// clause, since the authoritative desugaring (spec §4.2) appends the
// increment as a second statement after the body, and "continue" only
// ever short-circuits the enclosing "while" to its next condition check.
// This is pinned here with a condition variable that advances
// independently of the skipped increment, so the loop still terminates.
func TestRunForLoopContinueSkipsIncrement(t *testing.T) {
	out, diags := runSource(t, `
		var count = 0;
		for (var i = 0; count < 3; i = i + 1) {
			count = count + 1;
			if (count == 2) continue;
			print i;
		}
	`)
	require.Empty(t, diags)
	assert.Equal(t, "0\n1\n", out)
}

// A method name must not shadow an unrelated global of the same name:
// methods are reached only through property access, never through a
// lexical binding (spec §4.4).
func TestRunMethodNameDoesNotShadowGlobal(t *testing.T) {
	out, diags := runSource(t, `
		def helper() { return 42; }
		class C {
			helper() {}
			run() { print helper(); }
		}
		C().run();
	`)
	require.Empty(t, diags)
	assert.Equal(t, "42\n", out)
}

func TestRunDivisionByZeroIsRuntimeError(t *testing.T) {
	out, diags := runSource(t, `print 1; print 1 / 0; print 2;`)
	assert.Equal(t, "1\n", out)
	require.Len(t, diags, 1)
	assert.Equal(t, RuntimeErrorKind, diags[0].Kind)
	assert.Equal(t, "Division by zero is not allowed.", diags[0].Message)
}

func TestRunUndefinedVariableIsRuntimeError(t *testing.T) {
	_, diags := runSource(t, `print x;`)
	require.Len(t, diags, 1)
	assert.Equal(t, RuntimeErrorKind, diags[0].Kind)
}

func TestRunSyntaxErrorAbortsBeforeInterpretation(t *testing.T) {
	out, diags := runSource(t, `print ;`)
	assert.Empty(t, out)
	require.NotEmpty(t, diags)
	assert.Equal(t, SyntaxError, diags[0].Kind)
}

func TestRunReportsMultipleDiagnosticsInOnePass(t *testing.T) {
	_, diags := runSource(t, `
		var a = 1 +;
		var b = ;
	`)
	require.Len(t, diags, 2)
	assert.Equal(t, SyntaxError, diags[0].Kind)
	assert.Equal(t, SyntaxError, diags[1].Kind)
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 64, ExitCode([]Diagnostic{{Kind: SyntaxError}}))
	assert.Equal(t, 70, ExitCode([]Diagnostic{{Kind: RuntimeErrorKind}}))
}
