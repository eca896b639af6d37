package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSingleAndDoubleCharTokens(t *testing.T) {
	toks, diags := NewScanner(`(){}, . - + ; : * / == != <= >= < > =`).Scan()
	require.Empty(t, diags)

	want := []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, COMMA, DOT, MINUS,
		PLUS, SEMICOLON, COLON, STAR, SLASH, EQUAL_EQUAL, BANG_EQUAL,
		LESS_EQUAL, GREATER_EQUAL, LESS, GREATER, EQUAL, EOF,
	}
	require.Len(t, toks, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, toks[i].Type, "token %d", i)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, diags := NewScanner(`def self super break continue counter`).Scan()
	require.Empty(t, diags)
	require.Len(t, toks, 7)
	assert.Equal(t, DEF, toks[0].Type)
	assert.Equal(t, SELF, toks[1].Type)
	assert.Equal(t, SUPER, toks[2].Type)
	assert.Equal(t, BREAK, toks[3].Type)
	assert.Equal(t, CONTINUE, toks[4].Type)
	assert.Equal(t, IDENTIFIER, toks[5].Type)
	assert.Equal(t, "counter", toks[5].Lexeme)
}

func TestScanStringLiteralIsVerbatim(t *testing.T) {
	toks, diags := NewScanner(`"hello\nworld"`).Scan()
	require.Empty(t, diags)
	require.Len(t, toks, 2)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, `hello\nworld`, toks[0].Literal)
}

func TestScanUnterminatedStringReportsDiagnosticAndContinues(t *testing.T) {
	toks, diags := NewScanner("\"oops\nprint 1;").Scan()
	require.Len(t, diags, 1)
	assert.Equal(t, LexicalError, diags[0].Kind)
	assert.Equal(t, EOF, toks[len(toks)-1].Type)
}

func TestScanNumberLiteral(t *testing.T) {
	toks, diags := NewScanner(`3.14 42`).Scan()
	require.Empty(t, diags)
	require.Len(t, toks, 3)
	assert.Equal(t, "3.14", toks[0].Literal)
	assert.Equal(t, "42", toks[1].Literal)
}

func TestScanUnexpectedCharacterDoesNotStopScanning(t *testing.T) {
	toks, diags := NewScanner("@ print 1;").Scan()
	require.Len(t, diags, 1)
	assert.Equal(t, LexicalError, diags[0].Kind)

	var sawPrint bool
	for _, tok := range toks {
		if tok.Type == PRINT {
			sawPrint = true
		}
	}
	assert.True(t, sawPrint, "scanning should continue past the bad character")
}
