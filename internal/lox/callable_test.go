package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionArityMatchesParams(t *testing.T) {
	fn := &Function{body: FunctionBody{Params: []Token{{Lexeme: "a"}, {Lexeme: "b"}}}}
	assert.Equal(t, 2, fn.Arity())
}

func TestFunctionBindDefinesSelfInNewClosure(t *testing.T) {
	closure := NewEnvironment(nil)
	fn := &Function{name: "greet", closure: closure}
	instance := NewInstance(&Class{Name: "Point", Methods: map[string]*Function{}})

	bound := fn.bind(instance)
	self, err := bound.closure.Get(Token{Lexeme: "self"})
	require.NoError(t, err)
	assert.Same(t, instance, self)

	_, err = closure.Get(Token{Lexeme: "self"})
	assert.Error(t, err, "binding must not leak into the original closure")
}

func TestClassArityMirrorsInit(t *testing.T) {
	withoutInit := &Class{Name: "Empty", Methods: map[string]*Function{}}
	assert.Equal(t, 0, withoutInit.Arity())

	withInit := &Class{Name: "Point", Methods: map[string]*Function{
		"init": {body: FunctionBody{Params: []Token{{Lexeme: "x"}, {Lexeme: "y"}}}},
	}}
	assert.Equal(t, 2, withInit.Arity())
}

func TestClassCallConstructsInstance(t *testing.T) {
	class := &Class{Name: "Counter", Methods: map[string]*Function{}}
	out, err := class.Call(nil, nil)
	require.NoError(t, err)

	instance, ok := out.(*Instance)
	require.True(t, ok)
	assert.Equal(t, class, instance.class)
}
