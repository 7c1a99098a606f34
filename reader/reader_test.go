package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNext(t *testing.T, r *Reader) Node {
	t.Helper()
	n, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	return n
}

func TestReaderAtoms(t *testing.T) {
	r := New(`42 3.5 #t #f foo "a string" #\a`)

	n := mustNext(t, r)
	assert.Equal(t, Int, n.Kind)
	assert.Equal(t, int64(42), n.Int)

	n = mustNext(t, r)
	assert.Equal(t, Float, n.Kind)
	assert.Equal(t, 3.5, n.Float)

	n = mustNext(t, r)
	assert.Equal(t, Bool, n.Kind)
	assert.True(t, n.Bool)

	n = mustNext(t, r)
	assert.Equal(t, Bool, n.Kind)
	assert.False(t, n.Bool)

	n = mustNext(t, r)
	assert.Equal(t, Symbol, n.Kind)
	assert.Equal(t, "foo", n.Str)

	n = mustNext(t, r)
	assert.Equal(t, String, n.Kind)
	assert.Equal(t, "a string", n.Str)

	n = mustNext(t, r)
	assert.Equal(t, Char, n.Kind)
	assert.Equal(t, byte('a'), n.Char)

	_, ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderNestedList(t *testing.T) {
	r := New(`(+ 1 (* 2 3))`)
	n := mustNext(t, r)
	require.Equal(t, List, n.Kind)
	require.Len(t, n.Items, 3)
	assert.Equal(t, Symbol, n.Items[0].Kind)
	assert.Equal(t, "+", n.Items[0].Str)
	assert.Equal(t, Int, n.Items[1].Kind)

	inner := n.Items[2]
	require.Equal(t, List, inner.Kind)
	require.Len(t, inner.Items, 3)
	assert.Equal(t, "*", inner.Items[0].Str)
}

func TestReaderQuoteSugar(t *testing.T) {
	r := New(`'(1 2)`)
	n := mustNext(t, r)
	require.Equal(t, Quote, n.Kind)
	require.Len(t, n.Items, 1)
	assert.Equal(t, List, n.Items[0].Kind)
}

func TestReaderSkipsComments(t *testing.T) {
	r := New("; a comment\n42 ; trailing\n")
	n := mustNext(t, r)
	assert.Equal(t, Int, n.Kind)
	assert.Equal(t, int64(42), n.Int)
}

func TestReaderCharacterNames(t *testing.T) {
	r := New(`#\space #\newline #\(`)
	n := mustNext(t, r)
	assert.Equal(t, byte(' '), n.Char)
	n = mustNext(t, r)
	assert.Equal(t, byte('\n'), n.Char)
	n = mustNext(t, r)
	assert.Equal(t, byte('('), n.Char)
}

func TestReaderDottedList(t *testing.T) {
	r := New(`(a . b)`)
	n := mustNext(t, r)
	require.Equal(t, List, n.Kind)
	require.True(t, n.Dotted)
	require.Len(t, n.Items, 1)
	assert.Equal(t, "a", n.Items[0].Str)
	require.NotNil(t, n.Tail)
	assert.Equal(t, "b", n.Tail.Str)
}

func TestReaderDotInSymbolIsNotASeparator(t *testing.T) {
	r := New(`ajimu.gc.state .5`)
	n := mustNext(t, r)
	assert.Equal(t, Symbol, n.Kind)
	assert.Equal(t, "ajimu.gc.state", n.Str)

	n = mustNext(t, r)
	assert.Equal(t, Float, n.Kind)
	assert.Equal(t, 0.5, n.Float)
}

func TestReaderUnterminatedListErrors(t *testing.T) {
	r := New(`(1 2`)
	_, _, err := r.Next()
	assert.Error(t, err)
}

func TestReaderNegativeNumbers(t *testing.T) {
	r := New(`-5 -2.5`)
	n := mustNext(t, r)
	assert.Equal(t, Int, n.Kind)
	assert.Equal(t, int64(-5), n.Int)
	n = mustNext(t, r)
	assert.Equal(t, Float, n.Kind)
	assert.Equal(t, -2.5, n.Float)
}
