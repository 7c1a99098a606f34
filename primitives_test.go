package ajimu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivePredicates(t *testing.T) {
	interp := newTestInterp(t)
	cases := map[string]string{
		"(pair? (cons 1 2))":  "#t",
		"(pair? 5)":           "#f",
		"(null? (list))":      "#t",
		"(null? (list 1))":    "#f",
		"(symbol? (quote x))": "#t",
		"(string? \"hi\")":    "#t",
		"(number? 3.5)":       "#t",
		"(number? \"hi\")":    "#f",
		"(procedure? car)":    "#t",
		"(boolean? #f)":       "#t",
		"(vector? 5)":         "#f",
	}
	for src, want := range cases {
		v := mustEval(t, interp, src)
		assert.Equal(t, want, interp.Display(v), src)
	}
}

func TestPrimitiveComparisons(t *testing.T) {
	interp := newTestInterp(t)
	assert.Equal(t, interp.True, mustEval(t, interp, "(< 1 2 3)"))
	assert.Equal(t, interp.False, mustEval(t, interp, "(< 1 3 2)"))
	assert.Equal(t, interp.True, mustEval(t, interp, "(= 1 1 1)"))
	assert.Equal(t, interp.True, mustEval(t, interp, "(> 3 2 1)"))
}

func TestPrimitiveDivisionByZeroErrors(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString("(/ 1 0)")
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ErrArithmetic, evalErr.Kind)
}

func TestPrimitiveErrorRaisesUserError(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString(`(error "boom")`)
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ErrUser, evalErr.Kind)
}

func TestPrimitiveSetCarSetCdr(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define p (cons 1 2))
		(set-car! p 10)
		(set-cdr! p 20)
		p
	`)
	assert.Equal(t, "(10 . 20)", interp.Display(v))
}

func TestPrimitiveGCIntrospection(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(ajimu.gc.allocated)")
	assert.Equal(t, KindFixnum, interp.Arena.Kind(v))

	s := mustEval(t, interp, "(ajimu.gc.state)")
	assert.Equal(t, KindString, interp.Arena.Kind(s))
}

func TestDisplayWritesToConfiguredStdout(t *testing.T) {
	var buf stringWriter
	interp := New(Options{Stdout: &buf})
	_, err := interp.EvalString(`(display "hello")`)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

// stringWriter is a minimal io.Writer collecting bytes for assertions,
// avoiding a bytes.Buffer import purely for test plumbing.
type stringWriter struct{ data []byte }

func (w *stringWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
func (w *stringWriter) String() string { return string(w.data) }
