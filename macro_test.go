package ajimu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroSimpleSubstitution(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define-syntax my-if
		  (syntax-rules ()
		    ((_ c t e) (cond (c t) (else e)))))
		(my-if #t 1 2)
	`)
	assert.Equal(t, int64(1), interp.Arena.Get(v).i)
}

func TestMacroSwapUsesLetAndSetBang(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define-syntax swap!
		  (syntax-rules ()
		    ((_ a b) (let ((tmp a)) (set! a b) (set! b tmp)))))
		(define x 1)
		(define y 2)
		(swap! x y)
		(list x y)
	`)
	assert.Equal(t, "(2 1)", interp.Display(v))
}

func TestMacroEllipsisExpandsVariadicArgs(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define-syntax sum
		  (syntax-rules ()
		    ((_ a ...) (+ a ...))))
		(sum 1 2 3 4)
	`)
	assert.Equal(t, int64(10), interp.Arena.Get(v).i)
}

func TestMacroPicksFirstMatchingRule(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define-syntax my-or
		  (syntax-rules ()
		    ((_) #f)
		    ((_ a) a)
		    ((_ a b) (if a a b))))
		(my-or #f 5)
	`)
	assert.Equal(t, int64(5), interp.Arena.Get(v).i)
}

func TestMacroLiteralMustMatchExactly(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString(`
		(define-syntax only-arrow
		  (syntax-rules (=>)
		    ((_ a => b) (list a b))))
		(only-arrow 1 2 3)
	`)
	require.Error(t, err, "a literal keyword that doesn't appear in the call must fail to match")
}

func TestMacroUnderscoreIgnoresPosition(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define-syntax second
		  (syntax-rules ()
		    ((_ _ b) b)))
		(second 1 2)
	`)
	assert.Equal(t, int64(2), interp.Arena.Get(v).i)
}
