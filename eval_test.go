package ajimu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterp(t *testing.T) *Interpreter {
	t.Helper()
	return New(Options{GCThreshold: -1}) // collect every tick, to shake out rooting bugs
}

func mustEval(t *testing.T, interp *Interpreter, src string) Ref {
	t.Helper()
	v, err := interp.EvalString(src)
	require.NoError(t, err)
	return v
}

func TestEvalSelfEvaluating(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "42")
	assert.Equal(t, int64(42), interp.Arena.Get(v).i)
}

func TestEvalQuote(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(quote (1 2 3))")
	assert.Equal(t, "(1 2 3)", interp.Display(v))
}

func TestEvalUnaryMinusNegates(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(- 5)")
	assert.Equal(t, int64(-5), interp.Arena.Get(v).i)

	v2 := mustEval(t, interp, "(- 5 2 1)")
	assert.Equal(t, int64(2), interp.Arena.Get(v2).i)
}

func TestEvalArithmeticPromotesToReal(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(+ 1 2.5)")
	assert.Equal(t, KindReal, interp.Arena.Kind(v))
	assert.Equal(t, 3.5, interp.Arena.Get(v).f)

	v2 := mustEval(t, interp, "(+ 1 2 3)")
	assert.Equal(t, KindFixnum, interp.Arena.Kind(v2))
	assert.Equal(t, int64(6), interp.Arena.Get(v2).i)
}

func TestEvalDefineAndLookup(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(define x 10) (+ x 5)")
	assert.Equal(t, int64(15), interp.Arena.Get(v).i)
}

func TestEvalIfBothBranches(t *testing.T) {
	interp := newTestInterp(t)
	assert.Equal(t, int64(1), interp.Arena.Get(mustEval(t, interp, "(if #t 1 2)")).i)
	assert.Equal(t, int64(2), interp.Arena.Get(mustEval(t, interp, "(if #f 1 2)")).i)
	assert.Equal(t, interp.syntacticSym(symOk), mustEval(t, interp, "(if #f 1)"))
}

func TestEvalLambdaClosureCapture(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (make-adder n) (lambda (x) (+ x n)))
		(define add5 (make-adder 5))
		(add5 10)
	`)
	assert.Equal(t, int64(15), interp.Arena.Get(v).i)
}

func TestEvalTailRecursionDoesNotGrowGoStack(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (count-down n)
		  (if (= n 0) 0 (count-down (- n 1))))
		(count-down 100000)
	`)
	assert.Equal(t, int64(0), interp.Arena.Get(v).i)
}

func TestEvalAndOr(t *testing.T) {
	interp := newTestInterp(t)
	assert.Equal(t, interp.False, mustEval(t, interp, "(and 1 #f 3)"))
	assert.Equal(t, int64(3), interp.Arena.Get(mustEval(t, interp, "(and 1 2 3)")).i)
	assert.Equal(t, int64(1), interp.Arena.Get(mustEval(t, interp, "(or #f 1 2)")).i)
	assert.Equal(t, interp.False, mustEval(t, interp, "(or #f #f)"))
}

func TestEvalLet(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(let ((x 2) (y 3)) (* x y))")
	assert.Equal(t, int64(6), interp.Arena.Get(v).i)
}

func TestEvalCond(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (sign n)
		  (cond ((< n 0) -1)
		        ((= n 0) 0)
		        (else 1)))
		(sign -5)
	`)
	assert.Equal(t, int64(-1), interp.Arena.Get(v).i)
}

func TestEvalCondRejectsMisplacedElse(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString("(cond (else 1) (#t 2))")
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ErrSyntax, evalErr.Kind)
}

func TestEvalCondRejectsMalformedClause(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString("(cond 5)")
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ErrSyntax, evalErr.Kind)
}

func TestEvalSetBang(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define x 1)
		(define (bump) (set! x (+ x 1)))
		(bump)
		(bump)
		x
	`)
	assert.Equal(t, int64(3), interp.Arena.Get(v).i)
}

func TestEvalUnboundVariableReportsError(t *testing.T) {
	interp := newTestInterp(t)
	_, err := interp.EvalString("nonexistent-name")
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ErrUnbound, evalErr.Kind)
	assert.Equal(t, 1, interp.ErrorCount())
}

func TestEvalApplyFlattensTrailingList(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(apply + 1 2 (list 3 4))")
	assert.Equal(t, int64(10), interp.Arena.Get(v).i)
}

func TestEvalEvalPrimitive(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(eval (list (quote +) 1 2))")
	assert.Equal(t, int64(3), interp.Arena.Get(v).i)
}

func TestEvalConsCarCdr(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, "(car (cons 1 2))")
	assert.Equal(t, int64(1), interp.Arena.Get(v).i)
}

func TestEvalMissingArgsBindToEmptyList(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (f a b) (null? b))
		(f 1)
	`)
	assert.Equal(t, interp.True, v)
}

func TestEvalExtraArgsAreIgnored(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (f a) a)
		(f 1 2 3)
	`)
	assert.Equal(t, int64(1), interp.Arena.Get(v).i)
}

func TestEvalVariadicLambda(t *testing.T) {
	interp := newTestInterp(t)
	v := mustEval(t, interp, `
		(define (sum . xs)
		  (if (null? xs) 0 (+ (car xs) (apply sum (cdr xs)))))
		(sum 1 2 3 4)
	`)
	assert.Equal(t, int64(10), interp.Arena.Get(v).i)
}
