package ajimu

import "fmt"

// syntactic symbol names (§3.1): allocated exactly once at startup and
// referred to by pointer/Ref equality from then on.
const (
	symQuote        = "quote"
	symDefine       = "define"
	symLambda       = "lambda"
	symBegin        = "begin"
	symSetBang      = "set!"
	symIf           = "if"
	symCond         = "cond"
	symElse         = "else"
	symLet          = "let"
	symAnd          = "and"
	symOr           = "or"
	symUnderscore   = "_"
	symEllipsis     = "..."
	symDefineSyntax = "define-syntax"
	symSyntaxRules  = "syntax-rules"
	symOk           = "ok"
)

// Interpreter holds every subsystem of the core: the value Arena, the
// environment Arena, the String Pool, the incremental GC, the global
// frame, and the evaluator's GC-rooting stacks. Modeled on the teacher's
// Interpreter struct (frame/universe/scopes held together, Options
// threaded through New).
type Interpreter struct {
	Arena   *Arena
	Envs    *EnvArena
	Strings *StringPool
	GC      *GC
	Global  EnvRef

	opts Options

	True, False Ref

	syntacticRefs map[string]Ref // syntactic symbol name -> its interned Ref
	constants     []Ref          // re-blackened every Propagate tick

	valueStack []Ref
	envStack   []EnvRef

	observers []func(message, sender string)

	fileStack []string // files being evaluated by EvalFile/load, innermost last; error messages do not include it
	errCount  int
}

// New returns a ready-to-use Interpreter with its global frame populated by
// the primitive table (§6).
func New(opts Options) *Interpreter {
	opts = opts.withDefaults()

	interp := &Interpreter{
		Arena:         NewArena(),
		Envs:          NewEnvArena(),
		Strings:       NewStringPool(),
		opts:          opts,
		syntacticRefs: map[string]Ref{},
	}

	const w = colorWhite0 // GC not constructed yet; matches GC's own initial allocWhite

	interp.True = interp.Arena.NewBoolean(w, true)
	interp.False = interp.Arena.NewBoolean(w, false)

	for _, name := range []string{
		symQuote, symDefine, symLambda, symBegin, symSetBang, symIf, symCond,
		symElse, symLet, symAnd, symOr, symUnderscore, symEllipsis,
		symDefineSyntax, symSyntaxRules, symOk,
	} {
		interp.syntacticRefs[name] = interp.Arena.Intern(w, name)
	}

	interp.constants = append(interp.constants, interp.True, interp.False, RefNil)
	for _, r := range interp.syntacticRefs {
		interp.constants = append(interp.constants, r)
	}

	interp.Global = interp.Envs.New(w, EnvNone, true)
	interp.GC = NewGC(interp.Arena, interp.Envs, interp.Strings, interp.Global, interp.constants, opts.Logger)
	if opts.GCThreshold != 0 {
		if opts.GCThreshold < 0 {
			interp.GC.Threshold = 0
		} else {
			interp.GC.Threshold = opts.GCThreshold
		}
	}

	interp.installPrimitives()

	interp.observers = append(interp.observers, func(message, sender string) {
		if len(interp.observers) > 1 {
			return // a registered observer takes over from the stderr default
		}
		fmt.Fprintf(interp.opts.Stderr, "%s: %s\n", sender, message)
	})

	return interp
}

// syntacticSym returns the Ref for one of the fixed syntactic symbols.
func (interp *Interpreter) syntacticSym(name string) Ref {
	return interp.syntacticRefs[name]
}

// OnError registers an additional error observer (§6). Observers are
// called in registration order; the default stderr observer stays first in
// the list but writes nothing once any other observer is registered.
func (interp *Interpreter) OnError(fn func(message, sender string)) {
	interp.observers = append(interp.observers, fn)
}

func (interp *Interpreter) reportError(err *EvalError) {
	interp.errCount++
	interp.opts.Logger.Error("evaluator error", "kind", err.Kind.String(), "sender", err.Sender, "message", err.Message)
	for _, obs := range interp.observers {
		obs(err.Error(), err.Sender)
	}
}

// ErrorCount returns how many errors have been surfaced at top level.
func (interp *Interpreter) ErrorCount() int { return interp.errCount }

// tick roots the current evaluation step and advances the collector by one
// state (§4.5 step 2). expr and env must already reflect the step about to
// execute; tick is called once per recursion step of eval.
func (interp *Interpreter) tick(expr Ref, env EnvRef) {
	interp.valueStack = append(interp.valueStack, expr)
	interp.envStack = append(interp.envStack, env)
	interp.GC.Tick(interp.valueStack, interp.envStack)
	interp.valueStack = interp.valueStack[:len(interp.valueStack)-1]
	interp.envStack = interp.envStack[:len(interp.envStack)-1]
}
