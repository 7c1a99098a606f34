package ajimu

import "os"

// eval.go implements the core dispatch loop (§4.5). Special forms and
// closure/tail application are handled by reassigning expr/env and looping
// rather than recursing, the Go rendering of the spec's "goto tailcall" —
// grounded on memcp's scm.go Eval/Apply `goto restart` pattern and on the
// teacher's own single-loop Eval driving REPL statements one at a time.

// Eval evaluates expr in env, looping in place on every tail position
// instead of recursing, so a chain of tail calls runs in constant Go stack
// space.
func (interp *Interpreter) Eval(expr Ref, env EnvRef) (Ref, error) {
	for {
		interp.tick(expr, env)

		switch interp.Arena.Kind(expr) {
		case KindBoolean, KindFixnum, KindReal, KindCharacter, KindString, KindEmptyList:
			return expr, nil

		case KindSymbol:
			name := interp.Arena.Get(expr).name
			h, ok := interp.Envs.Resolve(env, name)
			if !ok {
				return RefNone, interp.fail(ErrUnbound, name, "unbound variable: %s", name)
			}
			return interp.Envs.Value(h), nil

		case KindPair:
			car := interp.Arena.Car(expr)
			cdr := interp.Arena.Cdr(expr)

			if interp.Arena.Kind(car) == KindSymbol {
				name := interp.Arena.Get(car).name

				switch name {
				case symQuote:
					return interp.Arena.Car(cdr), nil

				case symIf:
					parts := interp.Arena.ListToSlice(cdr)
					if len(parts) < 2 || len(parts) > 3 {
						return RefNone, interp.fail(ErrSyntax, symIf, "if expects 2 or 3 parts")
					}
					test, err := interp.Eval(parts[0], env)
					if err != nil {
						return RefNone, err
					}
					if interp.isTruthy(test) {
						expr = parts[1]
						continue
					}
					if len(parts) == 3 {
						expr = parts[2]
						continue
					}
					return interp.syntacticSym(symOk), nil

				case symDefine:
					target := interp.Arena.Car(cdr)
					rest := interp.Arena.Cdr(cdr)
					if interp.Arena.IsPair(target) {
						fnName := interp.Arena.Car(target)
						params := interp.Arena.Cdr(target)
						closure := interp.Arena.NewClosure(interp.GC.AllocWhite(), params, rest, env)
						interp.Envs.Define(env, fnName, interp.Arena.Get(fnName).name, closure)
						return interp.syntacticSym(symOk), nil
					}
					v, err := interp.Eval(interp.Arena.Car(rest), env)
					if err != nil {
						return RefNone, err
					}
					interp.Envs.Define(env, target, interp.Arena.Get(target).name, v)
					return interp.syntacticSym(symOk), nil

				case symSetBang:
					target := interp.Arena.Car(cdr)
					targetName := interp.Arena.Get(target).name
					v, err := interp.Eval(interp.Arena.Car(interp.Arena.Cdr(cdr)), env)
					if err != nil {
						return RefNone, err
					}
					h, ok := interp.Envs.Resolve(env, targetName)
					if !ok {
						return RefNone, interp.fail(ErrUnbound, symSetBang, "unbound variable: %s", targetName)
					}
					interp.Envs.Set(h, v)
					return interp.syntacticSym(symOk), nil

				case symLambda:
					params := interp.Arena.Car(cdr)
					body := interp.Arena.Cdr(cdr)
					return interp.Arena.NewClosure(interp.GC.AllocWhite(), params, body, env), nil

				case symBegin:
					items := interp.Arena.ListToSlice(cdr)
					if len(items) == 0 {
						return interp.syntacticSym(symOk), nil
					}
					if err := interp.evalAllButLast(items, env); err != nil {
						return RefNone, err
					}
					expr = items[len(items)-1]
					continue

				case symAnd:
					items := interp.Arena.ListToSlice(cdr)
					if len(items) == 0 {
						return interp.True, nil
					}
					for _, it := range items[:len(items)-1] {
						v, err := interp.Eval(it, env)
						if err != nil {
							return RefNone, err
						}
						if !interp.isTruthy(v) {
							return interp.False, nil
						}
					}
					expr = items[len(items)-1]
					continue

				case symOr:
					items := interp.Arena.ListToSlice(cdr)
					if len(items) == 0 {
						return interp.False, nil
					}
					for _, it := range items[:len(items)-1] {
						v, err := interp.Eval(it, env)
						if err != nil {
							return RefNone, err
						}
						if interp.isTruthy(v) {
							return v, nil
						}
					}
					expr = items[len(items)-1]
					continue

				case symLet:
					bindingsForm := interp.Arena.Car(cdr)
					body := interp.Arena.Cdr(cdr)
					bindingPairs := interp.Arena.ListToSlice(bindingsForm)
					var names, values []Ref
					for _, bp := range bindingPairs {
						names = append(names, interp.Arena.Car(bp))
						values = append(values, interp.Arena.Car(interp.Arena.Cdr(bp)))
					}
					w := interp.GC.AllocWhite()
					lambdaForm := interp.Arena.Cons(w, interp.syntacticSym(symLambda),
						interp.Arena.Cons(w, interp.Arena.List(w, names...), body))
					expr = interp.Arena.Cons(w, lambdaForm, interp.Arena.List(w, values...))
					continue

				case symCond:
					clauses := interp.Arena.ListToSlice(cdr)
					for idx, clause := range clauses {
						if !interp.Arena.IsPair(clause) {
							return RefNone, interp.fail(ErrSyntax, symCond, "cond clause must be a list with a test")
						}
						test := interp.Arena.Car(clause)
						if interp.Arena.Kind(test) == KindSymbol && interp.Arena.Get(test).name == symElse && idx != len(clauses)-1 {
							return RefNone, interp.fail(ErrSyntax, symCond, "else clause must be last")
						}
					}
					matched := false
					for _, clause := range clauses {
						test := interp.Arena.Car(clause)
						body := interp.Arena.Cdr(clause)
						isElse := interp.Arena.Kind(test) == KindSymbol && interp.Arena.Get(test).name == symElse
						var testVal Ref
						if isElse {
							testVal = interp.True
						} else {
							v, err := interp.Eval(test, env)
							if err != nil {
								return RefNone, err
							}
							testVal = v
						}
						if !interp.isTruthy(testVal) {
							continue
						}
						items := interp.Arena.ListToSlice(body)
						if len(items) == 0 {
							return testVal, nil
						}
						if err := interp.evalAllButLast(items, env); err != nil {
							return RefNone, err
						}
						expr = items[len(items)-1]
						matched = true
						break
					}
					if matched {
						continue
					}
					return interp.syntacticSym(symOk), nil

				case symDefineSyntax:
					nameSym := interp.Arena.Car(cdr)
					ruleForm := interp.Arena.Car(interp.Arena.Cdr(cdr))
					interp.Envs.Define(env, nameSym, interp.Arena.Get(nameSym).name, ruleForm)
					return interp.syntacticSym(symOk), nil
				}

				// Not a syntactic keyword: a bound value whose car is the
				// syntax-rules marker names a macro (§4.5 macro application).
				if h, ok := interp.Envs.Resolve(env, name); ok {
					val := interp.Envs.Value(h)
					if interp.isMacroBinding(val) {
						expanded, err := interp.expandMacro(val, expr)
						if err != nil {
							return RefNone, err
						}
						expr = expanded
						continue
					}
				}
			}

			// General application (§4.5): evaluate the operator, evaluate
			// every operand left to right, then dispatch. Every value
			// computed along the way is rooted on interp.valueStack until
			// dispatch completes: a GC cycle can run to completion across a
			// handful of Eval steps, and nothing else keeps an
			// already-evaluated-but-not-yet-bound operand alive in the
			// meantime (the Design Notes' "transient-root" requirement).
			rootBase := len(interp.valueStack)
			proc, err := interp.Eval(car, env)
			if err != nil {
				return RefNone, err
			}
			interp.valueStack = append(interp.valueStack, proc)

			argExprs := interp.Arena.ListToSlice(cdr)
			args := make([]Ref, len(argExprs))
			for i, a := range argExprs {
				v, err := interp.Eval(a, env)
				if err != nil {
					interp.valueStack = interp.valueStack[:rootBase]
					return RefNone, err
				}
				args[i] = v
				interp.valueStack = append(interp.valueStack, v)
			}

			nextExpr, nextEnv, result, done, dispatchErr := interp.dispatchCall(proc, args)
			interp.valueStack = interp.valueStack[:rootBase]
			if dispatchErr != nil {
				return RefNone, dispatchErr
			}
			if done {
				return result, nil
			}
			expr, env = nextExpr, nextEnv
			continue
		}

		return RefNone, interp.fail(ErrType, "eval", "cannot evaluate value")
	}
}

// isMacroBinding reports whether val is a (syntax-rules ...) form, i.e. a
// stored macro definition rather than an ordinary value.
func (interp *Interpreter) isMacroBinding(val Ref) bool {
	if !interp.Arena.IsPair(val) {
		return false
	}
	head := interp.Arena.Car(val)
	return interp.Arena.Kind(head) == KindSymbol && interp.Arena.Get(head).name == symSyntaxRules
}

// dispatchCall applies proc to args, special-casing the apply and eval
// primitives (§4.5: "if the procedure is the apply primitive ... if it is
// the eval primitive, tail-eval its first argument") ahead of ordinary
// closure/primitive dispatch.
func (interp *Interpreter) dispatchCall(proc Ref, args []Ref) (nextExpr Ref, nextEnv EnvRef, result Ref, done bool, err error) {
	if interp.Arena.Kind(proc) == KindPrimitive {
		switch interp.Arena.Get(proc).prim {
		case PrimApply:
			if len(args) < 1 {
				return RefNone, EnvNone, RefNone, true, interp.fail(ErrType, "apply", "apply expects at least 1 argument")
			}
			var flat []Ref
			if len(args) >= 2 {
				flat = append(flat, args[1:len(args)-1]...)
				flat = append(flat, interp.Arena.ListToSlice(args[len(args)-1])...)
			}
			return interp.tailApply(args[0], flat)

		case PrimEval:
			if len(args) != 1 {
				return RefNone, EnvNone, RefNone, true, interp.fail(ErrType, "eval", "eval expects 1 argument")
			}
			return args[0], interp.Global, RefNone, false, nil
		}
	}
	return interp.tailApply(proc, args)
}

// tailApply prepares a closure or primitive application for the caller's
// tail loop: for a closure it returns the body's final expression and its
// fresh frame for the caller to continue on; for a primitive it evaluates
// eagerly and returns the result directly (done=true).
func (interp *Interpreter) tailApply(proc Ref, args []Ref) (nextExpr Ref, nextEnv EnvRef, result Ref, done bool, err error) {
	switch interp.Arena.Kind(proc) {
	case KindPrimitive:
		prim := interp.Arena.Get(proc).prim
		v, aerr := interp.applyPrimitive(prim, args, "apply")
		if ee, ok := aerr.(*EvalError); ok && prim != PrimLoad {
			// load's errors were already reported where they arose.
			interp.reportError(ee)
		}
		return RefNone, EnvNone, v, true, aerr

	case KindClosure:
		c := interp.Arena.Get(proc)
		newEnv := interp.Envs.New(interp.GC.AllocWhite(), c.env, false)
		if berr := interp.bindParams(newEnv, c.params, args, "apply"); berr != nil {
			return RefNone, EnvNone, RefNone, true, berr
		}
		items := interp.Arena.ListToSlice(c.body)
		if len(items) == 0 {
			return RefNone, EnvNone, interp.syntacticSym(symOk), true, nil
		}
		if serr := interp.evalAllButLast(items, newEnv); serr != nil {
			return RefNone, EnvNone, RefNone, true, serr
		}
		return items[len(items)-1], newEnv, RefNone, false, nil

	default:
		return RefNone, EnvNone, RefNone, true, interp.fail(ErrType, "apply", "not a procedure")
	}
}

// Apply invokes proc with already-evaluated args outside of any ongoing
// Eval loop; it does not participate in
// tail-call elision since there is no enclosing loop to elide into.
func (interp *Interpreter) Apply(proc Ref, args []Ref) (Ref, error) {
	nextExpr, nextEnv, result, done, err := interp.tailApply(proc, args)
	if err != nil {
		return RefNone, err
	}
	if done {
		return result, nil
	}
	return interp.Eval(nextExpr, nextEnv)
}

// bindParams binds params (a proper list, or a list with a final rest
// symbol, or a bare rest symbol) against args in a fresh frame. Per §4.5 and
// the original's Mach::ExtendEnvironment (mach.cc:538-552), a parameter with
// no corresponding argument is bound to the empty list rather than erroring,
// and any args left over once every parameter is bound are silently dropped.
func (interp *Interpreter) bindParams(env EnvRef, params Ref, args []Ref, sender string) error {
	i := 0
	cur := params
	for interp.Arena.IsPair(cur) {
		nameRef := interp.Arena.Car(cur)
		if interp.Arena.Kind(nameRef) != KindSymbol {
			return interp.fail(ErrType, sender, "parameter name must be a symbol")
		}
		v := RefNil
		if i < len(args) {
			v = args[i]
		}
		interp.Envs.Define(env, nameRef, interp.Arena.Get(nameRef).name, v)
		i++
		cur = interp.Arena.Cdr(cur)
	}
	if cur != RefNil {
		restName := interp.Arena.Get(cur).name
		rest := RefNil
		if i < len(args) {
			rest = interp.Arena.List(interp.GC.AllocWhite(), args[i:]...)
		}
		interp.Envs.Define(env, cur, restName, rest)
	}
	return nil
}

func (interp *Interpreter) evalAllButLast(items []Ref, env EnvRef) error {
	for _, it := range items[:len(items)-1] {
		if _, err := interp.Eval(it, env); err != nil {
			return err
		}
	}
	return nil
}

// fail builds an EvalError, reports it to the observer list, and returns it
// (§7): the sentinel-and-observer pattern rendered in Go as (Ref, error).
func (interp *Interpreter) fail(kind ErrorKind, sender, format string, args ...interface{}) error {
	err := newError(kind, sender, format, args...)
	interp.reportError(err)
	return err
}

// EvalString parses and evaluates every top-level form in src in turn,
// returning the value of the last one (the REPL/load entry point, §6).
func (interp *Interpreter) EvalString(src string) (Ref, error) {
	r := interp.NewReader(src)
	result := interp.syntacticSym(symOk)
	for {
		expr, ok, err := r.Next()
		if err != nil {
			return RefNone, interp.fail(ErrSyntax, "read", "%s", err.Error())
		}
		if !ok {
			return result, nil
		}
		result, err = interp.Eval(expr, interp.Global)
		if err != nil {
			return RefNone, err
		}
	}
}

// EvalFile reads path and evaluates its contents as by EvalString (the
// `load` primitive and the CLI --input flag both funnel through here).
func (interp *Interpreter) EvalFile(path string) (Ref, error) {
	data, err := readFile(path)
	if err != nil {
		return RefNone, interp.fail(ErrIO, "load", "%s", err.Error())
	}
	interp.fileStack = append(interp.fileStack, path)
	defer func() { interp.fileStack = interp.fileStack[:len(interp.fileStack)-1] }()
	return interp.EvalString(string(data))
}

func readFile(path string) ([]byte, error) { return os.ReadFile(path) }
