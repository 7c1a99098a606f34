package ajimu

import "fmt"

// PrimID values name every built-in procedure (§6). Grounded on the
// teacher's bltn-function-table idiom (bltnAppend, bltnLen, ...) and on
// memcp's map[string]func(...) Scmer primitive table, translated here to
// arena-Ref-typed Go functions.
const (
	PrimBooleanP PrimID = iota
	PrimSymbolP
	PrimCharP
	PrimVectorP
	PrimPortP
	PrimNullP
	PrimPairP
	PrimIntegerP
	PrimFloatP
	PrimNumberP
	PrimStringP
	PrimBytevectorP
	PrimProcedureP

	PrimAdd
	PrimSub
	PrimMul
	PrimDiv
	PrimNumEq
	PrimGt
	PrimLt

	PrimApply
	PrimEval

	PrimCons
	PrimCar
	PrimCdr
	PrimList
	PrimSetCar
	PrimSetCdr

	PrimDisplay
	PrimLoad

	PrimError

	PrimGCAllocated
	PrimGCState
)

type primDef struct {
	id   PrimID
	name string
}

var primTable = []primDef{
	{PrimBooleanP, "boolean?"},
	{PrimSymbolP, "symbol?"},
	{PrimCharP, "char?"},
	{PrimVectorP, "vector?"},
	{PrimPortP, "port?"},
	{PrimNullP, "null?"},
	{PrimPairP, "pair?"},
	{PrimIntegerP, "integer?"},
	{PrimFloatP, "float?"},
	{PrimNumberP, "number?"},
	{PrimStringP, "string?"},
	{PrimBytevectorP, "bytevector?"},
	{PrimProcedureP, "procedure?"},
	{PrimAdd, "+"},
	{PrimSub, "-"},
	{PrimMul, "*"},
	{PrimDiv, "/"},
	{PrimNumEq, "="},
	{PrimGt, ">"},
	{PrimLt, "<"},
	{PrimApply, "apply"},
	{PrimEval, "eval"},
	{PrimCons, "cons"},
	{PrimCar, "car"},
	{PrimCdr, "cdr"},
	{PrimList, "list"},
	{PrimSetCar, "set-car!"},
	{PrimSetCdr, "set-cdr!"},
	{PrimDisplay, "display"},
	{PrimLoad, "load"},
	{PrimError, "error"},
	{PrimGCAllocated, "ajimu.gc.allocated"},
	{PrimGCState, "ajimu.gc.state"},
}

// installPrimitives binds every entry of primTable in the global frame.
func (interp *Interpreter) installPrimitives() {
	w := interp.GC.AllocWhite()
	for _, p := range primTable {
		sym := interp.Arena.Intern(w, p.name)
		val := interp.Arena.NewPrimitive(w, p.id)
		interp.Envs.Define(interp.Global, sym, p.name, val)
	}
}

// isTruthy implements Scheme's "everything but #f is true".
func (interp *Interpreter) isTruthy(r Ref) bool {
	return !(r == interp.False)
}

func (interp *Interpreter) boolValue(v bool) Ref {
	if v {
		return interp.True
	}
	return interp.False
}

// applyPrimitive invokes the built-in selected by id with already-evaluated
// args (§4.5: "If primitive otherwise, invoke the corresponding built-in").
func (interp *Interpreter) applyPrimitive(id PrimID, args []Ref, sender string) (Ref, error) {
	w := interp.GC.AllocWhite()
	arena := interp.Arena

	switch id {
	case PrimBooleanP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindBoolean), nil
	case PrimSymbolP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindSymbol), nil
	case PrimCharP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindCharacter), nil
	case PrimVectorP, PrimPortP, PrimBytevectorP:
		return interp.False, nil // not a modeled variant (§3.1): always false
	case PrimNullP:
		return interp.boolValue(len(args) == 1 && args[0] == RefNil), nil
	case PrimPairP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindPair), nil
	case PrimIntegerP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindFixnum), nil
	case PrimFloatP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindReal), nil
	case PrimNumberP:
		return interp.boolValue(len(args) == 1 && (arena.Kind(args[0]) == KindFixnum || arena.Kind(args[0]) == KindReal)), nil
	case PrimStringP:
		return interp.boolValue(len(args) == 1 && arena.Kind(args[0]) == KindString), nil
	case PrimProcedureP:
		return interp.boolValue(len(args) == 1 && (arena.Kind(args[0]) == KindClosure || arena.Kind(args[0]) == KindPrimitive)), nil

	case PrimAdd:
		return interp.arith(sender, args, 0, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case PrimSub:
		if len(args) == 1 {
			return interp.negate(sender, args[0])
		}
		return interp.arithNoIdentity(sender, args, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case PrimMul:
		return interp.arith(sender, args, 1, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case PrimDiv:
		return interp.divide(sender, args)
	case PrimNumEq:
		return interp.compare(sender, args, func(c int) bool { return c == 0 })
	case PrimGt:
		return interp.compare(sender, args, func(c int) bool { return c > 0 })
	case PrimLt:
		return interp.compare(sender, args, func(c int) bool { return c < 0 })

	case PrimCons:
		if len(args) != 2 {
			return RefNone, newError(ErrType, sender, "cons expects 2 arguments, got %d", len(args))
		}
		return arena.Cons(w, args[0], args[1]), nil
	case PrimCar:
		if len(args) != 1 || !arena.IsPair(args[0]) {
			return RefNone, newError(ErrType, sender, "car expects a pair")
		}
		return arena.Car(args[0]), nil
	case PrimCdr:
		if len(args) != 1 || !arena.IsPair(args[0]) {
			return RefNone, newError(ErrType, sender, "cdr expects a pair")
		}
		return arena.Cdr(args[0]), nil
	case PrimList:
		return arena.List(w, args...), nil
	case PrimSetCar:
		if len(args) != 2 || !arena.IsPair(args[0]) {
			return RefNone, newError(ErrType, sender, "set-car! expects a pair and a value")
		}
		arena.SetCar(args[0], args[1])
		return interp.syntacticSym(symOk), nil
	case PrimSetCdr:
		if len(args) != 2 || !arena.IsPair(args[0]) {
			return RefNone, newError(ErrType, sender, "set-cdr! expects a pair and a value")
		}
		arena.SetCdr(args[0], args[1])
		return interp.syntacticSym(symOk), nil

	case PrimDisplay:
		for _, a := range args {
			fmt.Fprint(interp.opts.Stdout, interp.displayString(a))
		}
		return interp.syntacticSym(symOk), nil
	case PrimLoad:
		if len(args) != 1 || arena.Kind(args[0]) != KindString {
			return RefNone, newError(ErrType, sender, "load expects a string path")
		}
		path := string(interp.Strings.Bytes(arena.Get(args[0]).str))
		return interp.EvalFile(path)

	case PrimError:
		if len(args) == 0 {
			return RefNone, newError(ErrUser, sender, "error")
		}
		return RefNone, newError(ErrUser, sender, "%s", interp.displayString(args[0]))

	case PrimGCAllocated:
		return arena.NewFixnum(w, interp.GC.AllocatedBytes()), nil
	case PrimGCState:
		name := interp.GC.State().String()
		str := interp.Strings.Intern(w, []byte(name))
		return arena.NewString(w, str), nil
	}

	return RefNone, newError(ErrType, sender, "unimplemented primitive")
}

func asNumber(arena *Arena, r Ref) (isReal bool, i int64, f float64, ok bool) {
	switch arena.Kind(r) {
	case KindFixnum:
		return false, arena.Get(r).i, 0, true
	case KindReal:
		return true, 0, arena.Get(r).f, true
	default:
		return false, 0, 0, false
	}
}

// arith folds an n-ary numeric fold starting from identity, promoting to
// real arithmetic the moment any operand is real (§6 arithmetic, resolved
// open question in spec §9: "if any operand is real, compute in real").
func (interp *Interpreter) arith(sender string, args []Ref, identity int64, foldI func(a, b int64) int64, foldF func(a, b float64) float64) (Ref, error) {
	if len(args) == 0 {
		return interp.Arena.NewFixnum(interp.GC.AllocWhite(), identity), nil
	}
	return interp.arithNoIdentity(sender, args, foldI, foldF)
}

func (interp *Interpreter) arithNoIdentity(sender string, args []Ref, foldI func(a, b int64) int64, foldF func(a, b float64) float64) (Ref, error) {
	if len(args) == 0 {
		return RefNone, newError(ErrType, sender, "expects at least 1 argument")
	}
	w := interp.GC.AllocWhite()
	anyReal, i0, f0, ok := asNumber(interp.Arena, args[0])
	if !ok {
		return RefNone, newError(ErrType, sender, "expects numeric arguments")
	}
	accI, accF := i0, f0
	for _, a := range args[1:] {
		isReal, i, f, ok := asNumber(interp.Arena, a)
		if !ok {
			return RefNone, newError(ErrType, sender, "expects numeric arguments")
		}
		if anyReal || isReal {
			if !anyReal {
				accF = float64(accI)
			}
			if !isReal {
				f = float64(i)
			}
			accF = foldF(accF, f)
			anyReal = true
		} else {
			accI = foldI(accI, i)
		}
	}
	if anyReal {
		return interp.Arena.NewReal(w, accF), nil
	}
	return interp.Arena.NewFixnum(w, accI), nil
}

// negate implements unary "-", which subtract's n-ary fold never reaches
// since it has nothing to fold against a lone argument.
func (interp *Interpreter) negate(sender string, r Ref) (Ref, error) {
	isReal, i, f, ok := asNumber(interp.Arena, r)
	if !ok {
		return RefNone, newError(ErrType, sender, "- expects a numeric argument")
	}
	w := interp.GC.AllocWhite()
	if isReal {
		return interp.Arena.NewReal(w, -f), nil
	}
	return interp.Arena.NewFixnum(w, -i), nil
}

func (interp *Interpreter) divide(sender string, args []Ref) (Ref, error) {
	if len(args) == 0 {
		return RefNone, newError(ErrType, sender, "/ expects at least 1 argument")
	}
	w := interp.GC.AllocWhite()
	anyReal, i0, f0, ok := asNumber(interp.Arena, args[0])
	if !ok {
		return RefNone, newError(ErrType, sender, "/ expects numeric arguments")
	}
	if len(args) == 1 {
		if anyReal {
			if f0 == 0 {
				return RefNone, newError(ErrArithmetic, sender, "division by zero")
			}
			return interp.Arena.NewReal(w, 1/f0), nil
		}
		if i0 == 0 {
			return RefNone, newError(ErrArithmetic, sender, "division by zero")
		}
		return interp.Arena.NewFixnum(w, 1/i0), nil
	}
	accI, accF := i0, f0
	for _, a := range args[1:] {
		isReal, i, f, ok := asNumber(interp.Arena, a)
		if !ok {
			return RefNone, newError(ErrType, sender, "/ expects numeric arguments")
		}
		if anyReal || isReal {
			if !anyReal {
				accF = float64(accI)
			}
			if !isReal {
				f = float64(i)
			}
			if f == 0 {
				return RefNone, newError(ErrArithmetic, sender, "division by zero")
			}
			accF /= f
			anyReal = true
		} else {
			if i == 0 {
				return RefNone, newError(ErrArithmetic, sender, "division by zero")
			}
			accI /= i
		}
	}
	if anyReal {
		return interp.Arena.NewReal(w, accF), nil
	}
	return interp.Arena.NewFixnum(w, accI), nil
}

func (interp *Interpreter) compare(sender string, args []Ref, accept func(int) bool) (Ref, error) {
	if len(args) < 1 {
		return RefNone, newError(ErrType, sender, "expects at least 1 argument")
	}
	for i := 0; i+1 < len(args); i++ {
		isRealA, iA, fA, okA := asNumber(interp.Arena, args[i])
		isRealB, iB, fB, okB := asNumber(interp.Arena, args[i+1])
		if !okA || !okB {
			return RefNone, newError(ErrType, sender, "expects numeric arguments")
		}
		var c int
		if isRealA || isRealB {
			if !isRealA {
				fA = float64(iA)
			}
			if !isRealB {
				fB = float64(iB)
			}
			switch {
			case fA < fB:
				c = -1
			case fA > fB:
				c = 1
			}
		} else {
			switch {
			case iA < iB:
				c = -1
			case iA > iB:
				c = 1
			}
		}
		if !accept(c) {
			return interp.False, nil
		}
	}
	return interp.True, nil
}

// Display renders r the way `display` does (exported for the CLI's REPL
// result echo).
func (interp *Interpreter) Display(r Ref) string { return interp.displayString(r) }

// displayString renders a value the way `display` does: strings unquoted,
// everything else in a readable textual form.
func (interp *Interpreter) displayString(r Ref) string {
	if r == RefNil {
		return "()"
	}
	c := interp.Arena.Get(r)
	switch c.kind {
	case KindBoolean:
		if c.b {
			return "#t"
		}
		return "#f"
	case KindFixnum:
		return fmt.Sprintf("%d", c.i)
	case KindReal:
		return fmt.Sprintf("%g", c.f)
	case KindCharacter:
		return string(rune(c.ch))
	case KindSymbol:
		return c.name
	case KindString:
		return string(interp.Strings.Bytes(c.str))
	case KindPair:
		s := "("
		first := true
		cur := r
		for interp.Arena.IsPair(cur) {
			if !first {
				s += " "
			}
			first = false
			s += interp.displayString(interp.Arena.Car(cur))
			cur = interp.Arena.Cdr(cur)
		}
		if cur != RefNil {
			s += " . " + interp.displayString(cur)
		}
		return s + ")"
	case KindClosure:
		return "#<closure>"
	case KindPrimitive:
		return "#<primitive>"
	default:
		return "#<unknown>"
	}
}
