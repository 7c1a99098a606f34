package ajimu

import "github.com/ajimu-go/ajimu/reader"

// exprReader adapts the reader package's neutral Node tree onto this
// Interpreter's own Arena, so constants and symbols read from source come
// back pointer-identical to the ones the Interpreter already interned
// (§6). The reader package itself knows nothing of the Interpreter; this
// adapter is where its Nodes meet the Interpreter's constants.
type exprReader struct {
	interp *Interpreter
	inner  *reader.Reader
}

// NewReader wraps src for successive top-level Eval-ready Refs.
func (interp *Interpreter) NewReader(src string) *exprReader {
	return &exprReader{interp: interp, inner: reader.New(src)}
}

// Next returns the next parsed datum as a Ref, or ok=false at end of input.
func (er *exprReader) Next() (Ref, bool, error) {
	n, ok, err := er.inner.Next()
	if err != nil || !ok {
		return RefNone, ok, err
	}
	return er.interp.build(n), true, nil
}

// build converts one reader.Node into an arena Value, recursively.
func (interp *Interpreter) build(n reader.Node) Ref {
	arena := interp.Arena
	w := interp.GC.AllocWhite()

	switch n.Kind {
	case reader.Bool:
		return interp.boolValue(n.Bool)
	case reader.Int:
		return arena.NewFixnum(w, n.Int)
	case reader.Float:
		return arena.NewReal(w, n.Float)
	case reader.Char:
		return arena.NewCharacter(w, n.Char)
	case reader.Symbol:
		return arena.Intern(w, n.Str)
	case reader.String:
		str := interp.Strings.Intern(w, []byte(n.Str))
		return arena.NewString(w, str)
	case reader.Quote:
		inner := interp.build(n.Items[0])
		return arena.List(w, interp.syntacticSym(symQuote), inner)
	case reader.List:
		tail := RefNil
		if n.Dotted {
			tail = interp.build(*n.Tail)
		}
		result := tail
		for i := len(n.Items) - 1; i >= 0; i-- {
			result = arena.Cons(w, interp.build(n.Items[i]), result)
		}
		return result
	default:
		return RefNil
	}
}
