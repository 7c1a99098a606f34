package ajimu

// macro.go implements the (non-hygienic) syntax-rules pattern/template
// engine (§4.6). A macro definition is stored, unevaluated, as the binding
// of its name: (syntax-rules (literal...) (pattern template)...). Grounded
// on the teacher's own macro-less-but-AST-shaped node walking (interp.go's
// node tree) generalized to pattern matching, per the Design Notes'
// recommendation against a two-table (single/sequence) binding split: a
// single bindings map stores []Ref under every name, with scalar bindings
// simply holding a length-1 slice.

// bindingSet maps a pattern variable's name to the sequence of expression
// Refs it captured. A non-ellipsis variable captures exactly one; an
// ellipsis variable captures zero or more.
type bindingSet map[string][]Ref

// expandMacro matches callExpr's arguments against defForm's rules in order
// and substitutes the first matching rule's template. defForm is the raw
// (syntax-rules (lit...) (pattern template)...) form; callExpr is the full
// macro-use form (name arg...).
func (interp *Interpreter) expandMacro(defForm Ref, callExpr Ref) (Ref, error) {
	rest := interp.Arena.Cdr(defForm) // ((lit...) (pattern template)...)
	literalsForm := interp.Arena.Car(rest)
	literals := map[string]bool{}
	for _, l := range interp.Arena.ListToSlice(literalsForm) {
		literals[interp.Arena.Get(l).name] = true
	}

	rules := interp.Arena.ListToSlice(interp.Arena.Cdr(rest))
	for _, rule := range rules {
		pattern := interp.Arena.Car(rule)
		template := interp.Arena.Car(interp.Arena.Cdr(rule))

		// The pattern's own head position (the macro keyword) is ignored:
		// matching starts from its cdr against the call's cdr.
		bindings := bindingSet{}
		if interp.matchPattern(interp.Arena.Cdr(pattern), interp.Arena.Cdr(callExpr), literals, bindings) {
			return interp.substituteTemplate(template, bindings), nil
		}
	}
	return RefNone, interp.fail(ErrSyntax, "macro", "no matching syntax-rules clause")
}

// matchPattern attempts to unify pattern against form, recording captures
// into bindings. It resets nothing itself — callers pass a fresh bindingSet
// per rule attempt (§4.6: "state is reset on every match attempt").
func (interp *Interpreter) matchPattern(pattern, form Ref, literals map[string]bool, bindings bindingSet) bool {
	arena := interp.Arena

	switch arena.Kind(pattern) {
	case KindSymbol:
		name := arena.Get(pattern).name
		if name == symUnderscore {
			return true
		}
		if literals[name] {
			return arena.Kind(form) == KindSymbol && arena.Get(form).name == name
		}
		bindings[name] = []Ref{form}
		return true

	case KindEmptyList:
		return form == RefNil

	case KindPair:
		car := arena.Car(pattern)
		cdr := arena.Cdr(pattern)

		if arena.Kind(cdr) == KindPair && arena.Kind(arena.Car(cdr)) == KindSymbol &&
			arena.Get(arena.Car(cdr)).name == symEllipsis {
			// car ... tail : car may repeat zero or more times, consuming
			// just enough of form to leave exactly len(tail) items for tail.
			tailPattern := arena.Cdr(cdr)
			tailLen := properListLen(arena, tailPattern)

			items := arena.ListToSlice(form)
			// form might be improper; ListToSlice stops at the first
			// non-pair, which is fine since syntax-rules patterns here are
			// always proper lists of sub-forms.
			if len(items) < tailLen {
				return false
			}
			repeatCount := len(items) - tailLen
			seqVars := patternVariables(arena, car, literals)
			seqBindings := map[string][]Ref{}
			for _, v := range seqVars {
				seqBindings[v] = nil
			}
			for i := 0; i < repeatCount; i++ {
				sub := bindingSet{}
				if !interp.matchPattern(car, items[i], literals, sub) {
					return false
				}
				for _, v := range seqVars {
					seqBindings[v] = append(seqBindings[v], sub[v]...)
				}
			}
			for v, vals := range seqBindings {
				bindings[v] = vals
			}
			remainder := arena.List(interp.GC.AllocWhite(), items[repeatCount:]...)
			return interp.matchPattern(tailPattern, remainder, literals, bindings)
		}

		if !arena.IsPair(form) {
			return false
		}
		if !interp.matchPattern(car, arena.Car(form), literals, bindings) {
			return false
		}
		return interp.matchPattern(cdr, arena.Cdr(form), literals, bindings)

	default:
		// Self-evaluating literal in the pattern (a number, string, char,
		// boolean): must match form by structural equality.
		return interp.literalEqual(pattern, form)
	}
}

func properListLen(arena *Arena, r Ref) int {
	n := 0
	for arena.IsPair(r) {
		n++
		r = arena.Cdr(r)
	}
	return n
}

// patternVariables collects every non-literal, non-underscore, non-ellipsis
// symbol appearing in pattern, for grouping an ellipsis sub-pattern's
// captures.
func patternVariables(arena *Arena, pattern Ref, literals map[string]bool) []string {
	switch arena.Kind(pattern) {
	case KindSymbol:
		name := arena.Get(pattern).name
		if name == symUnderscore || name == symEllipsis || literals[name] {
			return nil
		}
		return []string{name}
	case KindPair:
		vars := patternVariables(arena, arena.Car(pattern), literals)
		vars = append(vars, patternVariables(arena, arena.Cdr(pattern), literals)...)
		return vars
	default:
		return nil
	}
}

func (interp *Interpreter) literalEqual(a, b Ref) bool {
	arena := interp.Arena
	if arena.Kind(a) != arena.Kind(b) {
		return false
	}
	ca, cb := arena.Get(a), arena.Get(b)
	switch ca.kind {
	case KindBoolean:
		return ca.b == cb.b
	case KindFixnum:
		return ca.i == cb.i
	case KindReal:
		return ca.f == cb.f
	case KindCharacter:
		return ca.ch == cb.ch
	case KindString:
		return bytesEqual(interp.Strings.Bytes(ca.str), interp.Strings.Bytes(cb.str))
	default:
		return a == b
	}
}

// substituteTemplate rebuilds template with every pattern variable replaced
// by its capture, expanding `sub ...` sequences per the captured length of
// sub's ellipsis variables.
func (interp *Interpreter) substituteTemplate(template Ref, bindings bindingSet) Ref {
	arena := interp.Arena
	w := interp.GC.AllocWhite()

	switch arena.Kind(template) {
	case KindSymbol:
		name := arena.Get(template).name
		if vals, ok := bindings[name]; ok && len(vals) == 1 {
			return vals[0]
		}
		return template

	case KindPair:
		car := arena.Car(template)
		cdr := arena.Cdr(template)

		if arena.Kind(cdr) == KindPair && arena.Kind(arena.Car(cdr)) == KindSymbol &&
			arena.Get(arena.Car(cdr)).name == symEllipsis {
			vars := templateEllipsisVars(arena, car, bindings)
			n := 0
			for _, v := range vars {
				if len(bindings[v]) > n {
					n = len(bindings[v])
				}
			}
			var expanded []Ref
			for i := 0; i < n; i++ {
				sub := bindingSet{}
				for k, v := range bindings {
					sub[k] = v
				}
				for _, v := range vars {
					if i < len(bindings[v]) {
						sub[v] = []Ref{bindings[v][i]}
					}
				}
				expanded = append(expanded, interp.substituteTemplate(car, sub))
			}
			rest := interp.substituteTemplate(arena.Cdr(cdr), bindings)
			for i := len(expanded) - 1; i >= 0; i-- {
				rest = arena.Cons(w, expanded[i], rest)
			}
			return rest
		}

		return arena.Cons(w, interp.substituteTemplate(car, bindings), interp.substituteTemplate(cdr, bindings))

	default:
		return template
	}
}

// templateEllipsisVars names every variable appearing in sub that has an
// entry in bindings. Scalar and ellipsis captures are both stored as slices,
// so scalar variables are included alongside sequence variables.
func templateEllipsisVars(arena *Arena, sub Ref, bindings bindingSet) []string {
	switch arena.Kind(sub) {
	case KindSymbol:
		name := arena.Get(sub).name
		if _, ok := bindings[name]; ok {
			return []string{name}
		}
		return nil
	case KindPair:
		vars := templateEllipsisVars(arena, arena.Car(sub), bindings)
		vars = append(vars, templateEllipsisVars(arena, arena.Cdr(sub), bindings)...)
		return vars
	default:
		return nil
	}
}
