package ajimu

// cell is one slot in the value Arena. Only the fields relevant to Kind are
// meaningful; the rest are left zero. This mirrors the teacher's practice of
// a single struct (node, frame) carrying fields for several purposes rather
// than an interface hierarchy — cheap to allocate, cheap to blacken.
type cell struct {
	kind Kind
	b    bool    // boolean
	i    int64   // fixnum
	f    float64 // real
	ch   byte    // character

	name string // symbol name

	str StrRef // string: reference into the string pool

	car, cdr Ref // pair

	params, body Ref    // closure
	env          EnvRef // closure: captured environment

	prim PrimID // primitive

	color gcColor
	free  bool // tombstoned by a sweep, slot available for reuse
}

// Arena owns every Value ever allocated. It never frees a cell outside of a
// GC sweep; between sweeps it only ever grows or reuses a freed slot. The
// cells slice itself is the reachability list the spec describes (§3.3):
// per the Design Notes' steer toward an index-based vector arena, walking
// slice indices replaces walking an intrusive linked list.
type Arena struct {
	cells          []cell
	free           []int
	allocatedBytes int64

	symbols map[string]Ref // intern table, symbol name -> Ref
}

// cell byte-size estimates used for the allocated-bytes counter (§3.3/§8.6).
// These are nominal weights, not runtime.Sizeof — the invariant only
// requires the counter to track live storage consistently, not to match an
// exact host memory layout.
const (
	sizeofScalarCell = 32
	sizeofPairCell   = 24
	sizeofClosure    = 40
)

func cellSize(k Kind) int64 {
	switch k {
	case KindPair:
		return sizeofPairCell
	case KindClosure:
		return sizeofClosure
	default:
		return sizeofScalarCell
	}
}

// NewArena returns an empty Arena with slot 0 reserved for the empty list.
func NewArena() *Arena {
	a := &Arena{
		symbols: map[string]Ref{},
	}
	// Reserve RefNil == 0 for the empty list, allocated exactly once.
	a.alloc(cell{kind: KindEmptyList})
	return a
}

// alloc stores a new or recycled cell and returns its Ref. The cell's color
// is set to the current allocating white by the caller (constructors below
// go through newCell, which stamps the color).
func (a *Arena) alloc(c cell) Ref {
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.cells[idx] = c
	} else {
		idx = len(a.cells)
		a.cells = append(a.cells, c)
	}
	a.allocatedBytes += cellSize(c.kind)
	return Ref(idx)
}

func (a *Arena) newCell(white gcColor, c cell) Ref {
	c.color = white
	return a.alloc(c)
}

func (a *Arena) Get(r Ref) *cell {
	return &a.cells[r]
}

func (a *Arena) Kind(r Ref) Kind {
	return a.cells[r].kind
}

func (a *Arena) AllocatedBytes() int64 { return a.allocatedBytes }

// Constructors. All take the GC's current allocating white so a freshly
// created cell is never mistaken for garbage before the next tick roots it.

func (a *Arena) NewBoolean(white gcColor, v bool) Ref {
	return a.newCell(white, cell{kind: KindBoolean, b: v})
}

func (a *Arena) NewFixnum(white gcColor, v int64) Ref {
	return a.newCell(white, cell{kind: KindFixnum, i: v})
}

func (a *Arena) NewReal(white gcColor, v float64) Ref {
	return a.newCell(white, cell{kind: KindReal, f: v})
}

func (a *Arena) NewCharacter(white gcColor, v byte) Ref {
	return a.newCell(white, cell{kind: KindCharacter, ch: v})
}

// Intern returns the unique symbol Ref for name, allocating it on first use.
// Equal names always yield pointer-equal (Ref-equal) results.
func (a *Arena) Intern(white gcColor, name string) Ref {
	if r, ok := a.symbols[name]; ok {
		return r
	}
	r := a.newCell(white, cell{kind: KindSymbol, name: name})
	a.symbols[name] = r
	return r
}

func (a *Arena) NewString(white gcColor, str StrRef) Ref {
	return a.newCell(white, cell{kind: KindString, str: str})
}

// Cons allocates a new pair. It is the only way a pair comes into existence;
// set-car!/set-cdr! mutate an existing one in place.
func (a *Arena) Cons(white gcColor, car, cdr Ref) Ref {
	return a.newCell(white, cell{kind: KindPair, car: car, cdr: cdr})
}

func (a *Arena) SetCar(r Ref, v Ref) { a.cells[r].car = v }
func (a *Arena) SetCdr(r Ref, v Ref) { a.cells[r].cdr = v }
func (a *Arena) Car(r Ref) Ref       { return a.cells[r].car }
func (a *Arena) Cdr(r Ref) Ref       { return a.cells[r].cdr }

func (a *Arena) NewClosure(white gcColor, params, body Ref, env EnvRef) Ref {
	return a.newCell(white, cell{kind: KindClosure, params: params, body: body, env: env})
}

func (a *Arena) NewPrimitive(white gcColor, id PrimID) Ref {
	return a.newCell(white, cell{kind: KindPrimitive, prim: id})
}

// IsPair reports whether r is a cons cell (not the empty list).
func (a *Arena) IsPair(r Ref) bool { return r != RefNil && a.cells[r].kind == KindPair }

// List builds a proper list from elems, terminated by the empty list.
func (a *Arena) List(white gcColor, elems ...Ref) Ref {
	result := RefNil
	for i := len(elems) - 1; i >= 0; i-- {
		result = a.Cons(white, elems[i], result)
	}
	return result
}

// ListToSlice flattens a proper list into a slice of its elements.
func (a *Arena) ListToSlice(r Ref) []Ref {
	var out []Ref
	for r != RefNil {
		c := a.Get(r)
		if c.kind != KindPair {
			break
		}
		out = append(out, c.car)
		r = c.cdr
	}
	return out
}
