package ajimu

// EnvRef is a handle into the EnvArena. EnvNone marks "no parent" (the top
// of the lexical chain).
type EnvRef int

const EnvNone EnvRef = -1

// frame is one lexical level: an ordered name->slot-index mapping plus the
// parallel slot vector, and a parent link. Modeled directly on the
// teacher's frame/scope split (frame.data []reflect.Value, scope.sym,
// scope.anc) — see DESIGN.md.
type frame struct {
	index map[string]int
	names []Ref // symbol Ref for each slot, parallel to values (GC must keep these alive too)
	values []Ref
	parent EnvRef
	global bool

	color gcColor
	free  bool // tombstoned by a sweep, slot available for reuse
}

// EnvArena owns every frame. Like the value Arena it never frees a frame
// outside of a sweep and reuses freed slots; the frames slice is walked
// directly for sweep, replacing the spec's intrusive environment list.
type EnvArena struct {
	frames []frame
	free   []int
}

func NewEnvArena() *EnvArena {
	return &EnvArena{}
}

// New allocates a fresh, empty frame parented on parent.
func (a *EnvArena) New(white gcColor, parent EnvRef, global bool) EnvRef {
	f := frame{
		index:  map[string]int{},
		parent: parent,
		global: global,
		color:  white,
	}
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.frames[idx] = f
	} else {
		idx = len(a.frames)
		a.frames = append(a.frames, f)
	}
	return EnvRef(idx)
}

func (a *EnvArena) Get(e EnvRef) *frame { return &a.frames[e] }

// Define binds name to value in e: first define wins a new slot, a
// subsequent define on the same name overwrites it in place (§3.2).
func (a *EnvArena) Define(e EnvRef, nameSym Ref, name string, value Ref) {
	f := &a.frames[e]
	if i, ok := f.index[name]; ok {
		f.values[i] = value
		f.names[i] = nameSym
		return
	}
	f.index[name] = len(f.values)
	f.values = append(f.values, value)
	f.names = append(f.names, nameSym)
}

// Lookup searches only the local frame.
func (a *EnvArena) Lookup(e EnvRef, name string) (Ref, bool) {
	f := &a.frames[e]
	if i, ok := f.index[name]; ok {
		return f.values[i], true
	}
	return RefNone, false
}

func (a *EnvArena) Parent(e EnvRef) (EnvRef, bool) {
	p := a.frames[e].parent
	return p, p != EnvNone
}

// Handle is the result of a chain lookup: it remembers which frame held the
// binding so set! can write back to exactly that slot (§4.3).
type Handle struct {
	frame EnvRef
	slot  int
}

// Resolve walks the lexical chain starting at e looking for name, returning
// a Handle usable for both read and set! if found.
func (a *EnvArena) Resolve(e EnvRef, name string) (Handle, bool) {
	for cur := e; cur != EnvNone; cur = a.frames[cur].parent {
		f := &a.frames[cur]
		if i, ok := f.index[name]; ok {
			return Handle{frame: cur, slot: i}, true
		}
	}
	return Handle{}, false
}

// Value returns the binding a Handle refers to.
func (a *EnvArena) Value(h Handle) Ref { return a.frames[h.frame].values[h.slot] }

// Set mutates the nearest binding found by Resolve; semantics of set!.
func (a *EnvArena) Set(h Handle, value Ref) {
	a.frames[h.frame].values[h.slot] = value
}
