package ajimu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInternIdentity(t *testing.T) {
	a := NewArena()
	r1 := a.Intern(colorWhite0, "foo")
	r2 := a.Intern(colorWhite0, "foo")
	r3 := a.Intern(colorWhite0, "bar")
	assert.Equal(t, r1, r2, "interning the same name twice must yield the same Ref")
	assert.NotEqual(t, r1, r3)
}

func TestArenaConsCarCdr(t *testing.T) {
	a := NewArena()
	one := a.NewFixnum(colorWhite0, 1)
	two := a.NewFixnum(colorWhite0, 2)
	pair := a.Cons(colorWhite0, one, two)

	require.True(t, a.IsPair(pair))
	assert.Equal(t, one, a.Car(pair))
	assert.Equal(t, two, a.Cdr(pair))

	three := a.NewFixnum(colorWhite0, 3)
	a.SetCar(pair, three)
	assert.Equal(t, three, a.Car(pair), "set-car! must be visible through the same Ref")
}

func TestArenaReservesEmptyListAtZero(t *testing.T) {
	a := NewArena()
	assert.Equal(t, KindEmptyList, a.Kind(RefNil))
}

func TestArenaFreeListReuse(t *testing.T) {
	a := NewArena()
	r := a.NewFixnum(colorWhite0, 42)
	before := len(a.cells)
	a.free = append(a.free, int(r))
	a.cells[r] = cell{free: true}

	r2 := a.NewFixnum(colorWhite0, 7)
	assert.Equal(t, r, r2, "a freed slot should be reused before growing the arena")
	assert.Equal(t, before, len(a.cells))
}

func TestArenaListRoundTrip(t *testing.T) {
	a := NewArena()
	elems := []Ref{a.NewFixnum(colorWhite0, 1), a.NewFixnum(colorWhite0, 2), a.NewFixnum(colorWhite0, 3)}
	list := a.List(colorWhite0, elems...)
	assert.Equal(t, elems, a.ListToSlice(list))
}
