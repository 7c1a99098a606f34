package ajimu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringPoolInternsShortStringsBySharing(t *testing.T) {
	p := NewStringPool()
	a := p.Intern(colorWhite0, []byte("hello"))
	b := p.Intern(colorWhite0, []byte("hello"))
	assert.Equal(t, a, b)
}

func TestStringPoolLongStringsAreNotShared(t *testing.T) {
	p := NewStringPool()
	long := make([]byte, maxShortString+1)
	for i := range long {
		long[i] = 'x'
	}
	a := p.Intern(colorWhite0, long)
	b := p.Intern(colorWhite0, long)
	assert.NotEqual(t, a, b, "strings over the short-string cutoff are never deduplicated")
}

func TestStringPoolSweepFreesDeadEntries(t *testing.T) {
	p := NewStringPool()
	r := p.Intern(colorWhite0, []byte("gone"))
	before := p.AllocatedBytes()
	assert.Greater(t, before, int64(0))

	freed := p.Sweep(colorWhite0) // colorWhite0 is invWhite in this scenario
	assert.Equal(t, int64(len("gone")), freed)
	assert.Equal(t, int64(0), p.AllocatedBytes())

	// Interning the same bytes again must get a fresh entry, not r reused
	// implicitly with stale data.
	r2 := p.Intern(colorWhite0, []byte("gone"))
	assert.NotEqual(t, []byte(nil), p.Bytes(r2))
	_ = r
}

func TestStringPoolResizeKeepsLookupsWorking(t *testing.T) {
	p := NewStringPool()
	refs := map[string]StrRef{}
	for i := 0; i < 64; i++ {
		name := fmt.Sprintf("sym-%d", i)
		refs[name] = p.Intern(colorWhite0, []byte(name))
	}
	for name, r := range refs {
		assert.Equal(t, r, p.Intern(colorWhite0, []byte(name)), "growth must not break interning identity for %s", name)
	}
}

func TestHashBytesIsOdd(t *testing.T) {
	assert.Equal(t, uint32(1), hashBytes(nil)&1)
	assert.Equal(t, uint32(1), hashBytes([]byte("scheme"))&1)
}
