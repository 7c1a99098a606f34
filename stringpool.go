package ajimu

// StrRef is a handle into the StringPool. StrRefNone marks "no string".
type StrRef int

const StrRefNone StrRef = -1

// maxShortString is the interning cutoff (§4.2): strings at or under this
// length share storage via the hash table; longer strings get their own
// entry on the long list and are never deduplicated.
const maxShortString = 160

type poolEntry struct {
	bytes []byte
	hash  uint32
	long  bool
	free  bool
	color gcColor
	next  int // bucket chain link (short) or long-list link (long); -1 terminator
}

// StringPool interns short strings and tracks long strings on a separate
// list, per §4.2. It owns its own reachability bookkeeping independent of
// the value Arena: a string Value in the arena merely points here.
type StringPool struct {
	buckets []int
	shift   uint
	entries []poolEntry
	free    []int
	longHead int
	count    int // occupied short-table entries
	allocatedBytes int64
}

// NewStringPool returns an empty pool with a 16-slot bucket table.
func NewStringPool() *StringPool {
	p := &StringPool{shift: 4, longHead: -1}
	p.buckets = make([]int, 1<<p.shift)
	for i := range p.buckets {
		p.buckets[i] = -1
	}
	return p
}

// hashBytes implements the spec's seed/update/odd-parity hash (§4.2).
func hashBytes(data []byte) uint32 {
	h := uint32(1315423911)
	for _, c := range data {
		h ^= (h << 5) + uint32(c) + (h >> 2)
	}
	return h | 1
}

func (p *StringPool) bucketFor(hash uint32) int {
	return int(hash) & (len(p.buckets) - 1)
}

// Intern returns the Ref for data, sharing storage with any equal short
// string already interned. Strings over maxShortString bytes always get a
// fresh, unshared entry on the long list.
func (p *StringPool) Intern(white gcColor, data []byte) StrRef {
	h := hashBytes(data)
	if len(data) > maxShortString {
		return p.newEntry(white, data, h, true)
	}

	b := p.bucketFor(h)
	for idx := p.buckets[b]; idx != -1; idx = p.entries[idx].next {
		e := &p.entries[idx]
		if len(e.bytes) == len(data) && bytesEqual(e.bytes, data) {
			return StrRef(idx)
		}
	}

	r := p.newEntry(white, data, h, false)
	p.entries[r].next = p.buckets[b]
	p.buckets[b] = int(r)
	p.count++
	if p.count >= len(p.buckets) {
		p.resize()
	}
	return r
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *StringPool) newEntry(white gcColor, data []byte, hash uint32, long bool) StrRef {
	owned := make([]byte, len(data))
	copy(owned, data)
	e := poolEntry{bytes: owned, hash: hash, long: long, color: white}
	var idx int
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
		p.entries[idx] = e
	} else {
		idx = len(p.entries)
		p.entries = append(p.entries, e)
	}
	if long {
		p.entries[idx].next = p.longHead
		p.longHead = idx
	}
	p.allocatedBytes += int64(len(owned))
	return StrRef(idx)
}

// resize doubles the bucket count and rehashes every live short entry, per
// the spec's "occupancy >= slot count" policy.
func (p *StringPool) resize() {
	p.shift++
	newBuckets := make([]int, 1<<p.shift)
	for i := range newBuckets {
		newBuckets[i] = -1
	}
	mask := len(newBuckets) - 1
	for idx := range p.entries {
		e := &p.entries[idx]
		if e.free || e.long {
			continue
		}
		b := int(e.hash) & mask
		e.next = newBuckets[b]
		newBuckets[b] = idx
	}
	p.buckets = newBuckets
}

func (p *StringPool) Bytes(r StrRef) []byte { return p.entries[r].bytes }

// Blacken marks r (and, transitively, nothing further — strings are leaves)
// as reachable for the current cycle.
func (p *StringPool) Blacken(r StrRef, black gcColor) {
	p.entries[r].color = black
}

// Sweep frees every entry still carrying invWhite, rebuilding the bucket
// chains and the long list around the survivors. Returns bytes freed.
func (p *StringPool) Sweep(invWhite gcColor) int64 {
	var freed int64
	newBuckets := make([]int, len(p.buckets))
	for i := range newBuckets {
		newBuckets[i] = -1
	}
	newLongHead := -1

	for idx := range p.entries {
		e := &p.entries[idx]
		if e.free {
			continue
		}
		if e.color == invWhite {
			freed += int64(len(e.bytes))
			e.free = true
			e.bytes = nil
			p.free = append(p.free, idx)
			if !e.long {
				p.count--
			}
			continue
		}
		if e.long {
			e.next = newLongHead
			newLongHead = idx
		} else {
			b := p.bucketFor(e.hash)
			e.next = newBuckets[b]
			newBuckets[b] = idx
		}
	}

	p.buckets = newBuckets
	p.longHead = newLongHead
	p.allocatedBytes -= freed
	return freed
}

func (p *StringPool) AllocatedBytes() int64 { return p.allocatedBytes }
